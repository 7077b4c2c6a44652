package network

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ntup2048/trainer/pattern"
)

// ErrWeightShapeMismatch is returned by LoadExport when a serialized
// network's shape (pattern count, pattern lengths, or weight array sizes)
// does not match the network being loaded into.
var ErrWeightShapeMismatch = errors.New("network: weight shape mismatch")

// Export is the stable, versioned JSON contract described in spec.md §4.3
// and §6. It is the only format downstream consumers of trained weights
// may rely on; they read only Version, Patterns and Weights.
type Export struct {
	Version  int             `json:"version"`
	Patterns [][]int         `json:"patterns"`
	Weights  [][]float64     `json:"weights"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// ExportMetadata is the metadata object the trainer attaches to weight
// files it saves (spec.md §6).
type ExportMetadata struct {
	TrainedGames int     `json:"trainedGames"`
	AvgScore     int     `json:"avgScore"`
	MaxTile      int     `json:"maxTile"`
	Rate2048     float64 `json:"rate2048"`
	Rate4096     float64 `json:"rate4096"`
	Rate8192     float64 `json:"rate8192"`
	TrainingTime int     `json:"trainingTime"`
}

// Export serializes the network's current weights, attaching metadata
// (which may be nil).
func (n *Network) Export(metadata *ExportMetadata) (Export, error) {
	out := Export{
		Version:  1,
		Patterns: make([][]int, len(n.entries)),
		Weights:  make([][]float64, len(n.entries)),
	}
	for i, e := range n.entries {
		out.Patterns[i] = []int(e.base)
		w := make([]float64, len(e.weights))
		copy(w, e.weights)
		out.Weights[i] = w
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return Export{}, fmt.Errorf("network: marshal metadata: %w", err)
		}
		out.Metadata = raw
	}
	return out, nil
}

// LoadExport validates exp against the network's current pattern catalog
// (same pattern count, matching pattern lengths, matching weight array
// sizes) and, only if it matches exactly, replaces the network's weights
// in place. On any mismatch it returns ErrWeightShapeMismatch and leaves
// the network untouched.
func (n *Network) LoadExport(exp Export) error {
	if len(exp.Patterns) != len(n.entries) {
		return fmt.Errorf("%w: expected %d patterns, got %d", ErrWeightShapeMismatch, len(n.entries), len(exp.Patterns))
	}
	for i, e := range n.entries {
		if len(exp.Patterns[i]) != len(e.base) {
			return fmt.Errorf("%w: pattern %d length expected %d, got %d", ErrWeightShapeMismatch, i, len(e.base), len(exp.Patterns[i]))
		}
	}
	if len(exp.Weights) != len(n.entries) {
		return fmt.Errorf("%w: expected %d weight arrays, got %d", ErrWeightShapeMismatch, len(n.entries), len(exp.Weights))
	}
	for i, e := range n.entries {
		want := pattern.LUTSize(len(e.base))
		if len(exp.Weights[i]) != want {
			return fmt.Errorf("%w: weight array %d expected size %d, got %d", ErrWeightShapeMismatch, i, want, len(exp.Weights[i]))
		}
	}

	for i := range n.entries {
		w := make([]float64, len(exp.Weights[i]))
		copy(w, exp.Weights[i])
		n.entries[i].weights = w
	}
	return nil
}

// EncodeJSON/DecodeJSON are convenience wrappers used by the trainer's
// weight-file I/O.

// EncodeJSON serializes an Export to indented JSON, matching the
// reference implementation's human-inspectable weight files.
func EncodeJSON(exp Export) ([]byte, error) {
	return json.MarshalIndent(exp, "", "  ")
}

// DecodeJSON parses an Export from JSON bytes.
func DecodeJSON(data []byte) (Export, error) {
	var exp Export
	if err := json.Unmarshal(data, &exp); err != nil {
		return Export{}, fmt.Errorf("network: decode weights: %w", err)
	}
	return exp, nil
}
