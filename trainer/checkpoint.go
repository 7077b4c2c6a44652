package trainer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ntup2048/trainer/network"
)

// ErrCheckpointVersion is returned (as a warning, not fatal) when a
// checkpoint file's version tag does not match the one this trainer
// understands.
var ErrCheckpointVersion = errors.New("trainer: unsupported checkpoint version")

const checkpointVersion = 1

// checkpointStats mirrors Stats with explicit JSON field names (camelCase
// per spec.md §6), independent of Stats's Go field names.
type checkpointStats struct {
	Episode         int     `json:"episode"`
	TotalScore      int64   `json:"totalScore"`
	AvgScore        float64 `json:"avgScore"`
	RecentAvgScore  float64 `json:"recentAvgScore"`
	MaxTile         int     `json:"maxTile"`
	Rate2048        float64 `json:"rate2048"`
	Rate4096        float64 `json:"rate4096"`
	Rate8192        float64 `json:"rate8192"`
	EpisodesPerSec  float64 `json:"episodesPerSecond"`
	ElapsedSeconds  float64 `json:"elapsedTime"`
	EstimatedRemain float64 `json:"estimatedRemaining"`
}

type checkpointMilestones struct {
	Tile2048 int `json:"tile2048"`
	Tile4096 int `json:"tile4096"`
	Tile8192 int `json:"tile8192"`
}

// Checkpoint is the on-disk checkpoint record of spec.md §3/§6.
type Checkpoint struct {
	Version             int                  `json:"version"`
	Config              Config               `json:"config"`
	Episode             int                  `json:"episode"`
	CurrentLearningRate float64              `json:"currentLearningRate"`
	Stats               checkpointStats      `json:"stats"`
	MilestoneCount      checkpointMilestones `json:"milestoneCount"`
	RecentScores        []float64            `json:"recentScores"`
	Weights             network.Export       `json:"weights"`
	TimestampMS         int64                `json:"timestamp"`
}

// buildCheckpoint snapshots the trainer's current state into a Checkpoint
// record, attaching the same metadata a weight-only save would carry.
func (t *Trainer) buildCheckpoint(nowMS int64) (Checkpoint, error) {
	exp, err := t.net.Export(t.exportMetadata())
	if err != nil {
		return Checkpoint{}, err
	}

	return Checkpoint{
		Version:             checkpointVersion,
		Config:              t.cfg,
		Episode:             t.stats.Episode,
		CurrentLearningRate: t.learningRate,
		Stats: checkpointStats{
			Episode:         t.stats.Episode,
			TotalScore:      t.stats.TotalScore,
			AvgScore:        t.stats.AvgScore,
			RecentAvgScore:  t.stats.RecentAvgScore,
			MaxTile:         t.stats.MaxTile,
			Rate2048:        t.stats.Rate2048,
			Rate4096:        t.stats.Rate4096,
			Rate8192:        t.stats.Rate8192,
			EpisodesPerSec:  t.stats.EpisodesPerSec,
			ElapsedSeconds:  t.stats.ElapsedSeconds,
			EstimatedRemain: t.stats.EstimatedRemain,
		},
		MilestoneCount: checkpointMilestones{
			Tile2048: t.milestones.Tile2048,
			Tile4096: t.milestones.Tile4096,
			Tile8192: t.milestones.Tile8192,
		},
		RecentScores: append([]float64(nil), t.recent.buf...),
		Weights:      exp,
		TimestampMS:  nowMS,
	}, nil
}

// applyCheckpoint restores trainer state from a loaded Checkpoint.
func (t *Trainer) applyCheckpoint(c Checkpoint) error {
	if err := t.net.LoadExport(c.Weights); err != nil {
		return err
	}

	t.startEpisode = c.Episode + 1
	t.learningRate = c.CurrentLearningRate
	t.stats = Stats{
		Episode:         c.Stats.Episode,
		TotalScore:      c.Stats.TotalScore,
		AvgScore:        c.Stats.AvgScore,
		RecentAvgScore:  c.Stats.RecentAvgScore,
		MaxTile:         c.Stats.MaxTile,
		Rate2048:        c.Stats.Rate2048,
		Rate4096:        c.Stats.Rate4096,
		Rate8192:        c.Stats.Rate8192,
		EpisodesPerSec:  c.Stats.EpisodesPerSec,
		ElapsedSeconds:  c.Stats.ElapsedSeconds,
		EstimatedRemain: c.Stats.EstimatedRemain,
	}
	t.milestones = Milestones{
		Tile2048: c.MilestoneCount.Tile2048,
		Tile4096: c.MilestoneCount.Tile4096,
		Tile8192: c.MilestoneCount.Tile8192,
	}
	t.recent = recentScores{buf: append([]float64(nil), c.RecentScores...)}
	return nil
}

// saveCheckpoint writes the checkpoint record atomically: write to a
// temporary file in the same directory, then rename over the destination,
// so readers never observe a partial checkpoint (spec.md §5).
func saveCheckpoint(path string, c Checkpoint) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("trainer: marshal checkpoint: %w", err)
	}
	return writeFileAtomic(path, data)
}

// loadCheckpoint reads and validates a checkpoint file. A missing file is
// reported via os.IsNotExist-compatible error, not a fatal error; any
// other read/parse error, or a version mismatch, is reported through err
// so the caller can fall back per spec.md §4.4/§7.
func loadCheckpoint(path string) (Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Checkpoint{}, err
	}

	var c Checkpoint
	if err := json.Unmarshal(data, &c); err != nil {
		return Checkpoint{}, fmt.Errorf("trainer: parse checkpoint: %w", err)
	}
	if c.Version != checkpointVersion {
		return Checkpoint{}, fmt.Errorf("%w: expected %d, got %d", ErrCheckpointVersion, checkpointVersion, c.Version)
	}
	return c, nil
}

// writeFileAtomic writes data to a temp file beside path, then renames it
// into place, so a crash mid-write never leaves a truncated file at path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("trainer: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("trainer: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("trainer: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("trainer: rename temp file into place: %w", err)
	}
	return nil
}
