// Package trainer implements TD(0) self-play training over afterstate
// values: greedy action selection, running statistics, learning-rate
// decay, periodic checkpointing, and signal-driven graceful shutdown.
package trainer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidConfig is returned by Config.Validate when a value is out of
// the range spec.md §6 requires.
var ErrInvalidConfig = errors.New("trainer: invalid config")

// Config is the training configuration of spec.md §3/§6.
type Config struct {
	Episodes       int
	LearningRate   float64
	EnableDecay    bool
	DecayRate      float64
	DecayInterval  int
	OptimisticInit float64
	ReportInterval int

	OutputPath     string
	CheckpointPath string

	CheckpointInterval  int // episodes; 0 disables
	WeightsSaveInterval int // wall-clock seconds; 0 disables

	PrintBoard bool // log the rendered board alongside each progress report
}

// DefaultConfig returns the configuration defaults of spec.md §3/§6.
func DefaultConfig() Config {
	return Config{
		Episodes:            100000,
		LearningRate:        0.0025,
		EnableDecay:         false,
		DecayRate:           0.95,
		DecayInterval:       10000,
		OptimisticInit:      0,
		ReportInterval:      100,
		OutputPath:          "weights.json",
		CheckpointPath:      "checkpoint.json",
		CheckpointInterval:  1000,
		WeightsSaveInterval: 300,
	}
}

// Validate checks the configuration against the constraints of spec.md §6:
// episodes>0, 0<learningRate<=1, reportInterval>0, checkpointInterval>=0,
// weightsSaveInterval>=0.
func (c Config) Validate() error {
	if c.Episodes <= 0 {
		return fmt.Errorf("%w: episodes must be positive, got %d", ErrInvalidConfig, c.Episodes)
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("%w: learning rate must be in (0, 1], got %v", ErrInvalidConfig, c.LearningRate)
	}
	if c.ReportInterval <= 0 {
		return fmt.Errorf("%w: report interval must be positive, got %d", ErrInvalidConfig, c.ReportInterval)
	}
	if c.CheckpointInterval < 0 {
		return fmt.Errorf("%w: checkpoint interval must be non-negative, got %d", ErrInvalidConfig, c.CheckpointInterval)
	}
	if c.WeightsSaveInterval < 0 {
		return fmt.Errorf("%w: weights save interval must be non-negative, got %d", ErrInvalidConfig, c.WeightsSaveInterval)
	}
	return nil
}

// resolveRelativePaths rewrites OutputPath/CheckpointPath so that a
// relative value resolves against the directory containing the running
// program's executable, per spec.md §6's "Filesystem" requirement, rather
// than the process's current working directory. Absolute paths pass
// through unchanged. If the executable's location can't be determined,
// the paths are left as given (falling back to CWD resolution, the same
// as any stdlib os.Open would do).
func (c Config) resolveRelativePaths() Config {
	dir, err := executableDir()
	if err != nil {
		return c
	}
	c.OutputPath = resolveAgainst(dir, c.OutputPath)
	c.CheckpointPath = resolveAgainst(dir, c.CheckpointPath)
	return c
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("trainer: locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func resolveAgainst(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
