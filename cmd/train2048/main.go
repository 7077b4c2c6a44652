// Command train2048 trains a 2048 n-tuple network via TD(0) self-play.
package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ntup2048/trainer/network"
	"github.com/ntup2048/trainer/pattern"
	"github.com/ntup2048/trainer/trainer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := trainer.DefaultConfig()
	var resume bool
	var seed int64
	var patternSet string

	cmd := &cobra.Command{
		Use:   "train2048",
		Short: "Train a 2048 n-tuple network via TD(0) self-play",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			patterns, err := patternsByName(patternSet)
			if err != nil {
				return err
			}

			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				With().Timestamp().Logger()

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			rng := rand.New(rand.NewSource(seed))

			net := network.New(patterns)
			t := trainer.New(net, cfg, log, rng)

			return t.Train(context.Background(), resume)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.Episodes, "episodes", cfg.Episodes, "number of self-play episodes to run")
	flags.Float64Var(&cfg.LearningRate, "learning-rate", cfg.LearningRate, "TD(0) learning rate")
	flags.BoolVar(&cfg.EnableDecay, "decay", cfg.EnableDecay, "enable learning-rate decay")
	flags.Float64Var(&cfg.DecayRate, "decay-rate", cfg.DecayRate, "multiplicative decay factor applied every decay-interval episodes")
	flags.IntVar(&cfg.DecayInterval, "decay-interval", cfg.DecayInterval, "episodes between learning-rate decay steps")
	flags.Float64Var(&cfg.OptimisticInit, "optimistic", cfg.OptimisticInit, "optimistic initial value for all weights (0 disables)")
	flags.IntVar(&cfg.ReportInterval, "report", cfg.ReportInterval, "episodes between progress reports")
	flags.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "path to write trained weights (an existing file here is loaded at startup, even without --resume)")
	flags.IntVar(&cfg.CheckpointInterval, "checkpoint", cfg.CheckpointInterval, "episodes between checkpoints (0 disables)")
	flags.StringVar(&cfg.CheckpointPath, "checkpoint-path", cfg.CheckpointPath, "path to write/read the checkpoint file")
	flags.IntVar(&cfg.WeightsSaveInterval, "weights-save", cfg.WeightsSaveInterval, "seconds between periodic weight saves (0 disables)")
	flags.BoolVar(&resume, "resume", false, "resume from an existing checkpoint (falling back to a weights file)")
	flags.Int64Var(&seed, "seed", 0, "RNG seed (0 picks one from the current time)")
	flags.StringVar(&patternSet, "patterns", "rowcol", "pattern set to train: standard, rowcol, rectangle, corner")
	flags.BoolVar(&cfg.PrintBoard, "print", false, "print the board state alongside each progress report")

	return cmd
}

func patternsByName(name string) ([]pattern.Pattern, error) {
	switch name {
	case "standard":
		return pattern.Standard10Tuple, nil
	case "rowcol":
		return pattern.RowCol4Tuple, nil
	case "rectangle":
		return pattern.Rectangle6Tuple, nil
	case "corner":
		return pattern.Corner6Tuple, nil
	default:
		return nil, &unknownPatternSetError{name: name}
	}
}

type unknownPatternSetError struct{ name string }

func (e *unknownPatternSetError) Error() string {
	return "unknown pattern set: " + e.name
}
