package trainer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ntup2048/trainer/board"
	"github.com/ntup2048/trainer/network"
)

// EpisodeResult summarizes one finished self-play episode.
type EpisodeResult struct {
	Score      int
	MaxTile    int
	Moves      int
	FinalBoard board.Board
}

// Trainer owns one network and runs the TD(0) self-play loop of spec.md
// §4.4 against it. Constructed with its collaborators; no package-level
// mutable state.
type Trainer struct {
	net *network.Network
	cfg Config
	log zerolog.Logger
	rng *rand.Rand

	learningRate  float64
	startEpisode  int
	weightsLoaded bool

	stats      Stats
	milestones Milestones
	recent     recentScores

	startTime         time.Time
	lastWeightsSaveAt time.Time
}

// New constructs a Trainer over net, configured by cfg, logging through
// log. rng drives both tile spawning and is otherwise unused (move
// selection is fully greedy, per spec.md's non-goals).
func New(net *network.Network, cfg Config, log zerolog.Logger, rng *rand.Rand) *Trainer {
	cfg = cfg.resolveRelativePaths()
	t := &Trainer{
		net:          net,
		cfg:          cfg,
		log:          log,
		rng:          rng,
		learningRate: cfg.LearningRate,
		startEpisode: 1,
	}
	if cfg.OptimisticInit > 0 {
		t.net.InitOptimistic(cfg.OptimisticInit)
	}
	return t
}

// Stats returns a snapshot of the trainer's running statistics.
func (t *Trainer) Stats() Stats {
	return t.stats
}

func (t *Trainer) exportMetadata() *network.ExportMetadata {
	return &network.ExportMetadata{
		TrainedGames: t.stats.Episode,
		AvgScore:     int(math.Round(t.stats.AvgScore)),
		MaxTile:      t.stats.MaxTile,
		Rate2048:     math.Round(t.stats.Rate2048*10000) / 10000,
		Rate4096:     math.Round(t.stats.Rate4096*10000) / 10000,
		Rate8192:     math.Round(t.stats.Rate8192*10000) / 10000,
		TrainingTime: int(math.Round(t.stats.ElapsedSeconds)),
	}
}

// loadWeightsFile loads a weight file from path into the network,
// reporting whether a file was found at all. A missing file is not an
// error (spec.md §7).
func (t *Trainer) loadWeightsFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("trainer: read weights file: %w", err)
	}
	exp, err := network.DecodeJSON(data)
	if err != nil {
		return false, err
	}
	if err := t.net.LoadExport(exp); err != nil {
		return false, err
	}
	t.weightsLoaded = true
	return true, nil
}

// saveWeightsFile exports the network's current weights and metadata to
// the configured output path, atomically.
func (t *Trainer) saveWeightsFile() error {
	exp, err := t.net.Export(t.exportMetadata())
	if err != nil {
		return err
	}
	data, err := network.EncodeJSON(exp)
	if err != nil {
		return err
	}
	return writeFileAtomic(t.cfg.OutputPath, data)
}

// loadCheckpointFile loads a checkpoint from the configured path,
// reporting whether one was found. A version mismatch is logged as a
// warning and treated as "not found", per spec.md §7.
func (t *Trainer) loadCheckpointFile() (bool, error) {
	c, err := loadCheckpoint(t.cfg.CheckpointPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		if errors.Is(err, ErrCheckpointVersion) {
			t.log.Warn().Err(err).Msg("checkpoint version mismatch, ignoring checkpoint")
			return false, nil
		}
		return false, err
	}
	if err := t.applyCheckpoint(c); err != nil {
		return false, err
	}
	t.weightsLoaded = true
	return true, nil
}

// saveCheckpointFile snapshots the trainer's current state to the
// configured checkpoint path, atomically.
func (t *Trainer) saveCheckpointFile() error {
	c, err := t.buildCheckpoint(time.Now().UnixMilli())
	if err != nil {
		return err
	}
	return saveCheckpoint(t.cfg.CheckpointPath, c)
}

// Train runs the full training session of spec.md §4.4/§5: startup
// weight/checkpoint discovery, the episode loop (action selection, TD
// update, decay, stats, reporting, checkpointing, periodic weight saves),
// and graceful shutdown when ctx is canceled or a termination signal
// arrives.
//
// When resume is true, Train looks for an existing checkpoint first and
// falls back to a bare weights file; when false, Train still auto-loads
// an existing weights file at the output path if one is present — this
// matches the reference trainer's startup behavior and is preserved
// deliberately, not a bug.
func (t *Trainer) Train(ctx context.Context, resume bool) error {
	if err := t.cfg.Validate(); err != nil {
		return err
	}

	if resume {
		found, err := t.loadCheckpointFile()
		if err != nil {
			t.log.Warn().Err(err).Msg("failed to load checkpoint, trying weights file")
			found = false
		}
		if found {
			t.log.Info().Str("path", t.cfg.CheckpointPath).Int("resumeEpisode", t.startEpisode).Msg("checkpoint loaded")
		} else {
			t.log.Info().Msg("no checkpoint found, trying weights file")
			wfound, err := t.loadWeightsFile(t.cfg.OutputPath)
			if err != nil {
				t.log.Warn().Err(err).Msg("failed to load weights file, starting from scratch")
				wfound = false
			}
			if !wfound {
				t.log.Info().Msg("no existing weights found, starting from scratch")
			}
		}
	} else {
		if _, err := os.Stat(t.cfg.OutputPath); err == nil {
			t.log.Info().Str("path", t.cfg.OutputPath).Msg("existing weights file found, loading to continue training")
			if _, err := t.loadWeightsFile(t.cfg.OutputPath); err != nil {
				t.log.Warn().Err(err).Msg("failed to load existing weights, starting from scratch")
			}
		}
	}

	t.log.Info().
		Int("episodes", t.cfg.Episodes).
		Float64("learningRate", t.cfg.LearningRate).
		Bool("decay", t.cfg.EnableDecay).
		Int("startEpisode", t.startEpisode).
		Msg("starting training session")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	t.startTime = time.Now()
	t.lastWeightsSaveAt = t.startTime
	lastCheckpointEpisode := t.startEpisode - 1

	if !t.weightsLoaded {
		t.log.Info().Msg("saving initial weights")
		if err := t.saveWeightsFile(); err != nil {
			return err
		}
	}

	interrupted := false
	for ep := t.startEpisode; ep <= t.cfg.Episodes; ep++ {
		select {
		case <-ctx.Done():
			interrupted = true
		default:
		}
		if interrupted {
			break
		}

		res, err := t.TrainEpisode(t.rng)
		if err != nil {
			return fmt.Errorf("trainer: episode %d: %w", ep, err)
		}

		elapsed := time.Since(t.startTime).Seconds()
		t.updateStats(ep, res, elapsed)

		if t.cfg.EnableDecay && ep%t.cfg.DecayInterval == 0 {
			t.learningRate *= t.cfg.DecayRate
		}

		if ep%t.cfg.ReportInterval == 0 || ep == t.cfg.Episodes {
			t.reportProgress()
			if t.cfg.PrintBoard {
				fmt.Println(res.FinalBoard.Render())
			}
		}

		if t.cfg.CheckpointInterval > 0 && ep-lastCheckpointEpisode >= t.cfg.CheckpointInterval {
			if err := t.saveCheckpointFile(); err != nil {
				return err
			}
			lastCheckpointEpisode = ep
		}

		if t.cfg.WeightsSaveInterval > 0 {
			since := time.Since(t.lastWeightsSaveAt)
			if since >= time.Duration(t.cfg.WeightsSaveInterval)*time.Second {
				if err := t.saveWeightsFile(); err != nil {
					return err
				}
				t.lastWeightsSaveAt = time.Now()
				t.log.Info().Str("path", t.cfg.OutputPath).Int("episode", t.stats.Episode).Msg("weights saved")
			}
		}
	}

	if interrupted {
		t.log.Warn().Msg("training interrupted, saving checkpoint and weights")
		if err := t.saveCheckpointFile(); err != nil {
			return err
		}
		if err := t.saveWeightsFile(); err != nil {
			return err
		}
		t.log.Info().Msg("checkpoint and weights saved; resume with --resume")
		return nil
	}

	t.reportProgress()
	if err := t.saveWeightsFile(); err != nil {
		return err
	}
	t.log.Info().Str("path", t.cfg.OutputPath).Msg("training complete, weights saved")

	if err := os.Remove(t.cfg.CheckpointPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("trainer: remove checkpoint: %w", err)
	}
	return nil
}

// reportProgress logs the current training statistics at Info level. Any
// bar/percentage rendering is left to the caller (spec.md §1: progress
// rendering is out of scope for this package).
func (t *Trainer) reportProgress() {
	progress := float64(t.stats.Episode) / float64(t.cfg.Episodes) * 100

	ev := t.log.Info().
		Int("episode", t.stats.Episode).
		Int("total", t.cfg.Episodes).
		Float64("progressPct", progress).
		Float64("recentAvgScore", t.stats.RecentAvgScore).
		Float64("rate2048", t.stats.Rate2048*100).
		Float64("episodesPerSec", t.stats.EpisodesPerSec).
		Float64("etaSeconds", t.stats.EstimatedRemain)

	if t.stats.Episode%1000 == 0 || t.stats.Episode == t.cfg.Episodes {
		ev = ev.
			Int("maxTile", t.stats.MaxTile).
			Float64("rate4096", t.stats.Rate4096*100).
			Float64("rate8192", t.stats.Rate8192*100).
			Float64("learningRate", t.learningRate)
	}
	ev.Msg("training progress")
}

// TrainEpisode runs one self-play episode to terminal and applies the
// TD(0) updates of spec.md §4.4 steps 1-7, including the terminal
// correction update.
func (t *Trainer) TrainEpisode(rng *rand.Rand) (EpisodeResult, error) {
	b := board.NewGame(rng)
	score := 0
	moves := 0

	var prevAfterstate board.Board
	hasPrev := false
	prevValue := 0.0

	for !b.IsTerminal() {
		dir, afterstate, reward, ok := t.selectBestMove(b)
		if !ok {
			break
		}

		currentValue := t.net.Evaluate(afterstate)

		if hasPrev {
			tdError := float64(reward) + currentValue - prevValue
			t.net.Update(prevAfterstate, t.learningRate*tdError)
		}

		next, moveScore, didMove := b.TryMove(dir)
		if !didMove {
			break
		}
		b = board.SpawnRandom(rng, next)
		score += moveScore

		prevAfterstate = afterstate
		prevValue = currentValue
		hasPrev = true
		moves++
	}

	if hasPrev {
		finalTDError := 0 - prevValue
		t.net.Update(prevAfterstate, t.learningRate*finalTDError)
	}

	return EpisodeResult{
		Score:      score,
		MaxTile:    b.MaxTileValue(),
		Moves:      moves,
		FinalBoard: b,
	}, nil
}

// selectBestMove evaluates the afterstate of every legal move and greedily
// picks the one maximizing reward+V(afterstate), per spec.md §4.4. ok is
// false when no move changes the board (episode has ended).
func (t *Trainer) selectBestMove(b board.Board) (dir board.Direction, afterstate board.Board, reward int, ok bool) {
	bestValue := math.Inf(-1)
	found := false

	for _, d := range board.Directions {
		after, r, moved := b.TryMove(d)
		if !moved {
			continue
		}
		value := float64(r) + t.net.Evaluate(after)
		if !found || value > bestValue {
			bestValue = value
			dir = d
			afterstate = after
			reward = r
			found = true
		}
	}

	return dir, afterstate, reward, found
}
