// Package sim runs batches of independent games in parallel and summarizes
// the outcomes. Every game owns its state, policies and random source; no
// mutable state is shared between goroutines.
package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/peterkuimelis/deckx/internal/bot"
	"github.com/peterkuimelis/deckx/internal/game"
	"github.com/peterkuimelis/deckx/internal/log"
)

// Runner plays Games copies of Setup.
type Runner struct {
	Setup    *game.SetupFile
	Games    int
	Workers  int   // concurrent games (0 = GOMAXPROCS)
	BaseSeed int64 // game i uses gameSeed(BaseSeed, i) (0 = time-seeded base)
	Logger   *zap.Logger
}

// GameRecord is the outcome of one simulated game.
type GameRecord struct {
	ID       string
	Seed     int64
	Result   game.Result
	Duration time.Duration
}

// Summary aggregates a batch of games.
type Summary struct {
	Players    []string
	Policies   []string
	Games      int
	Wins       []int // outright wins per seat
	Ties       []int // shared wins per seat
	AvgScores  []float64
	AvgTurns   float64
	TurnLimits int // games stopped by the turn cap
	Records    []GameRecord
}

// WinRate returns the outright win fraction for a seat.
func (s *Summary) WinRate(seat int) float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins[seat]) / float64(s.Games)
}

// Run plays every game and returns the summary. The first failing game
// cancels the rest.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if r.Setup == nil {
		return nil, errors.New("runner has no setup")
	}
	if r.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", r.Games)
	}
	if len(r.Setup.Policies) != len(r.Setup.Players) {
		return nil, fmt.Errorf("setup has %d policies for %d players", len(r.Setup.Policies), len(r.Setup.Players))
	}
	for _, name := range r.Setup.Policies {
		if _, err := bot.ByName(name, 0); err != nil {
			return nil, err
		}
	}
	// Resolve once up front so card errors surface before any goroutine starts.
	if _, err := r.Setup.GameConfig(); err != nil {
		return nil, err
	}

	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	base := r.BaseSeed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	records := make([]GameRecord, r.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < r.Games; i++ {
		seed := gameSeed(base, i)
		g.Go(func() error {
			rec, err := r.playOne(ctx, seed)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i, seed, err)
			}
			records[i] = rec
			logger.Debug("game finished",
				zap.String("game_id", rec.ID),
				zap.Int64("seed", seed),
				zap.Ints("scores", rec.Result.Scores),
				zap.Ints("winners", rec.Result.Winners),
				zap.Int("turns", rec.Result.Turns),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := summarize(r.Setup, records)
	logger.Info("simulation complete",
		zap.Int("games", sum.Games),
		zap.Ints("wins", sum.Wins),
		zap.Ints("ties", sum.Ties),
		zap.Float64("avg_turns", sum.AvgTurns),
		zap.Int("turn_limits", sum.TurnLimits),
	)
	return sum, nil
}

// gameSeed returns the seed for game i of a batch: base+i, except that 0,
// which NewGame reads as "seed from the clock", becomes base-1. base-1 lies
// outside the batch's range, so seeds stay distinct.
func gameSeed(base int64, i int) int64 {
	seed := base + int64(i)
	if seed == 0 {
		return base - 1
	}
	return seed
}

// playOne builds and runs a single isolated game.
func (r *Runner) playOne(ctx context.Context, seed int64) (GameRecord, error) {
	cfg, err := r.Setup.GameConfig()
	if err != nil {
		return GameRecord{}, err
	}
	cfg.Seed = seed
	cfg.Logger = log.NewMemoryLogger()

	policies := make([]game.Policy, len(r.Setup.Policies))
	for i, name := range r.Setup.Policies {
		p, err := bot.ByName(name, seed+int64(i)+1)
		if err != nil {
			return GameRecord{}, err
		}
		policies[i] = p
	}

	g, err := game.NewGame(cfg, policies...)
	if err != nil {
		return GameRecord{}, err
	}

	start := time.Now()
	res, err := g.Run(ctx)
	if err != nil {
		return GameRecord{}, err
	}
	return GameRecord{
		ID:       uuid.NewString(),
		Seed:     seed,
		Result:   res,
		Duration: time.Since(start),
	}, nil
}

func summarize(setup *game.SetupFile, records []GameRecord) *Summary {
	n := len(setup.Players)
	sum := &Summary{
		Players:   append([]string(nil), setup.Players...),
		Policies:  append([]string(nil), setup.Policies...),
		Games:     len(records),
		Wins:      make([]int, n),
		Ties:      make([]int, n),
		AvgScores: make([]float64, n),
		Records:   records,
	}
	if len(records) == 0 {
		return sum
	}

	totalTurns := 0
	for _, rec := range records {
		res := rec.Result
		totalTurns += res.Turns
		if res.TurnLimit {
			sum.TurnLimits++
		}
		for seat, score := range res.Scores {
			sum.AvgScores[seat] += float64(score)
		}
		for _, w := range res.Winners {
			if res.Tie {
				sum.Ties[w]++
			} else {
				sum.Wins[w]++
			}
		}
	}
	for seat := range sum.AvgScores {
		sum.AvgScores[seat] /= float64(len(records))
	}
	sum.AvgTurns = float64(totalTurns) / float64(len(records))
	return sum
}
