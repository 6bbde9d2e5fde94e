// Package pipeline scores batches of customers in parallel.
package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/cashscore/internal/model"
	"github.com/cleared-dev/cashscore/internal/scoring"
	"github.com/cleared-dev/cashscore/internal/signals"
)

// Pipeline wires extraction, labeling and prediction for one batch.
// The extractor and scorer are shared read-only across workers.
type Pipeline struct {
	extractor *signals.Extractor
	scorer    *scoring.Scorer
	workers   int
	log       zerolog.Logger
}

// New creates a Pipeline. workers <= 0 means GOMAXPROCS.
func New(extractor *signals.Extractor, scorer *scoring.Scorer, workers int, logger zerolog.Logger) *Pipeline {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pipeline{
		extractor: extractor,
		scorer:    scorer,
		workers:   workers,
		log:       logger.With().Str("component", "pipeline").Logger(),
	}
}

// Workers returns the worker pool size.
func (p *Pipeline) Workers() int { return p.workers }

// ScoreOne extracts, labels and predicts for a single customer.
func (p *Pipeline) ScoreOne(profile model.CustomerProfile, ledger []model.Transaction) model.ScoredRecord {
	sig := p.extractor.Extract(ledger, profile)
	label, sub := scoring.Label(sig)
	return model.ScoredRecord{
		Profile:    profile,
		Signals:    sig,
		SubScores:  sub,
		LabelScore: label,
		Prediction: p.scorer.Predict(sig),
	}
}

// ScoreAll scores every profile against its ledger. Results follow the
// order of profiles. Profiles without transactions get default signals.
func (p *Pipeline) ScoreAll(ctx context.Context, profiles []model.CustomerProfile, ledgers map[string][]model.Transaction) ([]model.ScoredRecord, error) {
	p.warnOrphans(profiles, ledgers)

	recs, err := parallel(ctx, p.workers, len(profiles), func(i int) model.ScoredRecord {
		return p.ScoreOne(profiles[i], ledgers[profiles[i].CustomerID])
	})
	if err != nil {
		return nil, fmt.Errorf("scoring batch: %w", err)
	}

	bands := make(map[model.RiskBand]int)
	fallbacks := 0
	for _, r := range recs {
		bands[r.Prediction.RiskBand]++
		if !r.Prediction.ModelUsed {
			fallbacks++
		}
	}
	p.log.Info().
		Int("customers", len(recs)).
		Int("low", bands[model.RiskLow]).
		Int("medium", bands[model.RiskMedium]).
		Int("high", bands[model.RiskHigh]).
		Int("fallbacks", fallbacks).
		Msg("batch scored")
	return recs, nil
}

// ExtractAll computes signal vectors only, in profile order.
func (p *Pipeline) ExtractAll(ctx context.Context, profiles []model.CustomerProfile, ledgers map[string][]model.Transaction) ([]model.SignalVector, error) {
	p.warnOrphans(profiles, ledgers)

	sigs, err := parallel(ctx, p.workers, len(profiles), func(i int) model.SignalVector {
		return p.extractor.Extract(ledgers[profiles[i].CustomerID], profiles[i])
	})
	if err != nil {
		return nil, fmt.Errorf("extracting batch: %w", err)
	}
	return sigs, nil
}

func (p *Pipeline) warnOrphans(profiles []model.CustomerProfile, ledgers map[string][]model.Transaction) {
	known := make(map[string]bool, len(profiles))
	for _, prof := range profiles {
		known[prof.CustomerID] = true
	}
	for id, txns := range ledgers {
		if !known[id] {
			p.log.Warn().Str("customer_id", id).Int("transactions", len(txns)).Msg("ledger has no matching profile, skipped")
		}
	}
}

// parallel runs fn for 0..n-1 on a bounded pool and collects results by
// index. Cancellation stops scheduling new work.
func parallel[T any](ctx context.Context, workers, n int, fn func(i int) T) ([]T, error) {
	out := make([]T, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
