package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/cashscore/internal/model"
	"github.com/cleared-dev/cashscore/internal/pipeline"
	"github.com/cleared-dev/cashscore/internal/record"
	"github.com/cleared-dev/cashscore/internal/store"
)

func newScoreCommand(g *globalFlags) *cobra.Command {
	var (
		in        inputFlags
		modelPath string
		outPath   string
		persist   bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score customers and write the scored records as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, g)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("model") {
				e.cfg.Scoring.ModelPath = modelPath
			}

			profiles, ledgers, err := in.load(e.log)
			if err != nil {
				return err
			}

			ex, err := e.extractor()
			if err != nil {
				return err
			}
			sc := e.scorer(e.cfg.Scoring.ModelPath)

			runID := uuid.NewString()
			started := time.Now()
			log := e.log.With().Str("run_id", runID).Logger()

			p := pipeline.New(ex, sc, e.cfg.Batch.Workers, log)
			log.Info().Int("customers", len(profiles)).Int("workers", p.Workers()).Msg("scoring started")

			recs, err := p.ScoreAll(cmd.Context(), profiles, ledgers)
			if err != nil {
				return err
			}

			if err := writeRecords(cmd.OutOrStdout(), outPath, recs); err != nil {
				return err
			}

			if persist {
				if err := saveRun(cmd.Context(), e, runID, started, recs); err != nil {
					return err
				}
				log.Info().Str("driver", e.cfg.Store.Driver).Msg("records stored")
			}

			log.Info().Dur("elapsed", time.Since(started)).Msg("scoring finished")
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&modelPath, "model", "", "model artifact (overrides scoring.model_path; empty forces rule-based)")
	cmd.Flags().StringVar(&outPath, "out", "-", "output CSV path, - for stdout")
	cmd.Flags().BoolVar(&persist, "store", false, "also save records to the configured store")

	return cmd
}

func writeRecords(stdout io.Writer, path string, recs []model.ScoredRecord) error {
	if path == "-" || path == "" {
		return record.WriteRecords(stdout, recs)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := record.WriteRecords(f, recs); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "Wrote %d records to %s\n", len(recs), path)
	return nil
}

func saveRun(ctx context.Context, e *env, runID string, started time.Time, recs []model.ScoredRecord) error {
	st, err := openStore(ctx, e)
	if err != nil {
		return err
	}
	defer st.Close()

	var version string
	for _, r := range recs {
		if r.Prediction.ModelUsed {
			version = r.Prediction.ModelVersion
			break
		}
	}

	if err := st.SaveRun(ctx, store.Run{
		ID:           runID,
		StartedAt:    started,
		Customers:    len(recs),
		ModelVersion: version,
	}); err != nil {
		return err
	}
	return st.SaveRecords(ctx, runID, time.Now(), recs)
}

func openStore(ctx context.Context, e *env) (*store.Store, error) {
	if e.cfg.Store.Driver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(e.cfg.Store.DSN), 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}
	return store.Open(ctx, e.cfg.Store.Driver, e.cfg.Store.DSN, e.log)
}
