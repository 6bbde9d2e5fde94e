package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/cashscore/internal/pipeline"
	"github.com/cleared-dev/cashscore/internal/record"
	"github.com/cleared-dev/cashscore/internal/scoring"
)

func newSignalsCommand(g *globalFlags) *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "signals",
		Short: "Extract cash-flow signals and print them as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, g)
			if err != nil {
				return err
			}

			profiles, ledgers, err := in.load(e.log)
			if err != nil {
				return err
			}

			ex, err := e.extractor()
			if err != nil {
				return err
			}

			// Extraction never consults the scorer.
			p := pipeline.New(ex, scoring.NewScorer(nil, e.log), e.cfg.Batch.Workers, e.log)
			sigs, err := p.ExtractAll(cmd.Context(), profiles, ledgers)
			if err != nil {
				return err
			}
			return record.WriteSignals(cmd.OutOrStdout(), sigs)
		},
	}

	in.register(cmd)
	return cmd
}
