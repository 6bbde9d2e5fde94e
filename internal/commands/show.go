package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/cashscore/internal/model"
	"github.com/cleared-dev/cashscore/internal/record"
	"github.com/cleared-dev/cashscore/internal/scoring"
	"github.com/cleared-dev/cashscore/internal/store"
)

func newShowCommand(g *globalFlags) *cobra.Command {
	var asCSV, explain bool

	cmd := &cobra.Command{
		Use:   "show <customer-id>",
		Short: "Show the latest stored score for a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, g)
			if err != nil {
				return err
			}

			st, err := openStore(cmd.Context(), e)
			if err != nil {
				return err
			}
			defer st.Close()

			stored, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asCSV {
				return record.WriteRecords(cmd.OutOrStdout(), []model.ScoredRecord{stored.Record})
			}
			printStored(cmd.OutOrStdout(), stored)
			if explain {
				return explainStored(cmd.OutOrStdout(), e, stored)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "print the full record as CSV")
	cmd.Flags().BoolVar(&explain, "explain", false, "break the model score down by feature")

	return cmd
}

func printStored(w io.Writer, st store.Stored) {
	r := st.Record
	name := r.Profile.CustomerID
	if r.Profile.Name != "" {
		name += " (" + r.Profile.Name + ")"
	}
	source := "rule-based fallback"
	if r.Prediction.ModelUsed {
		source = "model " + r.Prediction.ModelVersion
	}

	fmt.Fprintf(w, "Customer:      %s\n", name)
	fmt.Fprintf(w, "Employment:    %s, %s\n", r.Profile.EmploymentType, r.Profile.CityTier)
	fmt.Fprintf(w, "Credit score:  %d (%s)\n", r.Prediction.CreditScore, r.Prediction.RiskBand)
	fmt.Fprintf(w, "Scored by:     %s\n", source)
	fmt.Fprintf(w, "Sub-scores:    stability %d, discipline %d, volatility %d\n",
		r.SubScores.Stability, r.SubScores.Discipline, r.SubScores.Volatility)
	fmt.Fprintf(w, "Retention:     %.2f\n", r.Signals.NetCashRetentionRatio)
	fmt.Fprintf(w, "Bill misses:   %d\n", r.Signals.BillMissCount)
	fmt.Fprintf(w, "Run:           %s at %s\n", st.RunID, st.ScoredAt.Format(time.RFC3339))
}

func explainStored(w io.Writer, e *env, st store.Stored) error {
	pred := st.Record.Prediction
	if !pred.ModelUsed {
		fmt.Fprintln(w, "Explanation:   none, score came from the rule-based fallback")
		return nil
	}

	m, err := scoring.LoadModel(e.cfg.Scoring.ModelPath)
	if err != nil {
		return fmt.Errorf("loading model for explanation: %w", err)
	}
	if m.Version() != pred.ModelVersion {
		e.log.Warn().
			Str("stored_version", pred.ModelVersion).
			Str("loaded_version", m.Version()).
			Msg("explaining with a different model version than the one that scored")
	}

	exp, err := m.Explain(st.Record.Signals)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Explanation:   base %.1f, raw %.1f\n", exp.Base, exp.Raw())
	for _, c := range exp.Contributions {
		fmt.Fprintf(w, "  %-26s %+9.2f  (value %g)\n", c.Feature, c.Impact, c.Value)
	}
	return nil
}
