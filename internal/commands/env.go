package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/cashscore/internal/buildinfo"
	"github.com/cleared-dev/cashscore/internal/config"
	"github.com/cleared-dev/cashscore/internal/ledger"
	"github.com/cleared-dev/cashscore/internal/logging"
	"github.com/cleared-dev/cashscore/internal/model"
	"github.com/cleared-dev/cashscore/internal/scoring"
	"github.com/cleared-dev/cashscore/internal/signals"
	"github.com/cleared-dev/cashscore/internal/taxonomy"
)

// env is the per-invocation runtime: resolved config plus logger.
type env struct {
	cfg *config.Config
	log zerolog.Logger
}

// loadEnv reads the config file and builds the logger. A missing config
// file is only an error when --config was given explicitly.
func loadEnv(cmd *cobra.Command, g *globalFlags) (*env, error) {
	cfg, err := config.Load(g.configPath)
	switch {
	case err == nil:
		abs, absErr := filepath.Abs(g.configPath)
		if absErr != nil {
			return nil, fmt.Errorf("resolving config path: %w", absErr)
		}
		cfg.Resolve(filepath.Dir(abs))
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.Default()
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, fmt.Errorf("resolving working directory: %w", wdErr)
		}
		cfg.Resolve(wd)
	default:
		return nil, err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}

	logger, err := logging.NewWithWriter(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Service:    "cashscore",
		Version:    buildinfo.Version,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}

	return &env{cfg: cfg, log: logger}, nil
}

// extractor builds the signal extractor from the configured taxonomy.
func (e *env) extractor() (*signals.Extractor, error) {
	tax := taxonomy.Default()
	if e.cfg.TaxonomyPath != "" {
		var err error
		tax, err = taxonomy.Load(e.cfg.TaxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("loading taxonomy: %w", err)
		}
	}
	e.log.Debug().Str("taxonomy_version", tax.Version).Msg("taxonomy loaded")
	return signals.NewExtractor(
		taxonomy.NewCategorizer(tax),
		signals.WithObservationMonths(e.cfg.Scoring.ObservationMonths),
	), nil
}

// scorer loads the model artifact once. Any load failure degrades to the
// rule-based fallback.
func (e *env) scorer(modelPath string) *scoring.Scorer {
	if modelPath == "" {
		e.log.Info().Msg("no model configured, using rule-based scores")
		return scoring.NewScorer(nil, e.log)
	}

	m, err := scoring.LoadModel(modelPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		e.log.Info().Str("path", modelPath).Msg("model artifact not found, using rule-based scores")
		return scoring.NewScorer(nil, e.log)
	case err != nil:
		e.log.Warn().Err(err).Str("path", modelPath).Msg("model artifact unusable, using rule-based scores")
		return scoring.NewScorer(nil, e.log)
	}

	e.log.Info().Str("path", modelPath).Str("model_version", m.Version()).Msg("model loaded")
	return scoring.NewScorer(m, e.log)
}

// inputFlags select the ledger and profile files for a batch.
type inputFlags struct {
	ledgerPath   string
	format       string
	profilesPath string
	customer     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ledgerPath, "ledger", "", "transaction ledger CSV (required)")
	cmd.Flags().StringVar(&f.format, "format", "standard", "ledger format (standard, statement)")
	cmd.Flags().StringVar(&f.profilesPath, "profiles", "", "customer profiles CSV (required)")
	cmd.Flags().StringVar(&f.customer, "customer", "", "only this customer ID (required for statement ledgers)")
	_ = cmd.MarkFlagRequired("ledger")
	_ = cmd.MarkFlagRequired("profiles")
}

// load reads profiles and the ledger, grouped by customer.
func (f *inputFlags) load(log zerolog.Logger) ([]model.CustomerProfile, map[string][]model.Transaction, error) {
	profiles, err := readProfiles(f.profilesPath)
	if err != nil {
		return nil, nil, err
	}

	parser, err := ledger.DefaultRegistry().Lookup(f.format)
	if err != nil {
		return nil, nil, err
	}
	txns, err := parseLedger(parser, f.ledgerPath)
	if err != nil {
		return nil, nil, err
	}

	if _, ok := parser.(*ledger.StatementParser); ok {
		if f.customer == "" {
			return nil, nil, errors.New("--customer is required for statement ledgers")
		}
		txns = ledger.AssignCustomer(txns, f.customer)
	}

	if f.customer != "" {
		profiles, err = selectProfile(profiles, f.customer)
		if err != nil {
			return nil, nil, err
		}
	}

	log.Debug().
		Str("ledger", f.ledgerPath).
		Str("format", parser.Format()).
		Int("transactions", len(txns)).
		Int("profiles", len(profiles)).
		Msg("inputs loaded")
	return profiles, ledger.ByCustomer(txns), nil
}

func readProfiles(path string) ([]model.CustomerProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening profiles: %w", err)
	}
	defer f.Close()

	profiles, err := ledger.ReadProfiles(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profiles, nil
}

func parseLedger(p ledger.Parser, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	txns, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txns, nil
}

func selectProfile(profiles []model.CustomerProfile, id string) ([]model.CustomerProfile, error) {
	for _, p := range profiles {
		if p.CustomerID == id {
			return []model.CustomerProfile{p}, nil
		}
	}
	return nil, fmt.Errorf("customer %q not in profiles", id)
}
