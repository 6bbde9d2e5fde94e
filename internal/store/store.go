// Package store persists scored records to SQLite or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/cleared-dev/cashscore/internal/model"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	//go:embed sql/*
	schemaFS embed.FS

	// ErrNotFound is returned when no stored record or run matches.
	ErrNotFound = errors.New("not found")
)

// Run describes one batch scoring invocation.
type Run struct {
	ID           string
	StartedAt    time.Time
	Customers    int
	ModelVersion string // empty when every record fell back to rules
}

// Stored is a scored record plus its provenance.
type Stored struct {
	RunID    string
	ScoredAt time.Time
	Record   model.ScoredRecord
}

// Store is a scored-record repository backed by database/sql.
type Store struct {
	db     *sql.DB
	driver string
	log    zerolog.Logger
}

// Open connects to the database and applies the schema.
func Open(ctx context.Context, driver, dsn string, logger zerolog.Logger) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	if dsn == "" {
		return nil, errors.New("store dsn not specified")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// A single connection serializes writers and avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, driver: driver, log: logger.With().Str("component", "store").Logger()}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	ddl, err := schemaFS.ReadFile("sql/schema.sql")
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}
	s.log.Debug().Str("driver", s.driver).Msg("applying schema")
	if _, err := s.db.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// SaveRun inserts a run header.
func (s *Store) SaveRun(ctx context.Context, run Run) error {
	q := s.rebind(`INSERT INTO score_runs (run_id, started_at, customers, model_version) VALUES (?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, q, run.ID, formatTime(run.StartedAt), run.Customers, run.ModelVersion)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun returns the run header for id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	q := s.rebind(`SELECT run_id, started_at, customers, model_version FROM score_runs WHERE run_id = ?`)
	var (
		run     Run
		started string
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(&run.ID, &started, &run.Customers, &run.ModelVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("loading run %s: %w", id, err)
	}
	if run.StartedAt, err = parseTime(started); err != nil {
		return Run{}, fmt.Errorf("run %s: %w", id, err)
	}
	return run, nil
}

const upsertRecord = `INSERT INTO scored_records
	(customer_id, run_id, scored_at, credit_score, risk_band, model_used, model_version, label_score, payload)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (customer_id) DO UPDATE SET
		run_id = excluded.run_id,
		scored_at = excluded.scored_at,
		credit_score = excluded.credit_score,
		risk_band = excluded.risk_band,
		model_used = excluded.model_used,
		model_version = excluded.model_version,
		label_score = excluded.label_score,
		payload = excluded.payload`

// SaveRecords upserts recs in one transaction. A customer keeps only its
// latest scored record.
func (s *Store) SaveRecords(ctx context.Context, runID string, at time.Time, recs []model.ScoredRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, s.rebind(upsertRecord))
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	scoredAt := formatTime(at)
	for _, rec := range recs {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", rec.Profile.CustomerID, err)
		}
		_, err = stmt.ExecContext(ctx,
			rec.Profile.CustomerID,
			runID,
			scoredAt,
			rec.Prediction.CreditScore,
			string(rec.Prediction.RiskBand),
			boolToInt(rec.Prediction.ModelUsed),
			rec.Prediction.ModelVersion,
			rec.LabelScore,
			string(payload),
		)
		if err != nil {
			return fmt.Errorf("saving record %s: %w", rec.Profile.CustomerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	s.log.Debug().Str("run_id", runID).Int("records", len(recs)).Msg("records saved")
	return nil
}

// Get returns the latest stored record for a customer.
func (s *Store) Get(ctx context.Context, customerID string) (Stored, error) {
	q := s.rebind(`SELECT run_id, scored_at, payload FROM scored_records WHERE customer_id = ?`)
	st, err := scanStored(s.db.QueryRowContext(ctx, q, customerID))
	if errors.Is(err, sql.ErrNoRows) {
		return Stored{}, fmt.Errorf("customer %s: %w", customerID, ErrNotFound)
	}
	if err != nil {
		return Stored{}, fmt.Errorf("loading customer %s: %w", customerID, err)
	}
	return st, nil
}

// ListRun returns the records last written by a run, ordered by customer ID.
func (s *Store) ListRun(ctx context.Context, runID string) ([]Stored, error) {
	q := s.rebind(`SELECT run_id, scored_at, payload FROM scored_records WHERE run_id = ? ORDER BY customer_id`)
	rows, err := s.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("listing run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []Stored
	for rows.Next() {
		st, err := scanStored(rows)
		if err != nil {
			return nil, fmt.Errorf("listing run %s: %w", runID, err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStored(row scanner) (Stored, error) {
	var (
		st       Stored
		scoredAt string
		payload  string
	)
	if err := row.Scan(&st.RunID, &scoredAt, &payload); err != nil {
		return Stored{}, err
	}
	t, err := parseTime(scoredAt)
	if err != nil {
		return Stored{}, err
	}
	st.ScoredAt = t
	if err := json.Unmarshal([]byte(payload), &st.Record); err != nil {
		return Stored{}, fmt.Errorf("decoding payload: %w", err)
	}
	return st, nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
