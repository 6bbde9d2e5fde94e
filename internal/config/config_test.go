package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.TaxonomyPath = "taxonomy.yaml"
	cfg.Batch.Workers = 4
	cfg.Store = StoreConfig{Driver: "postgres", DSN: "postgres://score:pw@localhost/cashscore?sslmode=disable"}

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, filepath.Join("models", "model.yaml"), cfg.Scoring.ModelPath)
	assert.Equal(t, 6, cfg.Scoring.ObservationMonths)
	assert.Empty(t, cfg.TaxonomyPath)
	assert.Equal(t, 0, cfg.Batch.Workers)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "pretty", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n  format: json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 6, cfg.Scoring.ObservationMonths)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"months", "scoring:\n  observation_months: 0\n", "observation_months"},
		{"workers", "batch:\n  workers: -2\n", "batch.workers"},
		{"driver", "store:\n  driver: mysql\n", "store.driver"},
		{"level", "log:\n  level: loud\n", "log.level"},
		{"format", "log:\n  format: xml\n", "log.format"},
		{"garbage", "scoring: [1, 2\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o644))
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Scoring.ObservationMonths = -1
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "observation_months")
	assert.Contains(t, err.Error(), "log.format")
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.TaxonomyPath = "taxonomy.yaml"
	cfg.Resolve(dir)

	assert.Equal(t, filepath.Join(dir, "models", "model.yaml"), cfg.Scoring.ModelPath)
	assert.Equal(t, filepath.Join(dir, "taxonomy.yaml"), cfg.TaxonomyPath)
	assert.Equal(t, filepath.Join(dir, "out", "scores.db"), cfg.Store.DSN)

	pg := Default()
	pg.Store = StoreConfig{Driver: "postgres", DSN: "host=db user=score"}
	pg.TaxonomyPath = ""
	pg.Resolve(dir)
	assert.Equal(t, "host=db user=score", pg.Store.DSN)
	assert.Empty(t, pg.TaxonomyPath)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, Default())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "observation_months: 6")
	assert.Contains(t, contents, "driver: sqlite")
	assert.Contains(t, contents, "format: pretty")
	assert.NotContains(t, contents, "taxonomy_path")
}
