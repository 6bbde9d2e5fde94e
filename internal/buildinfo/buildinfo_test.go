package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	old := []string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })

	assert.Equal(t, "dev (commit: none, built: unknown)", Summary())

	Version, Commit, Date = "v0.3.0", "abc1234", "2025-07-01"
	assert.Equal(t, "v0.3.0 (commit: abc1234, built: 2025-07-01)", Summary())
}
