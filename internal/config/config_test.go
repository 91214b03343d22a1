package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// point at a file that does not exist so no real config leaks in
	t.Setenv("LEDGERSIFT_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sources", cfg.Sources.Path)
	require.Equal(t, "report", cfg.Report.Path)
	require.InDelta(t, 0.90, cfg.Matching.SimilarityThreshold, 1e-9)
	require.Equal(t, 7, cfg.Matching.DateWindowDays)
	require.Contains(t, cfg.Database.Path, "ledgersift.db")
	require.Empty(t, cfg.Accounts)
	require.Empty(t, cfg.Rules)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
path = "/tmp/ledgersift-test.db"

[matching]
similarity_threshold = 0.80
date_window_days = 3

[[accounts]]
name = "Checking"
type = "general"
format = "generic"

[[accounts]]
name = "Card"
type = "credit"
format = "wellsfargo"

[[rules]]
match = "uber"
tag = "eatout"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("LEDGERSIFT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/ledgersift-test.db", cfg.Database.Path)
	require.InDelta(t, 0.80, cfg.Matching.SimilarityThreshold, 1e-9)
	require.Equal(t, 3, cfg.Matching.DateWindowDays)

	require.Len(t, cfg.Accounts, 2)
	require.Equal(t, AccountConfig{Name: "Checking", Type: "general", Format: "generic"}, cfg.Accounts[0])
	require.Equal(t, AccountConfig{Name: "Card", Type: "credit", Format: "wellsfargo"}, cfg.Accounts[1])

	require.Len(t, cfg.Rules, 1)
	require.Equal(t, TagRule{Match: "uber", Tag: "eatout"}, cfg.Rules[0])
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("LEDGERSIFT_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("LEDGERSIFT_MATCHING_DATE_WINDOW_DAYS", "10")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Matching.DateWindowDays)
}
