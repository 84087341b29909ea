package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "csteams.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	home := isolateHome(t)

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".csteams", "matches.db"), cfg.DB)
	assert.Equal(t, DefaultLeaderboard, cfg.LeaderboardSize)
	assert.Equal(t, DefaultOpponentLimit, cfg.OpponentLimit)
	assert.Equal(t, DefaultModel, cfg.AnthropicModel)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Data)
	assert.Equal(t, "Big", cfg.AliasTable().Resolve("BIG"))
}

func TestConfigFileAndEnv(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, strings.Join([]string{
		"data: ~/matches.xlsx",
		"sheet: Partidas",
		"leaderboard_size: 10",
		"log_level: debug",
		"aliases:",
		"  NaVi: Natus Vincere",
	}, "\n"))
	t.Setenv("CSTEAMS_OPPONENT_LIMIT", "3")

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "Partidas", cfg.Sheet)
	assert.Equal(t, 10, cfg.LeaderboardSize)
	assert.Equal(t, 3, cfg.OpponentLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, strings.HasPrefix(cfg.Data, "~"), "home is expanded")

	table := cfg.AliasTable()
	assert.Equal(t, "Natus Vincere", table.Resolve("navi"))
	assert.Equal(t, "3Dmax", table.Resolve("3DMAX"), "built-in aliases are kept")
}

func TestExplicitMissingFile(t *testing.T) {
	isolateHome(t)
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolateHome(t)

	_, err := Load(New(), writeConfig(t, "leaderboard_size: 0\n"))
	assert.ErrorContains(t, err, "leaderboard_size")

	_, err = Load(New(), writeConfig(t, "opponent_limit: -1\n"))
	assert.ErrorContains(t, err, "opponent_limit")

	_, err = Load(New(), writeConfig(t, "log_level: chatty\n"))
	assert.ErrorContains(t, err, "log level")

	_, err = Load(New(), writeConfig(t, "aliases:\n  alpha: beta\n  beta: alpha\n"))
	assert.ErrorContains(t, err, "aliases")
}

func TestConfiguredAliasOverridesDefault(t *testing.T) {
	isolateHome(t)

	cfg, err := Load(New(), writeConfig(t, "aliases:\n  big: BIG Clan\n"))
	require.NoError(t, err)
	table := cfg.AliasTable()
	assert.Equal(t, "BIG Clan", table.Resolve("big"))
	assert.Equal(t, "BIG Clan", table.Resolve("BIG"), "every spelling of the key is replaced")
	assert.Equal(t, "Astralis", table.Resolve("Astrals"))
}
