package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	d := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("format", d.Format, "")
	fs.Bool("verbose", d.Verbose, "")
	fs.String("db", d.DB, "")
	fs.String("inventory", d.Inventory, "")
	fs.Int("max-rows", d.MaxRows, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "text", c.Format)
	assert.Equal(t, 100000, c.MaxRows)
	assert.False(t, c.Verbose)
	assert.Empty(t, c.DB)
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(testFlags(t), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("PERSPECTIVE_FORMAT", "json")
	t.Setenv("PERSPECTIVE_DB", "env.db")
	t.Setenv("PERSPECTIVE_MAX_ROWS", "50")

	c, err := Load(testFlags(t, "--db", "flag.db"), "")
	require.NoError(t, err)

	assert.Equal(t, "json", c.Format, "env overrides default")
	assert.Equal(t, "flag.db", c.DB, "flag overrides env")
	assert.Equal(t, 50, c.MaxRows)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perspective.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inventory: fleet.yaml\nsuffixes: [.example.com]\nmax-rows: 10\n"), 0o644))

	c, err := Load(testFlags(t, "--max-rows", "20"), path)
	require.NoError(t, err)

	assert.Equal(t, "fleet.yaml", c.Inventory)
	assert.Equal(t, []string{".example.com"}, c.Suffixes)
	assert.Equal(t, 20, c.MaxRows, "flag overrides file")
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(testFlags(t, "--format", "xml"), "")
	assert.ErrorContains(t, err, `invalid format "xml"`)

	_, err = Load(testFlags(t, "--max-rows", "-1"), "")
	assert.ErrorContains(t, err, "invalid max-rows")

	_, err = Load(testFlags(t), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestLoad_SuffixesFromEnv(t *testing.T) {
	t.Setenv("PERSPECTIVE_SUFFIXES", ".example.com,.local")

	c, err := Load(testFlags(t), "")
	require.NoError(t, err)
	assert.Equal(t, []string{".example.com", ".local"}, c.Suffixes)
}
