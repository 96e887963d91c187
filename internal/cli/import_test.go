package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpwg/RebrickableDatabase/internal/config"
	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

// newTestImportCmd builds a fresh command with the import flag set so each
// test starts without flags marked as changed.
func newTestImportCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "import"}
	registerImportFlags(cmd)
	return cmd
}

func writeProjectConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(content), 0644))
}

func TestBuildImportConfig_Defaults(t *testing.T) {
	t.Setenv("BRIX_DB", "")
	cmd := newTestImportCmd(t)
	dir := t.TempDir()

	cfg, err := buildImportConfig(cmd, dir, false)
	require.NoError(t, err)

	assert.Equal(t, brix.DefaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, dir, cfg.SourceDir)
	assert.False(t, cfg.DetectPK)
	assert.Equal(t, int64(0), cfg.MaxRows)
	assert.Equal(t, brix.DefaultSampleSize, cfg.SampleSize)
	assert.Equal(t, brix.DefaultBatchSize, cfg.BatchSize)
	assert.Equal(t, brix.DefaultTimeout, cfg.Timeout)
}

func TestBuildImportConfig_FlagsWin(t *testing.T) {
	cmd := newTestImportCmd(t)
	dir := t.TempDir()
	writeProjectConfig(t, dir, "database: from_yaml.sqlite\nsample: 50\ntimeout: 1m\n")

	require.NoError(t, cmd.Flags().Set("db", "from_flag.sqlite"))
	require.NoError(t, cmd.Flags().Set("sample", "77"))
	require.NoError(t, cmd.Flags().Set("timeout", "2m"))

	cfg, err := buildImportConfig(cmd, dir, false)
	require.NoError(t, err)

	assert.Equal(t, "from_flag.sqlite", cfg.DatabasePath)
	assert.Equal(t, 77, cfg.SampleSize)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
}

func TestBuildImportConfig_YAMLFillsUnsetFlags(t *testing.T) {
	t.Setenv("BRIX_DB", "")
	cmd := newTestImportCmd(t)
	dir := t.TempDir()
	writeProjectConfig(t, dir, `database: project.sqlite
detect_pk: true
max_rows: 1000
skip_large: 50000
sample: 250
timeout: 30m
`)

	cfg, err := buildImportConfig(cmd, dir, false)
	require.NoError(t, err)

	assert.Equal(t, "project.sqlite", cfg.DatabasePath)
	assert.True(t, cfg.DetectPK)
	assert.Equal(t, int64(1000), cfg.MaxRows)
	assert.Equal(t, int64(50000), cfg.SkipLarge)
	assert.Equal(t, 250, cfg.SampleSize)
	assert.Equal(t, 30*time.Minute, cfg.Timeout)
}

func TestBuildImportConfig_EnvFallbackForDatabase(t *testing.T) {
	t.Setenv("BRIX_DB", "env.sqlite")
	cmd := newTestImportCmd(t)

	cfg, err := buildImportConfig(cmd, t.TempDir(), false)
	require.NoError(t, err)
	assert.Equal(t, "env.sqlite", cfg.DatabasePath)
}

func TestBuildImportConfig_YAMLBeatsEnv(t *testing.T) {
	t.Setenv("BRIX_DB", "env.sqlite")
	cmd := newTestImportCmd(t)
	dir := t.TempDir()
	writeProjectConfig(t, dir, "database: project.sqlite\n")

	cfg, err := buildImportConfig(cmd, dir, false)
	require.NoError(t, err)
	assert.Equal(t, "project.sqlite", cfg.DatabasePath)
}

func TestBuildImportConfig_InvalidYAMLTimeout(t *testing.T) {
	cmd := newTestImportCmd(t)
	dir := t.TempDir()
	writeProjectConfig(t, dir, "timeout: not_a_duration\n")

	_, err := buildImportConfig(cmd, dir, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeout")
}

func TestBuildImportConfig_MalformedYAMLFails(t *testing.T) {
	cmd := newTestImportCmd(t)
	dir := t.TempDir()
	writeProjectConfig(t, dir, "{{invalid")

	_, err := buildImportConfig(cmd, dir, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ConfigFileName)
}

func TestBuildImportConfig_MissingConfigIsTolerated(t *testing.T) {
	t.Setenv("BRIX_DB", "")
	cmd := newTestImportCmd(t)

	cfg, err := buildImportConfig(cmd, t.TempDir(), false)
	require.NoError(t, err)
	assert.Equal(t, brix.DefaultDatabasePath, cfg.DatabasePath)
}

func TestBuildImportConfig_DropAndForceFlags(t *testing.T) {
	cmd := newTestImportCmd(t)
	require.NoError(t, cmd.Flags().Set("drop", "true"))
	require.NoError(t, cmd.Flags().Set("force", "true"))

	cfg, err := buildImportConfig(cmd, t.TempDir(), false)
	require.NoError(t, err)
	assert.True(t, cfg.Drop)
	assert.True(t, cfg.Force)
	require.NoError(t, cfg.Validate())
}
