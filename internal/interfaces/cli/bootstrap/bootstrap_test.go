package bootstrap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFlags_Register(t *testing.T) {
	var f Flags
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	f.Register(cmd)

	cmd.SetArgs([]string{"-e", "test", "-c", "custom.yaml"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "test", f.Env)
	assert.Equal(t, "custom.yaml", f.ConfigPath)
	assert.False(t, f.Verbose)
}

func TestLoad_AndOpenDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tf.db")
	cfgPath := writeConfig(t, "database:\n  driver: sqlite\n  path: "+dbPath+"\nlogger:\n  level: error\n")

	rt, err := Load(&Flags{Env: "test", ConfigPath: cfgPath})
	require.NoError(t, err)
	require.NotNil(t, rt.Log)
	assert.Equal(t, dbPath, rt.Cfg.Database.Path)

	require.NoError(t, rt.OpenDatabase())
	require.NotNil(t, rt.DB)
	rt.Close()
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(&Flags{Env: "test", ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TICKETFLOW_TEST_DOTENV=from-file\n"), 0o600))

	t.Setenv("TICKETFLOW_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("TICKETFLOW_TEST_DOTENV"))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("TICKETFLOW_TEST_DOTENV"))

	t.Setenv("TICKETFLOW_TEST_DOTENV", "from-env")
	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("TICKETFLOW_TEST_DOTENV"), "existing variables win")

	assert.NoError(t, loadDotEnv(filepath.Join(dir, "absent.env")))
}
