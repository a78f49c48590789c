package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedback_analyzer/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, domain.RowPolicyReject, c.Policy())
	assert.Equal(t, OracleLexicon, c.Oracle)
	assert.Equal(t, time.Hour, c.CacheTTL())
	assert.Equal(t, 4, c.Workers)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("row_policy: skip\nhttp_addr: \":9000\"\nupload_rps: 2\n"), 0o600))
	t.Setenv(EnvConfigFile, path)
	t.Setenv("HTTP_ADDR", ":9100")
	t.Setenv("UPLOAD_RPS", "not-a-number")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, domain.RowPolicySkip, c.Policy())
	assert.Equal(t, ":9100", c.HTTPAddr, "env wins over file")
	assert.Equal(t, 2, c.UploadRPS, "bad env value keeps file value")
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	t.Setenv("ROW_POLICY", "maybe")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ROW_POLICY", "skip")
	t.Setenv("ORACLE", "remote")
	_, err = Load()
	assert.ErrorContains(t, err, "ORACLE_URL")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
