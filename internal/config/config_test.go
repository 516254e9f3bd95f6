package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "songsync.db", c.DatabasePath)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "songsync", c.RootFolderName)
	assert.Equal(t, 10, c.ChunkSize)
	assert.Equal(t, 5*time.Minute, c.SyncTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "songsync.db", cfg.DatabasePath)
	assert.Equal(t, 10, cfg.ChunkSize)
}

func Test_parseFlags_Overrides(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-d", "other.db", "-b", "mybucket", "-n", "25", "-t", "120"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "other.db", cfg.DatabasePath)
	assert.Equal(t, "mybucket", cfg.S3Bucket)
	assert.Equal(t, 25, cfg.ChunkSize)
	assert.Equal(t, 120*time.Second, cfg.SyncTimeout)
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_OverlaysOnlyPresentFields(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"s3_bucket":    "json-bucket",
		"chunk_size":   7,
		"sync_timeout": "90s",
	})
	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "json-bucket", cfg.S3Bucket)
	assert.Equal(t, 7, cfg.ChunkSize)
	assert.Equal(t, 90*time.Second, cfg.SyncTimeout)
	assert.Equal(t, "songsync.db", cfg.DatabasePath, "fields absent from JSON keep defaults")
}

func Test_parseJson_NoFlagMeansNoChanges(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{DatabasePath: "keep.db"}
	parseJson(cfg)

	assert.Equal(t, "keep.db", cfg.DatabasePath)
}
