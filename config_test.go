package memopt

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig([]byte(`
memory_limit_bytes: 1048576
slab_size_bytes: 4096
off_heap: true
compact_post_codes: true
hasher: crc32c
log_level: debug
log_format: json
`))
	require.NoError(t, err)

	assert.Equal(t, int64(1<<20), c.MemoryLimitBytes)
	assert.Equal(t, 4096, c.SlabSizeBytes)
	assert.Equal(t, DefaultConfig().InitialPoolCapacity, c.InitialPoolCapacity)
	assert.True(t, c.OffHeap)
	assert.True(t, c.CompactPostCodes)

	opts, err := c.Options()
	require.NoError(t, err)
	o := applyOptions(opts)
	assert.Equal(t, HasherCRC32C, o.hasher)
	assert.Equal(t, 4096, o.slabSize)
	assert.True(t, o.offHeap)
	assert.True(t, o.logger.Enabled(t.Context(), slog.LevelDebug))
}

func TestParseConfigDefaults(t *testing.T) {
	c, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestParseConfigRejectsUnknownValues(t *testing.T) {
	_, err := ParseConfig([]byte("hasher: md5\n"))
	require.ErrorContains(t, err, "unknown hasher")

	_, err = ParseConfig([]byte("log_level: loud\n"))
	require.ErrorContains(t, err, "unknown log level")

	_, err = ParseConfig([]byte("log_format: xml\n"))
	require.ErrorContains(t, err, "unknown log format")

	_, err = Config{LogFormat: "xml"}.Logger()
	require.ErrorContains(t, err, "unknown log format")

	_, err = Config{LogFormat: "xml"}.Options()
	require.ErrorContains(t, err, "unknown log format")

	_, err = ParseConfig([]byte("slab_size_bytes: [1]\n"))
	require.ErrorContains(t, err, "parse config")
}

func TestConfigLogFormat(t *testing.T) {
	c, err := ParseConfig([]byte("log_format: JSON\n"))
	require.NoError(t, err)

	logger, err := c.Logger()
	require.NoError(t, err)
	_, isJSON := logger.Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)

	logger, err = DefaultConfig().Logger()
	require.NoError(t, err)
	_, isText := logger.Handler().(*slog.TextHandler)
	assert.True(t, isText)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	require.NoError(t, os.WriteFile(path, []byte("initial_pool_capacity: 64\nhasher: polynomial\n"), 0o600))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 64, c.InitialPoolCapacity)

	opts, err := c.Options()
	require.NoError(t, err)
	s, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	assert.Equal(t, 64, s.Stats().PoolCapacity)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config")
}
