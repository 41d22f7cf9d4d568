package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanmarkunas-com/0010-memory-optimization/testutil"
)

func TestJSONStream(t *testing.T) {
	in := `{"id":1,"user":"ABC123","articleNr":7,"count":2,"pricePence":999,"address":{"number":"1","street":"Fishery Road","city":"Seashoreworth","region":"","postCode":"SBSP42"}}
{"id":2,"user":"DEF456"}`
	src := jsonStream{dec: json.NewDecoder(strings.NewReader(in))}

	o, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.ID)
	assert.Equal(t, []byte("ABC123"), o.User)
	assert.Equal(t, int32(999), o.PricePence)
	assert.Equal(t, "SBSP42", o.Address.PostCode)

	o, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("DEF456"), o.User)

	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestGeneratedSource(t *testing.T) {
	rng := testutil.NewRNG(1)
	src := &generated{gen: testutil.NewOrderGenerator(rng, rng.Addresses(3), 5), left: 2}

	for range 2 {
		_, err := src.Next()
		require.NoError(t, err)
	}
	_, err := src.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_format: json\nlog_level: warn\n"), 0o600))

	oldPath, oldLevel := *configPath, *logLevel
	t.Cleanup(func() { *configPath, *logLevel = oldPath, oldLevel })

	*configPath, *logLevel = path, "debug"
	cfg, logger, err := setup()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	*logLevel = "loud"
	_, _, err = setup()
	require.ErrorContains(t, err, "unknown log level")

	*configPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, _, err = setup()
	require.Error(t, err)
}
