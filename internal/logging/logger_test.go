package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json"}, &buf, zap.String("tool", "phrasex"))
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("extracted", zap.Int("pairs", 3))
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "extracted", entry["msg"])
	assert.Equal(t, "phrasex", entry["tool"])
	assert.EqualValues(t, 3, entry["pairs"])
	assert.Contains(t, entry, "ts")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{Level: "info", Format: "xml"}.Validate())
	assert.Error(t, Config{Level: "loud", Format: "json"}.Validate())
}
