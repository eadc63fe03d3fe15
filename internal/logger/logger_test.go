package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(Config{Level: "warn", Format: "json", Output: &buf})
	require.NoError(t, err)

	sl := WithComponent(l, "store")
	sl.Info().Msg("dropped")
	sl.Warn().Str("invoice_id", "inv-1").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "store", line["component"])
	assert.Equal(t, "inv-1", line["invoice_id"])
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	_, err := Setup(Config{Level: "loud"})
	require.Error(t, err)
}
