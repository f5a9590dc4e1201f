// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithWriter(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		level      string
		wantErr    bool
	}{
		{name: "console default level", jsonOutput: false, level: ""},
		{name: "json debug", jsonOutput: true, level: "debug"},
		{name: "bad level", jsonOutput: false, level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := NewWithWriter(&buf, tt.jsonOutput, tt.level)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			log.Info("hello", zap.String("sheet", "Survey"))
			assert.Contains(t, buf.String(), "hello")
			assert.Contains(t, buf.String(), "Survey")
		})
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, true, "warn")
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("skipping row", zap.Int("row", 7))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "skipping row", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.InDelta(t, 7, entry["row"], 0)
}
