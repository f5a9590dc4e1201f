// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `version: 1
class: Survey
columns:
  question: questions_in_english
  label: field_names_in_english
  type: data_type
  storage: database
languages:
  - English
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if content != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "formgen.yaml"), []byte(content), 0o600))
	}
	return dir
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantErr   error
		wantClass string
	}{
		{
			name:    "not initialized",
			wantErr: ErrNotInitialized,
		},
		{
			name:    "malformed yaml",
			content: "version: 1\nclass: [unterminated\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "fails validation",
			content: "version: 1\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:      "valid",
			content:   validConfig,
			wantClass: "Survey",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfig(t, tt.content)

			ctx, err := Load(context.Background(), dir)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "%v", err)
				return
			}

			require.NoError(t, err)
			sc := From(ctx)
			require.NotNil(t, sc)
			assert.True(t, sc.Initialized())
			assert.Equal(t, tt.wantClass, sc.Config.Class)
			assert.Equal(t, filepath.Join(dir, "formgen.yaml"), sc.Path)
			assert.NotNil(t, sc.Logger)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("falls back to defaults", func(t *testing.T) {
		ctx, err := LoadOrDefault(context.Background(), writeConfig(t, ""))
		require.NoError(t, err)

		sc := From(ctx)
		require.NotNil(t, sc)
		assert.False(t, sc.Initialized())
		assert.Equal(t, "dart", sc.Config.Target)
	})

	t.Run("invalid config is still an error", func(t *testing.T) {
		_, err := LoadOrDefault(context.Background(), writeConfig(t, "version: 1\n"))
		assert.True(t, errors.Is(err, ErrInvalidConfig), "%v", err)
	})
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FORMGEN_CLASS", "Census")

	ctx, err := Load(context.Background(), writeConfig(t, validConfig))
	require.NoError(t, err)
	assert.Equal(t, "Census", From(ctx).Config.Class)
}

func TestFrom_NoContextStored(t *testing.T) {
	assert.Nil(t, From(context.Background()))
}
