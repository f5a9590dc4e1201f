// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package emit

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmitter struct{ name string }

func (s *stubEmitter) Name() string          { return s.name }
func (s *stubEmitter) FileExtension() string { return ".txt" }

func (s *stubEmitter) Emit(sc *schema.Schema, _ Meta) ([]File, error) {
	return []File{{Name: sc.Class + ".txt"}}, nil
}

func (s *stubEmitter) EmitShared(_ *schema.Schema, _ Meta) ([]File, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	Register(&stubEmitter{name: "stub-b"})
	Register(&stubEmitter{name: "stub-a"})

	e, err := Get("stub-a")
	require.NoError(t, err)
	assert.Equal(t, "stub-a", e.Name())

	names := Available()
	assert.Contains(t, names, "stub-a")
	assert.Contains(t, names, "stub-b")
	assert.IsIncreasing(t, names)

	_, err = Get("cobol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEmitter))
	assert.Contains(t, err.Error(), `"cobol"`)
}

func TestAppend(t *testing.T) {
	set, err := Append(nil, File{Name: "a", Content: []byte("1")}, File{Name: "b", Content: []byte("1")})
	require.NoError(t, err)
	set, err = Append(set, File{Name: "c", Content: []byte("2")})
	require.NoError(t, err)
	require.Len(t, set, 3)
	assert.Equal(t, "c", set[2].Name)

	_, err = Append(set, File{Name: "d"}, File{Name: "b", Content: []byte("2")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateFile))
	assert.Contains(t, err.Error(), `"b"`)
	assert.Equal(t, "1", string(set[1].Content), "the existing file is untouched")

	_, err = Append(nil, File{Name: "x"}, File{Name: "x"})
	assert.True(t, errors.Is(err, ErrDuplicateFile))
}
