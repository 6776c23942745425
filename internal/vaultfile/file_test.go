package vaultfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFile() *File {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return New("c2FsdA==", "dG9rZW4=", created, created.Add(time.Hour))
}

func TestMarshalUnmarshal(t *testing.T) {
	f := sampleFile()

	data, err := Marshal(f)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))
	for _, field := range []string{`"version": 1`, `"salt"`, `"encrypted_data"`, `"created_at"`, `"modified_at"`} {
		assert.Contains(t, string(data), field)
	}

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, f.Version, got.Version)
	assert.Equal(t, f.Salt, got.Salt)
	assert.Equal(t, f.EncryptedData, got.EncryptedData)
	assert.True(t, f.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, f.ModifiedAt.Equal(got.ModifiedAt))
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
}

func TestNewNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, loc)
	f := New("s", "d", ts, ts)
	assert.Equal(t, time.UTC, f.CreatedAt.Location())
	assert.True(t, ts.Equal(f.CreatedAt))
}

func TestUnmarshalRejectsMalformed(t *testing.T) {
	valid, err := Marshal(sampleFile())
	require.NoError(t, err)

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "  \n"},
		{"truncated", string(valid[:len(valid)/2])},
		{"not json", "version=1"},
		{"array", "[]"},
		{"missing version", `{"salt":"s","encrypted_data":"d","created_at":"2024-01-01T00:00:00Z","modified_at":"2024-01-01T00:00:00Z"}`},
		{"missing salt", `{"version":1,"encrypted_data":"d","created_at":"2024-01-01T00:00:00Z","modified_at":"2024-01-01T00:00:00Z"}`},
		{"empty salt", `{"version":1,"salt":"","encrypted_data":"d","created_at":"2024-01-01T00:00:00Z","modified_at":"2024-01-01T00:00:00Z"}`},
		{"missing data", `{"version":1,"salt":"s","created_at":"2024-01-01T00:00:00Z","modified_at":"2024-01-01T00:00:00Z"}`},
		{"missing created", `{"version":1,"salt":"s","encrypted_data":"d","modified_at":"2024-01-01T00:00:00Z"}`},
		{"missing modified", `{"version":1,"salt":"s","encrypted_data":"d","created_at":"2024-01-01T00:00:00Z"}`},
		{"bad timestamp", `{"version":1,"salt":"s","encrypted_data":"d","created_at":"yesterday","modified_at":"2024-01-01T00:00:00Z"}`},
		{"string version", `{"version":"1","salt":"s","encrypted_data":"d","created_at":"2024-01-01T00:00:00Z","modified_at":"2024-01-01T00:00:00Z"}`},
		{"trailing data", string(valid) + `{"x":1}`},
		{"trailing brace", string(valid) + `}`},
		{"trailing bracket", string(valid) + `]`},
		{"trailing brace no newline", strings.TrimSpace(string(valid)) + `}`},
		{"trailing garbage", string(valid) + `x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Unmarshal([]byte(tt.data))
			require.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, f)
		})
	}
}

func TestUnmarshalRejectsUnknownVersion(t *testing.T) {
	for _, v := range []string{"0", "2", "-1"} {
		data := `{"version":` + v + `,"salt":"s","encrypted_data":"d","created_at":"2024-01-01T00:00:00Z","modified_at":"2024-01-01T00:00:00Z"}`
		_, err := Unmarshal([]byte(data))
		require.ErrorIs(t, err, ErrUnsupportedVersion, "version %s", v)
	}

	// Version is checked before the remaining fields
	_, err := Unmarshal([]byte(`{"version":2}`))
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "vault.json")

	f := sampleFile()
	require.NoError(t, Write(path, f))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePermSecure), info.Mode().Perm())

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, f.EncryptedData, got.EncryptedData)
}

func TestWriteAtomicReplacesAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vault.json")

	require.NoError(t, WriteAtomic(path, []byte("first")))
	require.NoError(t, WriteAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not remain")
	assert.Equal(t, "vault.json", entries[0].Name())
}

func TestWriteAtomicFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vault.json")
	require.NoError(t, WriteAtomic(path, []byte("original")))

	// Renaming a file over a non-empty directory fails
	target := filepath.Join(dir, "occupied")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0700))
	require.Error(t, WriteAtomic(target, []byte("x")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
