package pkg

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGenerateRandomHex(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		s, err := GenerateRandomHex(32)
		require.NoError(t, err)
		assert.Len(t, s, 64)
		_, err = hex.DecodeString(s)
		require.NoError(t, err)
		assert.False(t, seen[s])
		seen[s] = true
	}
}

func TestBytesToString(t *testing.T) {
	want := "test"
	got := BytesToString([]byte(want))
	assert.Equal(t, want, got)
}

func TestPathExists(t *testing.T) {
	exists, err := PathExists("/invalid/path/some-dir", true)
	assert.NoError(t, err)
	assert.False(t, exists)

	tempDir := t.TempDir()
	exists, err = PathExists(tempDir, true)
	assert.NoError(t, err)
	assert.True(t, exists)
	exists, err = PathExists(tempDir, false)
	assert.NoError(t, err)
	assert.False(t, exists)

	filePath := filepath.Join(tempDir, "f.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o600))
	exists, err = PathExists(filePath, false)
	assert.NoError(t, err)
	assert.True(t, exists)
}
