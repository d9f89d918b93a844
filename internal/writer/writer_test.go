package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kart.out.sfc")

	assert.NoError(t, WriteFile(path, []byte{1, 2, 3}))
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	// existing files are replaced
	assert.NoError(t, WriteFile(path, []byte{4}))
	data, err = os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte{4}, data)

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "kart.sfc")
	assert.Error(t, WriteFile(path, []byte{1}))
}
