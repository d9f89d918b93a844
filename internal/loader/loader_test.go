package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/kartrom/internal/region"
	"github.com/retroenv/kartrom/internal/rom"
	"github.com/retroenv/kartrom/internal/romtest"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load image file", func(t *testing.T) {
		tmpFile := createTempFile(t, romtest.Build(region.US))

		img, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.NotNil(t, img)
		assert.Equal(t, region.US, img.Region())
	})

	t.Run("load image file with copier header", func(t *testing.T) {
		tmpFile := createTempFile(t, romtest.WithHeader(romtest.Build(region.Japan)))

		img, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, img.Header(), rom.HeaderSize)
		assert.Equal(t, region.Japan, img.Region())
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		_, err := New().Load("/nonexistent/file.sfc")
		assert.Error(t, err)
	})

	t.Run("error on other cartridge", func(t *testing.T) {
		tmpFile := createTempFile(t, make([]byte, rom.MinSize))

		_, err := New().Load(tmpFile)
		assert.True(t, errors.Is(err, rom.ErrSignature))
	})
}

func TestLoadFromBytes(t *testing.T) {
	img, err := New().LoadFromBytes(romtest.Build(region.Europe))
	assert.NoError(t, err)
	assert.Equal(t, region.Europe, img.Region())

	_, err = New().LoadFromBytes([]byte{1, 2, 3})
	assert.True(t, errors.Is(err, rom.ErrHeaderSize))
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.sfc")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
