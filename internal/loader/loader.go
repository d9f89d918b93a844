// Package loader handles image file loading operations.
package loader

import (
	"bytes"
	"fmt"
	"os"

	"github.com/retroenv/kartrom/internal/rom"
)

// Loader handles loading image files from disk.
type Loader struct{}

// New creates a new image loader.
func New() *Loader {
	return &Loader{}
}

// Load reads and validates the image file at path.
func (l *Loader) Load(path string) (*rom.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	img, err := rom.Load(file)
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}
	return img, nil
}

// LoadFromBytes validates an image that is already in memory.
func (l *Loader) LoadFromBytes(data []byte) (*rom.Image, error) {
	img, err := rom.Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}
	return img, nil
}
