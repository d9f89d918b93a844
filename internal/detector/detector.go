// Package detector inspects a loaded image and reports its variant and
// state.
package detector

import (
	"errors"
	"fmt"

	"github.com/retroenv/kartrom/internal/checksum"
	"github.com/retroenv/kartrom/internal/hack"
	"github.com/retroenv/kartrom/internal/offset"
	"github.com/retroenv/kartrom/internal/region"
	"github.com/retroenv/kartrom/internal/rom"
	"github.com/retroenv/retrogolib/log"
)

// ErrRegionMismatch is returned when the image is not of the expected region.
var ErrRegionMismatch = errors.New("region mismatch")

// Info describes a loaded image.
type Info struct {
	Title         string
	Region        region.Region
	HeaderSize    int
	Size          int
	ChecksumValid bool
	// Relocated is set for images that were saved before and contain the
	// relocated tables.
	Relocated bool
}

// Detector inspects images.
type Detector struct {
	logger *log.Logger
}

// New creates a new image detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect returns information about the image. If expected is not empty the
// region of the image has to match it.
func (d *Detector) Detect(img *rom.Image, expected string) (Info, error) {
	info := Info{
		Title:         img.Title(),
		Region:        img.Region(),
		HeaderSize:    len(img.Header()),
		Size:          len(img.Data()),
		ChecksumValid: checksum.Valid(img.Data()),
	}

	if expected != "" {
		r, err := region.FromString(expected)
		if err != nil {
			return info, fmt.Errorf("parsing expected region: %w", err)
		}
		if r != info.Region {
			return info, fmt.Errorf("%w: image is %s, expected %s", ErrRegionMismatch, info.Region, r)
		}
	}

	offsets, err := offset.New(img.Data(), img.Region())
	if err != nil {
		return info, fmt.Errorf("resolving offsets: %w", err)
	}
	info.Relocated = hack.Applied(img.Data(), offsets)

	d.logger.Debug("Detected image",
		log.String("title", info.Title),
		log.Stringer("region", info.Region),
		log.Int("headerSize", info.HeaderSize))
	if !info.ChecksumValid {
		d.logger.Warn("Image checksum does not match its content")
	}
	return info, nil
}
