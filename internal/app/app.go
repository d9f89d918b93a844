// Package app provides the output helpers of the command line tool.
package app

import (
	"fmt"
	"io"

	"github.com/retroenv/kartrom/internal/bank"
	"github.com/retroenv/kartrom/internal/detector"
	"github.com/retroenv/kartrom/internal/offset"
	"github.com/retroenv/kartrom/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// PrintInfo prints the information about the input file and the image.
func PrintInfo(logger *log.Logger, opts options.Program, info detector.Info) {
	if opts.Quiet {
		return
	}

	logger.Info("Processing image",
		log.String("file", opts.Input),
		log.String("title", info.Title),
		log.Stringer("region", info.Region),
		log.Hex("size", info.Size),
	)
	if info.HeaderSize > 0 {
		logger.Info("Image has a copier header", log.Int("size", info.HeaderSize))
	}
	if info.Relocated {
		logger.Info("Image was saved before, relocated tables are used")
	}
	if !info.ChecksumValid {
		logger.Warn("Image checksum is invalid, it will be fixed on save")
	}
}

// PrintOffsets writes all resolved offsets in table order, together with
// the bus address that the code uses to access them.
func PrintOffsets(writer io.Writer, offsets *offset.Table) error {
	if _, err := fmt.Fprintf(writer, "; offsets for region %s\n", offsets.Region()); err != nil {
		return fmt.Errorf("writing offsets header: %w", err)
	}

	for _, name := range offset.Names() {
		flat := offsets.Get(name)
		if flat < 0 || flat >= bank.Limit {
			if _, err := fmt.Fprintf(writer, "%-32s = $%06X\n", name, flat); err != nil {
				return fmt.Errorf("writing offset: %w", err)
			}
			continue
		}

		ptr := bank.FromOffset(flat)
		if _, err := fmt.Fprintf(writer, "%-32s = $%06X ; $%02X:%02X%02X\n",
			name, flat, ptr[2], ptr[1], ptr[0]); err != nil {
			return fmt.Errorf("writing offset: %w", err)
		}
	}
	return nil
}
