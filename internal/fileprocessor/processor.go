// Package fileprocessor handles file selection and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/kartrom/internal/options"
	"github.com/retroenv/kartrom/internal/pipeline"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

const outputSuffix = ".out"

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, swaps []options.Swap) error {
	p := pipeline.New(logger)
	if err := p.Execute(ctx, opts, swaps, os.Stdout); err != nil {
		return fmt.Errorf("processing %s: %w", opts.Input, err)
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch == "" {
		return []string{opts.Input}, nil
	}

	matches, err := filepath.Glob(opts.Batch)
	if err != nil {
		return nil, fmt.Errorf("globbing batch pattern: %w", err)
	}

	// skip output files of earlier runs
	files := matches[:0]
	for _, match := range matches {
		if !IsOutputFilename(match) {
			files = append(files, match)
		}
	}
	return files, nil
}

// GenerateOutputFilename generates output filename for a given input file
func GenerateOutputFilename(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + outputSuffix + ext
}

// IsOutputFilename returns whether the file name was generated by
// GenerateOutputFilename.
func IsOutputFilename(file string) bool {
	ext := filepath.Ext(file)
	return ext == outputSuffix || strings.HasSuffix(file[:len(file)-len(ext)], outputSuffix)
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("kartrom", log.String("version", buildinfo.Version(version, commit, date)))
}
