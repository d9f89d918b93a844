// Package pipeline orchestrates the load, edit, save and verify stages.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/kartrom/internal/app"
	"github.com/retroenv/kartrom/internal/detector"
	"github.com/retroenv/kartrom/internal/loader"
	"github.com/retroenv/kartrom/internal/options"
	"github.com/retroenv/kartrom/internal/rom"
	"github.com/retroenv/kartrom/internal/session"
	"github.com/retroenv/kartrom/internal/verification"
	"github.com/retroenv/kartrom/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete workflow for one image.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the complete pipeline for the input file and writes the
// saved image to the output file. Offset tables are printed to console.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, swaps []options.Swap, console io.Writer) error {
	img, err := p.loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}

	output, err := p.ExecuteWithImage(ctx, img, opts, swaps, console)
	if err != nil {
		return err
	}
	if output == nil {
		return nil
	}

	if err := writer.WriteFile(opts.Output, output); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	p.logger.Info("Saved image", log.String("file", opts.Output), log.Int("size", len(output)))
	return nil
}

// ExecuteWithImage runs the pipeline with a pre-loaded image and returns the
// saved file content. It returns nil content in info only mode.
func (p *Pipeline) ExecuteWithImage(ctx context.Context, img *rom.Image, opts options.Program,
	swaps []options.Swap, console io.Writer) ([]byte, error) {

	info, err := p.detector.Detect(img, opts.Region)
	if err != nil {
		return nil, fmt.Errorf("detecting image: %w", err)
	}
	app.PrintInfo(p.logger, opts, info)

	s, err := session.New(p.logger, img)
	if err != nil {
		return nil, fmt.Errorf("opening session: %w", err)
	}

	if opts.Offsets {
		if err := app.PrintOffsets(console, s.Offsets()); err != nil {
			return nil, fmt.Errorf("printing offsets: %w", err)
		}
	}
	if opts.Info {
		return nil, nil
	}

	if err := p.edit(s, opts, swaps); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}
	edited := s.Game()
	output, err := s.Bytes()
	if err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	if opts.Verify {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("verifying image: %w", err)
		}
		if err := verification.VerifyOutput(p.logger, edited, output); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}
	return output, nil
}

func (p *Pipeline) edit(s *session.Session, opts options.Program, swaps []options.Swap) error {
	g := s.Game()
	for _, swap := range swaps {
		if err := g.SwapGPSlots(swap.A, swap.B); err != nil {
			return fmt.Errorf("swapping slots: %w", err)
		}
		p.logger.Debug("Swapped grand prix slots", log.Int("a", swap.A), log.Int("b", swap.B))
	}

	if opts.Recompress {
		g.Recompress()
		p.logger.Debug("Marked all compressed assets for encoding")
	}
	return nil
}
