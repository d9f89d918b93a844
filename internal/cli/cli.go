// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/kartrom/internal/options"
	"github.com/retroenv/kartrom/internal/region"
)

// ParseFlags parses command line flags and returns the program options and
// the requested slot swaps.
func ParseFlags() (options.Program, []options.Swap, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Batch == "") {
		return opts, nil, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, nil, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, nil, err
	}

	swaps, err := parseSwaps(opts.SwapSlots)
	if err != nil {
		return opts, nil, err
	}

	if opts.Batch == "" {
		opts.Input = args[0]
	}
	return opts, swaps, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: kartrom [options] <image file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after image file, please pass the image file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Region = strings.ToLower(opts.Region)
	if opts.Region == "" {
		return nil
	}
	if _, err := region.FromString(opts.Region); err != nil {
		return fmt.Errorf("invalid region option: %w", err)
	}
	return nil
}

// parseSwaps parses a list of slot pairs like "0,5;3,4".
func parseSwaps(s string) ([]options.Swap, error) {
	if s == "" {
		return nil, nil
	}

	var swaps []options.Swap
	for _, pair := range strings.Split(s, ";") {
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid slot swap '%s', expected two slots separated by a comma", pair)
		}
		a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("parsing slot swap '%s': %w", pair, err)
		}
		b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("parsing slot swap '%s': %w", pair, err)
		}
		swaps = append(swaps, options.Swap{A: a, B: b})
	}
	return swaps, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input image file")
	flags.StringVar(&opts.Output, "o", "", "name of the output image file, defaults to the input name with .out suffix")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically output file naming, for example *.sfc")
	flags.StringVar(&opts.Region, "r", "", "expected region of the image (jp/us/eu), fail if the image differs")
	flags.StringVar(&opts.SwapSlots, "swap", "", "swap the tracks of grand prix slots before saving, for example 0,5;3,4")
	flags.BoolVar(&opts.Info, "info", false, "only print information about the image, do not save")
	flags.BoolVar(&opts.Offsets, "offsets", false, "print the resolved offset table of the image")
	flags.BoolVar(&opts.Recompress, "recompress", false, "encode all compressed assets instead of copying the original data")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the saved image by reloading it and comparing the content")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
