package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/kartrom/internal/options"
	"github.com/retroenv/kartrom/internal/region"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		want  options.Program
		swaps []options.Swap
	}{
		{
			name: "default flags",
			args: []string{"prog", "kart.sfc"},
			want: options.Program{Parameters: options.Parameters{Input: "kart.sfc"}},
		},
		{
			name: "region is normalized",
			args: []string{"prog", "-r", "EU", "kart.sfc"},
			want: options.Program{
				Parameters: options.Parameters{Input: "kart.sfc"},
				Flags:      options.Flags{Region: "eu"},
			},
		},
		{
			name: "all flags",
			args: []string{"prog", "-o", "out.sfc", "-info", "-offsets", "-recompress", "-verify", "-debug", "-q", "kart.sfc"},
			want: options.Program{
				Parameters: options.Parameters{Input: "kart.sfc", Output: "out.sfc"},
				Flags: options.Flags{
					Info:       true,
					Offsets:    true,
					Recompress: true,
					Verify:     true,
					Debug:      true,
					Quiet:      true,
				},
			},
		},
		{
			name: "slot swaps",
			args: []string{"prog", "-swap", "0,5; 3,4", "kart.sfc"},
			want: options.Program{
				Parameters: options.Parameters{Input: "kart.sfc"},
				SwapFlags:  options.SwapFlags{SwapSlots: "0,5; 3,4"},
			},
			swaps: []options.Swap{{A: 0, B: 5}, {A: 3, B: 4}},
		},
		{
			name: "batch without input",
			args: []string{"prog", "-batch", "*.sfc"},
			want: options.Program{Parameters: options.Parameters{Batch: "*.sfc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			got, swaps, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.swaps, swaps)
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{name: "missing file", args: []string{"prog"}, usage: true},
		{name: "flag after file", args: []string{"prog", "kart.sfc", "-q"}, usage: true},
		{name: "unknown region", args: []string{"prog", "-r", "br", "kart.sfc"}},
		{name: "invalid swap", args: []string{"prog", "-swap", "1", "kart.sfc"}},
		{name: "non numeric swap", args: []string{"prog", "-swap", "a,b", "kart.sfc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			_, _, err := ParseFlags()
			assert.Error(t, err)

			var usageErr *UsageError
			assert.Equal(t, tt.usage, errors.As(err, &usageErr))
		})
	}
}

func TestNormalizeOptions(t *testing.T) {
	opts := options.Program{Flags: options.Flags{Region: "Japan"}}
	assert.NoError(t, normalizeOptions(&opts))
	assert.Equal(t, "japan", opts.Region)

	opts.Region = "mars"
	err := normalizeOptions(&opts)
	assert.True(t, errors.Is(err, region.ErrUnknown))
}
