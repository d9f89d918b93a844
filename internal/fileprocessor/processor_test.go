package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/kartrom/internal/options"
	"github.com/retroenv/kartrom/internal/region"
	"github.com/retroenv/kartrom/internal/romtest"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestGenerateOutputFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "kart.sfc", want: "kart.out.sfc"},
		{input: "roms/kart (U).smc", want: "roms/kart (U).out.smc"},
		{input: "kart", want: "kart.out"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := GenerateOutputFilename(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsOutputFilename(got))
			assert.False(t, IsOutputFilename(tt.input))
		})
	}
}

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.sfc", "b.sfc", "b.out.sfc", "c.txt", "d", "d.out"} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0600))
	}

	opts := options.Program{Parameters: options.Parameters{Batch: filepath.Join(dir, "*.sfc")}}
	files, err := GetFilesToProcess(&opts)
	assert.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.sfc"), filepath.Join(dir, "b.sfc")}, files)

	opts = options.Program{Parameters: options.Parameters{Batch: filepath.Join(dir, "d*")}}
	files, err = GetFilesToProcess(&opts)
	assert.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "d")}, files)

	opts = options.Program{Parameters: options.Parameters{Input: "kart.sfc"}}
	files, err = GetFilesToProcess(&opts)
	assert.NoError(t, err)
	assert.Equal(t, []string{"kart.sfc"}, files)

	opts = options.Program{Parameters: options.Parameters{Batch: "[-"}}
	_, err = GetFilesToProcess(&opts)
	assert.Error(t, err)
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "kart.sfc")
	assert.NoError(t, os.WriteFile(input, romtest.Build(region.US), 0600))

	opts := options.Program{
		Parameters: options.Parameters{Input: input, Output: GenerateOutputFilename(input)},
		Flags:      options.Flags{Quiet: true},
	}
	logger := log.NewTestLogger(t)
	assert.NoError(t, ProcessFile(context.Background(), logger, opts, nil))

	_, err := os.Stat(filepath.Join(dir, "kart.out.sfc"))
	assert.NoError(t, err)

	PrintBanner(logger, options.Program{}, "1.0.0", "abcdef0123", "2024-01-01")
}
