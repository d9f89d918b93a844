package app

import (
	"fmt"
	"strings"
	"testing"

	"github.com/retroenv/kartrom/internal/detector"
	"github.com/retroenv/kartrom/internal/offset"
	"github.com/retroenv/kartrom/internal/options"
	"github.com/retroenv/kartrom/internal/region"
	"github.com/retroenv/kartrom/internal/romtest"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestPrintOffsets(t *testing.T) {
	offsets, err := offset.New(romtest.Build(region.US), region.US)
	assert.NoError(t, err)

	var buf strings.Builder
	assert.NoError(t, PrintOffsets(&buf, offsets))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "; offsets for region US\n"))
	assert.Contains(t, output, fmt.Sprintf("%-32s = $00C1D3 ; $81:C1D3\n", "TrackMapsPointer"))
	assert.Contains(t, output, fmt.Sprintf("%-32s = $01E000 ; $83:E000\n", "TrackMaps"))
	assert.Equal(t, len(offset.Names())+1, strings.Count(output, "\n"))
}

func TestPrintInfo(t *testing.T) {
	logger := log.NewTestLogger(t)
	info := detector.Info{
		Title:      "SYNTHETIC KART",
		Region:     region.Europe,
		HeaderSize: 0x200,
		Size:       romtest.Size,
		Relocated:  true,
	}

	PrintInfo(logger, options.Program{Parameters: options.Parameters{Input: "kart.sfc"}}, info)
	PrintInfo(logger, options.Program{Flags: options.Flags{Quiet: true}}, info)
}
