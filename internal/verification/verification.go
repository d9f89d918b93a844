// Package verification verifies that a saved image reloads to the same
// content and saves to the same bytes again.
package verification

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/retroenv/kartrom/internal/checksum"
	"github.com/retroenv/kartrom/internal/game"
	"github.com/retroenv/kartrom/internal/session"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/exp/slices"
)

// ErrMismatch is returned when the reloaded content differs.
var ErrMismatch = errors.New("content mismatch")

// VerifyOutput reloads the saved file content, compares its content with
// the model that was saved and checks that saving it again reproduces the
// same bytes.
func VerifyOutput(logger *log.Logger, saved *game.Game, output []byte) error {
	reloaded, err := session.Open(logger, bytes.NewReader(output))
	if err != nil {
		return fmt.Errorf("reloading saved image: %w", err)
	}

	if !checksum.Valid(reloaded.Image().Data()) {
		return fmt.Errorf("%w: checksum of saved image is invalid", ErrMismatch)
	}

	if err := compareGames(saved, reloaded.Game()); err != nil {
		return err
	}

	again, err := reloaded.Bytes()
	if err != nil {
		return fmt.Errorf("saving reloaded image: %w", err)
	}
	if err := checkBufferEqual(logger, output, again); err != nil {
		return fmt.Errorf("saving reloaded image changed it: %w", err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("%w: mismatched lengths, %d != %d", ErrMismatch, len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d offset mismatches", ErrMismatch, diffs)
}

func compareGames(expected, actual *game.Game) error {
	if expected.GPOrder != actual.GPOrder || expected.BattleOrder != actual.BattleOrder {
		return fmt.Errorf("%w: track order", ErrMismatch)
	}

	for i, track := range expected.Tracks {
		other := actual.Tracks[i]
		if track.Theme != other.Theme || track.Objects != other.Objects {
			return fmt.Errorf("%w: track %d settings", ErrMismatch, i)
		}
		if track.StartPosition != other.StartPosition || track.LapLine != other.LapLine ||
			track.PreviewLapLine != other.PreviewLapLine || track.BattleStartPositions != other.BattleStartPositions {

			return fmt.Errorf("%w: track %d positions", ErrMismatch, i)
		}
		for _, pair := range [][2]interface{ Bytes() []byte }{
			{track.Map, other.Map},
			{track.AI, other.AI},
			{track.Overlay, other.Overlay},
		} {
			if !slices.Equal(pair[0].Bytes(), pair[1].Bytes()) {
				return fmt.Errorf("%w: track %d data", ErrMismatch, i)
			}
		}
	}

	for i, theme := range expected.Themes {
		other := actual.Themes[i]
		if theme.TileGenres != other.TileGenres {
			return fmt.Errorf("%w: theme %d tile genres", ErrMismatch, i)
		}
		otherAssets := other.Assets()
		for kind, asset := range theme.Assets() {
			if !slices.Equal(asset.Bytes(), otherAssets[kind].Bytes()) {
				return fmt.Errorf("%w: %s", ErrMismatch, asset.Name())
			}
		}
	}

	if !slices.Equal(expected.CourseSelectTexts.Bytes(), actual.CourseSelectTexts.Bytes()) ||
		!slices.Equal(expected.DriverNameTexts.Bytes(), actual.DriverNameTexts.Bytes()) {

		return fmt.Errorf("%w: texts", ErrMismatch)
	}
	return nil
}
