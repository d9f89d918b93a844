package game

import "fmt"

// Track layout.
const (
	TrackCount       = 24
	GPTrackCount     = 20
	BattleTrackCount = TrackCount - GPTrackCount
	CupCount         = 4
	TracksPerCup     = GPTrackCount / CupCount

	MapWidth = 128
	MapSize  = MapWidth * MapWidth

	StartPositionSize        = 6
	LapLineSize              = 6
	PreviewLapLineSize       = 2
	BattleStartPositionsSize = 8

	ObjectZoneCount    = 4
	ObjectPaletteCount = 4

	AIZoneSize   = 5
	AITargetSize = 3

	OverlayItemSize     = 3
	OverlayItemMaxCount = 42
	overlayTerminator   = 0xFF
)

// ObjectSettings describes the objects placed on a track.
type ObjectSettings struct {
	Zones       [ObjectZoneCount]byte
	Graphics    byte
	Interaction byte
	Routine     byte
	Palettes    [ObjectPaletteCount]byte
	Flashing    byte
}

// Track holds all data of one track.
type Track struct {
	Index int
	Theme int // index into the theme list

	Map     *CompressedData
	AI      *Data
	Overlay *Data
	Objects ObjectSettings

	// order dependent values, stored by the slot the track occupies
	StartPosition  [StartPositionSize]byte
	LapLine        [LapLineSize]byte
	PreviewLapLine [PreviewLapLineSize]byte

	// BattleStartPositions holds the start positions of both players on battle tracks.
	BattleStartPositions [BattleStartPositionsSize]byte
}

// IsBattle returns whether the track is a battle track.
func (t *Track) IsBattle() bool {
	return t.Index >= GPTrackCount
}

// aiLength returns the size of the AI block at the start of buf.
func aiLength(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, fmt.Errorf("%w: empty AI data", ErrFormat)
	}
	length := 1 + int(buf[0])*(AIZoneSize+AITargetSize)
	if length > len(buf) {
		return 0, fmt.Errorf("%w: AI data of %d zones truncated", ErrFormat, buf[0])
	}
	return length, nil
}

// overlayLength returns the size of the overlay item list at the start of
// buf including its terminator.
func overlayLength(buf []byte) (int, error) {
	for i := 0; i <= OverlayItemMaxCount; i++ {
		offset := i * OverlayItemSize
		if offset >= len(buf) {
			return 0, fmt.Errorf("%w: overlay items not terminated", ErrFormat)
		}
		if buf[offset] == overlayTerminator {
			return offset + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: more than %d overlay items", ErrFormat, OverlayItemMaxCount)
}

// validate checks the editable data of the track against the formats the
// game reads.
func (t *Track) validate() error {
	if size := len(t.Map.Bytes()); size != MapSize {
		return fmt.Errorf("%w: track %d map has %d bytes", ErrFormat, t.Index, size)
	}

	ai := t.AI.Bytes()
	length, err := aiLength(ai)
	if err != nil {
		return fmt.Errorf("track %d: %w", t.Index, err)
	}
	if length != len(ai) {
		return fmt.Errorf("%w: track %d AI data has %d bytes, header describes %d",
			ErrFormat, t.Index, len(ai), length)
	}

	overlay := t.Overlay.Bytes()
	length, err = overlayLength(overlay)
	if err != nil {
		return fmt.Errorf("track %d: %w", t.Index, err)
	}
	if length != len(overlay) {
		return fmt.Errorf("%w: track %d overlay has %d bytes after its terminator",
			ErrFormat, t.Index, len(overlay)-length)
	}
	return nil
}
