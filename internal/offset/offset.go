// Package offset resolves the named offsets of the cartridge layout for a
// region. Offsets are literal per region, derived from earlier entries or
// read from pointers embedded in the image.
package offset

import (
	"errors"
	"fmt"

	"github.com/retroenv/kartrom/internal/bank"
	"github.com/retroenv/kartrom/internal/region"
)

// ErrPointerLocation is returned when a pointer entry points outside of the image.
var ErrPointerLocation = errors.New("pointer location outside of image")

type kind int

const (
	literal kind = iota
	derived
	pointer
)

type entry struct {
	name   Name
	kind   kind
	values [3]int // literal offsets per region, or the delta of derived entries
	base   Name   // base of derived entries, pointer location of pointer entries
}

func lit(name Name, jp, us, eu int) entry {
	return entry{name: name, kind: literal, values: [3]int{jp, us, eu}}
}

func same(name Name, offset int) entry {
	return lit(name, offset, offset, offset)
}

func rel(name, base Name, delta int) entry {
	return entry{name: name, kind: derived, base: base, values: [3]int{delta, delta, delta}}
}

func ptr(name, location Name) entry {
	return entry{name: name, kind: pointer, base: location}
}

// entries is evaluated in order, derived and pointer entries only reference
// entries listed before them.
var entries = []entry{
	same(HeaderTitle, 0x7FC0),
	rel(HeaderMapMode, HeaderTitle, 0x15),
	rel(HeaderCartType, HeaderTitle, 0x16),
	rel(HeaderROMSize, HeaderTitle, 0x17),
	rel(HeaderRAMSize, HeaderTitle, 0x18),
	rel(HeaderRegion, HeaderTitle, 0x19),
	rel(HeaderLicensee, HeaderTitle, 0x1A),
	rel(HeaderVersion, HeaderTitle, 0x1B),
	rel(HeaderChecksumComplement, HeaderTitle, 0x1C),
	rel(HeaderChecksum, HeaderTitle, 0x1E),
	rel(NativeVectors, HeaderTitle, 0x24),
	rel(EmulationVectors, HeaderTitle, 0x34),

	lit(TrackMapsPointer, 0x0C1A9, 0x0C1D3, 0x0C1EF),
	lit(TrackAIDataPointer, 0x0C1CC, 0x0C1F6, 0x0C212),
	lit(TrackOverlayItemsPointer, 0x0C1F0, 0x0C21A, 0x0C236),
	lit(TrackOverlayPatternsPointer, 0x0C213, 0x0C23D, 0x0C259),
	lit(ThemeRoadGraphicsPointer, 0x0C377, 0x0C3A1, 0x0C3BD),
	lit(ThemePalettesPointer, 0x0C39A, 0x0C3C4, 0x0C3E0),
	lit(ThemeBackgroundGraphicsPointer, 0x0C3BD, 0x0C3E7, 0x0C403),
	lit(ThemeBackgroundLayoutsPointer, 0x0C3E0, 0x0C40A, 0x0C426),
	lit(CommonTilesetGraphicsPointer, 0x0C504, 0x0C52E, 0x0C54A),
	lit(ItemIconGraphicsPointer, 0x0C527, 0x0C551, 0x0C56D),
	lit(TitleScreenGraphicsPointer, 0x0C54A, 0x0C574, 0x0C590),
	lit(PodiumGraphicsPointer, 0x0C56D, 0x0C597, 0x0C5B3),
	lit(FirstBattleTrack, 0x0CA05, 0x0CA2F, 0x0CA4B),
	lit(GPLapCount, 0x0CA2E, 0x0CA58, 0x0CA74),
	lit(ObjectHack1, 0x0D1DA, 0x0D204, 0x0D220),
	rel(ObjectHack2, ObjectHack1, 0x37),
	rel(ObjectHack3, ObjectHack2, 0x37),
	rel(ObjectHack4, ObjectHack3, 0x37),
	rel(ObjectHack5, ObjectHack4, 0x37),
	rel(ObjectHack6, ObjectHack5, 0x37),
	lit(BattleStartPositionsHack, 0x0E08B, 0x0E0B5, 0x0E0D1),
	lit(TileGenresHack, 0x0E19E, 0x0E1C8, 0x0E1E4),

	lit(GPTrackOrder, 0x1C320, 0x1C4E0, 0x1C540),
	rel(BattleTrackOrder, GPTrackOrder, 0x14),
	lit(TrackThemes, 0x1C340, 0x1C500, 0x1C560),
	lit(GPTrackStartPositions, 0x1C360, 0x1C520, 0x1C580),
	rel(TrackLapLines, GPTrackStartPositions, 0x80),
	rel(TrackPreviewLapLines, TrackLapLines, 0x80),
	rel(BattleTrackStartPositions, TrackPreviewLapLines, 0x30),
	lit(TrackObjectZones, 0x1C4C0, 0x1C680, 0x1C6E0),
	rel(TrackObjectGraphics, TrackObjectZones, 0x60),
	rel(TrackObjectInteractions, TrackObjectGraphics, 0x18),
	rel(TrackObjectRoutines, TrackObjectInteractions, 0x18),
	rel(TrackObjectPalettes, TrackObjectRoutines, 0x18),
	rel(TrackObjectFlashing, TrackObjectPalettes, 0x60),
	lit(ItemProbabilities, 0x1C640, 0x1C800, 0x1C860),
	rel(BattleItemProbabilities, ItemProbabilities, 0x80),
	lit(RankPoints, 0x1C740, 0x1C900, 0x1C960),
	lit(CupUnlockFlags, 0x1C750, 0x1C910, 0x1C970),
	lit(DriverSpeeds, 0x1C760, 0x1C920, 0x1C980),
	lit(DriverAccelerations, 0x1C780, 0x1C940, 0x1C9A0),
	lit(DriverWeights, 0x1C7A0, 0x1C960, 0x1C9C0),
	lit(TileGenres, 0x1CE40, 0x1D000, 0x1D060),
	lit(CourseSelectTexts, 0x1D640, 0x1D800, 0x1D860),
	rel(CourseSelectTextsEnd, CourseSelectTexts, 0x300),
	lit(TrackNameTexts, 0x1D940, 0x1DB00, 0x1DB60),
	rel(TrackNameTextsEnd, TrackNameTexts, 0x100),
	lit(DriverNameTexts, 0x1DA40, 0x1DC00, 0x1DC60),
	rel(DriverNameTextsEnd, DriverNameTexts, 0x100),
	lit(ModeTexts, 0x1DB40, 0x1DD00, 0x1DD60),
	rel(ModeTextsEnd, ModeTexts, 0x100),
	lit(MenuPalettes, 0x1DC40, 0x1DE00, 0x1DE60),

	ptr(TrackMaps, TrackMapsPointer),
	rel(BattleTrackMaps, TrackMaps, 20*bank.PointerSize),
	ptr(TrackAIData, TrackAIDataPointer),
	rel(BattleTrackAIData, TrackAIData, 20*bank.PointerSize),
	ptr(TrackOverlayItems, TrackOverlayItemsPointer),
	ptr(TrackOverlayPatterns, TrackOverlayPatternsPointer),
	ptr(ThemeRoadGraphics, ThemeRoadGraphicsPointer),
	ptr(ThemePalettes, ThemePalettesPointer),
	ptr(ThemeBackgroundGraphics, ThemeBackgroundGraphicsPointer),
	ptr(ThemeBackgroundLayouts, ThemeBackgroundLayoutsPointer),
	ptr(CommonTilesetGraphics, CommonTilesetGraphicsPointer),
	ptr(ItemIconGraphics, ItemIconGraphicsPointer),
	ptr(TitleScreenGraphics, TitleScreenGraphicsPointer),
	ptr(PodiumGraphics, PodiumGraphicsPointer),
}

// Table holds the resolved offsets for one image.
type Table struct {
	region  region.Region
	offsets [nameCount]int
}

// New resolves all offsets for the image and region.
func New(buf []byte, r region.Region) (*Table, error) {
	if r < region.Japan || r > region.Europe {
		return nil, fmt.Errorf("%w: %s", region.ErrUnknown, r)
	}

	t := &Table{
		region: r,
	}

	for _, e := range entries {
		switch e.kind {
		case literal:
			t.offsets[e.name] = e.values[r]

		case derived:
			t.offsets[e.name] = t.offsets[e.base] + e.values[r]

		case pointer:
			location := t.offsets[e.base]
			if location < 0 || location+bank.PointerSize > len(buf) {
				return nil, fmt.Errorf("%w: %s at 0x%X", ErrPointerLocation, e.base, location)
			}
			t.offsets[e.name] = bank.Read(buf, location)
		}
	}

	return t, nil
}

// Get returns the offset for the name.
func (t *Table) Get(name Name) int {
	return t.offsets[name]
}

// Region returns the region that the table was resolved for.
func (t *Table) Region() region.Region {
	return t.region
}
