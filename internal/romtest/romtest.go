// Package romtest builds synthetic cartridge images that follow the layout
// of the real cartridge, for use in tests.
package romtest

import (
	"fmt"
	"sync"

	"github.com/retroenv/kartrom/internal/bank"
	"github.com/retroenv/kartrom/internal/checksum"
	"github.com/retroenv/kartrom/internal/codec"
	"github.com/retroenv/kartrom/internal/game"
	"github.com/retroenv/kartrom/internal/offset"
	"github.com/retroenv/kartrom/internal/region"
)

const (
	// Size is the body size of built images.
	Size = 0x80000

	// AssetBase is the offset that compressed assets are stored from.
	AssetBase = 0x40000

	pointerTableBase = 0x1E000
	pointerTableStep = 0x80

	themeAssetSize = 0x120
)

type builder struct {
	buf     []byte
	offsets *offset.Table
	next    int // offset of the next asset
}

var (
	cacheMu sync.Mutex
	cache   = map[region.Region][]byte{}
)

// Build returns the body of a synthetic image for the region. Every byte of
// content is produced by the generator functions of this package. The
// returned buffer can be modified by the caller.
func Build(r region.Region) []byte {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	body, ok := cache[r]
	if !ok {
		body = build(r)
		cache[r] = body
	}
	buf := make([]byte, len(body))
	copy(buf, body)
	return buf
}

func build(r region.Region) []byte {
	b := &builder{
		buf:  make([]byte, Size),
		next: AssetBase,
	}
	b.header(r)
	b.pointerTables(r)

	var err error
	b.offsets, err = offset.New(b.buf, r)
	if err != nil {
		panic(fmt.Sprintf("resolving offsets: %v", err))
	}

	b.tables()
	b.assets()
	b.texts()
	b.code()

	checksum.Update(b.buf)
	return b.buf
}

// WithHeader returns the body prefixed by an empty copier header.
func WithHeader(body []byte) []byte {
	buf := make([]byte, 0x200, 0x200+len(body))
	return append(buf, body...)
}

func (b *builder) header(r region.Region) {
	copy(b.buf[0x7FC0:], "SYNTHETIC KART       ")
	b.buf[0x7FD5] = 0x20
	b.buf[0x7FD6] = 0x05
	b.buf[0x7FD7] = 0x09
	b.buf[0x7FD8] = 0x01
	b.buf[0x7FD9] = r.Byte()
	b.buf[0x7FDA] = 0x01
}

// pointerTables writes the code pointers that reference the pointer tables.
func (b *builder) pointerTables(r region.Region) {
	locations, err := offset.New(b.buf, r)
	if err != nil {
		panic(fmt.Sprintf("resolving offsets: %v", err))
	}

	pointers := []offset.Name{
		offset.TrackMapsPointer,
		offset.TrackAIDataPointer,
		offset.TrackOverlayItemsPointer,
		offset.TrackOverlayPatternsPointer,
		offset.ThemeRoadGraphicsPointer,
		offset.ThemePalettesPointer,
		offset.ThemeBackgroundGraphicsPointer,
		offset.ThemeBackgroundLayoutsPointer,
		offset.CommonTilesetGraphicsPointer,
		offset.ItemIconGraphicsPointer,
		offset.TitleScreenGraphicsPointer,
		offset.PodiumGraphicsPointer,
	}
	for i, name := range pointers {
		bank.Write(b.buf, locations.Get(name), pointerTableBase+i*pointerTableStep)
	}
}

func (b *builder) tables() {
	for slot := 0; slot < game.GPTrackCount; slot++ {
		b.buf[b.offsets.Get(offset.GPTrackOrder)+slot] = byte(slot)
	}
	for slot := 0; slot < game.BattleTrackCount; slot++ {
		b.buf[b.offsets.Get(offset.BattleTrackOrder)+slot] = byte(game.GPTrackCount + slot)
	}
	for track := 0; track < game.TrackCount; track++ {
		b.buf[b.offsets.Get(offset.TrackThemes)+track] = byte(track % game.ThemeCount)
	}

	fill(b.buf[b.offsets.Get(offset.GPTrackStartPositions):], game.GPTrackCount*game.StartPositionSize, 0x10)
	fill(b.buf[b.offsets.Get(offset.TrackLapLines):], game.GPTrackCount*game.LapLineSize, 0x40)
	fill(b.buf[b.offsets.Get(offset.TrackPreviewLapLines):], game.GPTrackCount*game.PreviewLapLineSize, 0x90)
	fill(b.buf[b.offsets.Get(offset.BattleTrackStartPositions):], game.BattleTrackCount*game.BattleStartPositionsSize, 0xC0)

	objects := []struct {
		name offset.Name
		size int
	}{
		{offset.TrackObjectZones, game.TrackCount * game.ObjectZoneCount},
		{offset.TrackObjectGraphics, game.TrackCount},
		{offset.TrackObjectInteractions, game.TrackCount},
		{offset.TrackObjectRoutines, game.TrackCount},
		{offset.TrackObjectPalettes, game.TrackCount * game.ObjectPaletteCount},
		{offset.TrackObjectFlashing, game.TrackCount},
	}
	for i, object := range objects {
		fill(b.buf[b.offsets.Get(object.name):], object.size, byte(0x20*i+1))
	}

	genres := b.offsets.Get(offset.TileGenres)
	for i := 0; i < game.ThemeCount*game.TileGenreSize; i++ {
		b.buf[genres+i] = byte(i % 7)
	}
}

func (b *builder) assets() {
	for track := 0; track < game.TrackCount; track++ {
		b.compressed(offset.TrackMaps, track, Map(track), true)
		b.raw(offset.TrackAIData, track, AI(track))
		b.raw(offset.TrackOverlayItems, track, Overlay(track))
	}

	themeTables := []offset.Name{
		offset.ThemeRoadGraphics,
		offset.ThemePalettes,
		offset.ThemeBackgroundGraphics,
		offset.ThemeBackgroundLayouts,
	}
	for theme := 0; theme < game.ThemeCount; theme++ {
		for kind, table := range themeTables {
			b.compressed(table, theme, ThemeAsset(theme, kind), false)
		}
	}

	shared := []offset.Name{
		offset.CommonTilesetGraphics,
		offset.ItemIconGraphics,
		offset.TitleScreenGraphics,
		offset.PodiumGraphics,
	}
	for i, table := range shared {
		b.compressed(table, 0, ThemeAsset(game.ThemeCount+i, 0), false)
	}
}

// compressed stores data compressed and writes its pointer into entry index
// of the pointer table.
func (b *builder) compressed(table offset.Name, index int, data []byte, twice bool) {
	options := codec.DefaultOptions()
	options.Split = twice
	b.raw(table, index, codec.Compress(data, options))
}

func (b *builder) raw(table offset.Name, index int, data []byte) {
	bank.Write(b.buf, b.offsets.Get(table)+index*bank.PointerSize, b.next)
	copy(b.buf[b.next:], data)
	b.next += len(data)
}

func (b *builder) texts() {
	course := b.offsets.Get(offset.CourseSelectTexts)
	for i := 0; i < game.CourseSelectTextCount; i++ {
		course += copy(b.buf[course:], CourseSelectText(i))
		b.buf[course] = 0xFF
		course++
	}

	driver := b.offsets.Get(offset.DriverNameTexts)
	for i := 0; i < game.DriverNameTextCount; i++ {
		driver += copy(b.buf[driver:], DriverNameText(i))
		b.buf[driver] = 0xFF
		driver++
	}
}

// code writes the instructions that the binary patches modify.
func (b *builder) code() {
	b.buf[b.offsets.Get(offset.BattleStartPositionsHack)-1] = 0xBF
	b.buf[b.offsets.Get(offset.TileGenresHack)-1] = 0xBF
}

func fill(buf []byte, length int, seed byte) {
	for i := 0; i < length; i++ {
		buf[i] = seed + byte(i)
	}
}

// Map returns the map of a track.
func Map(track int) []byte {
	data := make([]byte, game.MapSize)
	for i := range data {
		x, y := i%game.MapWidth, i/game.MapWidth
		switch {
		case x < 4 || y < 4:
			data[i] = 0x00
		case (x+track)%16 < 3:
			data[i] = byte(0x40 + track)
		default:
			data[i] = byte((x*y + track) % 9)
		}
	}
	return data
}

// AI returns the AI data of a track.
func AI(track int) []byte {
	zones := 2 + track%3
	data := []byte{byte(zones)}
	for i := 0; i < zones*(game.AIZoneSize+game.AITargetSize); i++ {
		data = append(data, byte(track*16+i))
	}
	return data
}

// Overlay returns the overlay items of a track.
func Overlay(track int) []byte {
	var data []byte
	for i := 0; i < track%4+1; i++ {
		data = append(data, byte(i), byte(track), byte(0x30+i))
	}
	return append(data, 0xFF)
}

// ThemeAsset returns the content of one of the compressed assets of a theme,
// kind selects road graphics, palettes, background graphics or layout.
func ThemeAsset(theme, kind int) []byte {
	data := make([]byte, themeAssetSize+theme*8)
	for i := range data {
		if i%32 < 12 {
			data[i] = byte(kind)
		} else {
			data[i] = byte(i*theme + kind)
		}
	}
	return data
}

// CourseSelectText returns the encoded course select text of a track.
func CourseSelectText(track int) []byte {
	return []byte{0x20, 0x21, byte(0x30 + track/10), byte(0x30 + track%10)}
}

// DriverNameText returns the encoded name of a driver.
func DriverNameText(driver int) []byte {
	return []byte{0x40, byte(0x41 + driver), 0x42}
}
