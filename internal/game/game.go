// Package game contains the editable model of the cartridge content that
// the session loads from and saves into an image.
package game

import (
	"errors"
	"fmt"

	"github.com/retroenv/kartrom/internal/bank"
	"github.com/retroenv/kartrom/internal/hack"
	"github.com/retroenv/kartrom/internal/offset"
)

// Model errors.
var (
	ErrFormat = errors.New("invalid data format")
	ErrRange  = errors.New("index out of range")
	ErrOrder  = errors.New("invalid track order")
)

// Source provides raw and decompressed access to an image.
type Source interface {
	Read(offset, length int) ([]byte, error)
	Decompress(offset int, twice bool) ([]byte, error)
}

// Game is the loaded cartridge content.
type Game struct {
	Tracks [TrackCount]*Track
	Themes [ThemeCount]*Theme

	// GPOrder maps every grand prix slot to the index of the track played in it.
	GPOrder [GPTrackCount]int
	// BattleOrder maps every battle slot to the index of its track.
	BattleOrder [BattleTrackCount]int

	CourseSelectTexts *TextTable
	DriverNameTexts   *TextTable

	events *Events
}

type loader struct {
	src       Source
	offsets   *offset.Table
	relocated bool
	events    *Events
}

// Load reads the model from the image. If relocated is set the image was
// saved before and contains the relocated object tables, battle start
// positions and tile genres.
func Load(src Source, offsets *offset.Table, relocated bool) (*Game, error) {
	return LoadWithEvents(src, offsets, relocated, &Events{})
}

// LoadWithEvents reads the model like Load and keeps the passed event
// subscribers, used to reload a model after a save.
func LoadWithEvents(src Source, offsets *offset.Table, relocated bool, events *Events) (*Game, error) {
	l := &loader{
		src:       src,
		offsets:   offsets,
		relocated: relocated,
		events:    events,
	}
	g := &Game{
		events: events,
	}

	steps := []func(*Game) error{
		l.loadOrder,
		l.loadThemes,
		l.loadTracks,
		l.loadSlotData,
		l.loadObjects,
		l.loadTexts,
	}
	for _, step := range steps {
		if err := step(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// read returns length bytes of a named asset.
func (l *loader) read(name string, offset, length int) ([]byte, error) {
	data, err := l.src.Read(offset, length)
	if err != nil {
		return nil, fmt.Errorf("loading %s at 0x%X: %w", name, offset, err)
	}
	return data, nil
}

// pointer reads the flat offset that the pointer table entry index refers to.
func (l *loader) pointer(table offset.Name, index int) (int, error) {
	location := l.offsets.Get(table) + index*bank.PointerSize
	buf, err := l.read(table.String()+" pointer", location, bank.PointerSize)
	if err != nil {
		return 0, err
	}
	return bank.Read(buf, 0), nil
}

func (l *loader) compressed(name string, table offset.Name, index int, twice bool) (*CompressedData, error) {
	source, err := l.pointer(table, index)
	if err != nil {
		return nil, err
	}
	data, err := l.src.Decompress(source, twice)
	if err != nil {
		return nil, fmt.Errorf("loading %s at 0x%X: %w", name, source, err)
	}
	return newCompressedData(name, data, source, twice, l.events), nil
}

func (l *loader) loadOrder(g *Game) error {
	order, err := l.read("grand prix track order", l.offsets.Get(offset.GPTrackOrder), GPTrackCount)
	if err != nil {
		return err
	}
	for i, track := range order {
		g.GPOrder[i] = int(track)
	}

	order, err = l.read("battle track order", l.offsets.Get(offset.BattleTrackOrder), BattleTrackCount)
	if err != nil {
		return err
	}
	for i, track := range order {
		g.BattleOrder[i] = int(track)
	}

	if err := g.validateOrder(); err != nil {
		return fmt.Errorf("loading track order: %w", err)
	}
	return nil
}

func (l *loader) loadThemes(g *Game) error {
	genres := l.offsets.Get(offset.TileGenres)
	if l.relocated {
		genres = hack.TileGenres
	}

	for i := range g.Themes {
		theme := &Theme{Index: i}
		assets := []struct {
			target **CompressedData
			table  offset.Name
			name   string
		}{
			{&theme.RoadGraphics, offset.ThemeRoadGraphics, "road graphics"},
			{&theme.Palettes, offset.ThemePalettes, "palettes"},
			{&theme.BackgroundGraphics, offset.ThemeBackgroundGraphics, "background graphics"},
			{&theme.BackgroundLayout, offset.ThemeBackgroundLayouts, "background layout"},
		}
		for _, asset := range assets {
			data, err := l.compressed(fmt.Sprintf("theme %d %s", i, asset.name), asset.table, i, false)
			if err != nil {
				return err
			}
			*asset.target = data
		}

		buf, err := l.read(fmt.Sprintf("theme %d tile genres", i), genres+i*TileGenreSize, TileGenreSize)
		if err != nil {
			return err
		}
		copy(theme.TileGenres[:], buf)
		g.Themes[i] = theme
	}
	return nil
}

func (l *loader) loadTracks(g *Game) error {
	themes, err := l.read("track themes", l.offsets.Get(offset.TrackThemes), TrackCount)
	if err != nil {
		return err
	}

	for i := range g.Tracks {
		if int(themes[i]) >= ThemeCount {
			return fmt.Errorf("%w: track %d uses theme %d", ErrFormat, i, themes[i])
		}
		track := &Track{
			Index: i,
			Theme: int(themes[i]),
		}

		track.Map, err = l.compressed(fmt.Sprintf("track %d map", i), offset.TrackMaps, i, true)
		if err != nil {
			return err
		}
		if len(track.Map.Bytes()) != MapSize {
			return fmt.Errorf("%w: track %d map has %d bytes", ErrFormat, i, len(track.Map.Bytes()))
		}

		if track.AI, err = l.loadAI(i); err != nil {
			return err
		}
		if track.Overlay, err = l.loadOverlay(i); err != nil {
			return err
		}
		g.Tracks[i] = track
	}
	return nil
}

func (l *loader) loadAI(track int) (*Data, error) {
	name := fmt.Sprintf("track %d AI", track)
	start, err := l.pointer(offset.TrackAIData, track)
	if err != nil {
		return nil, err
	}
	header, err := l.read(name, start, 1)
	if err != nil {
		return nil, err
	}
	data, err := l.read(name, start, 1+int(header[0])*(AIZoneSize+AITargetSize))
	if err != nil {
		return nil, err
	}
	if _, err := aiLength(data); err != nil {
		return nil, fmt.Errorf("loading %s at 0x%X: %w", name, start, err)
	}
	return newData(name, data, l.events), nil
}

func (l *loader) loadOverlay(track int) (*Data, error) {
	name := fmt.Sprintf("track %d overlay items", track)
	start, err := l.pointer(offset.TrackOverlayItems, track)
	if err != nil {
		return nil, err
	}

	var data []byte
	for i := 0; i <= OverlayItemMaxCount; i++ {
		first, err := l.read(name, start+len(data), 1)
		if err != nil {
			return nil, err
		}
		if first[0] == overlayTerminator {
			data = append(data, overlayTerminator)
			return newData(name, data, l.events), nil
		}
		item, err := l.read(name, start+len(data), OverlayItemSize)
		if err != nil {
			return nil, err
		}
		data = append(data, item...)
	}
	return nil, fmt.Errorf("loading %s at 0x%X: %w: more than %d items", name, start, ErrFormat, OverlayItemMaxCount)
}

// loadSlotData reads the tables that are indexed by grand prix or battle
// slot and assigns the values to the track occupying the slot.
func (l *loader) loadSlotData(g *Game) error {
	starts, err := l.read("start positions", l.offsets.Get(offset.GPTrackStartPositions), GPTrackCount*StartPositionSize)
	if err != nil {
		return err
	}
	lapLines, err := l.read("lap lines", l.offsets.Get(offset.TrackLapLines), GPTrackCount*LapLineSize)
	if err != nil {
		return err
	}
	previews, err := l.read("preview lap lines", l.offsets.Get(offset.TrackPreviewLapLines), GPTrackCount*PreviewLapLineSize)
	if err != nil {
		return err
	}

	for slot, index := range g.GPOrder {
		track := g.Tracks[index]
		copy(track.StartPosition[:], starts[slot*StartPositionSize:])
		copy(track.LapLine[:], lapLines[slot*LapLineSize:])
		copy(track.PreviewLapLine[:], previews[slot*PreviewLapLineSize:])
	}

	battle := l.offsets.Get(offset.BattleTrackStartPositions)
	if l.relocated {
		battle = hack.BattleStartPositions
	}
	positions, err := l.read("battle start positions", battle, BattleTrackCount*BattleStartPositionsSize)
	if err != nil {
		return err
	}
	for slot, index := range g.BattleOrder {
		copy(g.Tracks[index].BattleStartPositions[:], positions[slot*BattleStartPositionsSize:])
	}
	return nil
}

func (l *loader) loadObjects(g *Game) error {
	tables := ObjectTableOffsets(l.offsets)
	if l.relocated {
		for i, chunk := range hack.ObjectChunks(l.offsets.Region()) {
			tables[i] = chunk.Table
		}
	}

	buffers := make([][]byte, len(tables))
	for i, start := range tables {
		buf, err := l.read(fmt.Sprintf("object table %d", i), start, objectTableSizes[i])
		if err != nil {
			return err
		}
		buffers[i] = buf
	}

	for i, track := range g.Tracks {
		track.Objects = objectSettings(buffers, i)
	}
	return nil
}

func (l *loader) loadTexts(g *Game) error {
	texts := []struct {
		target     **TextTable
		start, end offset.Name
		count      int
	}{
		{&g.CourseSelectTexts, offset.CourseSelectTexts, offset.CourseSelectTextsEnd, CourseSelectTextCount},
		{&g.DriverNameTexts, offset.DriverNameTexts, offset.DriverNameTextsEnd, DriverNameTextCount},
	}

	for _, text := range texts {
		start := l.offsets.Get(text.start)
		buf, err := l.read(text.start.String(), start, l.offsets.Get(text.end)-start)
		if err != nil {
			return err
		}
		table, err := parseTexts(text.start, text.end, buf, text.count, l.events)
		if err != nil {
			return fmt.Errorf("loading %s at 0x%X: %w", text.start, start, err)
		}
		*text.target = table
	}
	return nil
}

// Subscribe registers a function that is called with the name of every
// asset that changes.
func (g *Game) Subscribe(fn func(name string)) {
	g.events.Subscribe(fn)
}

// Events returns the subscribers of the model.
func (g *Game) Events() *Events {
	return g.events
}

// Validate checks that the grand prix order is a permutation of the grand
// prix tracks and the battle order one of the battle tracks. Track data has
// to be decodable by the game.
func (g *Game) Validate() error {
	if err := g.validateOrder(); err != nil {
		return err
	}
	for _, track := range g.Tracks {
		if err := track.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) validateOrder() error {
	var seen [TrackCount]bool

	for slot, index := range g.GPOrder {
		if index < 0 || index >= GPTrackCount {
			return fmt.Errorf("%w: grand prix slot %d has track %d", ErrOrder, slot, index)
		}
		if seen[index] {
			return fmt.Errorf("%w: track %d used twice", ErrOrder, index)
		}
		seen[index] = true
	}

	for slot, index := range g.BattleOrder {
		if index < GPTrackCount || index >= TrackCount {
			return fmt.Errorf("%w: battle slot %d has track %d", ErrOrder, slot, index)
		}
		if seen[index] {
			return fmt.Errorf("%w: track %d used twice", ErrOrder, index)
		}
		seen[index] = true
	}
	return nil
}

// SwapGPSlots exchanges the tracks of two grand prix slots. The slot
// dependent start positions and lap lines stay with their track.
func (g *Game) SwapGPSlots(a, b int) error {
	if a < 0 || a >= GPTrackCount || b < 0 || b >= GPTrackCount {
		return fmt.Errorf("%w: grand prix slots %d and %d", ErrRange, a, b)
	}
	g.GPOrder[a], g.GPOrder[b] = g.GPOrder[b], g.GPOrder[a]
	g.events.publish("grand prix track order")
	return nil
}

// CompressedAssets returns all compressed assets, track maps first.
func (g *Game) CompressedAssets() []*CompressedData {
	assets := make([]*CompressedData, 0, TrackCount+ThemeCount*4)
	for _, track := range g.Tracks {
		assets = append(assets, track.Map)
	}
	for _, theme := range g.Themes {
		assets = append(assets, theme.Assets()...)
	}
	return assets
}

// Recompress marks all compressed assets as modified, the next save encodes
// them instead of copying the original chunks.
func (g *Game) Recompress() {
	for _, asset := range g.CompressedAssets() {
		asset.SetBytes(asset.Bytes())
	}
}

// SlotOf returns the grand prix slot that a track is played in.
func (g *Game) SlotOf(track int) (int, bool) {
	for slot, index := range g.GPOrder {
		if index == track {
			return slot, true
		}
	}
	return 0, false
}
