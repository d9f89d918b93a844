package game

import "github.com/retroenv/kartrom/internal/offset"

// objectTableSizes are the sizes of the object tables in the order
// zones, graphics, interactions, routines, palettes and flashing.
var objectTableSizes = [...]int{
	TrackCount * ObjectZoneCount,
	TrackCount,
	TrackCount,
	TrackCount,
	TrackCount * ObjectPaletteCount,
	TrackCount,
}

// ObjectTableOffsets returns the original offsets of the object tables.
func ObjectTableOffsets(offsets *offset.Table) []int {
	return []int{
		offsets.Get(offset.TrackObjectZones),
		offsets.Get(offset.TrackObjectGraphics),
		offsets.Get(offset.TrackObjectInteractions),
		offsets.Get(offset.TrackObjectRoutines),
		offsets.Get(offset.TrackObjectPalettes),
		offsets.Get(offset.TrackObjectFlashing),
	}
}

func objectSettings(tables [][]byte, track int) ObjectSettings {
	var o ObjectSettings
	copy(o.Zones[:], tables[0][track*ObjectZoneCount:])
	o.Graphics = tables[1][track]
	o.Interaction = tables[2][track]
	o.Routine = tables[3][track]
	copy(o.Palettes[:], tables[4][track*ObjectPaletteCount:])
	o.Flashing = tables[5][track]
	return o
}

// ObjectTables encodes the object settings of all tracks into the six
// object tables.
func (g *Game) ObjectTables() [][]byte {
	tables := make([][]byte, len(objectTableSizes))
	for i, size := range objectTableSizes {
		tables[i] = make([]byte, size)
	}

	for i, track := range g.Tracks {
		o := track.Objects
		copy(tables[0][i*ObjectZoneCount:], o.Zones[:])
		tables[1][i] = o.Graphics
		tables[2][i] = o.Interaction
		tables[3][i] = o.Routine
		copy(tables[4][i*ObjectPaletteCount:], o.Palettes[:])
		tables[5][i] = o.Flashing
	}
	return tables
}

// OrderBytes encodes the grand prix and battle track order.
func (g *Game) OrderBytes() (gp, battle []byte) {
	gp = make([]byte, GPTrackCount)
	for i, index := range g.GPOrder {
		gp[i] = byte(index)
	}
	battle = make([]byte, BattleTrackCount)
	for i, index := range g.BattleOrder {
		battle[i] = byte(index)
	}
	return gp, battle
}

// ThemeBytes encodes the theme index of every track.
func (g *Game) ThemeBytes() []byte {
	buf := make([]byte, TrackCount)
	for i, track := range g.Tracks {
		buf[i] = byte(track.Theme)
	}
	return buf
}

// SlotTables encodes the grand prix slot indexed tables: start positions,
// lap lines and preview lap lines.
func (g *Game) SlotTables() (starts, lapLines, previews []byte) {
	starts = make([]byte, 0, GPTrackCount*StartPositionSize)
	lapLines = make([]byte, 0, GPTrackCount*LapLineSize)
	previews = make([]byte, 0, GPTrackCount*PreviewLapLineSize)

	for _, index := range g.GPOrder {
		track := g.Tracks[index]
		starts = append(starts, track.StartPosition[:]...)
		lapLines = append(lapLines, track.LapLine[:]...)
		previews = append(previews, track.PreviewLapLine[:]...)
	}
	return starts, lapLines, previews
}

// BattleStartPositions encodes the start positions of the battle slots.
func (g *Game) BattleStartPositions() []byte {
	buf := make([]byte, 0, BattleTrackCount*BattleStartPositionsSize)
	for _, index := range g.BattleOrder {
		buf = append(buf, g.Tracks[index].BattleStartPositions[:]...)
	}
	return buf
}

// TileGenres encodes the tile genre tables of all themes.
func (g *Game) TileGenres() []byte {
	buf := make([]byte, 0, ThemeCount*TileGenreSize)
	for _, theme := range g.Themes {
		buf = append(buf, theme.TileGenres[:]...)
	}
	return buf
}
