package session

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/kartrom/internal/bank"
	"github.com/retroenv/kartrom/internal/checksum"
	"github.com/retroenv/kartrom/internal/game"
	"github.com/retroenv/kartrom/internal/hack"
	"github.com/retroenv/kartrom/internal/offset"
	"github.com/retroenv/kartrom/internal/region"
	"github.com/retroenv/kartrom/internal/rom"
	"github.com/retroenv/kartrom/internal/romtest"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func open(t *testing.T, buf []byte) *Session {
	t.Helper()

	s, err := Open(log.NewTestLogger(t), bytes.NewReader(buf))
	assert.NoError(t, err)
	return s
}

func equalGames(t *testing.T, expected, actual *game.Game) {
	t.Helper()

	assert.Equal(t, expected.GPOrder, actual.GPOrder)
	assert.Equal(t, expected.BattleOrder, actual.BattleOrder)

	for i, track := range expected.Tracks {
		other := actual.Tracks[i]
		assert.Equal(t, track.Theme, other.Theme)
		assert.Equal(t, track.Map.Bytes(), other.Map.Bytes())
		assert.Equal(t, track.AI.Bytes(), other.AI.Bytes())
		assert.Equal(t, track.Overlay.Bytes(), other.Overlay.Bytes())
		assert.Equal(t, track.Objects, other.Objects)
		assert.Equal(t, track.StartPosition, other.StartPosition)
		assert.Equal(t, track.LapLine, other.LapLine)
		assert.Equal(t, track.PreviewLapLine, other.PreviewLapLine)
		assert.Equal(t, track.BattleStartPositions, other.BattleStartPositions)
	}
	for i, theme := range expected.Themes {
		other := actual.Themes[i]
		for kind, asset := range theme.Assets() {
			assert.Equal(t, asset.Bytes(), other.Assets()[kind].Bytes())
		}
		assert.Equal(t, theme.TileGenres, other.TileGenres)
	}
	assert.Equal(t, expected.CourseSelectTexts.Bytes(), actual.CourseSelectTexts.Bytes())
	assert.Equal(t, expected.DriverNameTexts.Bytes(), actual.DriverNameTexts.Bytes())
}

func TestSaveReload(t *testing.T) {
	for _, r := range region.All() {
		t.Run(r.String(), func(t *testing.T) {
			original := open(t, romtest.Build(r))
			saved, err := original.Bytes()
			assert.NoError(t, err)
			assert.Equal(t, Written, original.Phase())

			assert.Equal(t, 0, len(saved)%rom.UnitSize)
			assert.True(t, checksum.Valid(saved))

			reloaded := open(t, saved)
			assert.True(t, hack.Applied(reloaded.Image().Data(), reloaded.Offsets()))
			equalGames(t, open(t, romtest.Build(r)).Game(), reloaded.Game())
		})
	}
}

func TestSavePassThroughIdempotent(t *testing.T) {
	for _, r := range region.All() {
		t.Run(r.String(), func(t *testing.T) {
			first, err := open(t, romtest.Build(r)).Bytes()
			assert.NoError(t, err)

			second, err := open(t, first).Bytes()
			assert.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestSaveWithCopierHeader(t *testing.T) {
	s := open(t, romtest.WithHeader(romtest.Build(region.US)))
	assert.Len(t, s.Image().Header(), rom.HeaderSize)

	saved, err := s.Bytes()
	assert.NoError(t, err)
	assert.Equal(t, rom.HeaderSize, len(saved)%rom.UnitSize)
	assert.True(t, checksum.Valid(saved[rom.HeaderSize:]))
}

func TestSaveLayout(t *testing.T) {
	s := open(t, romtest.Build(region.Japan))
	g := s.Game()
	saved, err := s.Bytes()
	assert.NoError(t, err)

	offsets, err := offset.New(saved, region.Japan)
	assert.NoError(t, err)

	assert.Equal(t, g.BattleStartPositions(), saved[hack.BattleStartPositions:hack.ObjectData])
	assert.Equal(t, g.TileGenres(), saved[hack.TileGenres:hack.TileGenresEnd])

	chunks := hack.ObjectChunks(region.Japan)
	tables := g.ObjectTables()
	for i, chunk := range chunks {
		hook := offsets.Get(chunk.Hook)
		assert.Equal(t, hack.HookBytes(chunk), saved[hook:hook+hack.HookSize])
		assert.Equal(t, chunk.Routine, saved[chunk.Address:chunk.Table])
		assert.Equal(t, tables[i], saved[chunk.Table:chunk.Table+chunk.TableSize])
	}
	// routines of the japanese version read the track number from a different address
	assert.Equal(t, byte(0x22), saved[chunks[0].Address+2])

	for _, patch := range hack.TablePatches() {
		location := offsets.Get(patch.Location)
		assert.Equal(t, patch.Data, saved[location:location+len(patch.Data)])
	}

	ai := bank.Read(saved, offsets.Get(offset.TrackAIData))
	assert.Equal(t, hack.TileGenresEnd, ai)
	assert.Equal(t, byte(0x0A), saved[romSizeOffset])
}

func TestSaveTrackOrderSwap(t *testing.T) {
	s := open(t, romtest.Build(region.US))
	g := s.Game()
	first := g.Tracks[0].StartPosition
	sixth := g.Tracks[5].StartPosition

	assert.NoError(t, g.SwapGPSlots(0, 5))
	saved, err := s.Bytes()
	assert.NoError(t, err)

	order := s.Offsets().Get(offset.GPTrackOrder)
	assert.Equal(t, byte(5), saved[order])
	assert.Equal(t, byte(0), saved[order+5])

	starts := s.Offsets().Get(offset.GPTrackStartPositions)
	assert.Equal(t, sixth[:], saved[starts:starts+game.StartPositionSize])
	assert.Equal(t, first[:], saved[starts+5*game.StartPositionSize:starts+6*game.StartPositionSize])

	reloaded := open(t, saved).Game()
	assert.Equal(t, first, reloaded.Tracks[0].StartPosition)
	assert.Equal(t, sixth, reloaded.Tracks[5].StartPosition)
	slot, ok := reloaded.SlotOf(0)
	assert.True(t, ok)
	assert.Equal(t, 5, slot)
}

func TestSaveModifiedAssets(t *testing.T) {
	s := open(t, romtest.Build(region.Europe))
	g := s.Game()

	m := romtest.Map(7)
	m[0x1234] = 0xEE
	g.Tracks[3].Map.SetBytes(m)
	g.Tracks[3].AI.SetBytes([]byte{1, 1, 2, 3, 4, 5, 6, 7, 8})
	g.Themes[2].Palettes.SetBytes([]byte{0x10, 0x20, 0x30})
	g.Tracks[9].Objects.Routine = 0x77
	assert.NoError(t, g.DriverNameTexts.SetEntry(0, []byte{0x50, 0x51}))

	saved, err := s.Bytes()
	assert.NoError(t, err)

	reloaded := open(t, saved).Game()
	assert.Equal(t, m, reloaded.Tracks[3].Map.Bytes())
	assert.Equal(t, []byte{1, 1, 2, 3, 4, 5, 6, 7, 8}, reloaded.Tracks[3].AI.Bytes())
	assert.Equal(t, []byte{0x10, 0x20, 0x30}, reloaded.Themes[2].Palettes.Bytes())
	assert.Equal(t, byte(0x77), reloaded.Tracks[9].Objects.Routine)
	assert.Equal(t, []byte{0x50, 0x51}, reloaded.DriverNameTexts.Entry(0))
	assert.Equal(t, romtest.DriverNameText(1), reloaded.DriverNameTexts.Entry(1))
}

func TestSaveRecompress(t *testing.T) {
	s := open(t, romtest.Build(region.US))
	s.Game().Recompress()

	saved, err := s.Bytes()
	assert.NoError(t, err)
	equalGames(t, open(t, romtest.Build(region.US)).Game(), open(t, saved).Game())
}

func TestSaveTextCapacity(t *testing.T) {
	s := open(t, romtest.Build(region.US))
	assert.NoError(t, s.Game().DriverNameTexts.SetEntry(2, make([]byte, 0x100)))

	_, err := s.Bytes()
	assert.True(t, errors.Is(err, ErrTextCapacity))
	assert.Equal(t, Loaded, s.Phase())
}

func TestSaveReusesChunks(t *testing.T) {
	body := romtest.Build(region.US)
	offsets, err := offset.New(body, region.US)
	assert.NoError(t, err)

	// theme 1 shares the road graphics of theme 0
	table := offsets.Get(offset.ThemeRoadGraphics)
	copy(body[table+bank.PointerSize:], body[table:table+bank.PointerSize])
	checksum.Update(body)

	s := open(t, body)
	saved, err := s.Bytes()
	assert.NoError(t, err)
	assert.Equal(t, bank.Read(saved, table), bank.Read(saved, table+bank.PointerSize))
}

func TestSaveInvalidTrackData(t *testing.T) {
	body := romtest.Build(region.US)
	s := open(t, body)
	g := s.Game()
	g.Tracks[0].Map.SetBytes([]byte{1, 2, 3})

	var w bytes.Buffer
	err := s.Save(&w)
	assert.True(t, errors.Is(err, game.ErrFormat))
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, Loaded, s.Phase())
	assert.True(t, bytes.Equal(body, s.Image().Data()))

	g.Tracks[0].Map.SetBytes(romtest.Map(0))
	assert.NoError(t, s.Save(&w))
	assert.Equal(t, Written, s.Phase())
	assert.NoError(t, s.InsertData(0x7FF00, []byte{1}))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestSaveWriteError(t *testing.T) {
	body := romtest.Build(region.Japan)
	s := open(t, body)
	g := s.Game()

	err := s.Save(failingWriter{})
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, Loaded, s.Phase())
	assert.True(t, bytes.Equal(body, s.Image().Data()))
	assert.True(t, g == s.Game())

	assert.NoError(t, s.Save(&bytes.Buffer{}))
	assert.True(t, hack.Applied(s.Image().Data(), s.Offsets()))
}

type reentrantWriter struct {
	s   *Session
	err error
}

func (w *reentrantWriter) Write(p []byte) (int, error) {
	w.err = w.s.Save(&bytes.Buffer{})
	return len(p), nil
}

func TestSavePhase(t *testing.T) {
	s := open(t, romtest.Build(region.US))
	assert.Equal(t, Loaded, s.Phase())

	w := &reentrantWriter{s: s}
	assert.NoError(t, s.Save(w))
	assert.True(t, errors.Is(w.err, ErrPhase))
	assert.Equal(t, Written, s.Phase())

	// written images can be saved again
	assert.NoError(t, s.Save(&bytes.Buffer{}))
	assert.NoError(t, s.InsertData(0x7FF00, []byte{1}))
}

func TestSessionAccess(t *testing.T) {
	s := open(t, romtest.Build(region.US))

	source := bank.Read(s.Image().Data(), s.Offsets().Get(offset.TrackMaps))
	data, err := s.Decompress(source, true)
	assert.NoError(t, err)
	assert.Equal(t, romtest.Map(0), data)

	length, err := s.CompressedLength(source, true)
	assert.NoError(t, err)
	next := bank.Read(s.Image().Data(), s.Offsets().Get(offset.TrackAIData))
	assert.Equal(t, next-source, length)

	assert.Error(t, s.InsertData(len(s.Image().Data()), []byte{1}))
	assert.True(t, errors.Is(s.InsertData(-1, nil), rom.ErrBounds))
}
