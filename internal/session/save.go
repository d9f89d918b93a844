package session

import (
	"fmt"
	"io"

	"github.com/retroenv/kartrom/internal/bank"
	"github.com/retroenv/kartrom/internal/checksum"
	"github.com/retroenv/kartrom/internal/codec"
	"github.com/retroenv/kartrom/internal/game"
	"github.com/retroenv/kartrom/internal/hack"
	"github.com/retroenv/kartrom/internal/offset"
	"github.com/retroenv/kartrom/internal/rom"
	"github.com/retroenv/kartrom/internal/savebuffer"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/exp/slices"
)

const romSizeOffset = 0x7FD7

// saver assembles a new image body. The session image is not modified
// while a save is in progress and serves as snapshot for unchanged chunks.
type saver struct {
	logger  *log.Logger
	img     *rom.Image
	offsets *offset.Table
	game    *game.Game

	out []byte
	buf *savebuffer.Buffer
}

// Save relocates the content into a new image, updates its checksum and
// writes it including the copier header to w. The new image is parsed
// before it is written, it replaces the session image only after a
// successful write. On error the session keeps its image and phase.
func (s *Session) Save(w io.Writer) error {
	if s.phase != Loaded && s.phase != Written {
		return fmt.Errorf("%w: saving while %s", ErrPhase, s.phase)
	}
	previous := s.phase

	s.phase = Relocating
	out, err := s.assemble()
	if err != nil {
		s.phase = previous
		return err
	}

	checksum.Update(out)
	s.phase = Checksummed

	buf := make([]byte, 0, len(s.img.Header())+len(out))
	buf = append(buf, s.img.Header()...)
	buf = append(buf, out...)

	saved, err := s.parse(buf)
	if err != nil {
		s.phase = previous
		return fmt.Errorf("checking saved image: %w", err)
	}

	if _, err := w.Write(buf); err != nil {
		s.phase = previous
		return fmt.Errorf("writing image: %w", err)
	}

	s.img.Replace(out)
	s.offsets = saved.offsets
	s.game = saved.game
	s.phase = Written
	return nil
}

type parsedImage struct {
	offsets *offset.Table
	game    *game.Game
}

// parse loads the file content of a saved image like a new session would.
// The model keeps the subscribers of the current one.
func (s *Session) parse(buf []byte) (parsedImage, error) {
	img, err := rom.New(buf)
	if err != nil {
		return parsedImage{}, err
	}
	offsets, err := offset.New(img.Data(), img.Region())
	if err != nil {
		return parsedImage{}, fmt.Errorf("resolving offsets: %w", err)
	}
	if !hack.Applied(img.Data(), offsets) {
		return parsedImage{}, fmt.Errorf("%w: object hooks missing", ErrPatch)
	}
	g, err := game.LoadWithEvents(img, offsets, true, s.game.Events())
	if err != nil {
		return parsedImage{}, fmt.Errorf("loading game data: %w", err)
	}
	return parsedImage{offsets: offsets, game: g}, nil
}

// Bytes saves the content like Save and returns the written file content.
func (s *Session) Bytes() ([]byte, error) {
	w := &sliceWriter{}
	if err := s.Save(w); err != nil {
		return nil, err
	}
	return w.data, nil
}

type sliceWriter struct {
	data []byte
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (s *Session) assemble() ([]byte, error) {
	if err := s.game.Validate(); err != nil {
		return nil, fmt.Errorf("validating game data: %w", err)
	}

	sv := &saver{
		logger:  s.logger,
		img:     s.img,
		offsets: s.offsets,
		game:    s.game,
		out:     slices.Clone(s.img.Data()),
		buf:     savebuffer.New(hack.RelocationBase, bank.Limit),
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"writing track order", sv.writeOrder},
		{"relocating battle start positions", sv.relocateBattleStartPositions},
		{"relocating object data", sv.relocateObjects},
		{"relocating tile genres", sv.relocateTileGenres},
		{"patching table reads", sv.patchTables},
		{"relocating AI data", sv.relocateAI},
		{"relocating tracks", sv.relocateTracks},
		{"relocating themes", sv.relocateThemes},
		{"writing texts", sv.writeTexts},
		{"merging relocation area", sv.merge},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	s.logger.Debug("Assembled image",
		log.Hex("relocationEnd", sv.buf.Index()),
		log.Hex("size", len(sv.out)))
	return sv.out, nil
}

// write stores data in place at offset of the new image.
func (sv *saver) write(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > len(sv.out) {
		return fmt.Errorf("%w: 0x%X+%d", rom.ErrBounds, offset, len(data))
	}
	copy(sv.out[offset:], data)
	return nil
}

// writeOrder writes the track order and all tables that are indexed by
// slot in place.
func (sv *saver) writeOrder() error {
	gp, battle := sv.game.OrderBytes()
	starts, lapLines, previews := sv.game.SlotTables()

	writes := []struct {
		name offset.Name
		data []byte
	}{
		{offset.GPTrackOrder, gp},
		{offset.BattleTrackOrder, battle},
		{offset.TrackThemes, sv.game.ThemeBytes()},
		{offset.GPTrackStartPositions, starts},
		{offset.TrackLapLines, lapLines},
		{offset.TrackPreviewLapLines, previews},
	}
	for _, w := range writes {
		if err := sv.write(sv.offsets.Get(w.name), w.data); err != nil {
			return fmt.Errorf("writing %s: %w", w.name, err)
		}
	}
	return nil
}

func (sv *saver) relocateBattleStartPositions() error {
	if err := sv.buf.Expect(hack.BattleStartPositions); err != nil {
		return err
	}
	_, err := sv.buf.Add(sv.game.BattleStartPositions())
	return err
}

// relocateObjects appends every object table preceded by the routine that
// reads it and redirects the original code to the routine.
func (sv *saver) relocateObjects() error {
	tables := sv.game.ObjectTables()

	for i, chunk := range hack.ObjectChunks(sv.offsets.Region()) {
		if len(tables[i]) != chunk.TableSize {
			return fmt.Errorf("%w: object table %d has 0x%X bytes, expected 0x%X",
				savebuffer.ErrLayout, i, len(tables[i]), chunk.TableSize)
		}

		if err := sv.buf.Expect(chunk.Address); err != nil {
			return err
		}
		if _, err := sv.buf.Add(chunk.Routine); err != nil {
			return err
		}
		if err := sv.buf.Expect(chunk.Table); err != nil {
			return err
		}
		if _, err := sv.buf.Add(tables[i]); err != nil {
			return err
		}

		if err := sv.write(sv.offsets.Get(chunk.Hook), hack.HookBytes(chunk)); err != nil {
			return fmt.Errorf("writing %s: %w", chunk.Hook, err)
		}
	}
	return nil
}

func (sv *saver) relocateTileGenres() error {
	if err := sv.buf.Expect(hack.TileGenres); err != nil {
		return err
	}
	if _, err := sv.buf.Add(sv.game.TileGenres()); err != nil {
		return err
	}
	return sv.buf.Expect(hack.TileGenresEnd)
}

func (sv *saver) patchTables() error {
	for _, patch := range hack.TablePatches() {
		location := sv.offsets.Get(patch.Location)
		if !hack.ReadsLong(sv.out, location) {
			return fmt.Errorf("%w: %s at 0x%X", ErrPatch, patch.Location, location)
		}
		if err := sv.write(location, patch.Data); err != nil {
			return err
		}
	}
	return nil
}

func (sv *saver) relocateAI() error {
	table := sv.offsets.Get(offset.TrackAIData)
	for _, track := range sv.game.Tracks {
		field := table + track.Index*bank.PointerSize
		if _, err := sv.buf.AddCompressed(sv.out, track.AI.Bytes(), field); err != nil {
			return fmt.Errorf("adding %s: %w", track.AI.Name(), err)
		}
	}
	return nil
}

func (sv *saver) relocateTracks() error {
	overlays := sv.offsets.Get(offset.TrackOverlayItems)
	for _, track := range sv.game.Tracks {
		if err := sv.compressed(track.Map, offset.TrackMaps, track.Index); err != nil {
			return err
		}

		field := overlays + track.Index*bank.PointerSize
		if _, err := sv.buf.AddCompressed(sv.out, track.Overlay.Bytes(), field); err != nil {
			return fmt.Errorf("adding %s: %w", track.Overlay.Name(), err)
		}
	}
	return nil
}

var themeTables = []offset.Name{
	offset.ThemeRoadGraphics,
	offset.ThemePalettes,
	offset.ThemeBackgroundGraphics,
	offset.ThemeBackgroundLayouts,
}

func (sv *saver) relocateThemes() error {
	for _, theme := range sv.game.Themes {
		for kind, asset := range theme.Assets() {
			if err := sv.compressed(asset, themeTables[kind], theme.Index); err != nil {
				return err
			}
		}
	}
	return nil
}

// compressed adds a compressed asset and points entry index of the pointer
// table to it. Unchanged assets are copied from the snapshot without
// recompressing, chunks already added in this save are reused.
func (sv *saver) compressed(asset *game.CompressedData, table offset.Name, index int) error {
	field := sv.offsets.Get(table) + index*bank.PointerSize

	source, ok := asset.Source()
	if !ok {
		options := codec.DefaultOptions()
		options.Split = asset.Twice()
		data := codec.Compress(asset.Bytes(), options)
		if _, err := sv.buf.AddCompressed(sv.out, data, field); err != nil {
			return fmt.Errorf("adding %s: %w", asset.Name(), err)
		}
		return nil
	}

	if relocated, ok := sv.buf.Relocated(source); ok {
		if err := sv.write(field, bank.Long(relocated)); err != nil {
			return fmt.Errorf("writing pointer of %s: %w", asset.Name(), err)
		}
		return nil
	}

	// Sources inside the part of the relocation area written by this save
	// are superseded in out. The snapshot still holds their original bytes.
	if sv.buf.Includes(source) {
		sv.logger.Debug("Copying superseded chunk from snapshot",
			log.String("asset", asset.Name()),
			log.Hex("source", source))
	}
	chunk, err := sv.img.Chunk(source, asset.Twice())
	if err != nil {
		return fmt.Errorf("reading %s: %w", asset.Name(), err)
	}
	relocated, err := sv.buf.AddCompressed(sv.out, chunk, field)
	if err != nil {
		return fmt.Errorf("adding %s: %w", asset.Name(), err)
	}
	sv.buf.Relocate(source, relocated)
	return nil
}

// writeTexts writes modified text tables in place, padded to the size of
// their region.
func (sv *saver) writeTexts() error {
	for _, table := range []*game.TextTable{sv.game.CourseSelectTexts, sv.game.DriverNameTexts} {
		if !table.Modified() {
			continue
		}

		start := sv.offsets.Get(table.Start)
		size := sv.offsets.Get(table.End) - start
		data, ok := table.Padded(size)
		if !ok {
			return fmt.Errorf("%w: %s needs %d bytes, region has %d",
				ErrTextCapacity, table.Start, len(table.Bytes()), size)
		}
		if err := sv.write(start, data); err != nil {
			return err
		}
	}
	return nil
}

// merge copies the relocation area into the image, growing it to a multiple
// of the image unit size if needed.
func (sv *saver) merge() error {
	end := sv.buf.Index()
	if end > len(sv.out) {
		size := (end + rom.UnitSize - 1) / rom.UnitSize * rom.UnitSize
		sv.out = append(sv.out, make([]byte, size-len(sv.out))...)
	}
	copy(sv.out[sv.buf.Base():], sv.buf.Bytes())

	sizeByte := byte(0)
	for 0x400<<sizeByte < len(sv.out) {
		sizeByte++
	}
	if sizeByte > sv.out[romSizeOffset] {
		sv.out[romSizeOffset] = sizeByte
	}
	return nil
}
