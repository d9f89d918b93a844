// Package session owns a loaded image and implements the save process that
// relocates the edited content and writes a new checksummed image.
package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/kartrom/internal/game"
	"github.com/retroenv/kartrom/internal/hack"
	"github.com/retroenv/kartrom/internal/offset"
	"github.com/retroenv/kartrom/internal/rom"
	"github.com/retroenv/retrogolib/log"
)

// Session errors.
var (
	ErrPhase        = errors.New("operation not allowed in the current save phase")
	ErrTextCapacity = errors.New("text does not fit into its region")
	ErrPatch        = errors.New("patch location does not contain the expected code")
)

// Phase is the state of the save process.
type Phase int

// Save phases, a save moves from Loaded through Relocating and Checksummed
// to Written. Written images can be saved again.
const (
	Loaded Phase = iota
	Relocating
	Checksummed
	Written
)

var phaseNames = map[Phase]string{
	Loaded:      "loaded",
	Relocating:  "relocating",
	Checksummed: "checksummed",
	Written:     "written",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Session holds an image together with its offsets and content model.
type Session struct {
	logger  *log.Logger
	img     *rom.Image
	offsets *offset.Table
	game    *game.Game
	phase   Phase
}

// New creates a session for a validated image.
func New(logger *log.Logger, img *rom.Image) (*Session, error) {
	s := &Session{
		logger: logger,
		img:    img,
		phase:  Loaded,
	}
	if err := s.load(&game.Events{}); err != nil {
		return nil, err
	}
	return s, nil
}

// Open reads and validates an image and creates a session for it.
func Open(logger *log.Logger, reader io.Reader) (*Session, error) {
	img, err := rom.Load(reader)
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}
	return New(logger, img)
}

func (s *Session) load(events *game.Events) error {
	offsets, err := offset.New(s.img.Data(), s.img.Region())
	if err != nil {
		return fmt.Errorf("resolving offsets: %w", err)
	}

	relocated := hack.Applied(s.img.Data(), offsets)
	g, err := game.LoadWithEvents(s.img, offsets, relocated, events)
	if err != nil {
		return fmt.Errorf("loading game data: %w", err)
	}

	s.logger.Debug("Loaded image",
		log.Stringer("region", s.img.Region()),
		log.Hex("size", len(s.img.Data())))
	if relocated {
		s.logger.Debug("Image contains relocated tables")
	}

	s.offsets = offsets
	s.game = g
	return nil
}

// Image returns the current image.
func (s *Session) Image() *rom.Image {
	return s.img
}

// Game returns the content model. A successful save reloads the model from
// the written image, subscribers are kept.
func (s *Session) Game() *game.Game {
	return s.game
}

// Offsets returns the resolved offsets of the image.
func (s *Session) Offsets() *offset.Table {
	return s.offsets
}

// Phase returns the current save phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Decompress decodes the compressed data at offset of the current image.
func (s *Session) Decompress(offset int, twice bool) ([]byte, error) {
	data, err := s.img.Decompress(offset, twice)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	return data, nil
}

// CompressedLength returns the size of the compressed data at offset.
func (s *Session) CompressedLength(offset int, twice bool) (int, error) {
	length, err := s.img.CompressedLength(offset, twice)
	if err != nil {
		return 0, fmt.Errorf("reading compressed length: %w", err)
	}
	return length, nil
}

// InsertData writes data into the current image. It is not allowed while a
// save is in progress.
func (s *Session) InsertData(offset int, data []byte) error {
	if s.phase != Loaded && s.phase != Written {
		return fmt.Errorf("%w: inserting data while %s", ErrPhase, s.phase)
	}
	if err := s.img.InsertData(offset, data); err != nil {
		return fmt.Errorf("inserting data: %w", err)
	}
	return nil
}
