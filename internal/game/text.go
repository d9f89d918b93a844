package game

import (
	"fmt"

	"github.com/retroenv/kartrom/internal/offset"
)

const (
	textTerminator = 0xFF
	textPadding    = 0x00

	CourseSelectTextCount = TrackCount
	DriverNameTextCount   = 8
)

// TextTable is a fixed number of text entries stored in a bounded region.
type TextTable struct {
	Start offset.Name
	End   offset.Name

	entries  [][]byte
	modified bool
	events   *Events
}

func parseTexts(start, end offset.Name, buf []byte, count int, events *Events) (*TextTable, error) {
	table := &TextTable{
		Start:  start,
		End:    end,
		events: events,
	}

	index := 0
	for len(table.entries) < count {
		entryStart := index
		for index < len(buf) && buf[index] != textTerminator {
			index++
		}
		if index >= len(buf) {
			return nil, fmt.Errorf("%w: text entry %d of %s not terminated", ErrFormat, len(table.entries), start)
		}
		entry := make([]byte, index-entryStart)
		copy(entry, buf[entryStart:index])
		table.entries = append(table.entries, entry)
		index++
	}
	return table, nil
}

// Len returns the number of entries.
func (t *TextTable) Len() int {
	return len(t.entries)
}

// Entry returns the encoded text of an entry.
func (t *TextTable) Entry(i int) []byte {
	return t.entries[i]
}

// SetEntry replaces the encoded text of an entry. The text may not contain
// the terminator byte.
func (t *TextTable) SetEntry(i int, text []byte) error {
	if i < 0 || i >= len(t.entries) {
		return fmt.Errorf("%w: text entry %d", ErrRange, i)
	}
	for _, b := range text {
		if b == textTerminator {
			return fmt.Errorf("%w: text contains terminator byte", ErrFormat)
		}
	}
	t.entries[i] = text
	t.modified = true
	t.events.publish(t.Start.String())
	return nil
}

// Bytes returns the encoding of all entries, each followed by the terminator.
func (t *TextTable) Bytes() []byte {
	var buf []byte
	for _, entry := range t.entries {
		buf = append(buf, entry...)
		buf = append(buf, textTerminator)
	}
	return buf
}

// Modified returns whether any entry changed since loading.
func (t *TextTable) Modified() bool {
	return t.modified
}

// Padded returns the encoding of all entries padded to size bytes.
func (t *TextTable) Padded(size int) ([]byte, bool) {
	buf := t.Bytes()
	if len(buf) > size {
		return nil, false
	}
	for len(buf) < size {
		buf = append(buf, textPadding)
	}
	return buf, true
}
