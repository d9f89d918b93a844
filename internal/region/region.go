// Package region defines the regional variants of the cartridge.
package region

import (
	"errors"
	"fmt"
)

// Region is a regional variant of the cartridge.
type Region int

// Known regions, ordered like the columns of the offset tables.
const (
	Japan Region = iota
	US
	Europe
)

// HeaderOffset is the offset of the destination code in the internal header.
const HeaderOffset = 0x7FD9

// ErrUnknown is returned for destination codes that do not belong to a known variant.
var ErrUnknown = errors.New("unknown region")

var names = [...]string{
	Japan:  "Japan",
	US:     "US",
	Europe: "Europe",
}

// FromByte returns the region for the destination code of the internal header.
func FromByte(b byte) (Region, error) {
	switch b {
	case 0x00:
		return Japan, nil
	case 0x01:
		return US, nil
	case 0x02:
		return Europe, nil
	default:
		return 0, fmt.Errorf("%w: destination code 0x%02X", ErrUnknown, b)
	}
}

// FromString returns the region for a name as used on the command line.
func FromString(s string) (Region, error) {
	switch s {
	case "jp", "jap", "japan":
		return Japan, nil
	case "us", "usa":
		return US, nil
	case "eu", "eur", "europe":
		return Europe, nil
	default:
		return 0, fmt.Errorf("%w: '%s'", ErrUnknown, s)
	}
}

// Byte returns the destination code of the region.
func (r Region) Byte() byte {
	return byte(r)
}

func (r Region) String() string {
	if r < Japan || r > Europe {
		return fmt.Sprintf("Region(%d)", int(r))
	}
	return names[r]
}

// All returns all known regions.
func All() []Region {
	return []Region{Japan, US, Europe}
}
