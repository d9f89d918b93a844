// Package hack contains the fixed binary patches that redirect the game code
// to data tables moved into the relocation area. The patches are opaque
// payloads, only the absolute addresses they contain are known.
package hack

import (
	"github.com/retroenv/kartrom/internal/bank"
	"github.com/retroenv/kartrom/internal/offset"
	"github.com/retroenv/kartrom/internal/region"
)

// Fixed addresses inside the relocation area. The patch payloads contain
// these addresses, the save order has to reproduce them exactly.
const (
	RelocationBase = 0x80000

	BattleStartPositions = RelocationBase
	ObjectData           = 0x80020
	TileGenres           = 0x80182
	TileGenresEnd        = 0x80982
)

const (
	opJSL  = 0x22
	opNOP  = 0xEA
	opLDAL = 0xBF

	// HookSize is the number of bytes replaced at every object hook.
	HookSize = 5
)

// Chunk is a routine appended to the relocation area followed by the data
// table that it reads.
type Chunk struct {
	Hook      offset.Name // code location patched to call the routine
	Address   int         // address of the routine
	Routine   []byte
	Table     int // address of the table, directly following the routine
	TableSize int
}

// trackRAM is the work RAM address holding the current track number.
var trackRAM = map[region.Region][2]byte{
	region.Japan:  {0x22, 0x01},
	region.US:     {0x24, 0x01},
	region.Europe: {0x24, 0x01},
}

// ObjectChunks returns the routines for the object tables: zones,
// graphics, interactions, routines, palettes and flashing, in save order.
func ObjectChunks(r region.Region) []Chunk {
	ram := trackRAM[r]

	return []Chunk{
		{
			Hook:    offset.ObjectHack1,
			Address: 0x80020,
			Routine: []byte{
				0xDA, 0xAD, ram[0], ram[1], 0x0A, 0x0A, 0xAA,
				0xBF, 0x2D, 0x80, 0x90, 0xFA, 0x6B,
			},
			Table:     0x8002D,
			TableSize: 0x60,
		},
		{
			Hook:      offset.ObjectHack2,
			Address:   0x8008D,
			Routine:   []byte{0xDA, 0xAE, ram[0], ram[1], 0xBF, 0x97, 0x80, 0x90, 0xFA, 0x6B},
			Table:     0x80097,
			TableSize: 0x18,
		},
		{
			Hook:      offset.ObjectHack3,
			Address:   0x800AF,
			Routine:   []byte{0xDA, 0xAE, ram[0], ram[1], 0xBF, 0xB9, 0x80, 0x90, 0xFA, 0x6B},
			Table:     0x800B9,
			TableSize: 0x18,
		},
		{
			Hook:      offset.ObjectHack4,
			Address:   0x800D1,
			Routine:   []byte{0xDA, 0xAE, ram[0], ram[1], 0xBF, 0xDB, 0x80, 0x90, 0xFA, 0x6B},
			Table:     0x800DB,
			TableSize: 0x18,
		},
		{
			Hook:    offset.ObjectHack5,
			Address: 0x800F3,
			Routine: []byte{
				0xDA, 0xAD, ram[0], ram[1], 0x0A, 0x0A, 0xAA,
				0xBF, 0x00, 0x81, 0x90, 0xFA, 0x6B,
			},
			Table:     0x80100,
			TableSize: 0x60,
		},
		{
			Hook:      offset.ObjectHack6,
			Address:   0x80160,
			Routine:   []byte{0xDA, 0xAE, ram[0], ram[1], 0xBF, 0x6A, 0x81, 0x90, 0xFA, 0x6B},
			Table:     0x8016A,
			TableSize: 0x18,
		},
	}
}

// HookBytes returns the call into a chunk routine that replaces the original
// code at the hook location.
func HookBytes(c Chunk) []byte {
	hook := make([]byte, 0, HookSize)
	hook = append(hook, opJSL)
	hook = append(hook, bank.Long(c.Address)...)
	return append(hook, opNOP)
}

// Patch is a fixed write into the original code.
type Patch struct {
	Location offset.Name
	Data     []byte
}

// TablePatches returns the operand patches that point long reads of the
// battle start positions and tile genres to their relocated tables.
func TablePatches() []Patch {
	return []Patch{
		{Location: offset.BattleStartPositionsHack, Data: []byte{0x00, 0x80, 0x90}},
		{Location: offset.TileGenresHack, Data: []byte{0x82, 0x81, 0x90}},
	}
}

// Applied returns whether the image already contains the patches, in
// which case the object tables, battle start positions and tile genres are
// stored in the relocation area.
func Applied(data []byte, offsets *offset.Table) bool {
	hook := offsets.Get(offset.ObjectHack1)
	if hook+HookSize > len(data) || data[hook] != opJSL {
		return false
	}
	first := ObjectChunks(offsets.Region())[0]
	return bank.Read(data, hook+1) == first.Address
}

// ReadsLong returns whether the code at an operand patch location is a long
// indexed load, the instruction that the table patches expect to modify.
func ReadsLong(data []byte, location int) bool {
	return location > 0 && location < len(data) && data[location-1] == opLDAL
}
