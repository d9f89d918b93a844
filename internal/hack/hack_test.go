package hack

import (
	"testing"

	"github.com/retroenv/kartrom/internal/bank"
	"github.com/retroenv/kartrom/internal/offset"
	"github.com/retroenv/kartrom/internal/region"
	"github.com/retroenv/retrogolib/assert"
)

const (
	battleStartPositionsSize = 4 * 8
	tileGenresSize           = 8 * 256
)

func TestObjectChunkLayout(t *testing.T) {
	for _, r := range region.All() {
		t.Run(r.String(), func(t *testing.T) {
			chunks := ObjectChunks(r)
			assert.Equal(t, 6, len(chunks))

			address := BattleStartPositions + battleStartPositionsSize
			assert.Equal(t, ObjectData, address)

			for _, c := range chunks {
				assert.Equal(t, address, c.Address)
				assert.Equal(t, c.Address+len(c.Routine), c.Table)

				// the long load operand precedes PLX and RTL
				operand := c.Routine[len(c.Routine)-5 : len(c.Routine)-2]
				assert.Equal(t, bank.Long(c.Table), operand)
				assert.Equal(t, byte(0x6B), c.Routine[len(c.Routine)-1])

				address = c.Table + c.TableSize
			}

			assert.Equal(t, TileGenres, address)
			assert.Equal(t, TileGenresEnd, TileGenres+tileGenresSize)
		})
	}
}

func TestRegionSubstitution(t *testing.T) {
	jp := ObjectChunks(region.Japan)[1].Routine
	us := ObjectChunks(region.US)[1].Routine
	assert.Equal(t, byte(0x22), jp[2])
	assert.Equal(t, byte(0x24), us[2])
	assert.Equal(t, jp[4:], us[4:])
}

func TestTablePatches(t *testing.T) {
	patches := TablePatches()
	assert.Equal(t, offset.BattleStartPositionsHack, patches[0].Location)
	assert.Equal(t, bank.Long(BattleStartPositions), patches[0].Data)
	assert.Equal(t, offset.TileGenresHack, patches[1].Location)
	assert.Equal(t, bank.Long(TileGenres), patches[1].Data)
}

func TestHookBytes(t *testing.T) {
	c := ObjectChunks(region.US)[0]
	assert.Equal(t, []byte{0x22, 0x20, 0x80, 0x90, 0xEA}, HookBytes(c))
}

func TestApplied(t *testing.T) {
	data := make([]byte, 0x40000)
	offsets, err := offset.New(data, region.US)
	assert.NoError(t, err)
	assert.False(t, Applied(data, offsets))

	c := ObjectChunks(region.US)[0]
	copy(data[offsets.Get(offset.ObjectHack1):], HookBytes(c))
	assert.True(t, Applied(data, offsets))
}
