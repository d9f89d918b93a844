package game

// Theme layout.
const (
	ThemeCount    = 8
	TileGenreSize = 256
)

// Theme holds the graphics shared by the tracks using it.
type Theme struct {
	Index int

	RoadGraphics       *CompressedData
	Palettes           *CompressedData
	BackgroundGraphics *CompressedData
	BackgroundLayout   *CompressedData

	// TileGenres assigns a surface genre to every road tile.
	TileGenres [TileGenreSize]byte
}

// Assets returns the compressed assets of the theme in save order.
func (t *Theme) Assets() []*CompressedData {
	return []*CompressedData{
		t.RoadGraphics,
		t.Palettes,
		t.BackgroundGraphics,
		t.BackgroundLayout,
	}
}
