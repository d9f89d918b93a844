// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input image file"`
	Output string `flag:"o" usage:"output image file (default: input name with .out suffix)"`
	Batch  string `flag:"batch" usage:"batch process files matching pattern (e.g. *.sfc)"`
}

// Flags contains behavior options.
type Flags struct {
	Region     string `flag:"r" usage:"expected region of the image: jp, us, eu"`
	Info       bool   `flag:"info" usage:"only print information about the image"`
	Offsets    bool   `flag:"offsets" usage:"print the resolved offset table"`
	Recompress bool   `flag:"recompress" usage:"encode all compressed assets instead of copying them"`
	Verify     bool   `flag:"verify" usage:"verify the saved image by reloading and saving it again"`
	Debug      bool   `flag:"debug" usage:"enable debug logging"`
	Quiet      bool   `flag:"q" usage:"quiet mode"`
}

// SwapFlags contains edit operations applied before saving.
type SwapFlags struct {
	SwapSlots string `flag:"swap" usage:"swap the tracks of two grand prix slots, e.g. 0,5"`
}

// Program options of the tool.
type Program struct {
	Parameters
	Flags
	SwapFlags
}

// Swap is a parsed grand prix slot exchange.
type Swap struct {
	A, B int
}
