package game

// Events dispatches change notifications of assets to subscribers.
type Events struct {
	subscribers []func(name string)
}

// Subscribe registers a function that is called with the name of every
// asset that changes.
func (e *Events) Subscribe(fn func(name string)) {
	e.subscribers = append(e.subscribers, fn)
}

func (e *Events) publish(name string) {
	if e == nil {
		return
	}
	for _, fn := range e.subscribers {
		fn(name)
	}
}

// Data is an editable asset stored as raw bytes.
type Data struct {
	name     string
	data     []byte
	modified bool
	events   *Events
}

func newData(name string, data []byte, events *Events) *Data {
	return &Data{
		name:   name,
		data:   data,
		events: events,
	}
}

// Name returns the descriptive name of the asset.
func (d *Data) Name() string {
	return d.name
}

// Bytes returns the encoding of the asset as stored in the image.
func (d *Data) Bytes() []byte {
	return d.data
}

// SetBytes replaces the content and marks the asset as modified.
func (d *Data) SetBytes(data []byte) {
	d.data = data
	d.modified = true
	d.events.publish(d.name)
}

// Modified returns whether the asset changed since it was loaded.
func (d *Data) Modified() bool {
	return d.modified
}

// CompressedData is an asset that is stored compressed in the image.
type CompressedData struct {
	Data

	source int // offset of the original compressed data, -1 if unknown
	twice  bool
}

func newCompressedData(name string, data []byte, source int, twice bool, events *Events) *CompressedData {
	return &CompressedData{
		Data: Data{
			name:   name,
			data:   data,
			events: events,
		},
		source: source,
		twice:  twice,
	}
}

// Source returns the offset of the original compressed data. It is only
// valid as long as the asset is not modified.
func (c *CompressedData) Source() (int, bool) {
	return c.source, c.source >= 0 && !c.modified
}

// Twice returns whether the data is stored as two consecutive streams.
func (c *CompressedData) Twice() bool {
	return c.twice
}
