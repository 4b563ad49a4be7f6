package render

// Options carries per-renderer configuration. The zero value of a
// field means "renderer default"; renderers translate set fields to
// the flags their tool understands and ignore the rest.
type Options struct {
	Background string  `toml:"background"`
	Theme      string  `toml:"theme"`
	Scale      float64 `toml:"scale"`
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
}

// IsZero reports whether no option is set.
func (o Options) IsZero() bool {
	return o == Options{}
}

// Merge returns o with every set field of over layered on top.
func (o Options) Merge(over Options) Options {
	if over.Background != "" {
		o.Background = over.Background
	}
	if over.Theme != "" {
		o.Theme = over.Theme
	}
	if over.Scale != 0 {
		o.Scale = over.Scale
	}
	if over.Width != 0 {
		o.Width = over.Width
	}
	if over.Height != 0 {
		o.Height = over.Height
	}
	return o
}
