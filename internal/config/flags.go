package config

// Overrides are command line values that win over the file. Zero values
// leave the loaded setting alone.
type Overrides struct {
	Width       int
	Height      int
	Projection  string
	Mode        string
	Compose     string
	Workers     int
	Texture     string
	TextureSize int // -1 keeps brushes at native size
	LogLevel    string
	LogFile     string
	Debug       bool
	// Models replace the configured objects when non-empty.
	Models []string
	Fit    float64
}

// ApplyOverrides applies CLI flag overrides to the config.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Width > 0 {
		c.Viewport.Width = o.Width
	}
	if o.Height > 0 {
		c.Viewport.Height = o.Height
	}
	if o.Projection != "" {
		c.Projection.Kind = o.Projection
	}
	if o.Mode != "" {
		c.Render.Mode = o.Mode
	}
	if o.Compose != "" {
		c.Render.Compose = o.Compose
	}
	if o.Workers > 0 {
		c.Render.Workers = o.Workers
	}
	if o.Texture != "" {
		c.Texture = o.Texture
	}
	switch {
	case o.TextureSize > 0:
		c.TextureSize = o.TextureSize
	case o.TextureSize < 0:
		c.TextureSize = 0
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.Debug {
		c.Logging.Level = "debug"
	}
	if o.LogFile != "" {
		c.Logging.LogFile = o.LogFile
	}
	if len(o.Models) > 0 {
		c.Objects = nil
		for _, p := range o.Models {
			c.Objects = append(c.Objects, ObjectConfig{Path: p, Fit: o.Fit})
		}
	}
}
