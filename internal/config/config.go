// Package config handles client configuration loading and management.
package config

// Config holds all client settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	World    WorldConfig    `yaml:"world"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`

	// MaxPixelRatio caps device-pixel-ratio scaling of the raster
	// surface on high-density displays.
	MaxPixelRatio float32 `yaml:"max_pixel_ratio"`
}

// WorldConfig holds world source settings: an explicit snapshot file,
// or a seed to generate a demo world from.
type WorldConfig struct {
	Snapshot string `yaml:"snapshot"`
	Seed     int64  `yaml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			MaxPixelRatio: 1.5,
		},
		World: WorldConfig{
			Snapshot: "",
			Seed:     1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
