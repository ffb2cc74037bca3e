package config

const (
	defaultFormat    = "PNG"
	defaultLogLevel  = "info"
	defaultLogFormat = "auto"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Document: Document{DefaultName: "Object"},
		Export: Export{
			Format:       defaultFormat,
			Quality:      90,
			Antialiasing: true,
			CurveOpacity: 1.0,
			FPS:          12,
			Width:        800,
			Height:       600,
		},
		Import: Import{DPI: 150},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
