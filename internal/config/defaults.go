package config

const (
	defaultInput     = "input"
	defaultOutput    = "_build"
	defaultTheme     = "_theme"
	defaultSize      = 450
	defaultQuality   = 85
	defaultBackend   = "imaging"
	defaultLogLevel  = "info"
	defaultOriginals = OriginalsCopy
)

// Default returns a Config populated with repository defaults. Paths are
// relative until Load normalizes them. Thumbnail sizes are left empty so a
// configured list replaces rather than extends them; normalize fills in
// defaultSize when nothing was configured.
func Default() Config {
	return Config{
		Input:  defaultInput,
		Output: defaultOutput,
		Theme:  defaultTheme,
		Thumbnails: Thumbnails{
			Quality: defaultQuality,
			Backend: defaultBackend,
		},
		Originals: Originals{
			Mode: defaultOriginals,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
