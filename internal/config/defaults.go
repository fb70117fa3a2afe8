package config

import "github.com/igetcool/icodetest/internal/javasrc"

// Values accepted by generate.on_existing.
const (
	OnExistingAsk       = "ask"
	OnExistingOverwrite = "overwrite"
	OnExistingSkip      = "skip"
)

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			MainRoot: "src/main/java",
			TestRoot: "src/test/java",
			Exclude:  append([]string(nil), javasrc.DefaultExclude...),
		},
		Settings: SettingsConfig{
			Path: "settings.db",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		Generate: GenerateConfig{
			OnExisting: OnExistingAsk,
		},
	}
}

// defaultValues flattens DefaultConfig into koanf keys.
func defaultValues() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"source.main_root":     d.Source.MainRoot,
		"source.test_root":     d.Source.TestRoot,
		"source.exclude":       d.Source.Exclude,
		"settings.path":        d.Settings.Path,
		"log.level":            d.Log.Level,
		"log.pretty":           d.Log.Pretty,
		"generate.on_existing": d.Generate.OnExisting,
	}
}
