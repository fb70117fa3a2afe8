package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the icodetest configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the icodetest configuration directory
const ConfigDirName = ".icodetest"

// EnvPrefix prefixes environment overrides, e.g. ICODETEST_LOG_LEVEL.
const EnvPrefix = "ICODETEST_"

// Config holds all icodetest configuration
type Config struct {
	Source   SourceConfig   `koanf:"source" yaml:"source"`
	Settings SettingsConfig `koanf:"settings" yaml:"settings"`
	Log      LogConfig      `koanf:"log" yaml:"log"`
	Generate GenerateConfig `koanf:"generate" yaml:"generate"`

	// Dir is the configuration directory the file was found in, or the one
	// it would be created in.
	Dir string `koanf:"-" yaml:"-"`
}

// SourceConfig describes the Maven-style source layout
type SourceConfig struct {
	MainRoot string   `koanf:"main_root" yaml:"main_root" validate:"required"`
	TestRoot string   `koanf:"test_root" yaml:"test_root" validate:"required,nefield=MainRoot"`
	Exclude  []string `koanf:"exclude" yaml:"exclude"`
}

// SettingsConfig locates the settings database
type SettingsConfig struct {
	// Path is resolved against Dir when relative.
	Path string `koanf:"path" yaml:"path" validate:"required"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Pretty bool   `koanf:"pretty" yaml:"pretty"`
}

// GenerateConfig holds generation defaults
type GenerateConfig struct {
	OnExisting string `koanf:"on_existing" yaml:"on_existing" validate:"oneof=ask overwrite skip"`
}

// SettingsPath returns the absolute settings database path.
func (c *Config) SettingsPath() string {
	if filepath.IsAbs(c.Settings.Path) {
		return c.Settings.Path
	}
	return filepath.Join(c.Dir, c.Settings.Path)
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .icodetest/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. Environment overrides apply either way.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, err
		}
		absDir, err := filepath.Abs(workDir)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		configDir = filepath.Join(absDir, ConfigDirName)
	}

	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from a specific path. Layers, lowest first:
// defaults, the YAML file when present, ICODETEST_ environment variables.
func LoadFromPath(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Dir = filepath.Dir(path)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps ICODETEST_SOURCE_MAIN_ROOT to source.main_root. The first
// underscore after the prefix separates the section from the key.
func envKey(k, v string) (string, any) {
	k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	section, key, ok := strings.Cut(k, "_")
	if !ok {
		return k, v
	}
	k = section + "." + key
	if k == "source.exclude" {
		return k, strings.Split(v, ",")
	}
	return k, v
}

// FindConfigDir locates the .icodetest directory by walking up from startDir.
// Returns the path to the .icodetest directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .icodetest directory if it doesn't exist.
// Returns the path to the .icodetest directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

var validate = validator.New()

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s must satisfy %q, got %q",
				ErrInvalidConfig, fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value()))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SaveDefault writes the default configuration to .icodetest/config.yaml in
// workDir, adding extraExclude to source.exclude. Creates the .icodetest
// directory if it doesn't exist.
func SaveDefault(workDir string, extraExclude ...string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	for _, name := range extraExclude {
		if !slices.Contains(cfg.Source.Exclude, name) {
			cfg.Source.Exclude = append(cfg.Source.Exclude, name)
		}
	}

	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# icodetest configuration\n" +
		"# Every key can be overridden with ICODETEST_<SECTION>_<KEY>, e.g. ICODETEST_LOG_LEVEL=debug.\n" +
		"# generate.on_existing: ask | overwrite | skip\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
