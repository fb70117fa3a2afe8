package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/igetcool/icodetest/internal/config"
	"github.com/igetcool/icodetest/internal/logging"
	"github.com/igetcool/icodetest/internal/output"
	"github.com/igetcool/icodetest/internal/settings"
)

// project bundles what most commands need: the loaded configuration, a
// logger and the settings store.
type project struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *settings.Store
}

func (p *project) Close() error {
	if p.store == nil {
		return nil
	}
	return p.store.Close()
}

// openProject loads the configuration for the working directory (or the
// --config file) and opens the settings store it points at.
func openProject() (*project, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		var cwd string
		if cwd, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		cfg, err = config.Load(cwd)
	}
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log := logging.New(os.Stderr, level, cfg.Log.Pretty)

	store, err := settings.Open(cfg.SettingsPath())
	if err != nil {
		return nil, err
	}
	log.Debug().Str("config", cfg.Dir).Str("settings", store.Path()).Msg("project loaded")
	return &project{cfg: cfg, log: log, store: store}, nil
}

// writeOutput renders v in the --format chosen on the command line.
func writeOutput(cmd *cobra.Command, v output.Texter) error {
	f, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	return output.Write(cmd.OutOrStdout(), f, v)
}

// absPaths makes every argument absolute.
func absPaths(args []string) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", a, err)
		}
		out[i] = abs
	}
	return out, nil
}
