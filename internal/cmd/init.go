package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/igetcool/icodetest/internal/config"
	"github.com/igetcool/icodetest/internal/exclude"
	"github.com/igetcool/icodetest/internal/settings"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .icodetest directory, config and settings",
	Long: `Initialize the .icodetest directory in the current directory.

This writes .icodetest/config.yaml with the default source roots, exclusions
and logging options, and creates the settings database holding the JUnit
version, request style and base class templates. Build output directories
found next to pom.xml, build.gradle or .classpath files are added to
source.exclude.`,
	Example: `  icodetest init          # Initialize in current directory
  icodetest init --force  # Rewrite config and reset settings`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize even if .icodetest already exists")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	dir := filepath.Join(cwd, config.ConfigDirName)
	cfgPath := filepath.Join(dir, config.ConfigFileName)
	rel, _ := filepath.Rel(cwd, dir)

	_, err = os.Stat(cfgPath)
	switch {
	case err == nil && !initForce:
		fmt.Fprintf(cmd.OutOrStdout(), "Already initialized at %s\n", rel)
		return nil
	case err == nil:
		if err := os.Remove(cfgPath); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("checking config path: %w", err)
	}

	detected := exclude.Detect(cwd)
	for _, name := range detected.Names {
		fmt.Fprintf(cmd.OutOrStdout(), "Excluding %s: %s\n", name, detected.Reasons[name])
	}
	if _, err := config.SaveDefault(cwd, detected.Names...); err != nil {
		return err
	}

	cfg, err := config.LoadFromPath(cfgPath)
	if err != nil {
		return err
	}
	store, err := settings.Open(cfg.SettingsPath())
	if err != nil {
		return fmt.Errorf("initializing settings: %w", err)
	}
	defer store.Close()
	if initForce {
		if err := store.Reset(); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized icodetest at %s\n", rel)
	return nil
}
