package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/igetcool/icodetest/internal/output"
	"github.com/igetcool/icodetest/internal/settings"
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the generator settings",
	Long: `Show or change the generator settings stored in the project settings database.

Settings:
  junit           JUnit4 | JUnit5
  style           MethodCall | MockMvc
  common_package  package of the shared test base class
  common_class    name of the shared test base class
  common_body_*   base class templates for JUnit 4 and JUnit 5`,
	Example: `  icodetest settings show
  icodetest settings apply --junit JUnit5 --style MockMvc
  icodetest settings apply --body5-file Base5.java.tmpl
  icodetest settings export > settings.yaml
  icodetest settings import settings.yaml
  icodetest settings reset`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Change one or more settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsApply,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

var settingsExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the settings as YAML to a file or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsExport,
}

var settingsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the settings with a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsImport,
}

var (
	setJUnit      string
	setStyle      string
	setPackage    string
	setClass      string
	setBody4File  string
	setBody5File  string
	showTemplates bool
)

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsApplyCmd, settingsResetCmd, settingsExportCmd, settingsImportCmd)

	settingsShowCmd.Flags().BoolVar(&showTemplates, "templates", false, "Include the base class templates")

	settingsApplyCmd.Flags().StringVar(&setJUnit, "junit", "", "JUnit version (JUnit4|JUnit5)")
	settingsApplyCmd.Flags().StringVar(&setStyle, "style", "", "Request style (MethodCall|MockMvc)")
	settingsApplyCmd.Flags().StringVar(&setPackage, "common-package", "", "Base class package")
	settingsApplyCmd.Flags().StringVar(&setClass, "common-class", "", "Base class name")
	settingsApplyCmd.Flags().StringVar(&setBody4File, "body4-file", "", "File holding the JUnit 4 base class template")
	settingsApplyCmd.Flags().StringVar(&setBody5File, "body5-file", "", "File holding the JUnit 5 base class template")
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	snap, err := p.store.Load()
	if err != nil {
		return err
	}
	if showTemplates {
		return snap.Export(cmd.OutOrStdout())
	}
	out := output.NewSettingsOutput(snap, p.store.Path())
	var latest time.Time
	for _, key := range settings.Keys {
		at, ok, err := p.store.UpdatedAt(key)
		if err != nil {
			return err
		}
		if ok && at.After(latest) {
			latest = at
		}
	}
	if !latest.IsZero() {
		out.UpdatedAt = latest.Format(time.RFC3339)
	}
	return writeOutput(cmd, out)
}

func runSettingsApply(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	snap, err := p.store.Load()
	if err != nil {
		return err
	}
	snap = snap.With(settings.Overrides{
		JUnit:         setJUnit,
		Style:         setStyle,
		CommonPackage: setPackage,
		CommonClass:   setClass,
	})
	if setBody4File != "" {
		data, err := os.ReadFile(setBody4File)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		snap.CommonBody4 = string(data)
	}
	if setBody5File != "" {
		data, err := os.ReadFile(setBody5File)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		snap.CommonBody5 = string(data)
	}

	if err := p.store.Apply(snap); err != nil {
		return err
	}
	p.log.Info().Str("junit", string(snap.JUnit)).Str("style", snap.Style).
		Str("common", snap.Common().Qualified()).Msg("settings applied")
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.store.Reset(); err != nil {
		return err
	}
	p.log.Info().Msg("settings reset to defaults")
	return nil
}

func runSettingsExport(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	snap, err := p.store.Load()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return snap.Export(cmd.OutOrStdout())
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("create %s: %w", args[0], err)
	}
	if err := snap.Export(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runSettingsImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	snap, err := settings.Import(f)
	if err != nil {
		return err
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.store.Apply(snap); err != nil {
		return err
	}
	p.log.Info().Str("file", args[0]).Msg("settings imported")
	return nil
}
