package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/igetcool/icodetest/internal/config"
	"github.com/igetcool/icodetest/internal/extract"
	"github.com/igetcool/icodetest/internal/generate"
	"github.com/igetcool/icodetest/internal/output"
	"github.com/igetcool/icodetest/internal/settings"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <file>...",
	Short: "Generate test classes for Java source files",
	Long: `Generate a test class for each given Java source file.

Files must live under the main source root (src/main/java by default); the test
class is written to the mirrored package under the test source root. Classes
without injected fields, or whose methods never call one, are skipped.

When a test class already exists the behavior follows generate.on_existing in
the project config (ask by default); --yes and --skip-existing override it.
Single-method runs (--method, --pick) always overwrite <Class>Test_<method>.`,
	Example: `  icodetest generate src/main/java/com/x/OrderService.java
  icodetest generate --method place src/main/java/com/x/OrderService.java
  icodetest generate --pick src/main/java/com/x/OrderService.java
  icodetest generate --recursive --yes src/main/java/com/x`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

var (
	genMethod       string
	genPick         bool
	genRecursive    bool
	genYes          bool
	genSkipExisting bool
	genJUnit        string
	genStyle        string
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genMethod, "method", "m", "", "Generate for a single method only")
	generateCmd.Flags().BoolVar(&genPick, "pick", false, "Choose the method interactively")
	generateCmd.Flags().BoolVarP(&genRecursive, "recursive", "r", false, "Generate for every Java file below the given directory")
	generateCmd.Flags().BoolVarP(&genYes, "yes", "y", false, "Overwrite existing test classes without asking")
	generateCmd.Flags().BoolVar(&genSkipExisting, "skip-existing", false, "Never overwrite existing test classes")
	generateCmd.Flags().StringVar(&genJUnit, "junit", "", "Override the JUnit version for this run (JUnit4|JUnit5)")
	generateCmd.Flags().StringVar(&genStyle, "style", "", "Override the request style for this run (MethodCall|MockMvc)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genYes && genSkipExisting {
		return fmt.Errorf("--yes and --skip-existing are mutually exclusive")
	}
	single := genMethod != "" || genPick
	if _, err := output.ParseFormat(outputFormat); err != nil {
		return err
	}
	if single && genRecursive {
		return fmt.Errorf("--method/--pick cannot be combined with --recursive")
	}
	if (single || genRecursive) && len(args) != 1 {
		return fmt.Errorf("expected exactly one path, got %d", len(args))
	}

	paths, err := absPaths(args)
	if err != nil {
		return err
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	snap, err := p.store.Load()
	if err != nil {
		return err
	}
	snap = snap.With(settings.Overrides{JUnit: genJUnit, Style: genStyle})

	g := generate.NewFromConfig(p.cfg, snap, p.log)
	g.Prompter = prompterFor(p.cfg.Generate.OnExisting, cmd.InOrStdin(), cmd.ErrOrStderr())

	req := generate.Request{Files: paths, Op: generate.Fixed}
	switch {
	case genRecursive:
		files, err := generate.CollectJavaFiles(paths[0], p.cfg.Source.Exclude, extract.Roots{Main: p.cfg.Source.MainRoot, Test: p.cfg.Source.TestRoot})
		if err != nil {
			return err
		}
		req = generate.Request{Files: files, Op: generate.Recursive}
	case single:
		method := genMethod
		if genPick {
			methods, err := g.Methods(cmd.Context(), paths[0])
			if err != nil {
				return err
			}
			if method, err = pickMethod(methods, cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
				return err
			}
		}
		req = generate.Request{Files: paths, Method: method, Op: generate.Custom}
	default:
		for _, path := range paths {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return fmt.Errorf("%s is a directory (use --recursive)", path)
			}
		}
	}

	report, err := g.Run(cmd.Context(), req)
	if errors.Is(err, generate.ErrNoFiles) {
		fmt.Fprintln(cmd.ErrOrStderr(), "no files to process")
		return nil
	}
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, output.NewGenerateOutput(report)); err != nil {
		return err
	}
	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d test class(es) could not be written", n)
	}
	return nil
}

// prompterFor picks the overwrite prompter from the flags and the configured
// default.
func prompterFor(onExisting string, in io.Reader, out io.Writer) generate.Prompter {
	switch {
	case genYes:
		return generate.FixedPrompter{Decision: generate.OverwriteAll}
	case genSkipExisting:
		return generate.FixedPrompter{Decision: generate.Skip}
	}
	switch onExisting {
	case config.OnExistingOverwrite:
		return generate.FixedPrompter{Decision: generate.OverwriteAll}
	case config.OnExistingSkip:
		return generate.FixedPrompter{Decision: generate.Skip}
	}
	return generate.NewStdPrompter(in, out)
}

// pickMethod lists methods and reads the chosen number.
func pickMethod(methods []string, in io.Reader, out io.Writer) (string, error) {
	if len(methods) == 0 {
		return "", fmt.Errorf("no methods to choose from")
	}
	for i, m := range methods {
		fmt.Fprintf(out, "%3d) %s\n", i+1, m)
	}
	r := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "Method [1-%d]: ", len(methods))
		line, err := r.ReadString('\n')
		if n, convErr := strconv.Atoi(strings.TrimSpace(line)); convErr == nil && n >= 1 && n <= len(methods) {
			sig := methods[n-1]
			return sig[:strings.IndexByte(sig, '(')], nil
		}
		if err != nil {
			return "", fmt.Errorf("no method chosen")
		}
	}
}
