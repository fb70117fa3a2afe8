package cmd

import (
	"github.com/spf13/cobra"

	"github.com/igetcool/icodetest/internal/generate"
	"github.com/igetcool/icodetest/internal/output"
)

// methodsCmd represents the methods command
var methodsCmd = &cobra.Command{
	Use:   "methods <file>",
	Short: "List the methods a test can be generated for",
	Long: `List the candidate methods of a Java class, one per line, as name(T1,T2).

Which methods qualify depends on the request style: MethodCall lists every
concrete non-private method, MockMvc only request-mapped handlers.`,
	Example: `  icodetest methods src/main/java/com/x/OrderService.java
  icodetest methods --style MockMvc src/main/java/com/x/OrderController.java`,
	Args: cobra.ExactArgs(1),
	RunE: runMethods,
}

var methodsStyle string

func init() {
	rootCmd.AddCommand(methodsCmd)
	methodsCmd.Flags().StringVar(&methodsStyle, "style", "", "Request style to select methods for (default: from settings)")
}

func runMethods(cmd *cobra.Command, args []string) error {
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
	if methodsStyle != "" {
		snap.Style = methodsStyle
	}

	methods, err := generate.NewFromConfig(p.cfg, snap, p.log).Methods(cmd.Context(), paths[0])
	if err != nil {
		return err
	}
	return writeOutput(cmd, &output.MethodsOutput{File: paths[0], Style: snap.Style, Methods: methods})
}
