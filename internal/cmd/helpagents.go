package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/igetcool/icodetest/internal/mcp"
	"github.com/igetcool/icodetest/internal/settings"
)

// helpAgentsCmd represents the help-agents command
var helpAgentsCmd = &cobra.Command{
	Use:   "help-agents",
	Short: "Output agent-optimized command reference",
	Long: `Output a concise command reference for AI agents.

Markdown by default; --format json emits the same content as a JSON document.`,
	Example: `  icodetest help-agents
  icodetest help-agents --format json`,
	Args: cobra.NoArgs,
	RunE: runHelpAgents,
}

func init() {
	rootCmd.AddCommand(helpAgentsCmd)
}

type agentCommand struct {
	Command string `json:"command"`
	Purpose string `json:"purpose"`
}

type agentReference struct {
	Version  string         `json:"version"`
	Purpose  string         `json:"purpose"`
	Workflow []agentCommand `json:"workflow"`
	Settings []string       `json:"settings"`
	Rules    []string       `json:"rules"`
	MCPTools []string       `json:"mcp_tools"`
}

func agentReferenceData() agentReference {
	return agentReference{
		Version: Version,
		Purpose: "Generate JUnit/Mockito test skeletons for Spring classes under src/main/java.",
		Workflow: []agentCommand{
			{"icodetest init", "create .icodetest/config.yaml and the settings store"},
			{"icodetest methods <file>", "list candidate methods as name(T1,T2)"},
			{"icodetest generate <file>... --yes", "write <Class>Test.java, overwriting existing ones"},
			{"icodetest generate --method <name> <file>", "write <Class>Test_<name>.java for one method"},
			{"icodetest generate --recursive --skip-existing <dir>", "generate for every class below a directory"},
			{"icodetest settings apply --junit JUnit5 --style MockMvc", "change generator settings"},
			{"icodetest serve --mcp", "expose the same operations as MCP tools"},
		},
		Settings: settings.Keys,
		Rules: []string{
			"only classes with @Autowired/@Resource fields whose methods call those fields produce a test",
			"the shared base class is created once per module, next to the first generated test",
			"single-method generation always overwrites its target",
			"exit status is 1 when any test class could not be written",
		},
		MCPTools: mcp.AllTools,
	}
}

func runHelpAgents(cmd *cobra.Command, args []string) error {
	ref := agentReferenceData()
	out := cmd.OutOrStdout()

	if outputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ref)
	}

	fmt.Fprintf(out, "# icodetest %s\n\n%s\n\n## Workflow\n\n", ref.Version, ref.Purpose)
	for _, c := range ref.Workflow {
		fmt.Fprintf(out, "- `%s`: %s\n", c.Command, c.Purpose)
	}
	fmt.Fprintln(out, "\n## Settings keys")
	for _, k := range ref.Settings {
		fmt.Fprintf(out, "- %s\n", k)
	}
	fmt.Fprintln(out, "\n## Rules")
	for _, r := range ref.Rules {
		fmt.Fprintf(out, "- %s\n", r)
	}
	fmt.Fprintln(out, "\n## MCP tools")
	for _, t := range ref.MCPTools {
		desc, _ := mcp.Describe(t)
		fmt.Fprintf(out, "- %s: %s\n", t, desc)
	}
	return nil
}
