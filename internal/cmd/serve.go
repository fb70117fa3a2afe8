package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/igetcool/icodetest/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server over stdio so agents can
generate tests without spawning the CLI for every class.

The server uses the project config and settings store of the working directory
(or --config). Logs go to stderr; stdout carries the protocol.

Available Tools:
  icodetest_generate_class      Generate the test class for one file
  icodetest_generate_method     Generate <Class>Test_<method> for one method
  icodetest_generate_directory  Generate tests for every file below a directory
  icodetest_list_methods        List the candidate methods of a class
  icodetest_settings            Show, apply or reset the settings`,
	Example: `  icodetest serve --mcp
  icodetest serve --mcp --tools generate_class,list_methods
  icodetest serve --mcp --timeout 30m
  icodetest serve --status
  icodetest serve --stop
  icodetest serve --list-tools`,
	RunE: runServe,
}

var (
	serveMCP       bool
	serveTools     string
	serveTimeout   string
	serveStatus    bool
	serveStop      bool
	serveListTools bool
)

const toolPrefix = "icodetest_"

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "Start MCP server (stdio transport)")
	serveCmd.Flags().StringVar(&serveTools, "tools", "", "Comma-separated list of tools to expose (default: all)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "30m", "Inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveStatus, "status", false, "Check if server is running")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "Stop running server")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available tools")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if serveListTools {
		fmt.Fprintln(out, "Available MCP tools:")
		for _, name := range mcp.AllTools {
			desc, _ := mcp.Describe(name)
			fmt.Fprintf(out, "  %-30s %s\n", name, desc)
		}
		return nil
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()
	pidPath := filepath.Join(p.cfg.Dir, "serve.pid")

	if serveStatus {
		return checkServerStatus(cmd, pidPath)
	}
	if serveStop {
		return stopServer(cmd, pidPath)
	}
	if !serveMCP {
		return fmt.Errorf("use --mcp to start the MCP server, or --help for usage")
	}

	timeout, err := parseDuration(serveTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	server, err := mcp.New(mcp.Config{
		Tools:    parseTools(serveTools),
		Timeout:  timeout,
		Project:  p.cfg,
		Settings: p.store,
		Logger:   p.log,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := os.MkdirAll(p.cfg.Dir, 0755); err != nil {
		p.log.Warn().Err(err).Msg("could not create config directory")
	}
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		p.log.Warn().Err(err).Str("path", pidPath).Msg("could not write PID file")
	}
	defer os.Remove(pidPath)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.log.Info().Msg("shutting down")
		os.Remove(pidPath)
		p.Close()
		os.Exit(0)
	}()

	p.log.Info().Strs("tools", server.ListTools()).Dur("timeout", timeout).Msg("starting MCP server")
	return server.ServeStdio()
}

// parseTools splits the --tools value, accepting names without the prefix.
func parseTools(s string) []string {
	var tools []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, toolPrefix) {
			t = toolPrefix + t
		}
		tools = append(tools, t)
	}
	return tools
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func readPID(pidPath string) (int, error) {
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func checkServerStatus(cmd *cobra.Command, pidPath string) error {
	out := cmd.OutOrStdout()
	pid, err := readPID(pidPath)
	if err != nil {
		fmt.Fprintln(out, "Status: not running")
		return nil
	}

	// FindProcess always succeeds on Unix; signal 0 probes liveness.
	process, err := os.FindProcess(pid)
	if err == nil {
		err = process.Signal(syscall.Signal(0))
	}
	if err != nil {
		fmt.Fprintln(out, "Status: not running (stale PID file)")
		os.Remove(pidPath)
		return nil
	}

	fmt.Fprintf(out, "Status: running (PID %d)\n", pid)
	return nil
}

func stopServer(cmd *cobra.Command, pidPath string) error {
	out := cmd.OutOrStdout()
	pid, err := readPID(pidPath)
	if os.IsNotExist(err) {
		fmt.Fprintln(out, "No server running")
		return nil
	}
	if err != nil {
		os.Remove(pidPath)
		return fmt.Errorf("invalid PID file")
	}

	process, err := os.FindProcess(pid)
	if err == nil {
		err = process.Signal(syscall.SIGTERM)
	}
	if err != nil {
		os.Remove(pidPath)
		fmt.Fprintln(out, "Server already stopped")
		return nil
	}

	fmt.Fprintf(out, "Stopped server (PID %d)\n", pid)
	return nil
}
