// Package mcp provides an MCP (Model Context Protocol) server for icodetest.
// This lets AI agents generate tests and manage settings through MCP tools
// instead of spawning CLI commands.
package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/igetcool/icodetest/internal/config"
	"github.com/igetcool/icodetest/internal/extract"
	"github.com/igetcool/icodetest/internal/generate"
	"github.com/igetcool/icodetest/internal/output"
	"github.com/igetcool/icodetest/internal/settings"
)

// Server wraps the MCP server with the generator and the settings store.
type Server struct {
	mcpServer    *server.MCPServer
	project      *config.Config
	settings     *settings.Store
	log          zerolog.Logger
	newID        func() string
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Tools    []string      // Which tools to expose (empty = all)
	Timeout  time.Duration // Inactivity timeout (0 = no timeout)
	Project  *config.Config
	Settings *settings.Store
	Logger   zerolog.Logger
	// NewID overrides the test method suffix source; nil means random.
	NewID func() string
}

// Tool names.
const (
	ToolGenerateClass     = "icodetest_generate_class"
	ToolGenerateMethod    = "icodetest_generate_method"
	ToolGenerateDirectory = "icodetest_generate_directory"
	ToolListMethods       = "icodetest_list_methods"
	ToolSettings          = "icodetest_settings"
)

// AllTools lists all available tools
var AllTools = []string{ToolGenerateClass, ToolGenerateMethod, ToolGenerateDirectory, ToolListMethods, ToolSettings}

// New creates a new MCP server for icodetest
func New(cfg Config) (*Server, error) {
	if cfg.Project == nil || cfg.Settings == nil {
		return nil, fmt.Errorf("mcp server needs a project config and a settings store")
	}

	mcpServer := server.NewMCPServer(
		"icodetest",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		project:      cfg.Project,
		settings:     cfg.Settings,
		log:          cfg.Logger,
		newID:        cfg.NewID,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = AllTools
	}
	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	schema, ok := toolSchemaRegistry[name]
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}
	s.mcpServer.AddTool(newTool(schema), s.handler(name))
	return nil
}

// newTool builds the mcp-go tool definition from a schema.
func newTool(schema ToolSchema) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(schema.Description)}
	for _, p := range schema.Parameters {
		popts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			popts = append(popts, mcp.Required())
		}
		if len(p.Enum) > 0 {
			popts = append(popts, mcp.Enum(p.Enum...))
		}
		switch p.Type {
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, popts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, popts...))
		}
	}
	return mcp.NewTool(schema.Name, opts...)
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.updateActivity()

		result, err := s.call(ctx, name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			s.log.Info().Dur("timeout", s.timeout).Msg("stopping after inactivity")
			os.Exit(0)
		}
	}
}

func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// ListTools returns the registered tools, sorted.
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	sort.Strings(tools)
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Description string   `json:"description" yaml:"description"`
	Required    bool     `json:"required" yaml:"required"`
	Enum        []string `json:"enum,omitempty" yaml:"enum,omitempty"`
}

var overwriteParam = ParameterSchema{
	Name:        "overwrite",
	Type:        "boolean",
	Description: "Replace existing test classes (default: skip them)",
}

// toolSchemaRegistry holds the schema definitions for all tools.
var toolSchemaRegistry = map[string]ToolSchema{
	ToolGenerateClass: {
		Name:        ToolGenerateClass,
		Description: "Generate a unit test class for a Java source file under src/main/java.",
		Parameters: []ParameterSchema{
			{Name: "file", Type: "string", Description: "Path of the Java source file", Required: true},
			overwriteParam,
		},
	},
	ToolGenerateMethod: {
		Name:        ToolGenerateMethod,
		Description: "Generate a test class <Class>Test_<method> covering a single method. Always overwrites.",
		Parameters: []ParameterSchema{
			{Name: "file", Type: "string", Description: "Path of the Java source file", Required: true},
			{Name: "method", Type: "string", Description: "Name of the method to test", Required: true},
		},
	},
	ToolGenerateDirectory: {
		Name:        ToolGenerateDirectory,
		Description: "Generate test classes for every Java file below a directory (or below a file's directory).",
		Parameters: []ParameterSchema{
			{Name: "path", Type: "string", Description: "Directory or file path", Required: true},
			overwriteParam,
		},
	},
	ToolListMethods: {
		Name:        ToolListMethods,
		Description: "List the methods of a Java class that tests can be generated for, as name(T1,T2).",
		Parameters: []ParameterSchema{
			{Name: "file", Type: "string", Description: "Path of the Java source file", Required: true},
		},
	},
	ToolSettings: {
		Name:        ToolSettings,
		Description: "Show, change or reset the generator settings (JUnit version, request style, base class).",
		Parameters: []ParameterSchema{
			{Name: "action", Type: "string", Description: "show (default), apply or reset", Enum: []string{"show", "apply", "reset"}},
			{Name: "junit", Type: "string", Description: "JUnit version for apply", Enum: []string{"JUnit4", "JUnit5"}},
			{Name: "style", Type: "string", Description: "Request style for apply", Enum: []string{"MethodCall", "MockMvc"}},
			{Name: "common_package", Type: "string", Description: "Base class package for apply"},
			{Name: "common_class", Type: "string", Description: "Base class name for apply"},
		},
	},
}

// Describe returns the description of a known tool.
func Describe(name string) (string, bool) {
	schema, ok := toolSchemaRegistry[name]
	return schema.Description, ok
}

// GetToolSchemas returns schemas for all registered tools, sorted by name.
func (s *Server) GetToolSchemas() []ToolSchema {
	names := s.ListTools()
	schemas := make([]ToolSchema, 0, len(names))
	for _, name := range names {
		if schema, ok := toolSchemaRegistry[name]; ok {
			schemas = append(schemas, schema)
		}
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the JSON result string or an error.
func (s *Server) CallTool(name string, args map[string]interface{}) (string, error) {
	return s.call(context.Background(), name, args)
}

func (s *Server) call(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s (run 'icodetest serve --list-tools' to see available tools)", name)
	}

	switch name {
	case ToolGenerateClass:
		file, err := requiredPath(args, "file")
		if err != nil {
			return "", err
		}
		overwrite, _ := args["overwrite"].(bool)
		return s.executeGenerate(ctx, generate.Request{Files: []string{file}, Op: generate.Fixed}, overwrite)

	case ToolGenerateMethod:
		file, err := requiredPath(args, "file")
		if err != nil {
			return "", err
		}
		method, _ := args["method"].(string)
		if method == "" {
			return "", fmt.Errorf("method parameter is required")
		}
		return s.executeGenerate(ctx, generate.Request{Files: []string{file}, Method: method, Op: generate.Custom}, true)

	case ToolGenerateDirectory:
		path, err := requiredPath(args, "path")
		if err != nil {
			return "", err
		}
		files, err := generate.CollectJavaFiles(path, s.project.Source.Exclude, extract.Roots{Main: s.project.Source.MainRoot, Test: s.project.Source.TestRoot})
		if err != nil {
			return "", err
		}
		overwrite, _ := args["overwrite"].(bool)
		return s.executeGenerate(ctx, generate.Request{Files: files, Op: generate.Recursive}, overwrite)

	case ToolListMethods:
		file, err := requiredPath(args, "file")
		if err != nil {
			return "", err
		}
		return s.executeListMethods(ctx, file)

	case ToolSettings:
		action, _ := args["action"].(string)
		return s.executeSettings(action, settings.Overrides{
			JUnit:         stringArg(args, "junit"),
			Style:         stringArg(args, "style"),
			CommonPackage: stringArg(args, "common_package"),
			CommonClass:   stringArg(args, "common_class"),
		})

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// generator builds a generator over the current settings.
func (s *Server) generator(overwrite bool) (*generate.Generator, error) {
	snap, err := s.settings.Load()
	if err != nil {
		return nil, err
	}
	g := generate.NewFromConfig(s.project, snap, s.log)
	g.NewID = s.newID
	g.Prompter = generate.FixedPrompter{Decision: generate.Skip}
	if overwrite {
		g.Prompter = generate.FixedPrompter{Decision: generate.OverwriteAll}
	}
	return g, nil
}

func (s *Server) executeGenerate(ctx context.Context, req generate.Request, overwrite bool) (string, error) {
	g, err := s.generator(overwrite)
	if err != nil {
		return "", err
	}
	report, err := g.Run(ctx, req)
	if err != nil {
		return "", err
	}

	return output.JSON(output.NewGenerateOutput(report))
}

func (s *Server) executeListMethods(ctx context.Context, file string) (string, error) {
	g, err := s.generator(false)
	if err != nil {
		return "", err
	}
	methods, err := g.Methods(ctx, file)
	if err != nil {
		return "", err
	}
	return output.JSON(&output.MethodsOutput{File: file, Style: g.Settings.Style, Methods: methods})
}

func (s *Server) executeSettings(action string, o settings.Overrides) (string, error) {
	switch action {
	case "", "show":
	case "apply":
		snap, err := s.settings.Load()
		if err != nil {
			return "", err
		}
		if err := s.settings.Apply(snap.With(o)); err != nil {
			return "", err
		}
	case "reset":
		if err := s.settings.Reset(); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown settings action %q (use show, apply or reset)", action)
	}

	snap, err := s.settings.Load()
	if err != nil {
		return "", err
	}
	return output.JSON(output.NewSettingsOutput(snap, ""))
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

// requiredPath reads a path argument and makes it absolute.
func requiredPath(args map[string]interface{}, key string) (string, error) {
	v := stringArg(args, key)
	if v == "" {
		return "", fmt.Errorf("%s parameter is required", key)
	}
	abs, err := filepath.Abs(v)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", v, err)
	}
	return abs, nil
}
