// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package config

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/neo4j/cypher-agent/internal/logger"
)

type TransportMode string

const (
	TransportModeStdio TransportMode = "stdio"
	TransportModeHTTP  TransportMode = "http"

	// DefaultToolTimeout bounds a single remote tool invocation.
	DefaultToolTimeout = 30 * time.Second
	// DefaultClientsFile is looked up in the working directory when no file is configured.
	DefaultClientsFile = "mcp-clients.yaml"
)

// ValidTransportModes defines the allowed transport mode values for serve mode
var ValidTransportModes = []TransportMode{TransportModeStdio, TransportModeHTTP}

// ValidLLMProviders lists the providers registered by the llm package.
var ValidLLMProviders = []string{"openai", "anthropic", "ollama"}

// ToolNames holds the well-known MCP client and tool names the pipeline resolves.
type ToolNames struct {
	SchemaClient     string // graph introspection server, e.g. mcp-neo4j-cypher
	SchemaTool       string
	ValidationClient string // validation server, e.g. cyver
	SyntaxTool       string
	SchemaCheckTool  string
	PropertiesTool   string
}

// DefaultToolNames returns the names used by the mcp-neo4j-cypher and cyver servers.
func DefaultToolNames() ToolNames {
	return ToolNames{
		SchemaClient:     "mcp-neo4j-cypher",
		SchemaTool:       "get_neo4j_schema",
		ValidationClient: "cyver",
		SyntaxTool:       "validate_cypher_syntax",
		SchemaCheckTool:  "schema_validator",
		PropertiesTool:   "validate_cypher_properties",
	}
}

// Validate reports the first empty name.
func (n ToolNames) Validate() error {
	fields := []struct{ key, value string }{
		{"schema client", n.SchemaClient},
		{"schema tool", n.SchemaTool},
		{"validation client", n.ValidationClient},
		{"syntax tool", n.SyntaxTool},
		{"schema check tool", n.SchemaCheckTool},
		{"properties tool", n.PropertiesTool},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s name is required but was empty", f.key)
		}
	}
	return nil
}

// Config holds the application configuration
type Config struct {
	ClientsFile string // YAML file describing the MCP servers to connect to
	Tools       ToolNames
	ToolTimeout time.Duration

	LLMProvider string
	LLMModel    string
	LLMAPIKey   string

	ExecuteQueries bool // If true, fully valid read-only statements are run against Neo4j
	Neo4jURI       string
	Neo4jUsername  string
	Neo4jPassword  string
	Neo4jDatabase  string

	Telemetry         bool // If false, disables usage telemetry
	TelemetryEndpoint string
	TelemetryToken    string
	OTLPEndpoint      string // OTLP/HTTP traces endpoint; tracing stays local when empty

	LogLevel  string
	LogFormat string

	TransportMode TransportMode // transport for serve mode
	HTTPHost      string
	HTTPPort      string
	HTTPPath      string

	HTTPAllowedOrigins string // comma-separated CORS allow list; empty disables CORS
	HTTPAuthToken      string // when set, tools/call requests must carry it as a bearer token
	HTTPTLSCertFile    string // serve HTTPS when both the cert and key files are set
	HTTPTLSKeyFile     string
}

// Validate validates the configuration and returns an error if invalid.
// Language model settings are checked separately by ValidateModel because
// only the commands that generate Cypher need them.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration is required but was nil")
	}

	if err := c.Tools.Validate(); err != nil {
		return err
	}

	if c.ToolTimeout <= 0 {
		return fmt.Errorf("tool timeout must be positive, got %s", c.ToolTimeout)
	}

	if c.TransportMode == "" {
		c.TransportMode = TransportModeStdio
	}
	if !slices.Contains(ValidTransportModes, c.TransportMode) {
		return fmt.Errorf("invalid transport mode '%s', must be one of %v", c.TransportMode, ValidTransportModes)
	}

	if (c.HTTPTLSCertFile == "") != (c.HTTPTLSKeyFile == "") {
		return fmt.Errorf("TLS requires both a certificate file and a key file")
	}

	if c.ExecuteQueries {
		if c.Neo4jURI == "" {
			return fmt.Errorf("Neo4j URI is required when query execution is enabled")
		}
		if c.Neo4jUsername == "" {
			return fmt.Errorf("Neo4j username is required when query execution is enabled")
		}
		if c.Neo4jPassword == "" {
			return fmt.Errorf("Neo4j password is required when query execution is enabled")
		}
	}

	if c.Telemetry && c.TelemetryEndpoint == "" {
		return fmt.Errorf("telemetry endpoint is required when telemetry is enabled")
	}

	return nil
}

// TLSEnabled reports whether serve mode uses HTTPS.
func (c *Config) TLSEnabled() bool {
	return c.HTTPTLSCertFile != "" && c.HTTPTLSKeyFile != ""
}

// ValidateModel checks the language model settings.
func (c *Config) ValidateModel() error {
	if c == nil {
		return fmt.Errorf("configuration is required but was nil")
	}
	if !slices.Contains(ValidLLMProviders, c.LLMProvider) {
		return fmt.Errorf("invalid LLM provider '%s', must be one of %v", c.LLMProvider, ValidLLMProviders)
	}
	if c.LLMModel == "" {
		return fmt.Errorf("LLM model is required but was empty")
	}
	if c.LLMProvider != "ollama" && c.LLMAPIKey == "" {
		return fmt.Errorf("API key is required for LLM provider '%s'", c.LLMProvider)
	}
	return nil
}

// CLIOverrides holds optional configuration values from CLI flags
type CLIOverrides struct {
	ClientsFile   string
	ToolTimeout   string
	LLMProvider   string
	LLMModel      string
	Execute       string
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string
	Neo4jDatabase string
	LogLevel      string
	TransportMode string
	Host          string
	Port          string
}

// LoadConfig loads configuration from environment variables, applies CLI overrides, and validates.
// CLI flag values take precedence over environment variables.
func LoadConfig(cliOverrides *CLIOverrides) (*Config, error) {
	logLevel := GetEnvWithDefault("CYPHER_AGENT_LOG_LEVEL", "info")
	logFormat := GetEnvWithDefault("CYPHER_AGENT_LOG_FORMAT", "text")

	defaults := DefaultToolNames()
	provider := GetEnvWithDefault("CYPHER_AGENT_LLM_PROVIDER", "openai")

	cfg := &Config{
		ClientsFile: GetEnvWithDefault("CYPHER_AGENT_CLIENTS_FILE", DefaultClientsFile),
		Tools: ToolNames{
			SchemaClient:     GetEnvWithDefault("CYPHER_AGENT_SCHEMA_CLIENT", defaults.SchemaClient),
			SchemaTool:       GetEnvWithDefault("CYPHER_AGENT_SCHEMA_TOOL", defaults.SchemaTool),
			ValidationClient: GetEnvWithDefault("CYPHER_AGENT_VALIDATION_CLIENT", defaults.ValidationClient),
			SyntaxTool:       GetEnvWithDefault("CYPHER_AGENT_SYNTAX_TOOL", defaults.SyntaxTool),
			SchemaCheckTool:  GetEnvWithDefault("CYPHER_AGENT_SCHEMA_CHECK_TOOL", defaults.SchemaCheckTool),
			PropertiesTool:   GetEnvWithDefault("CYPHER_AGENT_PROPERTIES_TOOL", defaults.PropertiesTool),
		},
		ToolTimeout:        ParseDuration(GetEnv("CYPHER_AGENT_TOOL_TIMEOUT"), DefaultToolTimeout),
		LLMProvider:        provider,
		LLMModel:           GetEnvWithDefault("CYPHER_AGENT_LLM_MODEL", defaultModel(provider)),
		LLMAPIKey:          GetEnvWithDefault("CYPHER_AGENT_LLM_API_KEY", providerAPIKey(provider)),
		ExecuteQueries:     ParseBool(GetEnv("CYPHER_AGENT_EXECUTE"), false),
		Neo4jURI:           GetEnv("NEO4J_URI"),
		Neo4jUsername:      GetEnv("NEO4J_USERNAME"),
		Neo4jPassword:      GetEnv("NEO4J_PASSWORD"),
		Neo4jDatabase:      GetEnvWithDefault("NEO4J_DATABASE", "neo4j"),
		Telemetry:          ParseBool(GetEnv("CYPHER_AGENT_TELEMETRY"), false),
		TelemetryEndpoint:  GetEnv("CYPHER_AGENT_TELEMETRY_ENDPOINT"),
		TelemetryToken:     GetEnv("CYPHER_AGENT_TELEMETRY_TOKEN"),
		OTLPEndpoint:       GetEnv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"),
		TransportMode:      TransportMode(GetEnvWithDefault("CYPHER_AGENT_TRANSPORT", string(TransportModeStdio))),
		HTTPHost:           GetEnvWithDefault("CYPHER_AGENT_HTTP_HOST", "127.0.0.1"),
		HTTPPort:           GetEnvWithDefault("CYPHER_AGENT_HTTP_PORT", "8080"),
		HTTPPath:           GetEnvWithDefault("CYPHER_AGENT_HTTP_PATH", "/mcp"),
		HTTPAllowedOrigins: GetEnv("CYPHER_AGENT_HTTP_ALLOWED_ORIGINS"),
		HTTPAuthToken:      GetEnv("CYPHER_AGENT_HTTP_AUTH_TOKEN"),
		HTTPTLSCertFile:    GetEnv("CYPHER_AGENT_HTTP_TLS_CERT_FILE"),
		HTTPTLSKeyFile:     GetEnv("CYPHER_AGENT_HTTP_TLS_KEY_FILE"),
	}

	if cliOverrides != nil {
		if cliOverrides.ClientsFile != "" {
			cfg.ClientsFile = cliOverrides.ClientsFile
		}
		if cliOverrides.ToolTimeout != "" {
			cfg.ToolTimeout = ParseDuration(cliOverrides.ToolTimeout, cfg.ToolTimeout)
		}
		if cliOverrides.LLMProvider != "" && cliOverrides.LLMProvider != cfg.LLMProvider {
			cfg.LLMProvider = cliOverrides.LLMProvider
			// a provider switch invalidates the provider-derived defaults
			cfg.LLMModel = GetEnvWithDefault("CYPHER_AGENT_LLM_MODEL", defaultModel(cfg.LLMProvider))
			cfg.LLMAPIKey = GetEnvWithDefault("CYPHER_AGENT_LLM_API_KEY", providerAPIKey(cfg.LLMProvider))
		}
		if cliOverrides.LLMModel != "" {
			cfg.LLMModel = cliOverrides.LLMModel
		}
		if cliOverrides.Execute != "" {
			cfg.ExecuteQueries = ParseBool(cliOverrides.Execute, cfg.ExecuteQueries)
		}
		if cliOverrides.Neo4jURI != "" {
			cfg.Neo4jURI = cliOverrides.Neo4jURI
		}
		if cliOverrides.Neo4jUsername != "" {
			cfg.Neo4jUsername = cliOverrides.Neo4jUsername
		}
		if cliOverrides.Neo4jPassword != "" {
			cfg.Neo4jPassword = cliOverrides.Neo4jPassword
		}
		if cliOverrides.Neo4jDatabase != "" {
			cfg.Neo4jDatabase = cliOverrides.Neo4jDatabase
		}
		if cliOverrides.LogLevel != "" {
			logLevel = cliOverrides.LogLevel
		}
		if cliOverrides.TransportMode != "" {
			cfg.TransportMode = TransportMode(cliOverrides.TransportMode)
		}
		if cliOverrides.Host != "" {
			cfg.HTTPHost = cliOverrides.Host
		}
		if cliOverrides.Port != "" {
			cfg.HTTPPort = cliOverrides.Port
		}
	}

	if !slices.Contains(logger.ValidLogLevels, strings.ToLower(logLevel)) {
		fmt.Fprintf(os.Stderr, "Warning: invalid log level '%s', using default 'info'. Valid values: %v\n", logLevel, logger.ValidLogLevels)
		logLevel = "info"
	}
	if !slices.Contains(logger.ValidLogFormats, strings.ToLower(logFormat)) {
		fmt.Fprintf(os.Stderr, "Warning: invalid log format '%s', using default 'text'. Valid values: %v\n", logFormat, logger.ValidLogFormats)
		logFormat = "text"
	}
	cfg.LogLevel = logLevel
	cfg.LogFormat = logFormat

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaultModel(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-sonnet-4-5"
	case "ollama":
		return "llama3.1"
	default:
		return "gpt-4.1-mini"
	}
}

func providerAPIKey(provider string) string {
	switch provider {
	case "anthropic":
		return GetEnv("ANTHROPIC_API_KEY")
	case "openai":
		return GetEnv("OPENAI_API_KEY")
	default:
		return ""
	}
}

// GetEnv returns the value of an environment variable or empty string if not set
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvWithDefault returns the value of an environment variable or a default value
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseBool parses a string to bool using strconv.ParseBool.
// Returns the default value if the string is empty or invalid.
// Logs a warning if the value is non-empty but invalid.
func ParseBool(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: Invalid boolean value %q, using default: %v", value, defaultValue)
		return defaultValue
	}
	return parsed
}

// ParseDuration parses a Go duration ("45s", "2m") or a bare number of seconds.
// Returns the default value if the string is empty or invalid.
func ParseDuration(value string, defaultValue time.Duration) time.Duration {
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Warning: Invalid duration value %q, using default: %v", value, defaultValue)
	return defaultValue
}
