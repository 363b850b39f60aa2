// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ClientConfig describes one MCP server the agent connects to.
// Exactly one of Command (stdio subprocess) or URL (streamable HTTP) is set.
type ClientConfig struct {
	// Name overrides the server-reported name used for lookups. Optional.
	Name string `yaml:"name,omitempty"`

	Command string            `yaml:"command,omitempty"`
	Args    []string          `yaml:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`

	URL     string            `yaml:"url,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// Label returns something printable for logs.
func (c ClientConfig) Label() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Command != "":
		return c.Command
	default:
		return c.URL
	}
}

// IsStdio reports whether the client is started as a subprocess.
func (c ClientConfig) IsStdio() bool {
	return c.Command != ""
}

// Validate checks the transport settings of one client.
func (c ClientConfig) Validate() error {
	hasCommand := strings.TrimSpace(c.Command) != ""
	hasURL := strings.TrimSpace(c.URL) != ""
	switch {
	case hasCommand && hasURL:
		return fmt.Errorf("client %q: command and url are mutually exclusive", c.Label())
	case !hasCommand && !hasURL:
		return fmt.Errorf("client %q: one of command or url is required", c.Label())
	case hasURL && !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://"):
		return fmt.Errorf("client %q: url must start with http:// or https://", c.Label())
	}
	return nil
}

// EnvList renders Env as KEY=VALUE pairs for a subprocess.
func (c ClientConfig) EnvList() []string {
	env := make([]string, 0, len(c.Env))
	for k, v := range c.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// ClientsFile is the top-level shape of the clients YAML file.
type ClientsFile struct {
	Clients []ClientConfig `yaml:"clients"`
}

// LoadClients reads and validates the clients file at path.
// ${VAR} references in env and header values are expanded from the environment,
// so secrets do not need to live in the file.
func LoadClients(path string) ([]ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clients file %s: %w", path, err)
	}
	return ParseClients(data)
}

// ParseClients decodes a clients document. Unknown keys are rejected to catch typos.
func ParseClients(data []byte) ([]ClientConfig, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var file ClientsFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse clients file: %w", err)
	}
	if len(file.Clients) == 0 {
		return nil, fmt.Errorf("clients file declares no clients")
	}

	for i := range file.Clients {
		c := &file.Clients[i]
		if err := c.Validate(); err != nil {
			return nil, err
		}
		for k, v := range c.Env {
			c.Env[k] = os.ExpandEnv(v)
		}
		for k, v := range c.Headers {
			c.Headers[k] = os.ExpandEnv(v)
		}
	}
	return file.Clients, nil
}
