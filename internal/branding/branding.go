// Package branding provides compile-time identity values for the CLI and the
// MCP server.
//
// Values come from branding.yaml, baked into the binary with //go:embed.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	GitHubRepo  string `yaml:"github_repo"`
	ServerName  string `yaml:"server_name"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "springboot-code-mcp",
			DisplayName: "Spring Boot Code MCP",
			Description: "Injects Maven dependencies into Spring Boot projects",
			HomeDir:     ".springboot-code-mcp",
			EnvPrefix:   "SBCM",
			GoModule:    "github.com/chenchenpp/springboot-code-mcp",
			GitHubRepo:  "chenchenpp/springboot-code-mcp",
			ServerName:  "rt-api-mcp",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name.
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME.
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "SBCM").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// GitHubRepo returns the "owner/repo" string.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// ServerName returns the name the MCP server reports in initialize responses.
func ServerName() string { load(); return defaults.ServerName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("backup") → "SBCM_BACKUP".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
