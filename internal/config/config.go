package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chenchenpp/springboot-code-mcp/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyMode        = "mode"
	KeyHTTPPort    = "http.port"
	KeyHTTPPath    = "http.path"
	KeyPresetsFile = "presets_file"
	KeyBackup      = "backup"
)

// Transport modes for the MCP server.
const (
	ModeStdio = "stdio"
	ModeHTTP  = "http"
)

// Env vars kept from the original Node server; they take no prefix.
var legacyEnv = map[string]string{
	KeyMode:     "MCP_MODE",
	KeyHTTPPort: "MCP_HTTP_PORT",
	KeyHTTPPath: "MCP_HTTP_PATH",
}

// ServerSettings configures the MCP server transport.
type ServerSettings struct {
	Mode string
	Port int
	Path string
}

// Validate checks the mode, port range and path shape.
func (s ServerSettings) Validate() error {
	if s.Mode != ModeStdio && s.Mode != ModeHTTP {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeStdio, ModeHTTP, s.Mode)
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("http port %d out of range", s.Port)
	}
	if !strings.HasPrefix(s.Path, "/") {
		return fmt.Errorf("http path %q must start with /", s.Path)
	}
	return nil
}

// Addr returns the listen address for HTTP mode.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Dir returns the path to the config directory (~/.springboot-code-mcp/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyMode, ModeStdio)
	viper.SetDefault(KeyHTTPPort, 3000)
	viper.SetDefault(KeyHTTPPath, "/mcp")
	viper.SetDefault(KeyBackup, false)

	for key, env := range legacyEnv {
		_ = viper.BindEnv(key, env, branding.EnvVar(strings.ReplaceAll(key, ".", "_")))
	}

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Server returns the validated server transport settings.
func Server() (ServerSettings, error) {
	s := ServerSettings{
		Mode: strings.ToLower(viper.GetString(KeyMode)),
		Port: viper.GetInt(KeyHTTPPort),
		Path: viper.GetString(KeyHTTPPath),
	}
	if err := s.Validate(); err != nil {
		return ServerSettings{}, fmt.Errorf("invalid server config: %w", err)
	}
	return s, nil
}

// PresetsFile returns the overlay preset catalog path, or "" when unset.
func PresetsFile() string {
	return viper.GetString(KeyPresetsFile)
}

// Backup reports whether manifests are copied to <file>.bak before overwrite.
func Backup() bool {
	return viper.GetBool(KeyBackup)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
