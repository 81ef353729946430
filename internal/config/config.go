package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort            = 8080
	DefaultHost            = "127.0.0.1"
	DefaultLogLevel        = "info"
	DefaultTemplatePath    = "templates/pcp_change_form.pdf"
	DefaultOutputDir       = "forms"
	DefaultReason          = "Member request"
	DefaultMaxInputSize    = 1024 * 1024      // 1MB of pasted text
	DefaultMaxTemplateSize = 10 * 1024 * 1024 // 10MB

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix is prepended to every environment variable, e.g. PCP_FORM_PORT
	EnvPrefix = "PCP_FORM"
)

// Flag names
const (
	FlagMode            = "mode"
	FlagHost            = "host"
	FlagPort            = "port"
	FlagTemplate        = "template"
	FlagOutputDir       = "output-dir"
	FlagReason          = "reason"
	FlagLogLevel        = "log-level"
	FlagLogConsole      = "log-console"
	FlagMaxInputSize    = "max-input-size"
	FlagMaxTemplateSize = "max-template-size"
)

// Config holds all configuration for the PCP change form service
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Form configuration
	TemplatePath    string
	OutputDirectory string
	Reason          string // written into the form's reason field

	// Application configuration
	Version         string
	ServerName      string
	LogLevel        string
	LogConsole      bool  // human readable log output instead of JSON
	MaxInputSize    int64 // maximum pasted text size in bytes
	MaxTemplateSize int64 // maximum template PDF size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio, // MCP clients launch the binary over stdio
		Host:            DefaultHost,
		Port:            DefaultPort,
		TemplatePath:    DefaultTemplatePath,
		OutputDirectory: filepath.Join(currentDir, DefaultOutputDir),
		Reason:          DefaultReason,
		Version:         "1.0.0",
		ServerName:      "pcp-change-form",
		LogLevel:        DefaultLogLevel,
		MaxInputSize:    DefaultMaxInputSize,
		MaxTemplateSize: DefaultMaxTemplateSize,
	}
}

// BindFlags defines every configuration flag on fs with its default value
func BindFlags(fs *pflag.FlagSet) {
	cfg := DefaultConfig()

	fs.String(FlagMode, cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	fs.String(FlagHost, cfg.Host, "Server host address (server mode only)")
	fs.Int(FlagPort, cfg.Port, "Server port (server mode only)")
	fs.String(FlagTemplate, cfg.TemplatePath, "Path to the PCP change form PDF template")
	fs.String(FlagOutputDir, cfg.OutputDirectory, "Directory generated forms are saved into")
	fs.String(FlagReason, cfg.Reason, "Text written into the form's reason field")
	fs.String(FlagLogLevel, cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Bool(FlagLogConsole, cfg.LogConsole, "Write human readable logs instead of JSON")
	fs.Int64(FlagMaxInputSize, cfg.MaxInputSize, "Maximum pasted text size in bytes")
	fs.Int64(FlagMaxTemplateSize, cfg.MaxTemplateSize, "Maximum template size in bytes")
}

// LoadFromFlags builds a configuration from flags defined by BindFlags,
// falling back to PCP_FORM_* environment variables for flags left unset.
func LoadFromFlags(fs *pflag.FlagSet) (*Config, error) {
	v := newViper()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg := DefaultConfig()
	populateConfigFromViper(v, cfg)

	if cfg.OutputDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.OutputDirectory); err == nil {
			cfg.OutputDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// newViper configures a viper instance that reads PCP_FORM_* variables.
// Dashes in flag names map to underscores, so output-dir reads
// PCP_FORM_OUTPUT_DIR.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	if v.IsSet(FlagMode) {
		cfg.Mode = v.GetString(FlagMode)
	}
	if v.IsSet(FlagHost) {
		cfg.Host = v.GetString(FlagHost)
	}
	if v.IsSet(FlagPort) {
		cfg.Port = v.GetInt(FlagPort)
	}
	if v.IsSet(FlagTemplate) {
		cfg.TemplatePath = v.GetString(FlagTemplate)
	}
	if v.IsSet(FlagOutputDir) {
		cfg.OutputDirectory = v.GetString(FlagOutputDir)
	}
	if v.IsSet(FlagReason) {
		cfg.Reason = v.GetString(FlagReason)
	}
	if v.IsSet(FlagLogLevel) {
		cfg.LogLevel = v.GetString(FlagLogLevel)
	}
	if v.IsSet(FlagLogConsole) {
		cfg.LogConsole = v.GetBool(FlagLogConsole)
	}
	if v.IsSet(FlagMaxInputSize) {
		cfg.MaxInputSize = v.GetInt64(FlagMaxInputSize)
	}
	if v.IsSet(FlagMaxTemplateSize) {
		cfg.MaxTemplateSize = v.GetInt64(FlagMaxTemplateSize)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.TemplatePath == "" {
		return errors.New("template path cannot be empty")
	}

	if strings.TrimSpace(c.Reason) == "" {
		return errors.New("reason cannot be empty")
	}

	if c.OutputDirectory == "" {
		return errors.New("output directory cannot be empty")
	}

	// Create the output directory up front so the first save does not race
	if _, err := os.Stat(c.OutputDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDirectory, err)
	}

	if c.MaxInputSize <= 0 {
		return errors.New("maximum input size must be positive")
	}

	if c.MaxTemplateSize <= 0 {
		return errors.New("maximum template size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, TemplatePath: %s, OutputDirectory: %s, LogLevel: %s, MaxInputSize: %d}",
		c.Mode, c.Host, c.Port, c.TemplatePath, c.OutputDirectory, c.LogLevel, c.MaxInputSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
