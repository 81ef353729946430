package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.ServerName != "pcp-change-form" {
		t.Errorf("Expected default server name to be 'pcp-change-form', got '%s'", cfg.ServerName)
	}

	if cfg.TemplatePath != DefaultTemplatePath {
		t.Errorf("Expected default template path to be '%s', got '%s'", DefaultTemplatePath, cfg.TemplatePath)
	}

	if cfg.Reason != DefaultReason {
		t.Errorf("Expected default reason to be '%s', got '%s'", DefaultReason, cfg.Reason)
	}

	if cfg.MaxInputSize != 1024*1024 {
		t.Errorf("Expected default max input size to be 1MB, got %d", cfg.MaxInputSize)
	}

	currentDir, _ := os.Getwd()
	if want := filepath.Join(currentDir, "forms"); cfg.OutputDirectory != want {
		t.Errorf("Expected default output directory to be '%s', got '%s'", want, cfg.OutputDirectory)
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.OutputDirectory = filepath.Join(t.TempDir(), "forms")
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid config - stdio mode", func(c *Config) {}, false},
		{"valid config - server mode", func(c *Config) { c.Mode = ModeServer }, false},
		{"invalid mode", func(c *Config) { c.Mode = "invalid" }, true},
		{"invalid port - too low (server mode)", func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, true},
		{"invalid port - too high (server mode)", func(c *Config) { c.Mode = ModeServer; c.Port = 70000 }, true},
		{"invalid port ignored in stdio mode", func(c *Config) { c.Port = 0 }, false},
		{"empty template path", func(c *Config) { c.TemplatePath = "" }, true},
		{"blank reason", func(c *Config) { c.Reason = "  " }, true},
		{"empty output directory", func(c *Config) { c.OutputDirectory = "" }, true},
		{"zero max input size", func(c *Config) { c.MaxInputSize = 0 }, true},
		{"negative max template size", func(c *Config) { c.MaxTemplateSize = -1 }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "invalid" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidate_CreatesOutputDirectory(t *testing.T) {
	cfg := validConfig(t)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	info, err := os.Stat(cfg.OutputDirectory)
	if err != nil {
		t.Fatalf("output directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("output path is not a directory")
	}
}

func TestConfigValidate_OutputDirectoryIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.OutputDirectory = filepath.Join(file, "nested")

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for output directory below a file")
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := &Config{Mode: ModeServer, Host: "0.0.0.0", Port: 9090, LogLevel: "debug"}

	if got := cfg.Address(); got != "0.0.0.0:9090" {
		t.Errorf("Address() = %s, want 0.0.0.0:9090", got)
	}
	if !cfg.IsDebug() {
		t.Error("IsDebug() = false, want true")
	}
	if !cfg.IsServerMode() || cfg.IsStdioMode() {
		t.Error("expected server mode")
	}

	cfg.Mode = ModeStdio
	cfg.LogLevel = "info"
	if cfg.IsDebug() {
		t.Error("IsDebug() = true, want false")
	}
	if !cfg.IsStdioMode() || cfg.IsServerMode() {
		t.Error("expected stdio mode")
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:            ModeServer,
		Host:            "localhost",
		Port:            8080,
		TemplatePath:    "form.pdf",
		OutputDirectory: "/tmp/forms",
		LogLevel:        "info",
		MaxInputSize:    1024,
	}

	want := "Config{Mode: server, Host: localhost, Port: 8080, TemplatePath: form.pdf, OutputDirectory: /tmp/forms, LogLevel: info, MaxInputSize: 1024}"
	if got := cfg.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
