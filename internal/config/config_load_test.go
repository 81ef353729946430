package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("pcp-change-form", pflag.ContinueOnError)
	BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	return fs
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	t.Setenv("PCP_FORM_OUTPUT_DIR", dir)

	cfg, err := LoadFromFlags(newFlagSet(t))
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.Port != 8080 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 8080)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.OutputDirectory != dir {
		t.Errorf("LoadFromFlags() OutputDirectory = %v, want %v", cfg.OutputDirectory, dir)
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantMode     string
		wantHost     string
		wantPort     int
		wantLogLevel string
		wantTemplate string
		wantReason   string
	}{
		{
			name:         "server mode with custom host and port",
			args:         []string{"--mode=server", "--host=0.0.0.0", "--port=9090"},
			wantMode:     "server",
			wantHost:     "0.0.0.0",
			wantPort:     9090,
			wantLogLevel: "info",
			wantTemplate: DefaultTemplatePath,
			wantReason:   DefaultReason,
		},
		{
			name:         "debug logging",
			args:         []string{"--log-level=debug"},
			wantMode:     "stdio",
			wantHost:     "127.0.0.1",
			wantPort:     8080,
			wantLogLevel: "debug",
			wantTemplate: DefaultTemplatePath,
			wantReason:   DefaultReason,
		},
		{
			name:         "custom template and reason",
			args:         []string{"--template=/srv/forms/pcp.pdf", "--reason=Provider request"},
			wantMode:     "stdio",
			wantHost:     "127.0.0.1",
			wantPort:     8080,
			wantLogLevel: "info",
			wantTemplate: "/srv/forms/pcp.pdf",
			wantReason:   "Provider request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--output-dir="+t.TempDir())

			cfg, err := LoadFromFlags(newFlagSet(t, args...))
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}

			if cfg.Mode != tt.wantMode {
				t.Errorf("Mode = %v, want %v", cfg.Mode, tt.wantMode)
			}
			if cfg.Host != tt.wantHost {
				t.Errorf("Host = %v, want %v", cfg.Host, tt.wantHost)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", cfg.Port, tt.wantPort)
			}
			if cfg.LogLevel != tt.wantLogLevel {
				t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, tt.wantLogLevel)
			}
			if cfg.TemplatePath != tt.wantTemplate {
				t.Errorf("TemplatePath = %v, want %v", cfg.TemplatePath, tt.wantTemplate)
			}
			if cfg.Reason != tt.wantReason {
				t.Errorf("Reason = %v, want %v", cfg.Reason, tt.wantReason)
			}
		})
	}
}

func TestLoadFromFlags_Environment(t *testing.T) {
	t.Setenv("PCP_FORM_MODE", "server")
	t.Setenv("PCP_FORM_PORT", "7070")
	t.Setenv("PCP_FORM_MAX_INPUT_SIZE", "2048")
	t.Setenv("PCP_FORM_OUTPUT_DIR", t.TempDir())

	cfg, err := LoadFromFlags(newFlagSet(t))
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "server" {
		t.Errorf("Mode = %v, want server", cfg.Mode)
	}
	if cfg.Port != 7070 {
		t.Errorf("Port = %v, want 7070", cfg.Port)
	}
	if cfg.MaxInputSize != 2048 {
		t.Errorf("MaxInputSize = %v, want 2048", cfg.MaxInputSize)
	}
}

func TestLoadFromFlags_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PCP_FORM_PORT", "7070")

	cfg, err := LoadFromFlags(newFlagSet(t, "--mode=server", "--port=6060", "--output-dir="+t.TempDir()))
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Port != 6060 {
		t.Errorf("Port = %v, want 6060", cfg.Port)
	}
}

func TestLoadFromFlags_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"invalid mode", []string{"--mode=invalid"}},
		{"invalid log level", []string{"--log-level=verbose"}},
		{"invalid port in server mode", []string{"--mode=server", "--port=0"}},
		{"empty template", []string{"--template="}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--output-dir="+t.TempDir())

			if _, err := LoadFromFlags(newFlagSet(t, args...)); err == nil {
				t.Error("LoadFromFlags() expected error")
			}
		})
	}
}
