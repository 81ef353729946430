package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/a3tai/pcp-change-form/internal/changeform"
	"github.com/a3tai/pcp-change-form/internal/config"
	"github.com/a3tai/pcp-change-form/internal/logging"
	"github.com/a3tai/pcp-change-form/internal/mcp"
	"github.com/a3tai/pcp-change-form/internal/pdf"
	"github.com/a3tai/pcp-change-form/internal/web"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

const (
	flagOut         = "out"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pcp-change-form",
		Short:         "Turn pasted PCP change notes into filled change request forms",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(fillCmd())
	rootCmd.AddCommand(templateCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio, or the HTTP server with --mode server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Print the change details found in pasted text as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args, cfg.MaxInputSize)
			if err != nil {
				return err
			}

			result := newService(cfg, logger).Extract(text)
			if len(result.Entries) == 0 {
				return errors.New(changeform.MsgNoMatch)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func fillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill [file|-]",
		Short: "Generate the PCP change form for pasted text",
		Long: "Generate the PCP change form for pasted text. The form is written to --out, " +
			"or saved into the output directory under its generated name.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args, cfg.MaxInputSize)
			if err != nil {
				return err
			}

			service := newService(cfg, logger)
			out, _ := cmd.Flags().GetString(flagOut)

			if out == "" {
				path, err := service.Save(cmd.Context(), text, cfg.OutputDirectory)
				if err != nil {
					return errors.New(changeform.Message(err))
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}

			doc, err := service.Generate(cmd.Context(), text)
			if err != nil {
				return errors.New(changeform.Message(err))
			}
			if out == "-" {
				_, err = cmd.OutOrStdout().Write(doc.Content)
				return err
			}
			if err := os.WriteFile(out, doc.Content, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().String(flagOut, "", "Write the PDF to this path ('-' for stdout) instead of the output directory")
	return cmd
}

func templateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Inspect the configured form template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			report := newService(cfg, logger).TemplateReport()
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.Valid {
				return fmt.Errorf("template %s is not usable: %s", report.Path, report.Message)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

// setup loads configuration from the command's flags and builds the logger.
// One-shot commands own stdout, so their logs always go to stderr.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadFromFlags(cmd.Flags())
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cmd.Name() == "serve" || !cmd.HasParent() {
		return cfg, logging.New(cfg), nil
	}
	return cfg, logging.NewWithWriter(cfg, cmd.ErrOrStderr()), nil
}

func newService(cfg *config.Config, logger zerolog.Logger) *changeform.Service {
	return changeform.NewService(changeform.Options{
		TemplatePath: cfg.TemplatePath,
		Reason:       cfg.Reason,
		Filler:       pdf.NewFiller(logger),
		Validator:    pdf.NewValidator(cfg.MaxTemplateSize),
		Fields:       pdf.NewFieldLister(logger),
		Logger:       logger,
	})
}

// readInput reads the pasted text from the named file, or stdin when no
// file or "-" is given.
func readInput(cmd *cobra.Command, args []string, limit int64) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("input exceeds maximum size of %d bytes", limit)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	if cfg.IsDebug() && cfg.IsServerMode() {
		logger.Debug().Str("config", cfg.String()).Msg("starting with configuration")
	}

	service := newService(cfg, logger)

	mcpServer, err := mcp.NewServer(cfg, service, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.IsServerMode() {
		httpServer, err := web.NewServer(cfg, service, mcpServer.HTTPHandler(), logger)
		if err != nil {
			return fmt.Errorf("failed to create HTTP server: %w", err)
		}
		return runServerMode(ctx, httpServer, logger)
	}
	return runStdioMode(ctx, mcpServer, logger)
}

// runServerMode serves HTTP until a shutdown signal arrives or the server fails
func runServerMode(ctx context.Context, server *web.Server, logger zerolog.Logger) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Start()
	}()

	select {
	case sig := <-signalCh:
		logger.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
	case <-ctx.Done():
	case err := <-serverErrCh:
		if err != nil {
			logger.Error().Err(err).Msg("server error")
		}
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	if err := <-serverErrCh; err != nil {
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}

// runStdioMode serves MCP on stdin and stdout. The parent process controls
// the lifecycle; closing stdin or a signal ends it.
func runStdioMode(ctx context.Context, server *mcp.Server, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server error")
		return err
	}
	return nil
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "PCP Change Form\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
