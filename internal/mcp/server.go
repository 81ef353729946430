package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/a3tai/pcp-change-form/internal/changeform"
	"github.com/a3tai/pcp-change-form/internal/config"
	"github.com/a3tai/pcp-change-form/internal/descriptions"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Tool names
const (
	ToolExtract      = "pcp_extract"
	ToolGenerateForm = "pcp_generate_form"
	ToolTemplateInfo = "pcp_template_info"
	ToolServerInfo   = "pcp_server_info"
)

// EndpointPath is where the streamable HTTP transport is mounted
const EndpointPath = "/mcp"

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *changeform.Service
	mcpServer *server.MCPServer
	logger    zerolog.Logger
	tools     []mcp.Tool
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *changeform.Service, logger zerolog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
		logger:    logger.With().Str("component", "mcp").Logger(),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.addTool(mcp.NewTool(
		ToolExtract,
		mcp.WithDescription(descriptions.GetToolDescription(ToolExtract)),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Pasted text containing one patient row and its PCP change note"),
		),
	), s.handleExtract)

	s.addTool(mcp.NewTool(
		ToolGenerateForm,
		mcp.WithDescription(descriptions.GetToolDescription(ToolGenerateForm)),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Pasted text containing exactly one patient row and its PCP change note"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Also save the PDF into the server's output directory"),
		),
	), s.handleGenerateForm)

	s.addTool(mcp.NewTool(
		ToolTemplateInfo,
		mcp.WithDescription(descriptions.GetToolDescription(ToolTemplateInfo)),
	), s.handleTemplateInfo)

	s.addTool(mcp.NewTool(
		ToolServerInfo,
		mcp.WithDescription(descriptions.GetToolDescription(ToolServerInfo)),
	), s.handleServerInfo)
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.tools = append(s.tools, tool)
	s.mcpServer.AddTool(tool, handler)
}

// Tools returns the registered tool definitions
func (s *Server) Tools() []mcp.Tool {
	return s.tools
}

// Handler functions
func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.service.Extract(text)
	if len(result.Entries) == 0 {
		return mcp.NewToolResultError(changeform.MsgNoMatch), nil
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to encode result", err), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleGenerateForm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.service.Generate(ctx, text)
	if err != nil {
		s.logger.Warn().Err(err).Str("tool", ToolGenerateForm).Msg("form generation failed")
		return mcp.NewToolResultError(changeform.Message(err)), nil
	}

	summary := s.formatDocument(doc)

	if request.GetBool("save", false) {
		path, err := s.service.SaveDocument(doc, s.config.OutputDirectory)
		if err != nil {
			s.logger.Warn().Err(err).Str("tool", ToolGenerateForm).Msg("saving form failed")
			return mcp.NewToolResultError(changeform.Message(err)), nil
		}
		summary += fmt.Sprintf("Saved to: %s\n", path)
	}

	return mcp.NewToolResultResource(summary, mcp.BlobResourceContents{
		URI:      "file:///" + doc.Filename,
		MIMEType: "application/pdf",
		Blob:     base64.StdEncoding.EncodeToString(doc.Content),
	}), nil
}

func (s *Server) handleTemplateInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report := s.service.TemplateReport()
	if !report.Valid {
		return mcp.NewToolResultError(fmt.Sprintf("Template %s is not usable: %s", report.Path, report.Message)), nil
	}
	return mcp.NewToolResultText(s.formatTemplateReport(report)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

func (s *Server) formatDocument(doc *changeform.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generated %s (%d bytes)\n", doc.Filename, len(doc.Content))
	fmt.Fprintf(&b, "Member: %s (%s)\n", doc.Patient.PatientName, doc.Patient.MemberID)
	fmt.Fprintf(&b, "New PCP: %s\n", doc.Change.NewPhysician)
	fmt.Fprintf(&b, "Effective Date: %s\n", doc.Change.EffectiveDate)
	if doc.Change.ReferenceNumber != "" {
		fmt.Fprintf(&b, "Reference: %s\n", doc.Change.ReferenceNumber)
	}
	if doc.Change.AgentName != "" {
		fmt.Fprintf(&b, "Agent: %s\n", doc.Change.AgentName)
	}
	return b.String()
}

func (s *Server) formatTemplateReport(report *changeform.TemplateReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Template: %s\n", report.Path)
	fmt.Fprintf(&b, "Pages: %d\n", report.Pages)
	fmt.Fprintf(&b, "Size: %d bytes\n", report.Size)
	fmt.Fprintf(&b, "Fields (%d):\n", len(report.Fields))
	for _, f := range report.Fields {
		fmt.Fprintf(&b, "  - %s (%s)\n", f.Name, f.Type)
	}
	if len(report.Missing) > 0 {
		fmt.Fprintf(&b, "Missing required fields: %s\n", strings.Join(report.Missing, ", "))
	} else {
		b.WriteString("All required fields present\n")
	}
	return b.String()
}

func (s *Server) formatServerInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s v%s\n", s.config.ServerName, s.config.Version)
	fmt.Fprintf(&b, "Template: %s\n", s.service.TemplatePath())
	fmt.Fprintf(&b, "Output Directory: %s\n", s.config.OutputDirectory)
	fmt.Fprintf(&b, "Max Input Size: %d bytes\n\n", s.config.MaxInputSize)

	b.WriteString("Available Tools:\n")
	for _, tool := range s.tools {
		summary, _, _ := strings.Cut(tool.Description, "\n")
		fmt.Fprintf(&b, "\n- %s\n  %s\n", tool.Name, summary)
	}

	b.WriteString("\nPaste one tab-separated patient row together with its PCP change note. " +
		"Only one patient can be processed per request.\n")
	return b.String()
}

// HTTPHandler returns the streamable HTTP transport for the tool set
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer, server.WithEndpointPath(EndpointPath))
}

// Run serves MCP over stdin and stdout until ctx is cancelled or stdin closes
func (s *Server) Run(ctx context.Context) error {
	return s.serveStdio(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serveStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Debug().
		Str("template", s.service.TemplatePath()).
		Msg("starting MCP server in stdio mode")

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(s.logger, "", 0))

	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
