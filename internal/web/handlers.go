package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/a3tai/pcp-change-form/internal/changeform"
	"github.com/a3tai/pcp-change-form/internal/web/middleware"
	"github.com/labstack/echo/v4"
)

// FormField is the form field the legacy spreadsheet macro posts
const FormField = "excel_row"

type errorResponse struct {
	Error string `json:"error"`
}

type extractRequest struct {
	Text     string `json:"text" form:"text"`
	ExcelRow string `json:"excel_row" form:"excel_row"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.config.Version,
	})
}

// handleGenerate returns the filled form as a PDF download
func (s *Server) handleGenerate(c echo.Context) error {
	text := c.FormValue(FormField)
	if strings.TrimSpace(text) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: changeform.MsgNoMatch})
	}

	doc, err := s.service.Generate(c.Request().Context(), text)
	if err != nil {
		return s.writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	return c.Blob(http.StatusOK, "application/pdf", doc.Content)
}

// handleExtract runs the pipeline without filling the template
func (s *Server) handleExtract(c echo.Context) error {
	var req extractRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	text := req.Text
	if text == "" {
		text = req.ExcelRow
	}
	if strings.TrimSpace(text) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "text is required"})
	}

	return c.JSON(http.StatusOK, s.service.Extract(text))
}

func (s *Server) handleTemplate(c echo.Context) error {
	report := s.service.TemplateReport()
	status := http.StatusOK
	if !report.Valid {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, report)
}

// writeError maps pipeline errors to a status and a fixed message. Causes
// are logged but never returned to the caller.
func (s *Server) writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	if e, ok := changeform.AsError(err); ok && e.UserFacing() {
		status = http.StatusBadRequest
	}

	rid, _ := c.Get(middleware.RequestIDKey).(string)
	evt := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		evt = s.logger.Error()
	}
	evt.Err(err).Str("request_id", rid).Int("status", status).Msg("change form request failed")

	return c.JSON(status, errorResponse{Error: changeform.Message(err)})
}
