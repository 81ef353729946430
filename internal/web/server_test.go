package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a3tai/pcp-change-form/internal/changeform"
	"github.com/a3tai/pcp-change-form/internal/config"
	"github.com/a3tai/pcp-change-form/internal/pdf"
	"github.com/a3tai/pcp-change-form/internal/web/middleware"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = "01/02/2024\t12345X\t05/06/1990\tJohn Smith\tDr. Old/extra\t**AB123**\t(555) 123-4567\n" +
	"SMITH, JANE 01/02/2024 09:15:00 AM > PCP CHANGE TO DR BHATT EFF DATE 02/01/2024 REF-998"

type stubFiller struct {
	content []byte
	err     error
}

func (f *stubFiller) Fill(context.Context, string, map[string]string) ([]byte, error) {
	return f.content, f.err
}

type stubValidator struct{ valid bool }

func (v stubValidator) Inspect(path string) *pdf.TemplateInfo {
	info := &pdf.TemplateInfo{Path: path, Valid: v.valid}
	if !v.valid {
		info.Message = "template does not exist"
	}
	return info
}

func newTestServer(t *testing.T, filler changeform.Filler, mcpHandler http.Handler) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.MaxInputSize = 64 * 1024

	svc := changeform.NewService(changeform.Options{
		TemplatePath: "form.pdf",
		Filler:       filler,
		Validator:    stubValidator{valid: true},
		Logger:       zerolog.Nop(),
	})

	srv, err := NewServer(cfg, svc, mcpHandler, zerolog.Nop())
	require.NoError(t, err)
	return srv
}

func postForm(t *testing.T, h http.Handler, path, text string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{FormField: {text}}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestNewServer_NilService(t *testing.T) {
	_, err := NewServer(config.DefaultConfig(), nil, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubFiller{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestGenerate(t *testing.T) {
	t.Run("returns pdf attachment", func(t *testing.T) {
		srv := newTestServer(t, &stubFiller{content: []byte("%PDF-1.7 filled")}, nil)

		rec := postForm(t, srv.Handler(), "/pcp-change-form", sampleText)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, `attachment; filename="John Smith_12345_PCP-CHANGE-FORM_01-02-2024.pdf"`,
			rec.Header().Get(echo.HeaderContentDisposition))
		assert.Equal(t, "%PDF-1.7 filled", rec.Body.String())
	})

	tests := []struct {
		name       string
		text       string
		filler     *stubFiller
		wantStatus int
		wantError  string
	}{
		{"empty input", "", &stubFiller{}, http.StatusBadRequest, changeform.MsgNoMatch},
		{"no match", "nothing useful here", &stubFiller{}, http.StatusBadRequest, changeform.MsgNoMatch},
		{
			"validation",
			"01/02/2024\t1\t05/06/1990\tA\tB\tC\tD\n01/02/2024 09:15:00 AM > PCP CHANGE TO DR BHATT",
			&stubFiller{}, http.StatusBadRequest, changeform.MsgMissingDate,
		},
		{"fill failure hides cause", sampleText, &stubFiller{err: errors.New("xref table broken")}, http.StatusInternalServerError, changeform.MsgFillFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.filler, nil)

			rec := postForm(t, srv.Handler(), "/pcp-change-form", tt.text)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rec))
			assert.NotContains(t, rec.Body.String(), "xref")
		})
	}
}

func TestExtract(t *testing.T) {
	srv := newTestServer(t, &stubFiller{}, nil)

	t.Run("json body", func(t *testing.T) {
		body, err := json.Marshal(map[string]string{"text": sampleText})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(string(body)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var result changeform.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Entries, 1)
		assert.Equal(t, "Brian Bhatt M.D.", result.Entries[0].Change.NewPhysician)
		assert.Equal(t, "998", result.Entries[0].Change.ReferenceNumber)
	})

	t.Run("legacy form field", func(t *testing.T) {
		rec := postForm(t, srv.Handler(), "/api/v1/extract", sampleText)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"member_id":"AB123"`)
	})

	t.Run("missing text", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "text is required", decodeError(t, rec))
	})

	t.Run("body too large", func(t *testing.T) {
		rec := postForm(t, srv.Handler(), "/api/v1/extract", strings.Repeat("x", 128*1024))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestTemplate(t *testing.T) {
	srv := newTestServer(t, &stubFiller{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/template", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"path":"form.pdf"`)
}

func TestMCPMount(t *testing.T) {
	var hit bool
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		w.WriteHeader(http.StatusAccepted)
	})
	srv := newTestServer(t, &stubFiller{}, mcpHandler)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.True(t, hit)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
