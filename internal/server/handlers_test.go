package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/pravka/internal/corrector"
)

type fakeOracle struct {
	correctFunc func(ctx context.Context, cfg corrector.ServiceConfig, req corrector.CorrectRequest) (*corrector.ServiceResult, error)
}

func (f *fakeOracle) Name() string { return "fake" }

func (f *fakeOracle) Correct(ctx context.Context, cfg corrector.ServiceConfig, req corrector.CorrectRequest) (*corrector.ServiceResult, error) {
	if f.correctFunc != nil {
		return f.correctFunc(ctx, cfg, req)
	}
	return &corrector.ServiceResult{ServiceName: "fake", CorrectedText: req.Text}, nil
}

func (f *fakeOracle) IsAvailable(ctx context.Context) error { return nil }

func (f *fakeOracle) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{"en", "uk"}, nil
}

func newTestServer(oracle corrector.CorrectionService) *Server {
	return NewServer(Config{Oracle: oracle, Port: 0})
}

func fixedOracle(corrected string) *fakeOracle {
	return &fakeOracle{
		correctFunc: func(ctx context.Context, cfg corrector.ServiceConfig, req corrector.CorrectRequest) (*corrector.ServiceResult, error) {
			return &corrector.ServiceResult{ServiceName: "fake", CorrectedText: corrected}, nil
		},
	}
}

func TestHandleIndex(t *testing.T) {
	srv := newTestServer(&fakeOracle{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<form")
	assert.Contains(t, rec.Body.String(), `name="text"`)
	assert.Contains(t, rec.Body.String(), `name="lang_code"`)
}

func TestHandleForm_Success(t *testing.T) {
	srv := newTestServer(fixedOracle("the cat sat"))

	form := url.Values{}
	form.Set("text", "teh cat sat")
	form.Set("lang_code", "en")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<del style='color:red;'>teh</del> <span style='color:green;'>the</span>")
	assert.Contains(t, body, "cat sat")
}

func TestHandleForm_MissingText(t *testing.T) {
	srv := newTestServer(&fakeOracle{})

	form := url.Values{}
	form.Set("lang_code", "en")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleForm_OracleFailure(t *testing.T) {
	srv := newTestServer(&fakeOracle{
		correctFunc: func(ctx context.Context, cfg corrector.ServiceConfig, req corrector.CorrectRequest) (*corrector.ServiceResult, error) {
			return &corrector.ServiceResult{ServiceName: "fake", Error: "model loading"}, nil
		},
	})

	form := url.Values{}
	form.Set("text", "teh cat")
	form.Set("lang_code", "en")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleAPI_Success(t *testing.T) {
	srv := newTestServer(fixedOracle("the cat sat"))

	payload, _ := json.Marshal(apiRequest{Text: "teh cat sat", LangCode: "en"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "the cat sat", resp.CorrectedText)
	assert.Equal(t, map[string]string{"teh": "the"}, resp.Corrections)
	assert.Equal(t, "en", resp.LangCode)
}

func TestHandleAPI_DuplicateWordCollapses(t *testing.T) {
	srv := newTestServer(fixedOracle("a x b"))

	payload, _ := json.Marshal(apiRequest{Text: "a a b", LangCode: "en"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "a x b", resp.CorrectedText)
	// Repeated original words keep only the last occurrence's correction.
	assert.Equal(t, map[string]string{"a": "x"}, resp.Corrections)
}

func TestHandleAPI_MissingText(t *testing.T) {
	srv := newTestServer(&fakeOracle{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(`{"lang_code":"en"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "text is required")
}

func TestHandleAPI_InvalidJSON(t *testing.T) {
	srv := newTestServer(&fakeOracle{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAPI_OracleError(t *testing.T) {
	srv := newTestServer(&fakeOracle{
		correctFunc: func(ctx context.Context, cfg corrector.ServiceConfig, req corrector.CorrectRequest) (*corrector.ServiceResult, error) {
			return nil, context.DeadlineExceeded
		},
	})

	payload, _ := json.Marshal(apiRequest{Text: "teh cat", LangCode: "en"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakeOracle{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "pravka", resp["service"])
}

func TestHandleOpenAPI(t *testing.T) {
	srv := newTestServer(&fakeOracle{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, json.Valid(rec.Body.Bytes()), "openapi.json must be valid JSON")
}

func TestHandleDocs(t *testing.T) {
	srv := newTestServer(&fakeOracle{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "redoc")
}

func TestDictEndpoints_NotConfigured(t *testing.T) {
	srv := newTestServer(&fakeOracle{})
	handler := srv.Routes()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dict", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/dict", strings.NewReader(`{"word":"x"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/dict/x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleForm_UnescapedMarkupPassesThrough(t *testing.T) {
	// Token content is not HTML-escaped in the highlight fragment; the raw
	// markup reaches the page as-is.
	srv := newTestServer(fixedOracle("<i>fixed</i>"))

	form := url.Values{}
	form.Set("text", "<b>broken</b>")
	form.Set("lang_code", "en")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<del style='color:red;'>")
}
