package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-agent/internal/models"
	"alfredoptarigan/resume-agent/internal/services"
)

type fakeGateway struct {
	mu      sync.Mutex
	prompts []models.PromptSpec
	payload string
	err     error
}

func (f *fakeGateway) Generate(_ context.Context, spec models.PromptSpec) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, spec)
	if f.err != nil {
		return "", f.err
	}
	return f.payload, nil
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type panicAnalyzer struct{}

func (panicAnalyzer) Execute(context.Context, *models.OperationRequest) (*models.OperationResult, error) {
	panic("analyzer blew up")
}

type testServer struct {
	app     *fiber.App
	gateway *fakeGateway
	tempDir string
}

func newTestServer(t *testing.T, gw *fakeGateway) *testServer {
	t.Helper()

	dir := t.TempDir()
	storage := services.NewStorageService(dir)
	require.NoError(t, storage.EnsureTempDir())

	deps := Dependencies{
		Normalizer: services.NewInputNormalizer(storage, 1<<20),
		Analyzer:   services.NewAnalyzerService(gw, services.NewDocumentParserService(), services.NewPromptBuilder()),
	}
	return &testServer{
		app:     NewApp(deps, AppOptions{BodyLimit: 4 << 20}),
		gateway: gw,
		tempDir: dir,
	}
}

type formFile struct {
	field    string
	filename string
	content  string
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = io.WriteString(part, f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func doJSON(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func tempEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestKeywordsWithText(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{payload: `[{"keyword":"Go"}]`})

	req := multipartRequest(t, "/keywords", map[string]string{
		"cv_text": "Senior Go engineer with Kubernetes experience",
		"top_n":   "5",
	})
	status, body := doJSON(t, srv.app, req)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "text", body["cv_input_type"])
	assert.NotEmpty(t, body["keywords"])
	assert.NotContains(t, body, "cv_filename")
	assert.NotContains(t, body, "jd_input_type")

	require.Equal(t, 1, srv.gateway.calls())
	assert.Contains(t, srv.gateway.prompts[0].UserPrompt, "top 5 most important keywords")
}

func TestKeywordsDefaultTopN(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{payload: "[]"})

	status, _ := doJSON(t, srv.app, multipartRequest(t, "/keywords", map[string]string{"cv_text": "cv"}))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, srv.gateway.prompts[0].UserPrompt, "top 25 most important keywords")
}

func TestInvalidTopN(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3"} {
		srv := newTestServer(t, &fakeGateway{payload: "[]"})
		status, body := doJSON(t, srv.app, multipartRequest(t, "/keywords", map[string]string{"cv_text": "cv", "top_n": raw}))

		assert.Equal(t, fiber.StatusBadRequest, status, raw)
		assert.Equal(t, "invalid_parameter", body["error_kind"])
		assert.Equal(t, 0, srv.gateway.calls())
	}
}

func TestCompareRequiresJobDescription(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{payload: "{}"})

	status, body := doJSON(t, srv.app, multipartRequest(t, "/compare", map[string]string{"cv_text": "my cv"}))

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "missing_input", body["error_kind"])
	assert.Contains(t, body["detail"], "Job Description")
	assert.Equal(t, 0, srv.gateway.calls())
}

func TestMissingCV(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{payload: "{}"})

	status, body := doJSON(t, srv.app, multipartRequest(t, "/parse", map[string]string{"cv_text": "   "}))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["detail"], "Either 'cv_file' or 'cv_text' must be provided for the CV")
}

func TestATSScoreWithoutJobDescription(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{payload: `{"score":72}`})

	status, body := doJSON(t, srv.app, multipartRequest(t, "/ats-score", map[string]string{"cv_text": "my cv"}))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, `{"score":72}`, body["ats_evaluation"])
	assert.NotContains(t, body, "jd_input_type")
	assert.NotContains(t, srv.gateway.prompts[0].UserPrompt, "Job Description for context:")
}

func TestCompareEchoesBothInputs(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{payload: "{}"})

	req := multipartRequest(t, "/compare",
		map[string]string{"cv_text": "my cv"},
		formFile{field: "jd_file", filename: "role.txt", content: "Backend engineer, Go"},
	)
	status, body := doJSON(t, srv.app, req)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "text", body["cv_input_type"])
	assert.Equal(t, "file", body["jd_input_type"])
	assert.Equal(t, "role.txt", body["jd_filename"])
	assert.Contains(t, body, "comparison")
	assert.Contains(t, srv.gateway.prompts[0].UserPrompt, "Backend engineer, Go")
	assert.Empty(t, tempEntries(t, srv.tempDir))
}

func TestUnsupportedExtensionRejected(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{payload: "{}"})

	req := multipartRequest(t, "/parse", nil, formFile{field: "cv_file", filename: "resume.exe", content: "MZ"})
	status, body := doJSON(t, srv.app, req)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "unsupported_format", body["error_kind"])
	assert.Contains(t, body["detail"], ".pdf, .docx, .doc, .txt")
	assert.Empty(t, tempEntries(t, srv.tempDir))
	assert.Equal(t, 0, srv.gateway.calls())
}

func TestFileTakesPrecedenceOverText(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{payload: "{}"})

	req := multipartRequest(t, "/parse",
		map[string]string{"cv_text": "text version"},
		formFile{field: "cv_file", filename: "resume.txt", content: "file version"},
	)
	status, body := doJSON(t, srv.app, req)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "file", body["cv_input_type"])
	assert.Equal(t, "resume.txt", body["cv_filename"])
	assert.Contains(t, body, "parsed_data")

	prompt := srv.gateway.prompts[0].UserPrompt
	assert.Contains(t, prompt, "file version")
	assert.NotContains(t, prompt, "text version")
	assert.Empty(t, tempEntries(t, srv.tempDir))
}

func TestGatewayFailureCleansUp(t *testing.T) {
	tests := []struct {
		name     string
		upstream int
		want     int
	}{
		{"unavailable", http.StatusServiceUnavailable, fiber.StatusServiceUnavailable},
		{"timeout", http.StatusGatewayTimeout, fiber.StatusGatewayTimeout},
		{"server error", http.StatusInternalServerError, fiber.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeGateway{err: &models.GatewayError{Status: tt.upstream, Message: "upstream"}})

			req := multipartRequest(t, "/analyze-issues", nil, formFile{field: "cv_file", filename: "cv.txt", content: "my cv"})
			status, body := doJSON(t, srv.app, req)

			assert.Equal(t, tt.want, status)
			assert.Equal(t, "gateway_error", body["error_kind"])
			assert.Contains(t, body["detail"], "Issue analysis failed")
			assert.Equal(t, 1, srv.gateway.calls())
			assert.Empty(t, tempEntries(t, srv.tempDir))
		})
	}
}

func TestExtractionFailure(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{payload: "{}"})

	req := multipartRequest(t, "/parse", nil, formFile{field: "cv_file", filename: "cv.pdf", content: "not really a pdf"})
	status, body := doJSON(t, srv.app, req)

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "extraction_failed", body["error_kind"])
	assert.Equal(t, 0, srv.gateway.calls())
	assert.Empty(t, tempEntries(t, srv.tempDir))
}

func TestResponseFormatJSON(t *testing.T) {
	t.Run("decoded", func(t *testing.T) {
		srv := newTestServer(t, &fakeGateway{payload: "```json\n{\"overall_score\": 81}\n```"})

		status, body := doJSON(t, srv.app, multipartRequest(t, "/improvement-plan", map[string]string{
			"cv_text":         "cv",
			"response_format": "json",
		}))
		assert.Equal(t, fiber.StatusOK, status)
		plan, ok := body["improvement_plan"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(81), plan["overall_score"])
	})

	t.Run("malformed", func(t *testing.T) {
		srv := newTestServer(t, &fakeGateway{payload: "Sorry, I cannot help with that."})

		status, body := doJSON(t, srv.app, multipartRequest(t, "/improvement-plan", map[string]string{
			"cv_text":         "cv",
			"response_format": "json",
		}))
		assert.Equal(t, fiber.StatusBadGateway, status)
		assert.Equal(t, "gateway_error", body["error_kind"])
	})

	t.Run("unknown format", func(t *testing.T) {
		srv := newTestServer(t, &fakeGateway{payload: "{}"})

		status, _ := doJSON(t, srv.app, multipartRequest(t, "/improvement-plan", map[string]string{
			"cv_text":         "cv",
			"response_format": "xml",
		}))
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestRewriteFocusAreasAndAnalyzePrompt(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{payload: "{}"})

	status, body := doJSON(t, srv.app, multipartRequest(t, "/rewrite", map[string]string{
		"cv_text":     "cv",
		"focus_areas": " leadership, ,cloud ",
	}))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "rewritten_cv")
	assert.Contains(t, srv.gateway.prompts[0].UserPrompt, "Focus especially on: leadership, cloud")

	status, body = doJSON(t, srv.app, multipartRequest(t, "/analyze", map[string]string{
		"cv_text": "cv",
		"prompt":  "List three strengths",
	}))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "analysis")
	assert.Contains(t, srv.gateway.prompts[1].UserPrompt, "List three strengths")
}

func TestEveryOperationIsRouted(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{payload: "result"})

	for _, op := range models.Operations {
		t.Run(op.Route, func(t *testing.T) {
			status, body := doJSON(t, srv.app, multipartRequest(t, op.Route, map[string]string{
				"cv_text": "cv",
				"jd_text": "jd",
			}))
			assert.Equal(t, fiber.StatusOK, status)
			assert.Equal(t, "result", body[op.ResultKey])
		})
	}
}

func TestAnalyzerNotInitialized(t *testing.T) {
	app := NewApp(Dependencies{}, AppOptions{})

	status, body := doJSON(t, app, multipartRequest(t, "/parse", map[string]string{"cv_text": "cv"}))
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "Agent not initialized", body["detail"])
}

func TestPanicReleasesUploads(t *testing.T) {
	dir := t.TempDir()
	storage := services.NewStorageService(dir)
	require.NoError(t, storage.EnsureTempDir())

	app := NewApp(Dependencies{
		Normalizer: services.NewInputNormalizer(storage, 1<<20),
		Analyzer:   panicAnalyzer{},
	}, AppOptions{BodyLimit: 4 << 20})

	req := multipartRequest(t, "/parse", nil, formFile{field: "cv_file", filename: "cv.txt", content: "Go engineer"})
	status, body := doJSON(t, app, req)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
	assert.Empty(t, tempEntries(t, dir))
}
