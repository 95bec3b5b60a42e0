package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/core"
	"github.com/mikey/llm-email-analyzer/internal/metrics"
)

type stubAnalyzer struct {
	result    *core.ClassificationResult
	reply     string
	lastEmail *core.Email
	calls     int
}

func (s *stubAnalyzer) Analyze(_ context.Context, email *core.Email) *core.ClassificationResult {
	s.lastEmail = email
	s.calls++
	return s.result
}

func (s *stubAnalyzer) ExtractEntities(_ context.Context, email *core.Email) *core.ClassificationResult {
	s.lastEmail = email
	s.calls++
	return s.result
}

func (s *stubAnalyzer) GenerateReply(_ context.Context, email *core.Email) string {
	s.lastEmail = email
	s.calls++
	return s.reply
}

func testResult() *core.ClassificationResult {
	return &core.ClassificationResult{
		Sentiment: core.SentimentNegative,
		Urgency:   core.UrgencyHigh,
		Intent:    core.IntentIncident,
		Keywords:  []string{"printer", "outage"},
		Entities:  map[string]string{"incident_number": "INC123456"},
		Summary:   "Printer outage on floor 2",
	}
}

func newTestRouter(svc core.EmailAnalyzer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	handler := NewHandler(svc, zap.NewNop())
	return NewRouter(handler, metrics.New(reg), reg, zap.NewNop())
}

func TestAnalyzeEndpoint(t *testing.T) {
	stub := &stubAnalyzer{result: testResult()}
	stub.result.GeneratedReply = "We are on it."
	router := newTestRouter(stub)

	body := `{
		"email_subject": "Printer down",
		"email_body": "The printer on floor 2 stopped working.",
		"sender": "user@example.com",
		"recipient": "support@example.com",
		"additional_details": {"resolution": "replaced the toner"}
	}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Negative", resp["sentiment"])
	assert.Equal(t, "High", resp["urgency"])
	assert.Equal(t, "Incident", resp["intent"])
	assert.Equal(t, "We are on it.", resp["generated_reply"])

	require.NotNil(t, stub.lastEmail)
	assert.Equal(t, "Printer down", stub.lastEmail.Subject)
	assert.Equal(t, "user@example.com", stub.lastEmail.Sender)
	assert.Equal(t, "replaced the toner", stub.lastEmail.ExtraFields["resolution"])
}

func TestAnalyzeRejectsMalformedJSON(t *testing.T) {
	stub := &stubAnalyzer{result: testResult()}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/analyze", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
	assert.Zero(t, stub.calls)
}

func TestAnalyzeToleratesMissingFields(t *testing.T) {
	stub := &stubAnalyzer{result: testResult()}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/analyze", strings.NewReader(`{"email_subject": "Hi"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.lastEmail)
	assert.Equal(t, "Hi", stub.lastEmail.Subject)
	assert.Empty(t, stub.lastEmail.Body)
}

func TestExtractEntitiesOmitsReplyKey(t *testing.T) {
	stub := &stubAnalyzer{result: testResult()}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/extract_entities", strings.NewReader(`{"email_body": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Incident", resp["intent"])
	_, found := resp["generated_reply"]
	assert.False(t, found)
}

func TestGenerateReplyEndpoint(t *testing.T) {
	stub := &stubAnalyzer{reply: "Thanks, we will look into it."}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/generate_reply", strings.NewReader(`{"email_body": "help"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Thanks, we will look into it.", resp["generated_reply"])
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "1.0.0", resp["version"])
	_, err := time.Parse(time.RFC3339, resp["timestamp"])
	assert.NoError(t, err)
}

func TestRootEndpoint(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/analyze")
}

func TestMetricsEndpointExposesRequestCounters(t *testing.T) {
	stub := &stubAnalyzer{result: testResult()}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/analyze", strings.NewReader(`{"email_body": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/metrics", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "email_analyzer_requests_total")
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
