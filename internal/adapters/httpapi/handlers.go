package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/core"
)

// AnalyzeRequest is the payload accepted by the analysis endpoints.
type AnalyzeRequest struct {
	EmailSubject      string                 `json:"email_subject"`
	EmailBody         string                 `json:"email_body"`
	Sender            string                 `json:"sender"`
	Recipient         string                 `json:"recipient"`
	AdditionalDetails map[string]interface{} `json:"additional_details"`
}

// Email converts the request payload into the service's email model.
func (r *AnalyzeRequest) Email() *core.Email {
	return &core.Email{
		Subject:     r.EmailSubject,
		Body:        r.EmailBody,
		Sender:      r.Sender,
		Recipient:   r.Recipient,
		ExtraFields: r.AdditionalDetails,
	}
}

// Handler exposes the email analysis service over HTTP.
type Handler struct {
	service core.EmailAnalyzer
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler backed by the given service.
func NewHandler(service core.EmailAnalyzer, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Analyze runs the full analysis pipeline and returns the structured record.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Rejected malformed analyze request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.service.Analyze(c.Request.Context(), req.Email())
	c.JSON(http.StatusOK, result)
}

// ExtractEntities runs the extraction pipeline, which skips reply generation.
func (h *Handler) ExtractEntities(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Rejected malformed extraction request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.service.ExtractEntities(c.Request.Context(), req.Email())
	c.JSON(http.StatusOK, result)
}

// GenerateReply produces a suggested reply for the given email.
func (h *Handler) GenerateReply(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Rejected malformed reply request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply := h.service.GenerateReply(c.Request.Context(), req.Email())
	c.JSON(http.StatusOK, gin.H{"generated_reply": reply})
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "llm-email-analyzer",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Root returns a short usage hint for anyone probing the base URL.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Email analyzer API. POST an email to /analyze, /extract_entities or /generate_reply.",
		"endpoints": []string{"/analyze", "/extract_entities", "/generate_reply", "/health", "/metrics"},
	})
}
