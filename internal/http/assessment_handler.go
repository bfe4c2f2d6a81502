package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prism-api/internal/domain"
	"prism-api/internal/repository"
	"prism-api/internal/service"
)

// AssessmentHandler expone selección de preguntas, scoring y resultados.
type AssessmentHandler struct {
	logger *zap.Logger
	svc    *service.AssessmentService
}

func NewAssessmentHandler(logger *zap.Logger, svc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{logger: logger, svc: svc}
}

// GetQuestions maneja GET /questions?tier=standard&frameworks=prism,four_axis.
func (h *AssessmentHandler) GetQuestions(c *gin.Context) {
	tier := c.DefaultQuery("tier", domain.TierStandard)
	frameworks := splitFrameworks(c.Query("frameworks"))
	if len(frameworks) == 0 {
		frameworks = []string{domain.FrameworkPrism}
	}

	items, report, err := h.svc.SelectQuestions(c.Request.Context(), tier, frameworks)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownTier), errors.Is(err, service.ErrUnknownFramework), errors.Is(err, service.ErrNoFrameworks):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmptyBank):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "item bank unavailable"})
		default:
			h.logger.Error("question selection failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not select questions"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tier":       tier,
		"frameworks": frameworks,
		"items":      publicItems(items),
		"report":     report,
	})
}

// ScoreAssessment maneja POST /assessments/:id/score.
func (h *AssessmentHandler) ScoreAssessment(c *gin.Context) {
	sessionID := c.Param("id")

	var req struct {
		Responses []struct {
			ItemID string `json:"item_id" binding:"required"`
			Value  string `json:"value" binding:"required"`
		} `json:"responses" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid score request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var userID string
	if claims, ok := GetAuthClaims(c); ok {
		userID = claims.UserID
	}

	now := time.Now().UTC()
	responses := make([]domain.Response, len(req.Responses))
	for i, r := range req.Responses {
		responses[i] = domain.Response{ItemID: r.ItemID, Value: r.Value, AnsweredAt: now}
	}

	result, err := h.svc.ScoreSession(c.Request.Context(), sessionID, userID, responses)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionRequired), errors.Is(err, service.ErrNoResponses):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmptyBank):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "item bank unavailable"})
		default:
			h.logger.Error("scoring failed", zap.String("session_id", sessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not score assessment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// GetResult maneja GET /assessments/:id/result.
func (h *AssessmentHandler) GetResult(c *gin.Context) {
	sessionID := c.Param("id")

	result, err := h.svc.GetResult(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		default:
			h.logger.Error("get result failed", zap.String("session_id", sessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load result"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// publicItem es la vista del item que ve el que responde: sin flags de
// scoring (reverse_scored, weight) que podrian sesgar respuestas.
type publicItem struct {
	ID         string              `json:"id"`
	Text       string              `json:"text"`
	Type       string              `json:"type"`
	Options    []domain.ItemOption `json:"options,omitempty"`
	OrderIndex int                 `json:"order_index"`
}

func publicItems(items []domain.Item) []publicItem {
	out := make([]publicItem, len(items))
	for i, it := range items {
		out[i] = publicItem{
			ID:         it.ID,
			Text:       it.Text,
			Type:       it.Type,
			Options:    it.Options,
			OrderIndex: it.OrderIndex,
		}
	}
	return out
}

func splitFrameworks(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
