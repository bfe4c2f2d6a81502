package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prism-api/internal/repository"
	"prism-api/internal/service"
)

// FitHandler calcula el encaje candidato-rol a partir de un resultado
// scoreado y un perfil ideal, guardado o inline.
type FitHandler struct {
	logger     *zap.Logger
	assessment *service.AssessmentService
	roles      *service.RoleProfileService
	calc       service.FitCalculator
}

func NewFitHandler(logger *zap.Logger, assessment *service.AssessmentService, roles *service.RoleProfileService, calc service.FitCalculator) *FitHandler {
	return &FitHandler{
		logger:     logger,
		assessment: assessment,
		roles:      roles,
		calc:       calc,
	}
}

// CalculateFit maneja POST /fit. El perfil puede venir por referencia
// (role_profile_id) o inline con el esquema laxo de NormalizeIdealProfile.
func (h *FitHandler) CalculateFit(c *gin.Context) {
	var req struct {
		SessionID     string         `json:"session_id" binding:"required"`
		RoleProfileID string         `json:"role_profile_id"`
		Profile       map[string]any `json:"profile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid fit request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.RoleProfileID == "" && len(req.Profile) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role_profile_id or profile is required"})
		return
	}

	result, err := h.assessment.GetResult(c.Request.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
			return
		}
		h.logger.Error("fit result lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load result"})
		return
	}

	profile := service.NormalizeIdealProfile(req.Profile)
	if req.RoleProfileID != "" {
		profile, err = h.roles.GetProfile(c.Request.Context(), req.RoleProfileID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "role profile not found"})
				return
			}
			h.logger.Error("fit profile lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load role profile"})
			return
		}
	}
	if len(profile.Dimensions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile has no usable dimensions"})
		return
	}

	fit := h.calc.Calculate(result.Dimensions, profile)
	c.JSON(http.StatusOK, gin.H{"fit": fit})
}
