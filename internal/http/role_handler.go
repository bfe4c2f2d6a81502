package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prism-api/internal/domain"
	"prism-api/internal/repository"
	"prism-api/internal/service"
)

// RoleHandler gestiona perfiles ideales de rol: CRUD manual y analisis
// de descripciones de puesto vía LLM.
type RoleHandler struct {
	logger *zap.Logger
	svc    *service.RoleProfileService
}

func NewRoleHandler(logger *zap.Logger, svc *service.RoleProfileService) *RoleHandler {
	return &RoleHandler{logger: logger, svc: svc}
}

// AnalyzeRole maneja POST /roles/analyze.
func (h *RoleHandler) AnalyzeRole(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := h.svc.AnalyzeJobDescription(c.Request.Context(), ownerID(c), req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyJobDescription), errors.Is(err, service.ErrEmptyProfile):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("role analysis failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not analyze job description"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

// CreateRole maneja POST /roles.
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req struct {
		Name       string         `json:"name" binding:"required"`
		Dimensions map[string]any `json:"dimensions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create role request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := h.svc.CreateProfile(c.Request.Context(), ownerID(c), req.Name, req.Dimensions)
	if err != nil {
		if errors.Is(err, service.ErrEmptyProfile) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("create role failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create role profile"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

// GetRole maneja GET /roles/:id.
func (h *RoleHandler) GetRole(c *gin.Context) {
	profile, err := h.svc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "role profile not found"})
			return
		}
		h.logger.Error("get role failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load role profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// ListRoles maneja GET /roles.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	profiles, err := h.svc.ListProfiles(c.Request.Context(), ownerID(c))
	if err != nil {
		h.logger.Error("list roles failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list role profiles"})
		return
	}
	if profiles == nil {
		profiles = []domain.IdealProfile{}
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

func ownerID(c *gin.Context) string {
	if claims, ok := GetAuthClaims(c); ok {
		return claims.UserID
	}
	return ""
}
