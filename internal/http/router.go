package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prism-api/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
// jwtSvc protege las rutas de empleador; limiter frena abuso en auth y
// scoring. Ambos pueden ser nil en tests.
func NewRouter(
	logger *zap.Logger,
	userH *UserHandler,
	assessH *AssessmentHandler,
	fitH *FitHandler,
	roleH *RoleHandler,
	jwtSvc *service.JWTService,
	limiter service.RateLimiter,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/questions", assessH.GetQuestions)

	assessments := r.Group("/assessments")
	assessments.POST("/:id/score", rateLimitMiddleware(limiter), optionalAuth(jwtSvc), assessH.ScoreAssessment)
	assessments.GET("/:id/result", assessH.GetResult)

	r.POST("/fit", fitH.CalculateFit)

	roles := r.Group("/roles", JWTAuthMiddleware(jwtSvc))
	roles.POST("", roleH.CreateRole)
	roles.POST("/analyze", roleH.AnalyzeRole)
	roles.GET("", roleH.ListRoles)
	roles.GET("/:id", roleH.GetRole)

	r.POST("/users", rateLimitMiddleware(limiter), userH.CreateUser)

	auth := r.Group("/auth", rateLimitMiddleware(limiter))
	auth.POST("/login", userH.Login)
	auth.POST("/refresh", userH.RefreshToken)
	auth.POST("/logout", userH.Logout)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

// rateLimitMiddleware frena por IP de cliente. Sin limiter configurado
// deja pasar todo.
func rateLimitMiddleware(limiter service.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// optionalAuth adjunta claims si viene un Bearer válido pero no exige token:
// el scoring funciona también para sesiones anonimas.
func optionalAuth(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if len(header) > len("Bearer ") {
			token := header[len("Bearer "):]
			if claims, err := jwtSvc.ParseAccessToken(token); err == nil {
				c.Set(authClaimsKey, claims)
			}
		}
		c.Next()
	}
}
