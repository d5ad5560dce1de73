package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/gracegather/community-api/internal/interface/http"
	"github.com/gracegather/community-api/internal/interface/middleware"
	"github.com/gracegather/community-api/pkg/helpers"
)

type AuthModule struct {
	Handler        *handlers.AuthHandler
	JWT            *helpers.JWTManager
	Redis          *redis.Client
	UploadsEnabled bool
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, rdb *redis.Client, uploadsEnabled bool) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Redis: rdb, UploadsEnabled: uploadsEnabled}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Credential endpoints get tight IP-based limits.
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath())
	registerLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath())
	resetLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", m.Handler.Refresh)
	rg.POST("/auth/forgot-password", resetLimiter, m.Handler.ForgotPassword)
	rg.POST("/auth/reset-password", resetLimiter, m.Handler.ResetPassword)

	rg.GET("/users/:id", m.Handler.PublicProfile)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/auth/me", m.Handler.Me)
		auth.PUT("/auth/me", m.Handler.UpdateMe)
		auth.PATCH("/auth/me", m.Handler.UpdateMe)
		auth.POST("/auth/logout", m.Handler.Logout)
		if m.UploadsEnabled {
			auth.POST("/upload-image", middleware.RateLimit(m.Redis, 20, time.Minute, middleware.KeyByUserID()), m.Handler.UploadImage)
		}
	}
}
