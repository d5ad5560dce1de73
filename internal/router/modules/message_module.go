package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/gracegather/community-api/internal/interface/http"
	"github.com/gracegather/community-api/internal/interface/middleware"
	"github.com/gracegather/community-api/pkg/helpers"
)

type MessageModule struct {
	Handler *handlers.MessageHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewMessageModule(h *handlers.MessageHandler, jwt *helpers.JWTManager, rdb *redis.Client) *MessageModule {
	return &MessageModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *MessageModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/messages", m.Handler.List)
		auth.GET("/messages/conversation/:userId", m.Handler.Conversation)
		auth.POST("/messages", middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByUserID()), m.Handler.Send)
		auth.PUT("/messages/:id/read", m.Handler.MarkRead)
		auth.PATCH("/messages/:id/read", m.Handler.MarkRead)
		auth.DELETE("/messages/:id", m.Handler.Delete)
	}
}
