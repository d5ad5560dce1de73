package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/gracegather/community-api/internal/interface/http"
	"github.com/gracegather/community-api/internal/interface/middleware"
	"github.com/gracegather/community-api/pkg/helpers"
)

type PrayerModule struct {
	Handler *handlers.PrayerHandler
	JWT     *helpers.JWTManager
}

func NewPrayerModule(h *handlers.PrayerHandler, jwt *helpers.JWTManager) *PrayerModule {
	return &PrayerModule{Handler: h, JWT: jwt}
}

func (m *PrayerModule) Register(rg *gin.RouterGroup) {
	rg.GET("/prayers", m.Handler.List)
	rg.GET("/prayers/:id", middleware.OptionalAuth(m.JWT), m.Handler.Get)
	rg.GET("/prayers/:id/responses", m.Handler.ListResponses)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/prayers", m.Handler.Create)
		auth.PUT("/prayers/:id", m.Handler.Update)
		auth.PATCH("/prayers/:id", m.Handler.Update)
		auth.DELETE("/prayers/:id", m.Handler.Delete)
		auth.POST("/prayers/:id/support", m.Handler.ToggleSupport)
		auth.POST("/prayers/:id/responses", m.Handler.CreateResponse)
		auth.DELETE("/prayers/responses/:responseId", m.Handler.DeleteResponse)
		auth.POST("/prayers/responses/:responseId/like", m.Handler.ToggleResponseLike)
	}
}
