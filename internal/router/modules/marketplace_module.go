package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/gracegather/community-api/internal/interface/http"
	"github.com/gracegather/community-api/internal/interface/middleware"
	"github.com/gracegather/community-api/pkg/helpers"
)

type MarketplaceModule struct {
	Handler *handlers.MarketplaceHandler
	JWT     *helpers.JWTManager
}

func NewMarketplaceModule(h *handlers.MarketplaceHandler, jwt *helpers.JWTManager) *MarketplaceModule {
	return &MarketplaceModule{Handler: h, JWT: jwt}
}

func (m *MarketplaceModule) Register(rg *gin.RouterGroup) {
	rg.GET("/marketplace", m.Handler.List)
	rg.GET("/marketplace/:id", m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/marketplace", m.Handler.Create)
		auth.PUT("/marketplace/:id", m.Handler.Update)
		auth.PATCH("/marketplace/:id", m.Handler.Update)
		auth.DELETE("/marketplace/:id", m.Handler.Delete)
	}
}
