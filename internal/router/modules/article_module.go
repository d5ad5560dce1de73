package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/gracegather/community-api/internal/interface/http"
	"github.com/gracegather/community-api/internal/interface/middleware"
	"github.com/gracegather/community-api/pkg/helpers"
)

type ArticleModule struct {
	Handler *handlers.ArticleHandler
	JWT     *helpers.JWTManager
}

func NewArticleModule(h *handlers.ArticleHandler, jwt *helpers.JWTManager) *ArticleModule {
	return &ArticleModule{Handler: h, JWT: jwt}
}

func (m *ArticleModule) Register(rg *gin.RouterGroup) {
	rg.GET("/articles", m.Handler.List)
	rg.GET("/articles/:id", m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/articles", m.Handler.Create)
		auth.PUT("/articles/:id", m.Handler.Update)
		auth.PATCH("/articles/:id", m.Handler.Update)
		auth.DELETE("/articles/:id", m.Handler.Delete)
	}
}
