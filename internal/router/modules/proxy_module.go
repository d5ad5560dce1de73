package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/gracegather/community-api/internal/interface/http"
)

// ProxyModule mounts the routes relayed to the upstream platform API. Auth
// is enforced upstream; the relay passes the bearer token through untouched.
type ProxyModule struct {
	Handler *handlers.ProxyHandler
}

func NewProxyModule(h *handlers.ProxyHandler) *ProxyModule {
	return &ProxyModule{Handler: h}
}

func (m *ProxyModule) Register(rg *gin.RouterGroup) {
	rg.GET("/categories", m.Handler.Categories)
	rg.POST("/categories", m.Handler.CreateCategory)

	rg.GET("/messaging/conversations", m.Handler.Conversations)
	rg.POST("/messaging/conversations", m.Handler.Conversations)
	rg.POST("/messaging/conversations/start_conversation", m.Handler.StartConversation)
	rg.GET("/messaging/conversations/:id", m.Handler.Conversation)
	rg.DELETE("/messaging/conversations/:id", m.Handler.Conversation)
	rg.GET("/messaging/conversations/:id/messages", m.Handler.ConversationMessages)
	rg.POST("/messaging/conversations/:id/messages", m.Handler.ConversationMessages)

	rg.GET("/messaging/messages", m.Handler.MessagingMessages)
	rg.POST("/messaging/messages", m.Handler.MessagingMessages)
	rg.DELETE("/messaging/messages/:id", m.Handler.MessagingMessage)
}
