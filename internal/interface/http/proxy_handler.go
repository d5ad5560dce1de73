package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gracegather/community-api/internal/upstream"
	"github.com/gracegather/community-api/pkg/response"
)

// ProxyHandler relays selected routes to the upstream platform API. Bodies
// and the Authorization header pass through verbatim in both directions.
type ProxyHandler struct {
	Upstream *upstream.Client
	Logger   *logrus.Logger
}

type category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Served when the upstream category service is unreachable, so article
// filtering keeps working. The X-Categories-Fallback header tells clients
// the list is canned.
var defaultCategories = []category{
	{ID: "1", Name: "Faith", Slug: "faith"},
	{ID: "2", Name: "Inspiration", Slug: "inspiration"},
	{ID: "3", Name: "Community", Slug: "community"},
	{ID: "4", Name: "Bible Study", Slug: "bible-study"},
	{ID: "5", Name: "Daily Devotion", Slug: "daily-devotion"},
}

// Categories proxies the public category list, falling back to the canned
// defaults when the upstream errors or is down.
func (h *ProxyHandler) Categories(c *gin.Context) {
	res, err := h.Upstream.Forward(c.Request.Context(), http.MethodGet, "/api/categories/", "", "", "application/json", nil)
	if err != nil || res.Status < 200 || res.Status >= 300 {
		c.Header("X-Categories-Fallback", "true")
		response.JSON(c, http.StatusOK, defaultCategories)
		return
	}
	c.Data(res.Status, res.ContentType, res.Body)
}

// CreateCategory forwards category creation with the caller's bearer token.
func (h *ProxyHandler) CreateCategory(c *gin.Context) {
	h.forward(c, "/api/categories/")
}

// Conversations and related messaging routes live entirely upstream; this
// service relays them without interpretation.
func (h *ProxyHandler) Conversations(c *gin.Context) {
	h.forward(c, "/api/messaging/conversations/")
}

func (h *ProxyHandler) Conversation(c *gin.Context) {
	h.forward(c, "/api/messaging/conversations/"+c.Param("id")+"/")
}

func (h *ProxyHandler) ConversationMessages(c *gin.Context) {
	h.forward(c, "/api/messaging/conversations/"+c.Param("id")+"/messages/")
}

func (h *ProxyHandler) StartConversation(c *gin.Context) {
	h.forward(c, "/api/messaging/conversations/start_conversation/")
}

func (h *ProxyHandler) MessagingMessages(c *gin.Context) {
	h.forward(c, "/api/messaging/messages/")
}

func (h *ProxyHandler) MessagingMessage(c *gin.Context) {
	h.forward(c, "/api/messaging/messages/"+c.Param("id")+"/")
}

func (h *ProxyHandler) forward(c *gin.Context, path string) {
	res, err := h.Upstream.Forward(
		c.Request.Context(),
		c.Request.Method,
		path,
		c.Request.URL.RawQuery,
		c.GetHeader("Authorization"),
		c.GetHeader("Content-Type"),
		c.Request.Body,
	)
	if err != nil {
		response.Error(c, http.StatusBadGateway, "upstream unavailable", nil)
		return
	}
	// An HTML error page from a proxy or load balancer is not a relayable
	// API response.
	if len(res.Body) > 0 && !json.Valid(res.Body) {
		response.Error(c, http.StatusBadGateway, "invalid response from upstream", nil)
		return
	}
	c.Data(res.Status, res.ContentType, res.Body)
}
