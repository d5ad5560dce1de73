package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gracegather/community-api/internal/domain/entity"
	"github.com/gracegather/community-api/internal/domain/repository"
	"github.com/gracegather/community-api/pkg/response"
)

const messageNotFound = "Message not found"

type MessageHandler struct {
	Repo   repository.MessageRepository
	Logger *logrus.Logger
}

// List returns the caller's latest messages across all counterparts.
// With ?user_id=N it narrows to the thread with that user instead.
func (h *MessageHandler) List(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if c.Query("user_id") != "" {
		h.listThread(c, userID)
		return
	}
	page, limit := pagination(c)
	items, err := h.Repo.ListForUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.Logger.WithError(err).Error("list messages failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusOK, response.List{Results: items, Count: int64(len(items)), Page: page, Limit: limit})
}

// Conversation returns the thread between the caller and another user,
// oldest first so clients can render top-down.
func (h *MessageHandler) Conversation(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	h.writeThread(c, userID, otherID)
}

func (h *MessageHandler) listThread(c *gin.Context, userID int64) {
	otherID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || otherID <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid user_id", nil)
		return
	}
	h.writeThread(c, userID, otherID)
}

func (h *MessageHandler) writeThread(c *gin.Context, userID, otherID int64) {
	page, limit := pagination(c)
	items, err := h.Repo.Conversation(c.Request.Context(), userID, otherID, page, limit)
	if err != nil {
		h.Logger.WithError(err).Error("load conversation failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusOK, response.List{Results: items, Count: int64(len(items)), Page: page, Limit: limit})
}

type sendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id" binding:"required,gt=0"`
	Content    string `json:"content" binding:"required"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req sendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ReceiverID == userID {
		response.Error(c, http.StatusBadRequest, "cannot message yourself", nil)
		return
	}
	m := &entity.Message{SenderID: userID, ReceiverID: req.ReceiverID, Content: req.Content}
	if err := h.Repo.Create(c.Request.Context(), m); err != nil {
		h.Logger.WithError(err).Error("send message failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusCreated, m)
}

// MarkRead flips the read flag; only the receiver may do so.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Repo.MarkRead(c.Request.Context(), id, userID); err != nil {
		writeRepoError(c, err, messageNotFound)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"read": true})
}

// Delete removes a sent message; only the sender may do so.
func (h *MessageHandler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Repo.Delete(c.Request.Context(), id, userID); err != nil {
		writeRepoError(c, err, messageNotFound)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Message deleted"})
}
