package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gracegather/community-api/internal/domain/entity"
	"github.com/gracegather/community-api/internal/domain/repository"
	"github.com/gracegather/community-api/pkg/response"
)

const prayerNotFound = "Prayer not found"

type PrayerHandler struct {
	Repo   repository.PrayerRepository
	Logger *logrus.Logger
}

func (h *PrayerHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	prayerType := c.Query("prayer_type")
	if prayerType != "" && !entity.ValidPrayerType(prayerType) {
		response.Error(c, http.StatusBadRequest, "invalid prayer_type filter", nil)
		return
	}
	items, count, err := h.Repo.List(c.Request.Context(), repository.PrayerFilter{
		PrayerType: prayerType,
		Search:     c.Query("search"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		h.Logger.WithError(err).Error("list prayers failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusOK, response.List{Results: items, Count: count, Page: page, Limit: limit})
}

// Only the title is mandatory; a bare request like "Healing for my mother"
// is a complete prayer.
type createPrayerRequest struct {
	Title       string `json:"title" binding:"required,min=3"`
	Content     string `json:"content"`
	PrayerType  string `json:"prayer_type" binding:"omitempty,oneof=request testimony praise"`
	IsAnonymous bool   `json:"is_anonymous"`
	IsPublic    *bool  `json:"is_public"`
}

func (h *PrayerHandler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req createPrayerRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.PrayerType == "" {
		req.PrayerType = entity.PrayerTypeRequest
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	p := &entity.Prayer{
		Title:       req.Title,
		Content:     req.Content,
		PrayerType:  req.PrayerType,
		IsAnonymous: req.IsAnonymous,
		IsPublic:    isPublic,
		AuthorID:    userID,
	}
	if err := h.Repo.Create(c.Request.Context(), p); err != nil {
		h.Logger.WithError(err).Error("create prayer failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusCreated, p)
}

func (h *PrayerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		writeRepoError(c, err, prayerNotFound)
		return
	}
	// Private prayers are visible to their author only.
	if !p.IsPublic {
		userID, authed := currentUserID(c)
		if !authed || userID != p.AuthorID {
			response.Error(c, http.StatusNotFound, prayerNotFound, nil)
			return
		}
	}
	response.JSON(c, http.StatusOK, p)
}

type updatePrayerRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3"`
	Content     *string `json:"content"`
	PrayerType  *string `json:"prayer_type" binding:"omitempty,oneof=request testimony praise"`
	IsAnonymous *bool   `json:"is_anonymous"`
	IsPublic    *bool   `json:"is_public"`
}

func (h *PrayerHandler) Update(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updatePrayerRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Repo.Update(c.Request.Context(), id, userID, repository.PrayerUpdate{
		Title:       req.Title,
		Content:     req.Content,
		PrayerType:  req.PrayerType,
		IsAnonymous: req.IsAnonymous,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeRepoError(c, err, prayerNotFound)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

func (h *PrayerHandler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Repo.Delete(c.Request.Context(), id, userID); err != nil {
		writeRepoError(c, err, prayerNotFound)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Prayer deleted"})
}

// ToggleSupport flips the caller's "praying for this" mark and reports the
// new state.
func (h *PrayerHandler) ToggleSupport(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	supported, err := h.Repo.ToggleSupport(c.Request.Context(), id, userID)
	if err != nil {
		writeRepoError(c, err, prayerNotFound)
		return
	}
	msg := "Support removed"
	if supported {
		msg = "Prayer supported"
	}
	response.JSON(c, http.StatusOK, gin.H{"message": msg, "supported": supported})
}

func (h *PrayerHandler) ListResponses(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, limit := pagination(c)
	items, err := h.Repo.ListResponses(c.Request.Context(), id, page, limit)
	if err != nil {
		writeRepoError(c, err, prayerNotFound)
		return
	}
	response.JSON(c, http.StatusOK, response.List{Results: items, Count: int64(len(items)), Page: page, Limit: limit})
}

type createResponseRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *PrayerHandler) CreateResponse(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createResponseRequest
	if !bindJSON(c, &req) {
		return
	}
	r := &entity.PrayerResponse{PrayerID: id, AuthorID: userID, Content: req.Content}
	if err := h.Repo.CreateResponse(c.Request.Context(), r); err != nil {
		writeRepoError(c, err, prayerNotFound)
		return
	}
	response.JSON(c, http.StatusCreated, r)
}

func (h *PrayerHandler) DeleteResponse(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	respID, ok := pathID(c, "responseId")
	if !ok {
		return
	}
	if err := h.Repo.DeleteResponse(c.Request.Context(), respID, userID); err != nil {
		writeRepoError(c, err, "Response not found")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Response deleted"})
}

func (h *PrayerHandler) ToggleResponseLike(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	respID, ok := pathID(c, "responseId")
	if !ok {
		return
	}
	liked, err := h.Repo.ToggleResponseLike(c.Request.Context(), respID, userID)
	if err != nil {
		writeRepoError(c, err, "Response not found")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"liked": liked})
}
