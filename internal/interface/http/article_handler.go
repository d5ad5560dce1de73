package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gracegather/community-api/internal/application"
	"github.com/gracegather/community-api/internal/domain/entity"
	"github.com/gracegather/community-api/internal/domain/repository"
	"github.com/gracegather/community-api/pkg/helpers"
	"github.com/gracegather/community-api/pkg/response"
)

const articleNotFound = "Article not found"

type ArticleHandler struct {
	Repo   repository.ArticleRepository
	Search *application.ArticleSearch
	Logger *logrus.Logger
}

func (h *ArticleHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	f := repository.ArticleFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}
	if f.Status == "" {
		f.Status = entity.ArticleStatusPublished
	}
	// binding tags only cover JSON bodies; query filters are checked here
	if !entity.ValidArticleStatus(f.Status) {
		response.Error(c, http.StatusBadRequest, "invalid status filter", nil)
		return
	}

	// Relevance-ranked search goes through Elasticsearch when available.
	// Filters, pagination and the total all ride in the ES query so the
	// response contract matches the SQL ILIKE path, which serves the rest.
	if f.Search != "" && h.Search != nil {
		if ids, total, err := h.Search.Search(c.Request.Context(), f.Search, f.Category, f.Status, page, limit); err == nil && ids != nil {
			items := make([]*entity.Article, 0, len(ids))
			for _, id := range ids {
				a, gErr := h.Repo.GetByID(c.Request.Context(), id)
				if gErr != nil {
					// unindexed deletion; skip the stale hit
					continue
				}
				items = append(items, a)
			}
			response.JSON(c, http.StatusOK, response.List{Results: items, Count: total, Page: page, Limit: limit})
			return
		}
	}

	items, count, err := h.Repo.List(c.Request.Context(), f)
	if err != nil {
		h.Logger.WithError(err).Error("list articles failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusOK, response.List{Results: items, Count: count, Page: page, Limit: limit})
}

type createArticleRequest struct {
	Title         string `json:"title" binding:"required,min=3"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content" binding:"required"`
	FeaturedImage string `json:"featured_image" binding:"omitempty,url"`
	Category      string `json:"category" binding:"required"`
	Status        string `json:"status" binding:"omitempty,oneof=draft published"`
}

func (h *ArticleHandler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req createArticleRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Status == "" {
		req.Status = entity.ArticleStatusDraft
	}
	a := &entity.Article{
		Title:         req.Title,
		Slug:          helpers.Slugify(req.Title),
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Category:      req.Category,
		Status:        req.Status,
		AuthorID:      userID,
	}
	if err := h.Repo.Create(c.Request.Context(), a); err != nil {
		h.Logger.WithError(err).Error("create article failed")
		writeRepoError(c, err, articleNotFound)
		return
	}
	if a.Status == entity.ArticleStatusPublished {
		h.Search.IndexArticle(c.Request.Context(), a)
	}
	response.JSON(c, http.StatusCreated, a)
}

// Get resolves by numeric ID first, then by slug, and bumps the view counter
// on every successful read.
func (h *ArticleHandler) Get(c *gin.Context) {
	key := c.Param("id")
	var (
		a   *entity.Article
		err error
	)
	if id, convErr := strconv.ParseInt(key, 10, 64); convErr == nil {
		a, err = h.Repo.GetByID(c.Request.Context(), id)
	} else {
		a, err = h.Repo.GetBySlug(c.Request.Context(), key)
	}
	if err != nil {
		writeRepoError(c, err, articleNotFound)
		return
	}
	if vErr := h.Repo.IncrementViews(c.Request.Context(), a.ID); vErr == nil {
		a.ViewCount++
	}
	response.JSON(c, http.StatusOK, a)
}

type updateArticleRequest struct {
	Title         *string `json:"title" binding:"omitempty,min=3"`
	Excerpt       *string `json:"excerpt"`
	Content       *string `json:"content"`
	FeaturedImage *string `json:"featured_image" binding:"omitempty,url"`
	Category      *string `json:"category"`
	Status        *string `json:"status" binding:"omitempty,oneof=draft published"`
}

func (h *ArticleHandler) Update(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateArticleRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Repo.Update(c.Request.Context(), id, userID, repository.ArticleUpdate{
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Category:      req.Category,
		Status:        req.Status,
	})
	if err != nil {
		writeRepoError(c, err, articleNotFound)
		return
	}
	if a.Status == entity.ArticleStatusPublished {
		h.Search.IndexArticle(c.Request.Context(), a)
	} else {
		h.Search.DeleteArticle(c.Request.Context(), a.ID)
	}
	response.JSON(c, http.StatusOK, a)
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Repo.Delete(c.Request.Context(), id, userID); err != nil {
		writeRepoError(c, err, articleNotFound)
		return
	}
	h.Search.DeleteArticle(c.Request.Context(), id)
	response.JSON(c, http.StatusOK, gin.H{"message": "Article deleted"})
}
