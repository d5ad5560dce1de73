package entity

import "time"

// Article statuses. The status field is a two-state flag; no further
// transition rules apply.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

type Article struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt,omitempty"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featured_image,omitempty"`
	Category      string     `json:"category"`
	Status        string     `json:"status"`
	AuthorID      int64      `json:"author_id"`
	Author        *AuthorRef `json:"author,omitempty"`
	ViewCount     int64      `json:"view_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func ValidArticleStatus(s string) bool {
	return s == ArticleStatusDraft || s == ArticleStatusPublished
}
