package entity

import "time"

const (
	PrayerTypeRequest   = "request"
	PrayerTypeTestimony = "testimony"
	PrayerTypePraise    = "praise"
)

type Prayer struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	PrayerType  string     `json:"prayer_type"`
	IsAnonymous bool       `json:"is_anonymous"`
	IsPublic    bool       `json:"is_public"`
	AuthorID    int64      `json:"author_id"`
	Author      *AuthorRef `json:"author,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Counters filled on detail reads only.
	SupportersCount int64 `json:"supporters_count,omitempty"`
	ResponsesCount  int64 `json:"responses_count,omitempty"`
}

type PrayerResponse struct {
	ID        int64      `json:"id"`
	PrayerID  int64      `json:"prayer_id"`
	AuthorID  int64      `json:"author_id"`
	Author    *AuthorRef `json:"author,omitempty"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func ValidPrayerType(s string) bool {
	return s == PrayerTypeRequest || s == PrayerTypeTestimony || s == PrayerTypePraise
}
