package entity

import "time"

// User is the aggregate root for accounts. Password holds the bcrypt hash and
// is never serialized.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio,omitempty"`
	Image     string    `json:"image,omitempty"`
	Location  string    `json:"location,omitempty"`
	Website   string    `json:"website,omitempty"`
	Facebook  string    `json:"facebook,omitempty"`
	Twitter   string    `json:"twitter,omitempty"`
	Instagram string    `json:"instagram,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicProfile strips fields that must not leak on the public user endpoint.
func (u *User) PublicProfile() map[string]any {
	return map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"bio":       u.Bio,
		"image":     u.Image,
		"location":  u.Location,
		"website":   u.Website,
		"facebook":  u.Facebook,
		"twitter":   u.Twitter,
		"instagram": u.Instagram,
	}
}

// AuthorRef is the display subset joined onto owned resources.
type AuthorRef struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}
