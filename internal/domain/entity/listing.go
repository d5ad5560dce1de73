package entity

import "time"

const (
	ListingTypeProduct = "Product"
	ListingTypeService = "Service"
	ListingTypeEvent   = "Event"
)

// Listing is a marketplace entry. Price stays a string to carry the free-form
// amounts sellers enter; currency is a plain code (default KSH).
type Listing struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Owner       *AuthorRef `json:"owner,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       string     `json:"price,omitempty"`
	Currency    string     `json:"currency"`
	Type        string     `json:"type"`
	Contact     string     `json:"contact,omitempty"`
	CountryCode string     `json:"country_code,omitempty"`
	Image       string     `json:"image,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ValidListingType(s string) bool {
	return s == ListingTypeProduct || s == ListingTypeService || s == ListingTypeEvent
}
