package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the wire shape for every failure: a human-readable message
// and, for validation failures, a per-field detail map.
type ErrorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Error writes a structured error body with the given status.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorBody{Error: message, Details: details})
}

// AbortError writes the error body and stops the handler chain. Used by
// middleware so downstream handlers never run after a rejection.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message, Details: nil})
}

// JSON writes any success payload as-is.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// List is the envelope for paginated collections.
type List struct {
	Results interface{} `json:"results"`
	Count   int64       `json:"count"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}
