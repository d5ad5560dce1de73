package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	s := Slugify("Walking in Faith: A Daily Guide!")
	assert.True(t, strings.HasPrefix(s, "walking-in-faith-a-daily-guide-"), s)
	// trailing part is the timestamp suffix
	assert.NotEqual(t, "walking-in-faith-a-daily-guide-", s)
}

func TestSlugifyCollapsesSeparators(t *testing.T) {
	s := Slugify("  Hello --- World  ")
	assert.True(t, strings.HasPrefix(s, "hello-world-"), s)
}

func TestSlugifyEmptyTitle(t *testing.T) {
	s := Slugify("!!!")
	assert.True(t, strings.HasPrefix(s, "untitled-"), s)
}

func TestSlugifyUniquePerCall(t *testing.T) {
	a := Slugify("Same Title")
	b := Slugify("Same Title")
	// millisecond timestamps can collide on fast machines, but prefixes match
	assert.True(t, strings.HasPrefix(a, "same-title-"))
	assert.True(t, strings.HasPrefix(b, "same-title-"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	assert.NoError(t, err)
	assert.True(t, CompareHashAndPassword(hash, "s3cret-password"))
	assert.False(t, CompareHashAndPassword(hash, "wrong"))
}
