package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidGenre(t *testing.T) {
	for _, genre := range Genres {
		assert.True(t, IsValidGenre(genre), "expected %q to be valid", genre)
	}

	invalid := []string{"", "all", "books", "Movies", "Movies & Tv", " Music"}
	for _, genre := range invalid {
		assert.False(t, IsValidGenre(genre), "expected %q to be invalid", genre)
	}
}
