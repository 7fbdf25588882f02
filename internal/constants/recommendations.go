package constants

import "time"

// Genres is the fixed set of genre labels a recommendation may carry.
// Validation is membership-only; the set is the contract with the client.
var Genres = []string{
	"Movies & TV",
	"Music",
	"Books",
	"Games",
	"Tech",
	"Food & Drinks",
	"Travel",
	"Other",
}

// GenreFilterAll is the feed filter value that disables genre filtering.
const GenreFilterAll = "all"

// Validation limits for recommendation fields. Lengths apply after
// sanitization, except RawInputCap which bounds input before any
// processing touches it.
const (
	TitleMinLength = 1
	TitleMaxLength = 200
	BlurbMaxLength = 500
	LinkMaxLength  = 2048
	RawInputCap    = 10000
)

// Cache keys and expiries.
const (
	UserCachePrefix   = "user_subject:" // keyed by identity subject
	UserCacheExpiry   = 7 * 24 * time.Hour
	FeedCacheKey      = "feed_all" // unfiltered feed snapshot
	FeedCacheExpiry   = 5 * time.Minute
	ActivityRetention = 90 * 24 * time.Hour
)

// IsValidGenre reports whether genre is a member of the fixed genre set.
func IsValidGenre(genre string) bool {
	for _, g := range Genres {
		if g == genre {
			return true
		}
	}
	return false
}
