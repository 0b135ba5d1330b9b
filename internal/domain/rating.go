package domain

import "time"

// Rating value bounds, inclusive.
const (
	RatingMin = 1
	RatingMax = 5
)

// Rating is a single 1-5 star score by one user on one recipe. A user may
// rate a given recipe at most once.
type Rating struct {
	ID        string
	UserID    string
	RecipeID  string
	Value     int
	CreatedAt time.Time
}
