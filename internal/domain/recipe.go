package domain

import "time"

type Recipe struct {
	ID          string
	AuthorID    string
	Title       string
	Description string
	Ingredients string
	Steps       string
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeUpdate carries the mutable fields for a recipe edit. Nil pointers
// mean "leave unchanged".
type RecipeUpdate struct {
	Title       *string
	Description *string
	Ingredients *string
	Steps       *string
	IsPublic    *bool
}
