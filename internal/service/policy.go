package service

import "github.com/potluckhq/potluck/internal/domain"

// CanReadRecipe reports whether the caller may view the recipe. Public
// recipes are readable by anyone, including anonymous callers (empty
// callerID); private recipes only by their author. Note admins get no
// special treatment on reads, only on mutations.
func CanReadRecipe(r domain.Recipe, callerID string) bool {
	if r.IsPublic {
		return true
	}
	return callerID != "" && callerID == r.AuthorID
}

// CanMutateRecipe reports whether the caller may update or delete the
// recipe: the author, or any admin.
func CanMutateRecipe(r domain.Recipe, callerID string, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return callerID != "" && callerID == r.AuthorID
}
