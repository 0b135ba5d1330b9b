package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/potluckhq/potluck/internal/domain"
	"github.com/potluckhq/potluck/internal/store"
	"github.com/potluckhq/potluck/pkg/idx"
	"github.com/potluckhq/potluck/pkg/slogx"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrForbidden      = errors.New("forbidden")
)

// RecipeService owns recipe CRUD and enforces the visibility and ownership
// policy on every path that touches a specific recipe.
type RecipeService struct {
	Store store.Store

	Now func() time.Time
}

func (s *RecipeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// CreateRecipe stores a new recipe owned by authorID.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID string, r domain.Recipe) (domain.Recipe, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	r.ID = idx.New().String()
	r.AuthorID = authorID
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := s.Store.Recipes().CreateRecipe(ctx, r); err != nil {
		log.Error("failed to create recipe", slog.Any("error", err))
		return domain.Recipe{}, err
	}

	log.Info("recipe created",
		slog.String("recipe_id", r.ID),
		slog.String("author_id", authorID),
	)
	return r, nil
}

// GetRecipe returns a recipe if the caller may read it. callerID is empty
// for anonymous callers; they only ever see public recipes.
func (s *RecipeService) GetRecipe(ctx context.Context, id, callerID string) (domain.Recipe, error) {
	r, err := s.Store.Recipes().GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Recipe{}, ErrRecipeNotFound
		}
		return domain.Recipe{}, err
	}

	if !CanReadRecipe(r, callerID) {
		return domain.Recipe{}, ErrForbidden
	}
	return r, nil
}

// GetMyRecipe returns a recipe the caller may read: their own, whatever the
// visibility, or anyone's public one. Only a private recipe of another
// author is refused.
func (s *RecipeService) GetMyRecipe(ctx context.Context, id, callerID string) (domain.Recipe, error) {
	r, err := s.Store.Recipes().GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Recipe{}, ErrRecipeNotFound
		}
		return domain.Recipe{}, err
	}

	if !CanReadRecipe(r, callerID) {
		return domain.Recipe{}, ErrForbidden
	}
	return r, nil
}

// ListPublicRecipes returns every public recipe, newest first.
func (s *RecipeService) ListPublicRecipes(ctx context.Context) ([]domain.Recipe, error) {
	return s.Store.Recipes().ListPublicRecipes(ctx)
}

// ListMyRecipes returns all of the caller's recipes regardless of visibility.
func (s *RecipeService) ListMyRecipes(ctx context.Context, callerID string) ([]domain.Recipe, error) {
	return s.Store.Recipes().ListRecipesByAuthor(ctx, callerID)
}

// UpdateRecipe applies a partial edit if the caller is the author or an
// admin. The policy check runs against the stored recipe, not the caller's
// view of it.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, callerID string, isAdmin bool, upd domain.RecipeUpdate) (domain.Recipe, error) {
	log := slogx.FromContext(ctx)

	r, err := s.Store.Recipes().GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Recipe{}, ErrRecipeNotFound
		}
		return domain.Recipe{}, err
	}

	if !CanMutateRecipe(r, callerID, isAdmin) {
		log.Warn("recipe update denied",
			slog.String("recipe_id", id),
			slog.String("caller_id", callerID),
		)
		return domain.Recipe{}, ErrForbidden
	}

	if err := s.Store.Recipes().UpdateRecipe(ctx, id, upd); err != nil {
		log.Error("failed to update recipe", slog.Any("error", err))
		return domain.Recipe{}, err
	}

	return s.Store.Recipes().GetRecipeByID(ctx, id)
}

// DeleteRecipe removes a recipe if the caller is the author or an admin.
// Ratings on it cascade away with the row.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, callerID string, isAdmin bool) error {
	log := slogx.FromContext(ctx)

	r, err := s.Store.Recipes().GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	if !CanMutateRecipe(r, callerID, isAdmin) {
		log.Warn("recipe delete denied",
			slog.String("recipe_id", id),
			slog.String("caller_id", callerID),
		)
		return ErrForbidden
	}

	if err := s.Store.Recipes().DeleteRecipe(ctx, id); err != nil {
		log.Error("failed to delete recipe", slog.Any("error", err))
		return err
	}

	log.Info("recipe deleted",
		slog.String("recipe_id", id),
		slog.String("caller_id", callerID),
	)
	return nil
}
