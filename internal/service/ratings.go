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
	ErrAlreadyRated  = errors.New("recipe already rated by user")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// RatingService handles star ratings. A user rates a recipe at most once and
// may only rate recipes they can read.
type RatingService struct {
	Store store.Store

	Now func() time.Time
}

func (s *RatingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// RateRecipe records a 1-5 rating by userID on the recipe. The read policy
// applies: rating a recipe you can't see fails the same way reading it does.
func (s *RatingService) RateRecipe(ctx context.Context, userID, recipeID string, value int) (domain.Rating, error) {
	log := slogx.FromContext(ctx)

	if value < domain.RatingMin || value > domain.RatingMax {
		return domain.Rating{}, ErrInvalidRating
	}

	// 1. The recipe must exist and be visible to the rater.
	recipe, err := s.Store.Recipes().GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Rating{}, ErrRecipeNotFound
		}
		return domain.Rating{}, err
	}
	if !CanReadRecipe(recipe, userID) {
		return domain.Rating{}, ErrForbidden
	}

	// 2. Insert. The UNIQUE(user_id, recipe_id) constraint is the real
	// one-rating guard; racing duplicates both land here and one loses.
	rating := domain.Rating{
		ID:        idx.New().String(),
		UserID:    userID,
		RecipeID:  recipeID,
		Value:     value,
		CreatedAt: s.now(),
	}
	if err := s.Store.Ratings().CreateRating(ctx, rating); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Rating{}, ErrAlreadyRated
		}
		log.Error("failed to create rating", slog.Any("error", err))
		return domain.Rating{}, err
	}

	log.Info("recipe rated",
		slog.String("recipe_id", recipeID),
		slog.String("user_id", userID),
		slog.Int("value", value),
	)
	return rating, nil
}

// ListRatings returns the ratings on a recipe the caller can read.
func (s *RatingService) ListRatings(ctx context.Context, recipeID, callerID string) ([]domain.Rating, error) {
	recipe, err := s.Store.Recipes().GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if !CanReadRecipe(recipe, callerID) {
		return nil, ErrForbidden
	}

	return s.Store.Ratings().ListRatingsByRecipe(ctx, recipeID)
}
