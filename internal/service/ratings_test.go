package service

import (
	"context"
	"testing"

	"github.com/potluckhq/potluck/internal/domain"
	"github.com/potluckhq/potluck/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestRatingService(t *testing.T) (*RatingService, *RecipeService) {
	t.Helper()

	recipes := newTestRecipeService(t)
	return &RatingService{Store: recipes.Store}, recipes
}

func TestRateRecipe(t *testing.T) {
	ctx := context.Background()

	t.Run("rates a readable recipe once", func(t *testing.T) {
		svc, recipes := newTestRatingService(t)
		author := seedUser(t, svc.Store, "alice@example.com")
		rater := seedUser(t, svc.Store, "bob@example.com")

		recipe, err := recipes.CreateRecipe(ctx, author.ID, domain.Recipe{Title: "Pav", IsPublic: true})
		require.NoError(t, err)

		rating, err := svc.RateRecipe(ctx, rater.ID, recipe.ID, 4)
		require.NoError(t, err)
		require.Equal(t, 4, rating.Value)
		require.Equal(t, rater.ID, rating.UserID)

		// One rating per user per recipe.
		_, err = svc.RateRecipe(ctx, rater.ID, recipe.ID, 5)
		require.ErrorIs(t, err, ErrAlreadyRated)
	})

	t.Run("value out of bounds rejected", func(t *testing.T) {
		svc, recipes := newTestRatingService(t)
		author := seedUser(t, svc.Store, "alice@example.com")

		recipe, err := recipes.CreateRecipe(ctx, author.ID, domain.Recipe{Title: "Pav", IsPublic: true})
		require.NoError(t, err)

		_, err = svc.RateRecipe(ctx, author.ID, recipe.ID, 0)
		require.ErrorIs(t, err, ErrInvalidRating)
		_, err = svc.RateRecipe(ctx, author.ID, recipe.ID, 6)
		require.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("unreadable recipe cannot be rated", func(t *testing.T) {
		svc, recipes := newTestRatingService(t)
		author := seedUser(t, svc.Store, "alice@example.com")
		rater := seedUser(t, svc.Store, "bob@example.com")

		private, err := recipes.CreateRecipe(ctx, author.ID, domain.Recipe{Title: "Secret", IsPublic: false})
		require.NoError(t, err)

		_, err = svc.RateRecipe(ctx, rater.ID, private.ID, 3)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing recipe not found", func(t *testing.T) {
		svc, _ := newTestRatingService(t)
		rater := seedUser(t, svc.Store, "bob@example.com")

		_, err := svc.RateRecipe(ctx, rater.ID, idx.New().String(), 3)
		require.ErrorIs(t, err, ErrRecipeNotFound)
	})
}

func TestListRatings(t *testing.T) {
	ctx := context.Background()
	svc, recipes := newTestRatingService(t)
	author := seedUser(t, svc.Store, "alice@example.com")
	raterOne := seedUser(t, svc.Store, "bob@example.com")
	raterTwo := seedUser(t, svc.Store, "carol@example.com")

	recipe, err := recipes.CreateRecipe(ctx, author.ID, domain.Recipe{Title: "Pav", IsPublic: true})
	require.NoError(t, err)

	_, err = svc.RateRecipe(ctx, raterOne.ID, recipe.ID, 3)
	require.NoError(t, err)
	_, err = svc.RateRecipe(ctx, raterTwo.ID, recipe.ID, 5)
	require.NoError(t, err)

	ratings, err := svc.ListRatings(ctx, recipe.ID, "")
	require.NoError(t, err)
	require.Len(t, ratings, 2)

	t.Run("private recipe ratings follow read policy", func(t *testing.T) {
		private, err := recipes.CreateRecipe(ctx, author.ID, domain.Recipe{Title: "Secret", IsPublic: false})
		require.NoError(t, err)

		_, err = svc.ListRatings(ctx, private.ID, raterOne.ID)
		require.ErrorIs(t, err, ErrForbidden)

		_, err = svc.ListRatings(ctx, private.ID, author.ID)
		require.NoError(t, err)
	})
}
