package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/potluckhq/potluck/internal/domain"
	"github.com/potluckhq/potluck/internal/service"
	"github.com/potluckhq/potluck/pkg/api"
	"github.com/potluckhq/potluck/pkg/httpx"
	"github.com/potluckhq/potluck/pkg/slogx"
)

// RatingHandler serves the rating endpoints.
type RatingHandler struct {
	RatingService *service.RatingService
}

// HandleCreate handles POST /v1/ratings.
//
// A user may rate a recipe they can read exactly once.
func (h *RatingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	callerID := httpx.UserIDFromCtx(ctx)

	var req api.RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.RecipeID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "recipe_id is required")
		return
	}

	rating, err := h.RatingService.RateRecipe(ctx, callerID, req.RecipeID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			httpx.WriteError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		case errors.Is(err, service.ErrRecipeNotFound):
			httpx.WriteError(w, http.StatusNotFound, "recipe not found")
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteError(w, http.StatusForbidden, "forbidden")
		case errors.Is(err, service.ErrAlreadyRated):
			httpx.WriteError(w, http.StatusConflict, "recipe already rated")
		default:
			log.Error("rating creation failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toRatingResponse(rating))
}

// HandleList handles GET /v1/recipes/{id}/ratings.
func (h *RatingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	callerID := httpx.UserIDFromCtx(ctx)

	ratings, err := h.RatingService.ListRatings(ctx, r.PathValue("id"), callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			httpx.WriteError(w, http.StatusNotFound, "recipe not found")
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteError(w, http.StatusForbidden, "forbidden")
		default:
			log.Error("failed to list ratings", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	out := api.RatingListResponse{Ratings: make([]api.RatingResponse, 0, len(ratings))}
	var sum int
	for _, rt := range ratings {
		out.Ratings = append(out.Ratings, toRatingResponse(rt))
		sum += rt.Value
	}
	if len(ratings) > 0 {
		out.Average = float64(sum) / float64(len(ratings))
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

func toRatingResponse(rt domain.Rating) api.RatingResponse {
	return api.RatingResponse{
		ID:        rt.ID,
		UserID:    rt.UserID,
		RecipeID:  rt.RecipeID,
		Value:     rt.Value,
		CreatedAt: rt.CreatedAt,
	}
}
