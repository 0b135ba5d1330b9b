package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/potluckhq/potluck/internal/domain"
	"github.com/potluckhq/potluck/internal/service"
	"github.com/potluckhq/potluck/pkg/api"
	"github.com/potluckhq/potluck/pkg/httpx"
	"github.com/potluckhq/potluck/pkg/slogx"
)

// RecipeHandler serves the recipe CRUD endpoints.
type RecipeHandler struct {
	RecipeService *service.RecipeService
}

// HandleCreate handles POST /v1/recipes.
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	callerID := httpx.UserIDFromCtx(ctx)

	var req api.RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Title == "" {
		httpx.WriteError(w, http.StatusBadRequest, "title is required")
		return
	}

	recipe, err := h.RecipeService.CreateRecipe(ctx, callerID, domain.Recipe{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		log.Error("recipe creation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toRecipeResponse(recipe))
}

// HandleListPublic handles GET /v1/recipes.
func (h *RecipeHandler) HandleListPublic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	recipes, err := h.RecipeService.ListPublicRecipes(ctx)
	if err != nil {
		log.Error("failed to list recipes", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRecipeListResponse(recipes))
}

// HandleListMine handles GET /v1/recipes/my.
func (h *RecipeHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	callerID := httpx.UserIDFromCtx(ctx)

	recipes, err := h.RecipeService.ListMyRecipes(ctx, callerID)
	if err != nil {
		log.Error("failed to list recipes", "err", err, "user_id", callerID)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRecipeListResponse(recipes))
}

// HandleGet handles GET /v1/recipes/{id}.
//
// Authentication is optional here. Anonymous callers see public recipes
// only; an authenticated author also sees their own private recipes.
func (h *RecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := httpx.UserIDFromCtx(ctx)

	recipe, err := h.RecipeService.GetRecipe(ctx, r.PathValue("id"), callerID)
	if err != nil {
		writeRecipeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

// HandleGetMine handles GET /v1/recipes/my/{id}.
func (h *RecipeHandler) HandleGetMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := httpx.UserIDFromCtx(ctx)

	recipe, err := h.RecipeService.GetMyRecipe(ctx, r.PathValue("id"), callerID)
	if err != nil {
		writeRecipeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

// HandleUpdate handles PATCH /v1/recipes/{id}.
func (h *RecipeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := httpx.UserIDFromCtx(ctx)
	isAdmin := httpx.HasAnyRole(httpx.RolesFromCtx(ctx), domain.RoleAdmin)

	var req api.RecipeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	recipe, err := h.RecipeService.UpdateRecipe(ctx, r.PathValue("id"), callerID, isAdmin, domain.RecipeUpdate{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeRecipeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

// HandleDelete handles DELETE /v1/recipes/{id}.
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := httpx.UserIDFromCtx(ctx)
	isAdmin := httpx.HasAnyRole(httpx.RolesFromCtx(ctx), domain.RoleAdmin)

	if err := h.RecipeService.DeleteRecipe(ctx, r.PathValue("id"), callerID, isAdmin); err != nil {
		writeRecipeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeRecipeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		httpx.WriteError(w, http.StatusNotFound, "recipe not found")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden")
	default:
		slogx.FromContext(ctx).Error("recipe request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toRecipeResponse(r domain.Recipe) api.RecipeResponse {
	return api.RecipeResponse{
		ID:          r.ID,
		AuthorID:    r.AuthorID,
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		IsPublic:    r.IsPublic,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRecipeListResponse(recipes []domain.Recipe) api.RecipeListResponse {
	out := api.RecipeListResponse{Recipes: make([]api.RecipeResponse, 0, len(recipes))}
	for _, r := range recipes {
		out.Recipes = append(out.Recipes, toRecipeResponse(r))
	}
	return out
}
