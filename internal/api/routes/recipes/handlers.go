// Package recipes contains handlers for the recipes endpoint.
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apiError "github.com/doggiechef/backend/internal/api/error"
	"github.com/doggiechef/backend/internal/api/requestid"
	"github.com/doggiechef/backend/internal/env"
	"github.com/doggiechef/backend/internal/form"
	"github.com/doggiechef/backend/internal/recipe"
)

// ListRecipes returns every recipe, newest first, optionally filtered by
// the country and protein_type query parameters.
func ListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	filter := recipe.Filter{
		Country:     r.URL.Query().Get("country"),
		ProteinType: r.URL.Query().Get("protein_type"),
	}

	env.Logger.DebugContext(ctx, "listing recipes")
	recipes, err := env.Recipes.List(ctx, filter)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(ctx, w, http.StatusOK, ListRecipesResponse(recipes))
}

// GetRecipe returns a single recipe by id.
func GetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	recipeIDQ := recipeID(chi.URLParam(r, "recipeID"))
	if err := recipeIDQ.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "fetching recipe")
	rec, err := env.Recipes.Get(ctx, recipeIDQ.Int64())
	if errors.Is(err, recipe.ErrNotFound) {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "Recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(ctx, w, http.StatusOK, GetRecipeResponse(rec))
}

// CreateRecipe creates a recipe from a JSON or multipart body. Photos in a
// multipart body are stored through the configured photo sink; a photo that
// cannot be stored is skipped rather than failing the request.
func CreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	fields, attachments, ok := decodeBody(w, r)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "creating recipe")
	id, err := env.Recipes.Create(ctx, fields, attachments)
	var validationErr *recipe.ValidationError
	if errors.As(err, &validationErr) {
		env.Logger.ErrorContext(ctx, "failed to validate recipe", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationFailed, validationErr.Error(), requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, CreateRecipeResponse{ID: id, Message: createdMessage})
}

// UpdateRecipe replaces a recipe's fields and appends any uploaded photos.
func UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	recipeIDQ := recipeID(chi.URLParam(r, "recipeID"))
	if err := recipeIDQ.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}

	fields, attachments, ok := decodeBody(w, r)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "updating recipe")
	err := env.Recipes.Update(ctx, recipeIDQ.Int64(), fields, attachments)
	var validationErr *recipe.ValidationError
	switch {
	case errors.Is(err, recipe.ErrNotFound):
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "Recipe not found", requestID)
		return
	case errors.As(err, &validationErr):
		env.Logger.ErrorContext(ctx, "failed to validate recipe", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationFailed, validationErr.Error(), requestID)
		return
	case err != nil:
		env.Logger.ErrorContext(ctx, "failed to update recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(ctx, w, http.StatusOK, MessageResponse{Message: updatedMessage})
}

// DeleteRecipe removes a recipe and reclaims its locally stored photos.
func DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	recipeIDQ := recipeID(chi.URLParam(r, "recipeID"))
	if err := recipeIDQ.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "deleting recipe")
	err := env.Recipes.Delete(ctx, recipeIDQ.Int64())
	if errors.Is(err, recipe.ErrNotFound) {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "Recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(ctx, w, http.StatusOK, MessageResponse{Message: deletedMessage})
}

// GetFilters returns the distinct countries and protein types recipes can
// be filtered by.
func GetFilters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "fetching filters")
	filters, err := env.Recipes.Filters(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch filters", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(ctx, w, http.StatusOK, GetFiltersResponse(filters))
}

// GetStats returns recipe counts, total and grouped by country and protein.
func GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "fetching stats")
	stats, err := env.Recipes.Stats(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch stats", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(ctx, w, http.StatusOK, GetStatsResponse(stats))
}

// decodeBody caps the body at the configured upload limit and decodes it.
// On failure it writes the error response and returns ok=false.
func decodeBody(w http.ResponseWriter, r *http.Request) (form.Fields, []form.Attachment, bool) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	r.Body = http.MaxBytesReader(w, r.Body, env.Config.Photos.MaxUploadBytes)
	fields, attachments, err := form.Decode(r.Header.Get("Content-Type"), r.Body)

	var maxBytesErr *http.MaxBytesError
	var decodeErr *form.DecodeError
	switch {
	case err == nil:
		return fields, attachments, true
	case errors.As(err, &maxBytesErr):
		env.Logger.ErrorContext(ctx, "request body too large", slog.Int64("limit", maxBytesErr.Limit))
		_ = apiError.EncodeError(w, apiError.RequestTooLarge, "request body too large", requestID)
	case errors.Is(err, form.ErrEmptyBody):
		env.Logger.ErrorContext(ctx, "empty request body")
		_ = apiError.EncodeError(w, apiError.EmptyBody, "request body is empty", requestID)
	case errors.As(err, &decodeErr):
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, decodeErr.Reason, requestID)
	default:
		env.Logger.ErrorContext(ctx, "failed to read request body", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
	}
	return nil, nil, false
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	resp, err := json.Marshal(v)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
