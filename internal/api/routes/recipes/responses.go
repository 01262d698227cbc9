package recipes

import (
	"github.com/doggiechef/backend/internal/recipe"
)

const (
	createdMessage = "Recipe created successfully"
	updatedMessage = "Recipe updated successfully"
	deletedMessage = "Recipe deleted successfully"
)

type CreateRecipeResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type GetRecipeResponse recipe.Recipe

type ListRecipesResponse []recipe.Recipe

type GetFiltersResponse recipe.Filters

type GetStatsResponse recipe.Stats
