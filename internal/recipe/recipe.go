// Package recipe contains the recipe domain model, request validation,
// and the service orchestrating decode, validation, photo storage and
// persistence.
package recipe

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/doggiechef/backend/internal/database"
)

// Recipe is the API-facing shape of a stored recipe.
type Recipe struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Country     string    `json:"country"`
	ProteinType string    `json:"protein_type"`
	CookingTime *int32    `json:"cooking_time"`
	Difficulty  string    `json:"difficulty"`
	Ingredients string    `json:"ingredients"`
	Photos      []string  `json:"photos"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filters lists the distinct values clients can filter the recipe list by.
type Filters struct {
	Countries    []string `json:"countries"`
	ProteinTypes []string `json:"protein_types"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

type ProteinCount struct {
	ProteinType string `json:"protein_type"`
	Count       int64  `json:"count"`
}

// Stats aggregates recipe counts per grouping.
type Stats struct {
	TotalRecipes     int64          `json:"total_recipes"`
	RecipesByCountry []CountryCount `json:"recipes_by_country"`
	RecipesByProtein []ProteinCount `json:"recipes_by_protein"`
}

func fromRow(row database.Recipe) Recipe {
	r := Recipe{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description.String,
		Country:     row.Country,
		ProteinType: row.ProteinType,
		Difficulty:  row.Difficulty.String,
		Ingredients: row.Ingredients.String,
		Photos:      row.Photos,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
	if row.CookingTime.Valid {
		cookingTime := row.CookingTime.Int32
		r.CookingTime = &cookingTime
	}
	if r.Photos == nil {
		r.Photos = []string{}
	}
	return r
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
