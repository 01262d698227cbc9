package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Recipe is a row of the recipes table.
type Recipe struct {
	ID          int64
	Title       string
	Description pgtype.Text
	Country     string
	ProteinType string
	CookingTime pgtype.Int4
	Difficulty  pgtype.Text
	Ingredients pgtype.Text
	Photos      []string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type ListRecipesParams struct {
	Country     pgtype.Text
	ProteinType pgtype.Text
}

type CreateRecipeParams struct {
	Title       string
	Description pgtype.Text
	Country     string
	ProteinType string
	CookingTime pgtype.Int4
	Difficulty  pgtype.Text
	Ingredients pgtype.Text
	Photos      []string
}

type UpdateRecipeParams struct {
	ID          int64
	Title       string
	Description pgtype.Text
	Country     string
	ProteinType string
	CookingTime pgtype.Int4
	Difficulty  pgtype.Text
	Ingredients pgtype.Text
	Photos      []string
}

type CountRecipesByCountryRow struct {
	Country string
	Count   int64
}

type CountRecipesByProteinTypeRow struct {
	ProteinType string
	Count       int64
}
