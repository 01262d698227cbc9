package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of a pgx connection the queries need. Both a pool and
// a transaction satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const checkRecipesTableExists = `
SELECT EXISTS (
    SELECT 1 FROM information_schema.tables
    WHERE table_schema = 'public' AND table_name = 'recipes'
)
`

func (q *Queries) CheckRecipesTableExists(ctx context.Context) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, checkRecipesTableExists).Scan(&exists)
	return exists, err
}

const listRecipes = `
SELECT id, title, description, country, protein_type, cooking_time,
       difficulty, ingredients, photos, created_at, updated_at
FROM recipes
WHERE ($1::text IS NULL OR country = $1)
  AND ($2::text IS NULL OR protein_type = $2)
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListRecipes(ctx context.Context, arg ListRecipesParams) ([]Recipe, error) {
	rows, err := q.db.Query(ctx, listRecipes, arg.Country, arg.ProteinType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var r Recipe
		if err := rows.Scan(
			&r.ID, &r.Title, &r.Description, &r.Country, &r.ProteinType,
			&r.CookingTime, &r.Difficulty, &r.Ingredients, &r.Photos,
			&r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

const getRecipe = `
SELECT id, title, description, country, protein_type, cooking_time,
       difficulty, ingredients, photos, created_at, updated_at
FROM recipes
WHERE id = $1
`

func (q *Queries) GetRecipe(ctx context.Context, id int64) (Recipe, error) {
	var r Recipe
	err := q.db.QueryRow(ctx, getRecipe, id).Scan(
		&r.ID, &r.Title, &r.Description, &r.Country, &r.ProteinType,
		&r.CookingTime, &r.Difficulty, &r.Ingredients, &r.Photos,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

const createRecipe = `
INSERT INTO recipes (title, description, country, protein_type,
                     cooking_time, difficulty, ingredients, photos)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`

func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createRecipe,
		arg.Title, arg.Description, arg.Country, arg.ProteinType,
		arg.CookingTime, arg.Difficulty, arg.Ingredients, arg.Photos,
	).Scan(&id)
	return id, err
}

const updateRecipe = `
UPDATE recipes
SET title = $2, description = $3, country = $4, protein_type = $5,
    cooking_time = $6, difficulty = $7, ingredients = $8, photos = $9,
    updated_at = now()
WHERE id = $1
`

// UpdateRecipe overwrites a recipe's fields and refreshes updated_at. It
// returns the number of rows affected; 0 means the id does not exist.
func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) (int64, error) {
	tag, err := q.db.Exec(ctx, updateRecipe,
		arg.ID, arg.Title, arg.Description, arg.Country, arg.ProteinType,
		arg.CookingTime, arg.Difficulty, arg.Ingredients, arg.Photos,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteRecipe = `
DELETE FROM recipes WHERE id = $1
`

func (q *Queries) DeleteRecipe(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteRecipe, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const distinctCountries = `
SELECT DISTINCT country FROM recipes ORDER BY country
`

func (q *Queries) DistinctCountries(ctx context.Context) ([]string, error) {
	return q.scanStrings(ctx, distinctCountries)
}

const distinctProteinTypes = `
SELECT DISTINCT protein_type FROM recipes ORDER BY protein_type
`

func (q *Queries) DistinctProteinTypes(ctx context.Context) ([]string, error) {
	return q.scanStrings(ctx, distinctProteinTypes)
}

func (q *Queries) scanStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

const countRecipes = `
SELECT COUNT(*) FROM recipes
`

func (q *Queries) CountRecipes(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countRecipes).Scan(&count)
	return count, err
}

const countRecipesByCountry = `
SELECT country, COUNT(*) AS count
FROM recipes
GROUP BY country
ORDER BY count DESC, country
`

func (q *Queries) CountRecipesByCountry(ctx context.Context) ([]CountRecipesByCountryRow, error) {
	rows, err := q.db.Query(ctx, countRecipesByCountry)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CountRecipesByCountryRow
	for rows.Next() {
		var c CountRecipesByCountryRow
		if err := rows.Scan(&c.Country, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

const countRecipesByProteinType = `
SELECT protein_type, COUNT(*) AS count
FROM recipes
GROUP BY protein_type
ORDER BY count DESC, protein_type
`

func (q *Queries) CountRecipesByProteinType(ctx context.Context) ([]CountRecipesByProteinTypeRow, error) {
	rows, err := q.db.Query(ctx, countRecipesByProteinType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CountRecipesByProteinTypeRow
	for rows.Next() {
		var c CountRecipesByProteinTypeRow
		if err := rows.Scan(&c.ProteinType, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
