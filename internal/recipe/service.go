package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/doggiechef/backend/internal/database"
	"github.com/doggiechef/backend/internal/form"
	"github.com/doggiechef/backend/internal/photosink"
)

// ErrNotFound marks an id that does not correspond to a stored recipe.
var ErrNotFound = errors.New("recipe not found")

// Store is the storage adapter surface the service depends on.
// *database.Database satisfies it.
type Store interface {
	ListRecipes(ctx context.Context, arg database.ListRecipesParams) ([]database.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (database.Recipe, error)
	CreateRecipe(ctx context.Context, arg database.CreateRecipeParams) (int64, error)
	UpdateRecipe(ctx context.Context, arg database.UpdateRecipeParams) (int64, error)
	DeleteRecipe(ctx context.Context, id int64) (int64, error)
	DistinctCountries(ctx context.Context) ([]string, error)
	DistinctProteinTypes(ctx context.Context) ([]string, error)
	CountRecipes(ctx context.Context) (int64, error)
	CountRecipesByCountry(ctx context.Context) ([]database.CountRecipesByCountryRow, error)
	CountRecipesByProteinType(ctx context.Context) ([]database.CountRecipesByProteinTypeRow, error)
}

// Filter restricts the recipe list. Empty predicates impose no constraint;
// both present combine with AND.
type Filter struct {
	Country     string
	ProteinType string
}

// Service sequences decode results through validation, photo storage and
// persistence.
type Service struct {
	store  Store
	photos photosink.Sink
	log    *slog.Logger
}

func NewService(store Store, photos photosink.Sink, log *slog.Logger) *Service {
	return &Service{
		store:  store,
		photos: photos,
		log:    log,
	}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Recipe, error) {
	rows, err := s.store.ListRecipes(ctx, database.ListRecipesParams{
		Country:     textOrNull(filter.Country),
		ProteinType: textOrNull(filter.ProteinType),
	})
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}

	recipes := make([]Recipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, fromRow(row))
	}
	return recipes, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Recipe, error) {
	row, err := s.store.GetRecipe(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Recipe{}, ErrNotFound
	} else if err != nil {
		return Recipe{}, fmt.Errorf("getting recipe: %w", err)
	}
	return fromRow(row), nil
}

// Create validates fields, stores the attached photos and persists the
// recipe. Individual photo failures are logged and skipped; they never
// fail the create.
func (s *Service) Create(ctx context.Context, fields form.Fields, attachments []form.Attachment) (int64, error) {
	validated, err := ValidateFields(fields)
	if err != nil {
		return 0, err
	}

	photos := s.storePhotos(ctx, attachments)

	id, err := s.store.CreateRecipe(ctx, database.CreateRecipeParams{
		Title:       validated.Title,
		Description: textOrNull(validated.Description),
		Country:     validated.Country,
		ProteinType: validated.ProteinType,
		CookingTime: validated.CookingTime,
		Difficulty:  textOrNull(validated.Difficulty),
		Ingredients: textOrNull(validated.Ingredients),
		Photos:      photos,
	})
	if err != nil {
		return 0, fmt.Errorf("creating recipe: %w", err)
	}
	return id, nil
}

// Update overwrites a recipe's fields and appends any newly attached
// photos to the stored list. Previously stored photo references are
// preserved.
func (s *Service) Update(ctx context.Context, id int64, fields form.Fields, attachments []form.Attachment) error {
	existing, err := s.store.GetRecipe(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("getting recipe: %w", err)
	}

	validated, err := ValidateFields(fields)
	if err != nil {
		return err
	}

	photos := append(existing.Photos, s.storePhotos(ctx, attachments)...)

	affected, err := s.store.UpdateRecipe(ctx, database.UpdateRecipeParams{
		ID:          id,
		Title:       validated.Title,
		Description: textOrNull(validated.Description),
		Country:     validated.Country,
		ProteinType: validated.ProteinType,
		CookingTime: validated.CookingTime,
		Difficulty:  textOrNull(validated.Difficulty),
		Ingredients: textOrNull(validated.Ingredients),
		Photos:      photos,
	})
	if err != nil {
		return fmt.Errorf("updating recipe: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a recipe and reclaims its stored photo files.
// Reclamation is best-effort; a photo that cannot be removed is logged
// and left behind.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.store.GetRecipe(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("getting recipe: %w", err)
	}

	affected, err := s.store.DeleteRecipe(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	for _, photo := range existing.Photos {
		if err := s.photos.Delete(ctx, photo); err != nil {
			s.log.WarnContext(ctx, "failed to delete photo",
				slog.String("photo", photo), slog.Any("error", err))
		}
	}
	return nil
}

func (s *Service) Filters(ctx context.Context) (Filters, error) {
	countries, err := s.store.DistinctCountries(ctx)
	if err != nil {
		return Filters{}, fmt.Errorf("listing countries: %w", err)
	}
	proteinTypes, err := s.store.DistinctProteinTypes(ctx)
	if err != nil {
		return Filters{}, fmt.Errorf("listing protein types: %w", err)
	}

	if countries == nil {
		countries = []string{}
	}
	if proteinTypes == nil {
		proteinTypes = []string{}
	}
	return Filters{
		Countries:    countries,
		ProteinTypes: proteinTypes,
	}, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	total, err := s.store.CountRecipes(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("counting recipes: %w", err)
	}

	byCountry, err := s.store.CountRecipesByCountry(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("counting recipes by country: %w", err)
	}
	byProtein, err := s.store.CountRecipesByProteinType(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("counting recipes by protein type: %w", err)
	}

	stats := Stats{
		TotalRecipes:     total,
		RecipesByCountry: make([]CountryCount, 0, len(byCountry)),
		RecipesByProtein: make([]ProteinCount, 0, len(byProtein)),
	}
	for _, row := range byCountry {
		stats.RecipesByCountry = append(stats.RecipesByCountry, CountryCount(row))
	}
	for _, row := range byProtein {
		stats.RecipesByProtein = append(stats.RecipesByProtein, ProteinCount(row))
	}
	return stats, nil
}

// storePhotos pushes each attachment through the sink. An attachment with
// an unsupported extension or a failed upload is dropped from the result,
// not surfaced to the caller.
func (s *Service) storePhotos(ctx context.Context, attachments []form.Attachment) []string {
	photos := []string{}
	for _, attachment := range attachments {
		url, err := s.photos.Store(ctx, attachment.Filename, attachment.Data)
		if errors.Is(err, photosink.ErrUnsupportedExtension) {
			s.log.DebugContext(ctx, "skipping photo with unsupported extension",
				slog.String("filename", attachment.Filename))
			continue
		} else if err != nil {
			s.log.WarnContext(ctx, "failed to store photo",
				slog.String("filename", attachment.Filename), slog.Any("error", err))
			continue
		}
		photos = append(photos, url)
	}
	return photos
}
