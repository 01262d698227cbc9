package recipe

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/doggiechef/backend/internal/database"
	"github.com/doggiechef/backend/internal/form"
	"github.com/doggiechef/backend/internal/log"
	"github.com/doggiechef/backend/internal/photosink"
)

// fakeStore is an in-memory Store.
type fakeStore struct {
	recipes map[int64]database.Recipe
	nextID  int64

	lastListParams database.ListRecipesParams
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		recipes: make(map[int64]database.Recipe),
		nextID:  1,
	}
}

func (f *fakeStore) ListRecipes(_ context.Context, arg database.ListRecipesParams) ([]database.Recipe, error) {
	f.lastListParams = arg
	var out []database.Recipe
	for _, r := range f.recipes {
		if arg.Country.Valid && r.Country != arg.Country.String {
			continue
		}
		if arg.ProteinType.Valid && r.ProteinType != arg.ProteinType.String {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) GetRecipe(_ context.Context, id int64) (database.Recipe, error) {
	r, ok := f.recipes[id]
	if !ok {
		return database.Recipe{}, pgx.ErrNoRows
	}
	return r, nil
}

func (f *fakeStore) CreateRecipe(_ context.Context, arg database.CreateRecipeParams) (int64, error) {
	id := f.nextID
	f.nextID++
	f.recipes[id] = database.Recipe{
		ID:          id,
		Title:       arg.Title,
		Description: arg.Description,
		Country:     arg.Country,
		ProteinType: arg.ProteinType,
		CookingTime: arg.CookingTime,
		Difficulty:  arg.Difficulty,
		Ingredients: arg.Ingredients,
		Photos:      arg.Photos,
	}
	return id, nil
}

func (f *fakeStore) UpdateRecipe(_ context.Context, arg database.UpdateRecipeParams) (int64, error) {
	r, ok := f.recipes[arg.ID]
	if !ok {
		return 0, nil
	}
	r.Title = arg.Title
	r.Description = arg.Description
	r.Country = arg.Country
	r.ProteinType = arg.ProteinType
	r.CookingTime = arg.CookingTime
	r.Difficulty = arg.Difficulty
	r.Ingredients = arg.Ingredients
	r.Photos = arg.Photos
	f.recipes[arg.ID] = r
	return 1, nil
}

func (f *fakeStore) DeleteRecipe(_ context.Context, id int64) (int64, error) {
	if _, ok := f.recipes[id]; !ok {
		return 0, nil
	}
	delete(f.recipes, id)
	return 1, nil
}

func (f *fakeStore) DistinctCountries(_ context.Context) ([]string, error) {
	return f.distinct(func(r database.Recipe) string { return r.Country })
}

func (f *fakeStore) DistinctProteinTypes(_ context.Context) ([]string, error) {
	return f.distinct(func(r database.Recipe) string { return r.ProteinType })
}

func (f *fakeStore) distinct(key func(database.Recipe) string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, r := range f.recipes {
		if k := key(r); !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (f *fakeStore) CountRecipes(_ context.Context) (int64, error) {
	return int64(len(f.recipes)), nil
}

func (f *fakeStore) CountRecipesByCountry(_ context.Context) ([]database.CountRecipesByCountryRow, error) {
	counts := map[string]int64{}
	for _, r := range f.recipes {
		counts[r.Country]++
	}
	var out []database.CountRecipesByCountryRow
	for country, count := range counts {
		out = append(out, database.CountRecipesByCountryRow{Country: country, Count: count})
	}
	return out, nil
}

func (f *fakeStore) CountRecipesByProteinType(_ context.Context) ([]database.CountRecipesByProteinTypeRow, error) {
	counts := map[string]int64{}
	for _, r := range f.recipes {
		counts[r.ProteinType]++
	}
	var out []database.CountRecipesByProteinTypeRow
	for protein, count := range counts {
		out = append(out, database.CountRecipesByProteinTypeRow{ProteinType: protein, Count: count})
	}
	return out, nil
}

// fakeSink records stores and deletes, and can be told to fail specific
// filenames.
type fakeSink struct {
	stored  []string
	deleted []string
	failOn  map[string]bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{failOn: map[string]bool{}}
}

func (f *fakeSink) Store(_ context.Context, originalFilename string, _ []byte) (string, error) {
	if err := photosink.CheckFilename(originalFilename); err != nil {
		return "", err
	}
	if f.failOn[originalFilename] {
		return "", errors.New("simulated upload failure")
	}
	url := "/photos/stored_" + originalFilename
	f.stored = append(f.stored, url)
	return url, nil
}

func (f *fakeSink) Delete(_ context.Context, urlOrPath string) error {
	f.deleted = append(f.deleted, urlOrPath)
	return nil
}

func newTestService() (*Service, *fakeStore, *fakeSink) {
	store := newFakeStore()
	sink := newFakeSink()
	return NewService(store, sink, log.NullLogger()), store, sink
}

func validFields() form.Fields {
	return form.Fields{
		"title":        "Birria Tacos",
		"country":      "Mexico",
		"protein_type": "Beef",
		"cooking_time": "180",
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, validFields(), nil)
	if err != nil {
		t.Fatalf("Create() returned unexpected error: %v", err)
	}

	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() returned unexpected error: %v", err)
	}
	if got.Title != "Birria Tacos" || got.Country != "Mexico" || got.ProteinType != "Beef" {
		t.Fatalf("Get() = %+v", got)
	}
	if got.CookingTime == nil || *got.CookingTime != 180 {
		t.Fatalf("CookingTime = %v, want 180", got.CookingTime)
	}
	if got.Photos == nil || len(got.Photos) != 0 {
		t.Fatalf("Photos = %#v, want empty non-nil slice", got.Photos)
	}
}

func TestCreate_ValidationError(t *testing.T) {
	svc, store, _ := newTestService()

	_, err := svc.Create(context.Background(), form.Fields{"title": "only title"}, nil)

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Create() error = %v, want *ValidationError", err)
	}
	if len(store.recipes) != 0 {
		t.Fatal("recipe was persisted despite validation failure")
	}
}

func TestCreate_PartialPhotoFailure(t *testing.T) {
	svc, store, sink := newTestService()
	sink.failOn["b.png"] = true

	attachments := []form.Attachment{
		{Filename: "a.png", Data: []byte("a")},
		{Filename: "b.png", Data: []byte("b")},
		{Filename: "c.png", Data: []byte("c")},
	}

	id, err := svc.Create(context.Background(), validFields(), attachments)
	if err != nil {
		t.Fatalf("Create() returned unexpected error: %v", err)
	}

	want := []string{"/photos/stored_a.png", "/photos/stored_c.png"}
	if !slices.Equal(store.recipes[id].Photos, want) {
		t.Fatalf("Photos = %v, want %v", store.recipes[id].Photos, want)
	}
}

func TestCreate_UnsupportedExtensionSkipped(t *testing.T) {
	svc, store, _ := newTestService()

	attachments := []form.Attachment{
		{Filename: "good.jpg", Data: []byte("a")},
		{Filename: "malware.exe", Data: []byte("b")},
	}

	id, err := svc.Create(context.Background(), validFields(), attachments)
	if err != nil {
		t.Fatalf("Create() returned unexpected error: %v", err)
	}

	want := []string{"/photos/stored_good.jpg"}
	if !slices.Equal(store.recipes[id].Photos, want) {
		t.Fatalf("Photos = %v, want %v", store.recipes[id].Photos, want)
	}
}

func TestUpdate_AppendsPhotos(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, validFields(), []form.Attachment{
		{Filename: "original.png", Data: []byte("x")},
	})
	if err != nil {
		t.Fatalf("Create() returned unexpected error: %v", err)
	}

	fields := validFields()
	fields["title"] = "Birria Tacos v2"
	err = svc.Update(ctx, id, fields, []form.Attachment{
		{Filename: "new.png", Data: []byte("y")},
	})
	if err != nil {
		t.Fatalf("Update() returned unexpected error: %v", err)
	}

	got := store.recipes[id]
	if got.Title != "Birria Tacos v2" {
		t.Errorf("Title = %q, want %q", got.Title, "Birria Tacos v2")
	}
	want := []string{"/photos/stored_original.png", "/photos/stored_new.png"}
	if !slices.Equal(got.Photos, want) {
		t.Fatalf("Photos = %v, want %v", got.Photos, want)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.Update(context.Background(), 404, validFields(), nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestDelete_ReclaimsPhotos(t *testing.T) {
	svc, store, sink := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, validFields(), []form.Attachment{
		{Filename: "one.png", Data: []byte("1")},
		{Filename: "two.png", Data: []byte("2")},
	})
	if err != nil {
		t.Fatalf("Create() returned unexpected error: %v", err)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() returned unexpected error: %v", err)
	}

	if _, ok := store.recipes[id]; ok {
		t.Fatal("recipe still present after Delete()")
	}
	want := []string{"/photos/stored_one.png", "/photos/stored_two.png"}
	if !slices.Equal(sink.deleted, want) {
		t.Fatalf("deleted photos = %v, want %v", sink.deleted, want)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, sink := newTestService()

	err := svc.Delete(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}
	if len(sink.deleted) != 0 {
		t.Fatalf("Delete() of missing id deleted photos: %v", sink.deleted)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Get(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestList_FilterPassthrough(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	mustCreate := func(title, country, protein string) {
		t.Helper()
		fields := form.Fields{"title": title, "country": country, "protein_type": protein}
		if _, err := svc.Create(ctx, fields, nil); err != nil {
			t.Fatalf("Create(%s) returned unexpected error: %v", title, err)
		}
	}
	mustCreate("Birria", "Mexico", "Beef")
	mustCreate("Carnitas", "Mexico", "Pork")
	mustCreate("Pho", "Vietnam", "Beef")

	both, err := svc.List(ctx, Filter{Country: "Mexico", ProteinType: "Beef"})
	if err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if len(both) != 1 || both[0].Title != "Birria" {
		t.Fatalf("List(Mexico,Beef) = %+v, want only Birria", both)
	}
	if !store.lastListParams.Country.Valid || !store.lastListParams.ProteinType.Valid {
		t.Fatalf("filter params = %+v, want both predicates set", store.lastListParams)
	}

	one, err := svc.List(ctx, Filter{Country: "Mexico"})
	if err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if len(one) != 2 {
		t.Fatalf("List(Mexico) returned %d recipes, want 2", len(one))
	}
	if store.lastListParams.ProteinType.Valid {
		t.Fatalf("unset protein filter was passed as a predicate: %+v", store.lastListParams)
	}

	all, err := svc.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() returned %d recipes, want 3", len(all))
	}
}

func TestStats_CountsSumToTotal(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i, spec := range []struct{ country, protein string }{
		{"Mexico", "Beef"},
		{"Mexico", "Pork"},
		{"Vietnam", "Beef"},
		{"Nigeria", "Chicken"},
	} {
		fields := form.Fields{
			"title":        fmt.Sprintf("recipe-%d", i),
			"country":      spec.country,
			"protein_type": spec.protein,
		}
		if _, err := svc.Create(ctx, fields, nil); err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() returned unexpected error: %v", err)
	}

	if stats.TotalRecipes != 4 {
		t.Fatalf("TotalRecipes = %d, want 4", stats.TotalRecipes)
	}

	var byCountry, byProtein int64
	for _, c := range stats.RecipesByCountry {
		byCountry += c.Count
	}
	for _, p := range stats.RecipesByProtein {
		byProtein += p.Count
	}
	if byCountry != stats.TotalRecipes {
		t.Errorf("country counts sum to %d, want %d", byCountry, stats.TotalRecipes)
	}
	if byProtein != stats.TotalRecipes {
		t.Errorf("protein counts sum to %d, want %d", byProtein, stats.TotalRecipes)
	}
}

func TestFilters(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i, spec := range []struct{ country, protein string }{
		{"Vietnam", "Beef"},
		{"Mexico", "Beef"},
		{"Mexico", "Pork"},
	} {
		fields := form.Fields{
			"title":        fmt.Sprintf("recipe-%d", i),
			"country":      spec.country,
			"protein_type": spec.protein,
		}
		if _, err := svc.Create(ctx, fields, nil); err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}
	}

	filters, err := svc.Filters(ctx)
	if err != nil {
		t.Fatalf("Filters() returned unexpected error: %v", err)
	}

	if !slices.Equal(filters.Countries, []string{"Mexico", "Vietnam"}) {
		t.Errorf("Countries = %v, want [Mexico Vietnam]", filters.Countries)
	}
	if !slices.Equal(filters.ProteinTypes, []string{"Beef", "Pork"}) {
		t.Errorf("ProteinTypes = %v, want [Beef Pork]", filters.ProteinTypes)
	}
}
