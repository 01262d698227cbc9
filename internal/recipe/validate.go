package recipe

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/doggiechef/backend/internal/form"
)

// ValidationError reports every missing or invalid field in one error so
// a client can fix all problems in a single round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

type recipeInput struct {
	Title       string `json:"title" validate:"required"`
	Country     string `json:"country" validate:"required"`
	ProteinType string `json:"protein_type" validate:"required"`
}

// Validated holds the fields of a recipe after validation, ready for
// persistence.
type Validated struct {
	Title       string
	Description string
	Country     string
	ProteinType string
	CookingTime pgtype.Int4
	Difficulty  string
	Ingredients string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateFields checks the decoded field mapping: title, country and
// protein_type must be non-empty after trimming, and cooking_time, when
// present, must parse as a non-negative integer.
func ValidateFields(fields form.Fields) (Validated, error) {
	input := recipeInput{
		Title:       fields.Get("title"),
		Country:     fields.Get("country"),
		ProteinType: fields.Get("protein_type"),
	}

	var invalid []string
	if err := validate.Struct(input); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
		if !ok {
			return Validated{}, err
		}
		for _, e := range validationErrs {
			invalid = append(invalid, e.Field())
		}
	}

	var cookingTime pgtype.Int4
	if raw := fields.Get("cooking_time"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v < 0 {
			invalid = append(invalid, "cooking_time")
		} else {
			cookingTime = pgtype.Int4{Int32: int32(v), Valid: true}
		}
	}

	if len(invalid) > 0 {
		return Validated{}, &ValidationError{Fields: invalid}
	}

	return Validated{
		Title:       input.Title,
		Description: fields.Get("description"),
		Country:     input.Country,
		ProteinType: input.ProteinType,
		CookingTime: cookingTime,
		Difficulty:  fields.Get("difficulty"),
		Ingredients: fields.Get("ingredients"),
	}, nil
}
