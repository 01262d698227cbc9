package recipe

import (
	"errors"
	"slices"
	"testing"

	"github.com/doggiechef/backend/internal/form"
)

func TestValidateFields(t *testing.T) {
	tests := []struct {
		name        string
		fields      form.Fields
		wantInvalid []string
	}{
		{
			name: "all required present",
			fields: form.Fields{
				"title":        "Birria Tacos",
				"country":      "Mexico",
				"protein_type": "Beef",
			},
		},
		{
			name:        "all required missing",
			fields:      form.Fields{},
			wantInvalid: []string{"title", "country", "protein_type"},
		},
		{
			name: "whitespace-only counts as missing",
			fields: form.Fields{
				"title":        "   ",
				"country":      "Mexico",
				"protein_type": "Beef",
			},
			wantInvalid: []string{"title"},
		},
		{
			name: "invalid cooking time",
			fields: form.Fields{
				"title":        "Pho",
				"country":      "Vietnam",
				"protein_type": "Beef",
				"cooking_time": "abc",
			},
			wantInvalid: []string{"cooking_time"},
		},
		{
			name: "negative cooking time",
			fields: form.Fields{
				"title":        "Pho",
				"country":      "Vietnam",
				"protein_type": "Beef",
				"cooking_time": "-5",
			},
			wantInvalid: []string{"cooking_time"},
		},
		{
			name: "missing fields and invalid cooking time reported together",
			fields: form.Fields{
				"country":      "Vietnam",
				"cooking_time": "soon",
			},
			wantInvalid: []string{"title", "protein_type", "cooking_time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validated, err := ValidateFields(tt.fields)

			if len(tt.wantInvalid) == 0 {
				if err != nil {
					t.Fatalf("ValidateFields() returned unexpected error: %v", err)
				}
				if validated.Title != tt.fields.Get("title") {
					t.Errorf("Title = %q, want %q", validated.Title, tt.fields.Get("title"))
				}
				return
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("ValidateFields() error = %v, want *ValidationError", err)
			}

			got := slices.Clone(validationErr.Fields)
			want := slices.Clone(tt.wantInvalid)
			slices.Sort(got)
			slices.Sort(want)
			if !slices.Equal(got, want) {
				t.Fatalf("invalid fields = %v, want %v", validationErr.Fields, tt.wantInvalid)
			}
		})
	}
}

func TestValidateFields_CookingTime(t *testing.T) {
	fields := form.Fields{
		"title":        "Suya",
		"country":      "Nigeria",
		"protein_type": "Beef",
		"cooking_time": "45",
	}

	validated, err := ValidateFields(fields)
	if err != nil {
		t.Fatalf("ValidateFields() returned unexpected error: %v", err)
	}
	if !validated.CookingTime.Valid || validated.CookingTime.Int32 != 45 {
		t.Fatalf("CookingTime = %+v, want valid 45", validated.CookingTime)
	}
}

func TestValidateFields_TrimsOptional(t *testing.T) {
	fields := form.Fields{
		"title":        " Suya ",
		"country":      "Nigeria",
		"protein_type": "Beef",
		"difficulty":   "  easy  ",
	}

	validated, err := ValidateFields(fields)
	if err != nil {
		t.Fatalf("ValidateFields() returned unexpected error: %v", err)
	}
	if validated.Title != "Suya" {
		t.Errorf("Title = %q, want %q", validated.Title, "Suya")
	}
	if validated.Difficulty != "easy" {
		t.Errorf("Difficulty = %q, want %q", validated.Difficulty, "easy")
	}
	if validated.CookingTime.Valid {
		t.Errorf("CookingTime = %+v, want null", validated.CookingTime)
	}
}
