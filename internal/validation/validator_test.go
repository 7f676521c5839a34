package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string  `json:"name" validate:"required"`
	Kind     string  `json:"kind" validate:"oneof=Run Walk"`
	Effort   int     `json:"rpe" validate:"min=0,max=10"`
	Minutes  float64 `json:"duration_minutes" validate:"gt=0"`
	Zone     string  `json:"timezone" validate:"omitempty,timezone"`
	NoTagVal int     `validate:"lte=5"`
}

func valid() sample {
	return sample{Name: "easy", Kind: "Run", Effort: 3, Minutes: 30}
}

func TestValidateOK(t *testing.T) {
	assert.Nil(t, Validate(valid()))
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*sample)
		expected FieldError
	}{
		{
			name:     "required",
			modify:   func(s *sample) { s.Name = "" },
			expected: FieldError{Field: "name", Message: "is required"},
		},
		{
			name:     "oneof",
			modify:   func(s *sample) { s.Kind = "Swim" },
			expected: FieldError{Field: "kind", Message: "must be one of: Run Walk"},
		},
		{
			name:     "max",
			modify:   func(s *sample) { s.Effort = 11 },
			expected: FieldError{Field: "rpe", Message: "must be at most 10"},
		},
		{
			name:     "gt",
			modify:   func(s *sample) { s.Minutes = 0 },
			expected: FieldError{Field: "duration_minutes", Message: "must be greater than 0"},
		},
		{
			name:     "timezone",
			modify:   func(s *sample) { s.Zone = "Nowhere/Land" },
			expected: FieldError{Field: "timezone", Message: "must be a valid IANA timezone"},
		},
		{
			name:     "snake case fallback",
			modify:   func(s *sample) { s.NoTagVal = 6 },
			expected: FieldError{Field: "no_tag_val", Message: "must be at most 5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.modify(&s)

			errs := Validate(s)

			require.Len(t, errs, 1)
			assert.Equal(t, tt.expected, errs[0])
		})
	}
}

func TestValidateMultipleErrors(t *testing.T) {
	errs := Validate(sample{})

	assert.Len(t, errs, 3)
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Name", "name"},
		{"DurationMinutes", "duration_minutes"},
		{"already_snake", "already_snake"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, toSnakeCase(tt.input))
	}
}
