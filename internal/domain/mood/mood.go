// Package mood provides the mood parameter value object produced by the
// emotion classifier and consumed by the recommendation pipeline.
package mood

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Parameters describes a target musical feeling: genre seeds plus
// valence/energy in [0,1] and tempo in BPM. Two instances are produced per
// analysis request (immersive and soothing variants) and are immutable once
// created.
type Parameters struct {
	Genres  []string `json:"genres" yaml:"genres" validate:"required,min=1,dive,required"`
	Valence float64  `json:"valence" yaml:"valence" validate:"gte=0,lte=1"`
	Energy  float64  `json:"energy" yaml:"energy" validate:"gte=0,lte=1"`
	Tempo   float64  `json:"tempo" yaml:"tempo" validate:"gt=0"`
}

// ValidationError reports a malformed mood parameter with a field-level
// message. It is never retried and must be surfaced to the caller before any
// network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid mood parameter %s: %s", e.Field, e.Reason)
}

var validate = validator.New()

// Validate checks parameter ranges. Returns a *ValidationError describing the
// first offending field, or nil when all values are in range.
func (p Parameters) Validate() error {
	if err := validate.Struct(p); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok || len(verrs) == 0 {
			return &ValidationError{Field: "parameters", Reason: err.Error()}
		}
		return toValidationError(verrs[0])
	}
	return nil
}

func toValidationError(fe validator.FieldError) *ValidationError {
	field := fe.Field()
	if strings.HasPrefix(field, "Genres[") {
		// A blank entry inside the slice reads the same as no genres at all.
		field = "Genres"
	}
	switch field {
	case "Genres":
		return &ValidationError{Field: "genres", Reason: "at least one genre is required"}
	case "Valence":
		return &ValidationError{Field: "valence", Reason: "must be between 0 and 1"}
	case "Energy":
		return &ValidationError{Field: "energy", Reason: "must be between 0 and 1"}
	case "Tempo":
		return &ValidationError{Field: "tempo", Reason: "must be greater than 0"}
	default:
		return &ValidationError{Field: fe.Field(), Reason: fe.Tag()}
	}
}
