package generate

import (
	"errors"
	"strings"
)

var (
	// ErrGeneratorDisabled is returned when no generation provider is
	// configured. Dry runs still work.
	ErrGeneratorDisabled = errors.New("generation provider not configured")

	// ErrGeneration wraps failures of the generation provider.
	ErrGeneration = errors.New("generation failed")
)

// ValidationError lists required request fields that were missing or blank.
// It is returned before any context is fetched.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "Campos requeridos: " + strings.Join(e.Fields, ", ")
}

// field pairs a request field name with its value for validation.
type field struct {
	name  string
	value string
}

// require returns a *ValidationError naming every blank field, or nil.
func require(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Fields: missing}
}
