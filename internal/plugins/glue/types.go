package glue

import (
	"context"
	"slices"
	"strings"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
)

// BuiltinTypes are the glue types every installation offers. They cannot
// be edited or removed.
var BuiltinTypes = []string{"Type A", "Type B", "Type C", "Type D"}

// GlueType is a user-defined glue type.
type GlueType struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// TypeService stores the custom glue types.
type TypeService interface {
	List(ctx context.Context) ([]GlueType, error)
	Add(ctx context.Context, name, description string) (GlueType, error)
	Update(ctx context.Context, id, name, description string) error
	Remove(ctx context.Context, id string) error
}

// IsBuiltin reports whether name is a built-in glue type.
func IsBuiltin(name string) bool {
	return slices.Contains(BuiltinTypes, name)
}

// TypeNames returns the built-in names followed by the custom ones.
func TypeNames(custom []GlueType) []string {
	names := append([]string(nil), BuiltinTypes...)
	for _, t := range custom {
		if !slices.Contains(names, t.Name) {
			names = append(names, t.Name)
		}
	}
	return names
}

// ValidateTypeName checks a name entered for a custom type. id is the type
// being edited, or empty for a new one.
func ValidateTypeName(name, id string, existing []GlueType) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("name", "Name cannot be empty.")
	}
	if IsBuiltin(name) {
		return apperrors.NewValidationError("name", "Built-in type names are reserved.")
	}
	for _, t := range existing {
		if t.ID != id && strings.EqualFold(t.Name, name) {
			return apperrors.NewValidationError("name", "A glue type with this name already exists.")
		}
	}
	return nil
}
