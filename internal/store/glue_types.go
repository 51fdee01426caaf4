package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/plugins/glue"
)

type glueTypesFile struct {
	Types []glue.GlueType `yaml:"types" json:"types"`
}

// GlueTypes stores custom glue types in a document of their own.
type GlueTypes struct {
	doc *Document[glueTypesFile]
	mu  sync.Mutex
}

var _ glue.TypeService = (*GlueTypes)(nil)

// NewGlueTypes returns the glue type store in dir.
func NewGlueTypes(dir string, logger *slog.Logger) *GlueTypes {
	return &GlueTypes{
		doc: NewDocument(dir, "glue_types", YAML, func() glueTypesFile {
			return glueTypesFile{Types: []glue.GlueType{}}
		}, logger),
	}
}

// Path returns the file location.
func (s *GlueTypes) Path() string {
	return s.doc.Path()
}

// List implements glue.TypeService.
func (s *GlueTypes) List(ctx context.Context) ([]glue.GlueType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.doc.Load(ctx)
	if err != nil {
		return nil, err
	}
	return f.Types, nil
}

// Add implements glue.TypeService.
func (s *GlueTypes) Add(ctx context.Context, name, description string) (glue.GlueType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.doc.Load(ctx)
	if err != nil {
		return glue.GlueType{}, err
	}
	if err := glue.ValidateTypeName(name, "", f.Types); err != nil {
		return glue.GlueType{}, err
	}
	gt := glue.GlueType{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	f.Types = append(f.Types, gt)
	if err := s.doc.Save(ctx, f); err != nil {
		return glue.GlueType{}, err
	}
	return gt, nil
}

// Update implements glue.TypeService.
func (s *GlueTypes) Update(ctx context.Context, id, name, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.doc.Load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(f.Types, id)
	if i < 0 {
		return notFound(id)
	}
	if err := glue.ValidateTypeName(name, id, f.Types); err != nil {
		return err
	}
	f.Types[i].Name = strings.TrimSpace(name)
	f.Types[i].Description = strings.TrimSpace(description)
	return s.doc.Save(ctx, f)
}

// Remove implements glue.TypeService.
func (s *GlueTypes) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.doc.Load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(f.Types, id)
	if i < 0 {
		return notFound(id)
	}
	f.Types = append(f.Types[:i], f.Types[i+1:]...)
	return s.doc.Save(ctx, f)
}

func indexOf(types []glue.GlueType, id string) int {
	for i, t := range types {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return apperrors.NewValidationError("id", fmt.Sprintf("no custom glue type with id %q", id))
}
