package workout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/storage"
)

// ListTemplates returns all workout templates.
func (s *Service) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	templates, err := s.repo.GetTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	return templates, nil
}

// GetTemplate returns one template by id.
func (s *Service) GetTemplate(ctx context.Context, id string) (*models.WorkoutTemplate, error) {
	tmpl, err := s.findTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (s *Service) findTemplate(ctx context.Context, id string) (models.WorkoutTemplate, error) {
	templates, err := s.repo.GetTemplates(ctx)
	if err != nil {
		return models.WorkoutTemplate{}, fmt.Errorf("loading templates: %w", err)
	}
	t, ok := templateByID(templates, id)
	if !ok {
		return models.WorkoutTemplate{}, ErrTemplateNotFound
	}
	return t, nil
}

func templateByID(templates []models.WorkoutTemplate, id string) (models.WorkoutTemplate, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return models.WorkoutTemplate{}, false
}

func validateTemplate(t *models.WorkoutTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	}
	for i, ex := range t.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return fmt.Errorf("%w: exercise %d has no name", ErrInvalidTemplate, i)
		}
	}
	return nil
}

// SaveTemplate inserts or replaces a template by id. Templates without an id
// get a new one. Exercises without an exerciseId get one as well.
func (s *Service) SaveTemplate(ctx context.Context, t models.WorkoutTemplate) (*models.WorkoutTemplate, error) {
	if err := validateTemplate(&t); err != nil {
		return nil, err
	}
	t = t.Clone()
	for i := range t.Exercises {
		if t.Exercises[i].ExerciseID == "" {
			t.Exercises[i].ExerciseID = uuid.NewString()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	err := s.repo.Update(ctx, func(c storage.Collections) error {
		templates, err := c.GetTemplates(ctx)
		if err != nil {
			return err
		}
		if t.ID != "" {
			for i := range templates {
				if templates[i].ID == t.ID {
					t.CreatedAt = templates[i].CreatedAt
					t.UpdatedAt = now
					templates[i] = t
					return c.SaveTemplates(ctx, templates)
				}
			}
		} else {
			t.ID = uuid.NewString()
		}
		t.CreatedAt = now
		t.UpdatedAt = now
		return c.SaveTemplates(ctx, append(templates, t))
	})
	if err != nil {
		return nil, fmt.Errorf("saving template: %w", err)
	}
	return &t, nil
}

// DeleteTemplate removes a template. Sessions already started from it keep
// their own snapshot.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Update(ctx, func(c storage.Collections) error {
		templates, err := c.GetTemplates(ctx)
		if err != nil {
			return err
		}
		for i := range templates {
			if templates[i].ID == id {
				return c.SaveTemplates(ctx, append(templates[:i], templates[i+1:]...))
			}
		}
		return ErrTemplateNotFound
	})
}
