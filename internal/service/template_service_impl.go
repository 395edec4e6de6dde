package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/nalvarenga/punchcard/internal/repository"
)

type templateService struct {
	templates repository.TemplateRepo
}

func NewTemplateService(templates repository.TemplateRepo) TemplateService {
	return &templateService{templates: templates}
}

func (s *templateService) Create(ctx context.Context, actor domain.Actor, description string, defaultHours *float64) (*domain.TaskTemplate, error) {
	if !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("managing templates requires admin: %w", domain.ErrForbidden)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("description is required: %w", domain.ErrValidation)
	}

	// Absent or non-positive default hours fall back to a one-hour default.
	hours := 1.0
	if defaultHours != nil && *defaultHours > 0 {
		hours = domain.RoundHours(*defaultHours)
	}

	now := time.Now().UTC()
	tpl := &domain.TaskTemplate{
		ID:           uuid.New().String(),
		Description:  description,
		DefaultHours: hours,
		WorkedHours:  0,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *templateService) GetByID(ctx context.Context, id string) (*domain.TaskTemplate, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *templateService) ListActive(ctx context.Context, actor domain.Actor) ([]*domain.TaskTemplate, error) {
	if !actor.Role.CanReview() {
		return nil, fmt.Errorf("listing templates requires manager or admin: %w", domain.ErrForbidden)
	}
	return s.templates.ListActive(ctx)
}

func (s *templateService) Update(ctx context.Context, actor domain.Actor, id string, description *string, defaultHours *float64) (*domain.TaskTemplate, error) {
	if !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("managing templates requires admin: %w", domain.ErrForbidden)
	}

	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if description != nil {
		desc := strings.TrimSpace(*description)
		if desc == "" {
			return nil, fmt.Errorf("description cannot be blank: %w", domain.ErrValidation)
		}
		tpl.Description = desc
	}
	if defaultHours != nil {
		if *defaultHours < 0 {
			return nil, fmt.Errorf("default hours cannot be negative: %w", domain.ErrValidation)
		}
		tpl.DefaultHours = domain.RoundHours(*defaultHours)
	}
	if err := s.templates.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *templateService) Deactivate(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.Role.IsAdmin() {
		return fmt.Errorf("managing templates requires admin: %w", domain.ErrForbidden)
	}
	return s.templates.Deactivate(ctx, id)
}
