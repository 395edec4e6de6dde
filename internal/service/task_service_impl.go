package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nalvarenga/punchcard/internal/db"
	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/nalvarenga/punchcard/internal/repository"
)

type taskService struct {
	tasks          repository.TaskRepo
	users          repository.UserRepo
	uow            db.UnitOfWork
	observer       UseCaseObserver
	deleteRollback bool
}

// TaskServiceOption configures optional task service behavior.
type TaskServiceOption func(*taskService)

// WithDeleteRollback makes admin deletion reverse the deleted task's
// contribution to its template's worked-hours aggregate. Off by default:
// deleted hours keep counting historically.
func WithDeleteRollback() TaskServiceOption {
	return func(s *taskService) { s.deleteRollback = true }
}

func NewTaskService(
	tasks repository.TaskRepo,
	users repository.UserRepo,
	uow db.UnitOfWork,
	opts ...TaskServiceOption,
) TaskService {
	s := &taskService{
		tasks:    tasks,
		users:    users,
		uow:      uow,
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithTaskObserver attaches a use-case observer.
func WithTaskObserver(obs UseCaseObserver) TaskServiceOption {
	return func(s *taskService) {
		if obs != nil {
			s.observer = obs
		}
	}
}

func (s *taskService) CreateOwn(ctx context.Context, actor domain.Actor, workDate time.Time, description string, hours *float64) (*domain.TaskRecord, error) {
	return s.create(ctx, actor.UserID, workDate, description, hours)
}

func (s *taskService) AdminCreate(ctx context.Context, actor domain.Actor, userID string, workDate time.Time, description string, hours *float64) (*domain.TaskRecord, error) {
	if !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("creating tasks for others requires admin: %w", domain.ErrForbidden)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("target user: %w", err)
	}
	return s.create(ctx, userID, workDate, description, hours)
}

func (s *taskService) create(ctx context.Context, userID string, workDate time.Time, description string, hours *float64) (*domain.TaskRecord, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("description is required: %w", domain.ErrValidation)
	}
	if hours != nil && *hours < 0 {
		return nil, fmt.Errorf("hours cannot be negative: %w", domain.ErrValidation)
	}

	now := time.Now().UTC()
	task := &domain.TaskRecord{
		ID:          uuid.New().String(),
		UserID:      userID,
		WorkDate:    domain.DateOnly(workDate),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if hours != nil {
		h := domain.RoundHours(*hours)
		task.HoursSpent = &h
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) CreateFromTemplate(ctx context.Context, actor domain.Actor, templateID, userID string, workDate time.Time, hoursOverride *float64) (task *domain.TaskRecord, err error) {
	if !actor.Role.CanReview() {
		return nil, fmt.Errorf("assigning from template requires manager or admin: %w", domain.ErrForbidden)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("target user: %w", err)
	}

	startedAt := time.Now().UTC()
	fields := map[string]any{"template_id": templateID, "user_id": userID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "assign-from-template",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txTemplates := repository.NewSQLiteTemplateRepo(tx)

		tpl, err := txTemplates.GetByID(ctx, templateID)
		if err != nil {
			return err
		}
		if !tpl.Active {
			return fmt.Errorf("task template: %w", repository.ErrNotFound)
		}

		hours := tpl.DefaultHours
		if hoursOverride != nil {
			hours = *hoursOverride
		}
		if hours < 0 {
			return fmt.Errorf("hours cannot be negative: %w", domain.ErrValidation)
		}
		hours = domain.RoundHours(hours)

		now := time.Now().UTC()
		task = &domain.TaskRecord{
			ID:          uuid.New().String(),
			UserID:      userID,
			WorkDate:    domain.DateOnly(workDate),
			Description: tpl.Description,
			HoursSpent:  &hours,
			TemplateID:  &tpl.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := txTasks.Create(ctx, task); err != nil {
			return err
		}

		// The aggregate tracks the sum of hours on tasks referencing the
		// template, so the initial hours count too.
		if hours > 0 {
			return txTemplates.ApplyWorkedHoursDelta(ctx, tpl.ID, hours)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) SetHours(ctx context.Context, actor domain.Actor, taskID string, newHours float64) (task *domain.TaskRecord, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": taskID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "set-hours",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txTemplates := repository.NewSQLiteTemplateRepo(tx)

		var err error
		task, err = txTasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if !task.OwnedBy(actor.UserID) && !actor.Role.IsAdmin() {
			return fmt.Errorf("only the owner or an admin may set hours: %w", domain.ErrForbidden)
		}

		delta, err := task.SetHours(newHours)
		if err != nil {
			return err
		}
		if err := txTasks.Update(ctx, task); err != nil {
			return err
		}
		fields["delta"] = delta
		return s.propagateDelta(ctx, txTemplates, task, delta)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) AdminEdit(ctx context.Context, actor domain.Actor, taskID string, edit TaskEdit) (task *domain.TaskRecord, err error) {
	if !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("editing tasks requires admin: %w", domain.ErrForbidden)
	}

	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": taskID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "admin-edit-task",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txTemplates := repository.NewSQLiteTemplateRepo(tx)

		var err error
		task, err = txTasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		if edit.Description != nil {
			desc := strings.TrimSpace(*edit.Description)
			if desc == "" {
				return fmt.Errorf("description cannot be blank: %w", domain.ErrValidation)
			}
			task.Description = desc
		}
		if edit.WorkDate != nil {
			task.WorkDate = domain.DateOnly(*edit.WorkDate)
		}

		var delta float64
		if edit.Hours != nil {
			delta, err = task.SetHours(*edit.Hours)
			if err != nil {
				return err
			}
		}

		if err := txTasks.Update(ctx, task); err != nil {
			return err
		}
		return s.propagateDelta(ctx, txTemplates, task, delta)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) AdminDelete(ctx context.Context, actor domain.Actor, taskID string) (err error) {
	if !actor.Role.IsAdmin() {
		return fmt.Errorf("deleting tasks requires admin: %w", domain.ErrForbidden)
	}

	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": taskID, "rollback": s.deleteRollback}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "admin-delete-task",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txTemplates := repository.NewSQLiteTemplateRepo(tx)

		task, err := txTasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := txTasks.Delete(ctx, taskID); err != nil {
			return err
		}
		if s.deleteRollback {
			return s.propagateDelta(ctx, txTemplates, task, -task.Hours())
		}
		return nil
	})
}

// propagateDelta rolls a task-hours delta into the owning template. Tasks
// without a template and zero deltas are no-ops; a template deleted out of
// band is tolerated.
func (s *taskService) propagateDelta(ctx context.Context, templates repository.TemplateRepo, task *domain.TaskRecord, delta float64) error {
	if !task.TemplateDerived() || delta == 0 {
		return nil
	}
	err := templates.ApplyWorkedHoursDelta(ctx, *task.TemplateID, delta)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s *taskService) GetByID(ctx context.Context, actor domain.Actor, taskID string) (*domain.TaskRecord, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.OwnedBy(actor.UserID) && !actor.Role.CanReview() {
		return nil, fmt.Errorf("task belongs to another user: %w", domain.ErrForbidden)
	}
	return task, nil
}

func (s *taskService) ListMineByDate(ctx context.Context, actor domain.Actor, day time.Time) ([]*domain.TaskRecord, error) {
	return s.tasks.ListByUserAndDate(ctx, actor.UserID, domain.DateOnly(day))
}

func (s *taskService) ListMineRange(ctx context.Context, actor domain.Actor, from, to *time.Time) ([]*domain.TaskRecord, error) {
	return s.tasks.ListByUserRange(ctx, actor.UserID, from, to)
}

func (s *taskService) ListTeamByDate(ctx context.Context, actor domain.Actor, day time.Time) ([]repository.TeamTaskRow, error) {
	if !actor.Role.CanReview() {
		return nil, fmt.Errorf("team view requires manager or admin: %w", domain.ErrForbidden)
	}
	return s.tasks.ListTeamByDate(ctx, domain.DateOnly(day))
}

func (s *taskService) ListRange(ctx context.Context, actor domain.Actor, from, to time.Time, userID *string) ([]repository.TeamTaskRow, error) {
	if !actor.Role.CanReview() {
		return nil, fmt.Errorf("listing all tasks requires manager or admin: %w", domain.ErrForbidden)
	}
	if from.After(to) {
		return nil, fmt.Errorf("from must not be after to: %w", domain.ErrValidation)
	}
	return s.tasks.ListRange(ctx, domain.DateOnly(from), domain.DateOnly(to), userID)
}
