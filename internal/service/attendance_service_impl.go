package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nalvarenga/punchcard/internal/db"
	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/nalvarenga/punchcard/internal/repository"
)

type attendanceService struct {
	attendance repository.AttendanceRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
	now        func() time.Time
}

func NewAttendanceService(
	attendance repository.AttendanceRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) AttendanceService {
	return &attendanceService{
		attendance: attendance,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *attendanceService) ClockIn(ctx context.Context, actor domain.Actor) (interval *domain.AttendanceInterval, err error) {
	startedAt := s.now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "clock-in",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"user_id": actor.UserID},
		})
	}()

	// The open check and the insert run in one transaction so two racing
	// clock-ins cannot both pass the check.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAttendance := repository.NewSQLiteAttendanceRepo(tx)

		open, err := txAttendance.HasOpen(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if open {
			return fmt.Errorf("already clocked in: %w", domain.ErrConflict)
		}

		now := s.now()
		interval = &domain.AttendanceInterval{
			ID:        uuid.New().String(),
			UserID:    actor.UserID,
			WorkDate:  domain.DateOnly(now),
			ClockIn:   now,
			CreatedAt: now,
		}
		return txAttendance.Create(ctx, interval)
	})
	if err != nil {
		return nil, err
	}
	return interval, nil
}

func (s *attendanceService) ClockOut(ctx context.Context, actor domain.Actor, taskID *string) (result *ClockOutResult, err error) {
	startedAt := s.now()
	fields := map[string]any{"user_id": actor.UserID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "clock-out",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAttendance := repository.NewSQLiteAttendanceRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txTemplates := repository.NewSQLiteTemplateRepo(tx)

		interval, err := txAttendance.FindLatestOpen(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("no open interval: %w", repository.ErrNotFound)
			}
			return err
		}

		// Validate the task before touching the interval so a bad task id
		// leaves the interval open and unmodified.
		var task *domain.TaskRecord
		if taskID != nil {
			task, err = txTasks.GetByID(ctx, *taskID)
			if err != nil {
				return err
			}
			if !task.OwnedBy(actor.UserID) {
				return fmt.Errorf("task belongs to another user: %w", domain.ErrForbidden)
			}
			interval.TaskID = &task.ID
		}

		hours := interval.Close(s.now())
		if err := txAttendance.Update(ctx, interval); err != nil {
			return err
		}

		if task != nil && hours > 0 {
			task.AddHours(hours)
			if err := txTasks.Update(ctx, task); err != nil {
				return err
			}
			if task.TemplateDerived() {
				// A template deleted out of band is tolerated; the hours stay
				// on the task.
				err := txTemplates.ApplyWorkedHoursDelta(ctx, *task.TemplateID, hours)
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					return err
				}
			}
		}

		fields["hours"] = hours
		result = &ClockOutResult{Interval: interval, Hours: hours, Task: task}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *attendanceService) Status(ctx context.Context, actor domain.Actor) (*domain.AttendanceInterval, error) {
	return s.attendance.FindLatestOpen(ctx, actor.UserID)
}

func (s *attendanceService) ListMine(ctx context.Context, actor domain.Actor, from, to time.Time) ([]repository.AttendanceRow, error) {
	today := domain.DateOnly(s.now())
	return s.attendance.ListMine(ctx, actor.UserID, domain.DateOnly(from), domain.DateOnly(to), today)
}

func (s *attendanceService) ListTeam(ctx context.Context, actor domain.Actor, day time.Time) ([]repository.TeamAttendanceRow, error) {
	if !actor.Role.CanReview() {
		return nil, fmt.Errorf("team view requires manager or admin: %w", domain.ErrForbidden)
	}
	return s.attendance.ListTeam(ctx, domain.DateOnly(day))
}
