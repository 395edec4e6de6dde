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

type leaveService struct {
	leaves   repository.LeaveRepo
	observer UseCaseObserver
}

func NewLeaveService(leaves repository.LeaveRepo, observers ...UseCaseObserver) LeaveService {
	return &leaveService{
		leaves:   leaves,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *leaveService) Submit(ctx context.Context, actor domain.Actor, start, end time.Time, reason string) (*domain.LeaveRequest, error) {
	if err := domain.ValidateLeaveDates(start, end); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("reason is required: %w", domain.ErrValidation)
	}

	request := &domain.LeaveRequest{
		ID:          uuid.New().String(),
		UserID:      actor.UserID,
		StartDate:   domain.DateOnly(start),
		EndDate:     domain.DateOnly(end),
		Reason:      reason,
		Status:      domain.LeavePending,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.leaves.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *leaveService) Approve(ctx context.Context, actor domain.Actor, id string) (*domain.LeaveRequest, error) {
	return s.review(ctx, actor, id, "approve-leave", func(lr *domain.LeaveRequest, now time.Time) error {
		return lr.Approve(actor.UserID, now)
	})
}

func (s *leaveService) Reject(ctx context.Context, actor domain.Actor, id string) (*domain.LeaveRequest, error) {
	return s.review(ctx, actor, id, "reject-leave", func(lr *domain.LeaveRequest, now time.Time) error {
		return lr.Reject(actor.UserID, now)
	})
}

func (s *leaveService) review(ctx context.Context, actor domain.Actor, id, useCase string, transition func(*domain.LeaveRequest, time.Time) error) (request *domain.LeaveRequest, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      useCase,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"request_id": id, "reviewer_id": actor.UserID},
		})
	}()

	if !actor.Role.CanReview() {
		return nil, fmt.Errorf("reviewing leave requires manager or admin: %w", domain.ErrForbidden)
	}

	request, err = s.leaves.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = transition(request, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err = s.leaves.Review(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *leaveService) Edit(ctx context.Context, actor domain.Actor, id string, start, end time.Time, reason string) (*domain.LeaveRequest, error) {
	if !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("editing leave requests requires admin: %w", domain.ErrForbidden)
	}
	if err := domain.ValidateLeaveDates(start, end); err != nil {
		return nil, err
	}

	request, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !request.Pending() {
		return nil, fmt.Errorf("only pending requests can be edited: %w", domain.ErrConflict)
	}

	request.StartDate = domain.DateOnly(start)
	request.EndDate = domain.DateOnly(end)
	if reason = strings.TrimSpace(reason); reason != "" {
		request.Reason = reason
	}
	if err := s.leaves.Update(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *leaveService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.Role.IsAdmin() {
		return fmt.Errorf("deleting leave requests requires admin: %w", domain.ErrForbidden)
	}
	request, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !request.Pending() {
		return fmt.Errorf("only pending requests can be deleted: %w", domain.ErrConflict)
	}
	return s.leaves.Delete(ctx, id)
}

func (s *leaveService) ListMine(ctx context.Context, actor domain.Actor) ([]repository.LeaveRow, error) {
	return s.leaves.ListByUser(ctx, actor.UserID)
}

func (s *leaveService) ListPending(ctx context.Context, actor domain.Actor) ([]repository.LeaveRow, error) {
	if !actor.Role.CanReview() {
		return nil, fmt.Errorf("the review queue requires manager or admin: %w", domain.ErrForbidden)
	}
	return s.leaves.ListPending(ctx)
}
