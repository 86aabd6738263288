package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/golfteamapp/golfteam-system/policy"
	"github.com/golfteamapp/golfteam-system/repositories"
)

type CoachService interface {
	List(ctx context.Context, caller policy.Caller) ([]models.Coach, error)
	GetByID(ctx context.Context, caller policy.Caller, id int) (*models.Coach, error)
	// Create either registers the caller's own coach profile (binding their
	// identity and granting the coach role) or, for an admin, creates an
	// unbound profile for someone else. When the caller already has a profile
	// the existing one is returned with alreadyExisted set; nothing is created.
	Create(ctx context.Context, caller policy.Caller, input CoachInput) (coach *models.Coach, alreadyExisted bool, err error)
	Update(ctx context.Context, caller policy.Caller, id int, input UpdateCoachInput) (*models.Coach, error)
	Delete(ctx context.Context, caller policy.Caller, id int) error
}

type CoachInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type UpdateCoachInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
	// UserID is honored only for admin callers; everyone else's submitted
	// value is discarded in favor of the stored link.
	UserID *int `json:"user_id"`
}

type coachService struct {
	coaches repositories.CoachRepository
	events  repositories.EventRepository
	users   repositories.UserRepository
}

func NewCoachService(
	coaches repositories.CoachRepository,
	events repositories.EventRepository,
	users repositories.UserRepository,
) CoachService {
	return &coachService{
		coaches: coaches,
		events:  events,
		users:   users,
	}
}

func (s *coachService) List(ctx context.Context, caller policy.Caller) ([]models.Coach, error) {
	if err := policy.Require(caller, policy.EntityCoach, policy.OpList); err != nil {
		return nil, err
	}
	coaches, err := s.coaches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list coaches: %w", err)
	}
	return coaches, nil
}

func (s *coachService) GetByID(ctx context.Context, caller policy.Caller, id int) (*models.Coach, error) {
	if err := policy.Require(caller, policy.EntityCoach, policy.OpView); err != nil {
		return nil, err
	}
	return s.loadCoach(ctx, id)
}

func (s *coachService) Create(ctx context.Context, caller policy.Caller, input CoachInput) (*models.Coach, bool, error) {
	if err := validateProfileInput(input.Name, input.Email); err != nil {
		return nil, false, err
	}

	coach := &models.Coach{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.TrimSpace(input.Email),
		Phone: input.Phone,
	}

	// Admin creates a profile for someone else: no identity binding, no role grant.
	if caller.HasRole(models.RoleAdmin) {
		if err := s.coaches.Create(ctx, coach); err != nil {
			return nil, false, fmt.Errorf("failed to create coach: %w", err)
		}
		return coach, false, nil
	}

	// Self-registration: one coach profile per identity.
	existing, err := s.coaches.GetByUserID(ctx, caller.UserID)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, repositories.ErrCoachNotFound) {
		return nil, false, fmt.Errorf("failed to check for existing coach profile: %w", err)
	}

	userID := caller.UserID
	coach.UserID = &userID
	if err := s.coaches.Create(ctx, coach); err != nil {
		return nil, false, fmt.Errorf("failed to create coach: %w", err)
	}

	if err := s.users.AssignRole(ctx, caller.UserID, models.RoleCoach); err != nil {
		return nil, false, fmt.Errorf("profile created but coach role assignment failed: %w", err)
	}
	return coach, false, nil
}

func (s *coachService) Update(ctx context.Context, caller policy.Caller, id int, input UpdateCoachInput) (*models.Coach, error) {
	if err := policy.Require(caller, policy.EntityCoach, policy.OpUpdate); err != nil {
		return nil, err
	}

	existing, err := s.loadCoach(ctx, id)
	if err != nil {
		return nil, err
	}

	submitted := &models.Coach{
		Name:   strings.TrimSpace(input.Name),
		Email:  strings.TrimSpace(input.Email),
		Phone:  input.Phone,
		UserID: input.UserID,
	}

	effective, err := policy.CoachUpdate(caller, existing, submitted)
	if err != nil {
		return nil, err
	}

	if err := validateProfileInput(effective.Name, effective.Email); err != nil {
		return nil, err
	}

	if err := s.coaches.Update(ctx, effective); err != nil {
		if errors.Is(err, repositories.ErrCoachVersionConflict) {
			if _, getErr := s.coaches.GetByID(ctx, id); errors.Is(getErr, repositories.ErrCoachNotFound) {
				return nil, ErrCoachNotFound
			}
			return nil, fmt.Errorf("%w: coach %d", ErrEditConflict, id)
		}
		return nil, fmt.Errorf("failed to update coach %d: %w", id, err)
	}
	return effective, nil
}

func (s *coachService) Delete(ctx context.Context, caller policy.Caller, id int) error {
	if err := policy.Require(caller, policy.EntityCoach, policy.OpDelete); err != nil {
		return err
	}

	if _, err := s.loadCoach(ctx, id); err != nil {
		return err
	}

	// Restrict: a coach with events stays.
	eventCount, err := s.events.CountByCoachID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count coach events: %w", err)
	}
	if eventCount > 0 {
		return ErrCoachInUse
	}

	if err := s.coaches.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCoachNotFound):
			return ErrCoachNotFound
		case errors.Is(err, repositories.ErrCoachInUse):
			return ErrCoachInUse
		default:
			return fmt.Errorf("failed to delete coach %d: %w", id, err)
		}
	}
	return nil
}

func (s *coachService) loadCoach(ctx context.Context, id int) (*models.Coach, error) {
	coach, err := s.coaches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCoachNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, fmt.Errorf("failed to get coach %d: %w", id, err)
	}
	return coach, nil
}

func validateProfileInput(name, email string) error {
	v := newValidationError()
	validateRequired(v, "name", name)
	validateRequired(v, "email", email)
	return v.orNil()
}
