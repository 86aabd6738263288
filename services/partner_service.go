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

type PartnerService interface {
	List(ctx context.Context, caller policy.Caller) ([]models.Partner, error)
	GetByID(ctx context.Context, caller policy.Caller, id int) (*models.Partner, error)
	// Create mirrors CoachService.Create: self-registration binds the caller's
	// identity and grants the partner role; an admin or coach creates an
	// unbound profile for someone else.
	Create(ctx context.Context, caller policy.Caller, input PartnerInput) (partner *models.Partner, alreadyExisted bool, err error)
	Update(ctx context.Context, caller policy.Caller, id int, input UpdatePartnerInput) (*models.Partner, error)
	Delete(ctx context.Context, caller policy.Caller, id int) error
}

type PartnerInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type UpdatePartnerInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
	// UserID is honored only for admin callers.
	UserID *int `json:"user_id"`
}

type partnerService struct {
	partners repositories.PartnerRepository
	athletes repositories.AthleteRepository
	scores   repositories.ScoreRepository
	users    repositories.UserRepository
}

func NewPartnerService(
	partners repositories.PartnerRepository,
	athletes repositories.AthleteRepository,
	scores repositories.ScoreRepository,
	users repositories.UserRepository,
) PartnerService {
	return &partnerService{
		partners: partners,
		athletes: athletes,
		scores:   scores,
		users:    users,
	}
}

func (s *partnerService) List(ctx context.Context, caller policy.Caller) ([]models.Partner, error) {
	if err := policy.Require(caller, policy.EntityPartner, policy.OpList); err != nil {
		return nil, err
	}
	partners, err := s.partners.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return partners, nil
}

func (s *partnerService) GetByID(ctx context.Context, caller policy.Caller, id int) (*models.Partner, error) {
	if err := policy.Require(caller, policy.EntityPartner, policy.OpView); err != nil {
		return nil, err
	}
	return s.loadPartner(ctx, id)
}

func (s *partnerService) Create(ctx context.Context, caller policy.Caller, input PartnerInput) (*models.Partner, bool, error) {
	if err := validateProfileInput(input.Name, input.Email); err != nil {
		return nil, false, err
	}

	partner := &models.Partner{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.TrimSpace(input.Email),
		Phone: input.Phone,
	}

	// Admin or coach creates a profile for someone else: no binding, no role grant.
	if caller.HasRole(models.RoleAdmin) || caller.HasRole(models.RoleCoach) {
		if err := s.partners.Create(ctx, partner); err != nil {
			return nil, false, fmt.Errorf("failed to create partner: %w", err)
		}
		return partner, false, nil
	}

	existing, err := s.partners.GetByUserID(ctx, caller.UserID)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, repositories.ErrPartnerNotFound) {
		return nil, false, fmt.Errorf("failed to check for existing partner profile: %w", err)
	}

	userID := caller.UserID
	partner.UserID = &userID
	if err := s.partners.Create(ctx, partner); err != nil {
		return nil, false, fmt.Errorf("failed to create partner: %w", err)
	}

	if err := s.users.AssignRole(ctx, caller.UserID, models.RolePartner); err != nil {
		return nil, false, fmt.Errorf("profile created but partner role assignment failed: %w", err)
	}
	return partner, false, nil
}

func (s *partnerService) Update(ctx context.Context, caller policy.Caller, id int, input UpdatePartnerInput) (*models.Partner, error) {
	if err := policy.Require(caller, policy.EntityPartner, policy.OpUpdate); err != nil {
		return nil, err
	}

	existing, err := s.loadPartner(ctx, id)
	if err != nil {
		return nil, err
	}

	submitted := &models.Partner{
		Name:   strings.TrimSpace(input.Name),
		Email:  strings.TrimSpace(input.Email),
		Phone:  input.Phone,
		UserID: input.UserID,
	}

	effective, err := policy.PartnerUpdate(caller, existing, submitted)
	if err != nil {
		return nil, err
	}

	if err := validateProfileInput(effective.Name, effective.Email); err != nil {
		return nil, err
	}

	if err := s.partners.Update(ctx, effective); err != nil {
		if errors.Is(err, repositories.ErrPartnerVersionConflict) {
			if _, getErr := s.partners.GetByID(ctx, id); errors.Is(getErr, repositories.ErrPartnerNotFound) {
				return nil, ErrPartnerNotFound
			}
			return nil, fmt.Errorf("%w: partner %d", ErrEditConflict, id)
		}
		return nil, fmt.Errorf("failed to update partner %d: %w", id, err)
	}
	return effective, nil
}

func (s *partnerService) Delete(ctx context.Context, caller policy.Caller, id int) error {
	if err := policy.Require(caller, policy.EntityPartner, policy.OpDelete); err != nil {
		return err
	}

	if _, err := s.loadPartner(ctx, id); err != nil {
		return err
	}

	// Restrict: a partner with assigned athletes or entered scores stays.
	athleteCount, err := s.athletes.CountByPartnerID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count partner athletes: %w", err)
	}
	scoreCount, err := s.scores.CountByEnteredPartnerID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count partner scores: %w", err)
	}
	if athleteCount > 0 || scoreCount > 0 {
		return ErrPartnerInUse
	}

	if err := s.partners.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPartnerNotFound):
			return ErrPartnerNotFound
		case errors.Is(err, repositories.ErrPartnerInUse):
			return ErrPartnerInUse
		default:
			return fmt.Errorf("failed to delete partner %d: %w", id, err)
		}
	}
	return nil
}

func (s *partnerService) loadPartner(ctx context.Context, id int) (*models.Partner, error) {
	partner, err := s.partners.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPartnerNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to get partner %d: %w", id, err)
	}
	return partner, nil
}
