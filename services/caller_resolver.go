package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/golfteamapp/golfteam-system/policy"
	"github.com/golfteamapp/golfteam-system/repositories"
)

// CallerResolver builds the policy.Caller for a request: the authenticated
// identity plus whichever Coach/Partner/Athlete rows link to it. A missing
// profile is not an error here; the policy decides per operation whether the
// absence is FORBIDDEN, PROFILE_MISSING or irrelevant.
type CallerResolver struct {
	coaches  repositories.CoachRepository
	partners repositories.PartnerRepository
	athletes repositories.AthleteRepository
}

func NewCallerResolver(
	coaches repositories.CoachRepository,
	partners repositories.PartnerRepository,
	athletes repositories.AthleteRepository,
) *CallerResolver {
	return &CallerResolver{
		coaches:  coaches,
		partners: partners,
		athletes: athletes,
	}
}

func (r *CallerResolver) Resolve(ctx context.Context, userID int, roles []models.UserRole) (policy.Caller, error) {
	caller := policy.Caller{UserID: userID, Roles: roles}

	if caller.HasRole(models.RoleCoach) {
		coach, err := r.coaches.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, repositories.ErrCoachNotFound) {
			return policy.Caller{}, fmt.Errorf("failed to resolve coach profile: %w", err)
		}
		caller.Coach = coach
	}

	if caller.HasRole(models.RolePartner) {
		partner, err := r.partners.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, repositories.ErrPartnerNotFound) {
			return policy.Caller{}, fmt.Errorf("failed to resolve partner profile: %w", err)
		}
		caller.Partner = partner
	}

	if caller.HasRole(models.RoleAthlete) {
		athlete, err := r.athletes.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, repositories.ErrAthleteNotFound) {
			return policy.Caller{}, fmt.Errorf("failed to resolve athlete profile: %w", err)
		}
		caller.Athlete = athlete
	}

	return caller, nil
}
