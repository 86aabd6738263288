package services

import (
	"context"
	"fmt"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/golfteamapp/golfteam-system/policy"
	"github.com/golfteamapp/golfteam-system/repositories"
)

// AdminDataService backs the admin-only full data view: every athlete with
// their partner and scores, plus all events ordered by date.
type AdminDataService interface {
	Export(ctx context.Context, caller policy.Caller) (*models.AdminExport, error)
}

type adminDataService struct {
	athletes repositories.AthleteRepository
	events   repositories.EventRepository
	scores   repositories.ScoreRepository
}

func NewAdminDataService(
	athletes repositories.AthleteRepository,
	events repositories.EventRepository,
	scores repositories.ScoreRepository,
) AdminDataService {
	return &adminDataService{
		athletes: athletes,
		events:   events,
		scores:   scores,
	}
}

func (s *adminDataService) Export(ctx context.Context, caller policy.Caller) (*models.AdminExport, error) {
	if !caller.HasRole(models.RoleAdmin) {
		return nil, policy.ErrForbidden
	}

	athletes, err := s.athletes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	for i := range athletes {
		scores, err := s.scores.ListByAthleteID(ctx, athletes[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load scores for athlete %d: %w", athletes[i].ID, err)
		}
		athletes[i].Scores = scores
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list golf events: %w", err)
	}

	return &models.AdminExport{
		Athletes:  athletes,
		AllEvents: events,
	}, nil
}
