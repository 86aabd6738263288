package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/golfteamapp/golfteam-system/policy"
	"github.com/golfteamapp/golfteam-system/repositories"
	"golang.org/x/sync/errgroup"
)

const recentEventsLimit = 5

type DashboardService interface {
	Admin(ctx context.Context, caller policy.Caller) (*models.AdminDashboard, error)
	Coach(ctx context.Context, caller policy.Caller) (*models.CoachDashboard, error)
	Partner(ctx context.Context, caller policy.Caller) (*models.PartnerDashboard, error)
	Athlete(ctx context.Context, caller policy.Caller) (*models.AthleteDashboard, error)
}

type dashboardService struct {
	users    repositories.UserRepository
	athletes repositories.AthleteRepository
	partners repositories.PartnerRepository
	coaches  repositories.CoachRepository
	events   repositories.EventRepository
	scores   repositories.ScoreRepository
	now      func() time.Time
}

func NewDashboardService(
	users repositories.UserRepository,
	athletes repositories.AthleteRepository,
	partners repositories.PartnerRepository,
	coaches repositories.CoachRepository,
	events repositories.EventRepository,
	scores repositories.ScoreRepository,
) DashboardService {
	return &dashboardService{
		users:    users,
		athletes: athletes,
		partners: partners,
		coaches:  coaches,
		events:   events,
		scores:   scores,
		now:      time.Now,
	}
}

func (s *dashboardService) Admin(ctx context.Context, caller policy.Caller) (*models.AdminDashboard, error) {
	if !caller.HasRole(models.RoleAdmin) {
		return nil, policy.ErrForbidden
	}

	var dash models.AdminDashboard
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { dash.AthletesTotal, err = s.athletes.Count(gCtx); return })
	g.Go(func() (err error) { dash.EventsTotal, err = s.events.Count(gCtx); return })
	g.Go(func() (err error) { dash.ScoresTotal, err = s.scores.Count(gCtx); return })
	g.Go(func() (err error) { dash.PartnersTotal, err = s.partners.Count(gCtx); return })
	g.Go(func() (err error) { dash.CoachesTotal, err = s.coaches.Count(gCtx); return })
	g.Go(func() (err error) { dash.RegisteredUsers, err = s.users.Count(gCtx); return })
	g.Go(func() (err error) { dash.UsersWithoutProfiles, err = s.users.CountWithoutProfiles(gCtx); return })
	g.Go(func() (err error) { dash.RecentEvents, err = s.events.ListRecent(gCtx, recentEventsLimit); return })

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build admin dashboard: %w", err)
	}
	return &dash, nil
}

func (s *dashboardService) Coach(ctx context.Context, caller policy.Caller) (*models.CoachDashboard, error) {
	if !caller.HasRole(models.RoleCoach) {
		return nil, policy.ErrForbidden
	}
	if caller.Coach == nil {
		return nil, policy.ErrProfileMissing
	}

	dash := models.CoachDashboard{CoachName: caller.Coach.Name}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { dash.AthletesTotal, err = s.athletes.Count(gCtx); return })
	g.Go(func() (err error) { dash.EventsTotal, err = s.events.Count(gCtx); return })
	g.Go(func() (err error) { dash.ScoresTotal, err = s.scores.Count(gCtx); return })
	g.Go(func() (err error) { dash.PartnersTotal, err = s.partners.Count(gCtx); return })
	// Every athlete has a required partner, so the "with partner" figure
	// equals the total; kept as its own field to match the dashboard contract.
	g.Go(func() (err error) { dash.AthletesWithPartner, err = s.athletes.Count(gCtx); return })
	g.Go(func() (err error) { dash.RecentEvents, err = s.events.ListRecent(gCtx, recentEventsLimit); return })

	g.Go(func() error {
		latest, err := s.scores.Latest(gCtx)
		if err != nil {
			if errors.Is(err, repositories.ErrScoreNotFound) {
				return nil
			}
			return err
		}
		dash.LatestScoreAt = &latest.Timestamp
		return nil
	})

	g.Go(func() error {
		next, err := s.events.NextUpcoming(gCtx, s.now())
		if err != nil {
			if errors.Is(err, repositories.ErrEventNotFound) {
				return nil
			}
			return err
		}
		dash.NextEvent = next
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build coach dashboard: %w", err)
	}
	return &dash, nil
}

func (s *dashboardService) Partner(ctx context.Context, caller policy.Caller) (*models.PartnerDashboard, error) {
	if !caller.HasRole(models.RolePartner) {
		return nil, policy.ErrForbidden
	}
	if caller.Partner == nil {
		return nil, policy.ErrProfileMissing
	}

	dash := &models.PartnerDashboard{PartnerName: caller.Partner.Name}

	athlete, err := s.athletes.FirstByPartnerID(ctx, caller.Partner.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrAthleteNotFound) {
			return dash, nil // no athlete assigned yet
		}
		return nil, fmt.Errorf("failed to load partner athlete: %w", err)
	}

	scores, err := s.scores.ListByAthleteID(ctx, athlete.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load athlete scores: %w", err)
	}
	athlete.Scores = scores
	dash.Athlete = athlete
	return dash, nil
}

func (s *dashboardService) Athlete(ctx context.Context, caller policy.Caller) (*models.AthleteDashboard, error) {
	if !caller.HasRole(models.RoleAthlete) {
		return nil, policy.ErrForbidden
	}

	athlete, err := s.athletes.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrAthleteNotFound) {
			return nil, policy.ErrProfileMissing
		}
		return nil, fmt.Errorf("failed to load athlete profile: %w", err)
	}

	scores, err := s.scores.ListByAthleteID(ctx, athlete.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load athlete scores: %w", err)
	}
	athlete.Scores = scores

	return &models.AthleteDashboard{Athlete: athlete}, nil
}
