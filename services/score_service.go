package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/golfteamapp/golfteam-system/policy"
	"github.com/golfteamapp/golfteam-system/repositories"
)

// ScoreNotifier receives score changes for the live event feed.
type ScoreNotifier interface {
	ScoreCreated(score *models.EventScore)
	ScoreUpdated(score *models.EventScore)
	ScoreDeleted(eventID, scoreID int)
}

type ScoreService interface {
	// List returns the caller-visible subset: everything for admin/coach, only
	// scores of the partner's own athletes for a partner.
	List(ctx context.Context, caller policy.Caller) ([]models.EventScore, error)
	GetByID(ctx context.Context, caller policy.Caller, id int) (*models.EventScore, error)
	Create(ctx context.Context, caller policy.Caller, input ScoreInput) (*models.EventScore, error)
	Update(ctx context.Context, caller policy.Caller, id int, input ScoreInput) (*models.EventScore, error)
	Delete(ctx context.Context, caller policy.Caller, id int) error
}

type ScoreInput struct {
	AthleteID          int `json:"athlete_id"`
	EventID            int `json:"event_id"`
	EnteredByPartnerID int `json:"entered_by_partner_id"`
	GolfScore          int `json:"golf_score"`
	HolesCompleted     int `json:"holes_completed"`
}

type scoreService struct {
	scores   repositories.ScoreRepository
	athletes repositories.AthleteRepository
	notifier ScoreNotifier
	now      func() time.Time
}

func NewScoreService(
	scores repositories.ScoreRepository,
	athletes repositories.AthleteRepository,
	notifier ScoreNotifier,
) ScoreService {
	return &scoreService{
		scores:   scores,
		athletes: athletes,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *scoreService) List(ctx context.Context, caller policy.Caller) ([]models.EventScore, error) {
	scope, err := policy.ScoreListScope(caller)
	if err != nil {
		return nil, err
	}

	var scores []models.EventScore
	if scope.All {
		scores, err = s.scores.List(ctx)
	} else {
		scores, err = s.scores.ListByPartnerID(ctx, scope.PartnerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list event scores: %w", err)
	}
	return scores, nil
}

func (s *scoreService) GetByID(ctx context.Context, caller policy.Caller, id int) (*models.EventScore, error) {
	if err := policy.Require(caller, policy.EntityScore, policy.OpView); err != nil {
		return nil, err
	}

	score, err := s.loadScore(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.ScoreView(caller, score.Athlete); err != nil {
		return nil, err
	}
	return score, nil
}

func (s *scoreService) Create(ctx context.Context, caller policy.Caller, input ScoreInput) (*models.EventScore, error) {
	if err := policy.Require(caller, policy.EntityScore, policy.OpCreate); err != nil {
		return nil, err
	}

	athlete, err := s.athletes.GetByID(ctx, input.AthleteID)
	if err != nil {
		if errors.Is(err, repositories.ErrAthleteNotFound) {
			return nil, &ValidationError{Fields: map[string]string{"athlete_id": "must reference an existing athlete"}}
		}
		return nil, fmt.Errorf("failed to get athlete %d: %w", input.AthleteID, err)
	}

	submitted := &models.EventScore{
		AthleteID:          input.AthleteID,
		EventID:            input.EventID,
		EnteredByPartnerID: input.EnteredByPartnerID,
		GolfScore:          input.GolfScore,
		HolesCompleted:     input.HolesCompleted,
	}

	effective, err := policy.ScoreCreate(caller, athlete, submitted)
	if err != nil {
		return nil, err
	}

	if err := validateScoreInput(effective); err != nil {
		return nil, err
	}

	// The timestamp always comes from the server clock, never from input.
	effective.Timestamp = s.now()

	if err := s.scores.Create(ctx, effective); err != nil {
		if errors.Is(err, repositories.ErrScoreRefInvalid) {
			return nil, &ValidationError{Fields: map[string]string{"event_id": "score references a missing athlete, event or partner"}}
		}
		return nil, fmt.Errorf("failed to create event score: %w", err)
	}

	if s.notifier != nil {
		s.notifier.ScoreCreated(effective)
	}
	return effective, nil
}

func (s *scoreService) Update(ctx context.Context, caller policy.Caller, id int, input ScoreInput) (*models.EventScore, error) {
	if err := policy.Require(caller, policy.EntityScore, policy.OpUpdate); err != nil {
		return nil, err
	}

	existing, err := s.loadScore(ctx, id)
	if err != nil {
		return nil, err
	}

	submitted := &models.EventScore{
		AthleteID:          input.AthleteID,
		EventID:            input.EventID,
		EnteredByPartnerID: input.EnteredByPartnerID,
		GolfScore:          input.GolfScore,
		HolesCompleted:     input.HolesCompleted,
	}

	effective, err := policy.ScoreUpdate(caller, existing, submitted)
	if err != nil {
		return nil, err
	}

	if err := validateScoreInput(effective); err != nil {
		return nil, err
	}

	if err := s.scores.Update(ctx, effective); err != nil {
		switch {
		case errors.Is(err, repositories.ErrScoreRefInvalid):
			return nil, &ValidationError{Fields: map[string]string{"event_id": "score references a missing athlete, event or partner"}}
		case errors.Is(err, repositories.ErrScoreVersionConflict):
			if _, getErr := s.scores.GetByID(ctx, id); errors.Is(getErr, repositories.ErrScoreNotFound) {
				return nil, ErrScoreNotFound
			}
			return nil, fmt.Errorf("%w: event score %d", ErrEditConflict, id)
		default:
			return nil, fmt.Errorf("failed to update event score %d: %w", id, err)
		}
	}

	if s.notifier != nil {
		s.notifier.ScoreUpdated(effective)
	}
	return effective, nil
}

func (s *scoreService) Delete(ctx context.Context, caller policy.Caller, id int) error {
	if err := policy.Require(caller, policy.EntityScore, policy.OpDelete); err != nil {
		return err
	}

	existing, err := s.loadScore(ctx, id)
	if err != nil {
		return err
	}

	if err := s.scores.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrScoreNotFound) {
			return ErrScoreNotFound
		}
		return fmt.Errorf("failed to delete event score %d: %w", id, err)
	}

	if s.notifier != nil {
		s.notifier.ScoreDeleted(existing.EventID, id)
	}
	return nil
}

func (s *scoreService) loadScore(ctx context.Context, id int) (*models.EventScore, error) {
	score, err := s.scores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrScoreNotFound) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to get event score %d: %w", id, err)
	}
	return score, nil
}

func validateScoreInput(score *models.EventScore) error {
	v := newValidationError()
	if score.EventID <= 0 {
		v.add("event_id", "is required")
	}
	if score.EnteredByPartnerID <= 0 {
		v.add("entered_by_partner_id", "is required")
	}
	validateHolesCompleted(v, score.HolesCompleted)
	return v.orNil()
}
