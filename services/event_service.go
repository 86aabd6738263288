package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/golfteamapp/golfteam-system/policy"
	"github.com/golfteamapp/golfteam-system/repositories"
)

type EventService interface {
	List(ctx context.Context, caller policy.Caller) ([]models.GolfEvent, error)
	GetByID(ctx context.Context, caller policy.Caller, id int) (*models.GolfEvent, error)
	Create(ctx context.Context, caller policy.Caller, input EventInput) (*models.GolfEvent, error)
	Update(ctx context.Context, caller policy.Caller, id int, input EventInput) (*models.GolfEvent, error)
	Delete(ctx context.Context, caller policy.Caller, id int) error
}

type EventInput struct {
	Title            string    `json:"title"`
	EventDate        time.Time `json:"event_date"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	Location         string    `json:"location"`
	CreatedByCoachID int       `json:"created_by_coach_id"`
}

type eventService struct {
	events repositories.EventRepository
	scores repositories.ScoreRepository
}

func NewEventService(events repositories.EventRepository, scores repositories.ScoreRepository) EventService {
	return &eventService{
		events: events,
		scores: scores,
	}
}

func (s *eventService) List(ctx context.Context, caller policy.Caller) ([]models.GolfEvent, error) {
	if err := policy.Require(caller, policy.EntityEvent, policy.OpList); err != nil {
		return nil, err
	}
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list golf events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetByID(ctx context.Context, caller policy.Caller, id int) (*models.GolfEvent, error) {
	if err := policy.Require(caller, policy.EntityEvent, policy.OpView); err != nil {
		return nil, err
	}
	return s.loadEvent(ctx, id)
}

func (s *eventService) Create(ctx context.Context, caller policy.Caller, input EventInput) (*models.GolfEvent, error) {
	if err := policy.Require(caller, policy.EntityEvent, policy.OpCreate); err != nil {
		return nil, err
	}

	event := &models.GolfEvent{
		Title:            strings.TrimSpace(input.Title),
		EventDate:        input.EventDate,
		StartTime:        input.StartTime,
		EndTime:          input.EndTime,
		Location:         strings.TrimSpace(input.Location),
		CreatedByCoachID: input.CreatedByCoachID,
	}

	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventCoachInvalid) {
			return nil, &ValidationError{Fields: map[string]string{"created_by_coach_id": "must reference an existing coach"}}
		}
		return nil, fmt.Errorf("failed to create golf event: %w", err)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, caller policy.Caller, id int, input EventInput) (*models.GolfEvent, error) {
	if err := policy.Require(caller, policy.EntityEvent, policy.OpUpdate); err != nil {
		return nil, err
	}

	existing, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	submitted := &models.GolfEvent{
		Title:            strings.TrimSpace(input.Title),
		EventDate:        input.EventDate,
		StartTime:        input.StartTime,
		EndTime:          input.EndTime,
		Location:         strings.TrimSpace(input.Location),
		CreatedByCoachID: input.CreatedByCoachID,
	}

	event, err := policy.EventUpdate(caller, existing, submitted)
	if err != nil {
		return nil, err
	}

	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if err := s.events.Update(ctx, event); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEventCoachInvalid):
			return nil, &ValidationError{Fields: map[string]string{"created_by_coach_id": "must reference an existing coach"}}
		case errors.Is(err, repositories.ErrEventVersionConflict):
			if _, getErr := s.events.GetByID(ctx, id); errors.Is(getErr, repositories.ErrEventNotFound) {
				return nil, ErrEventNotFound
			}
			return nil, fmt.Errorf("%w: golf event %d", ErrEditConflict, id)
		default:
			return nil, fmt.Errorf("failed to update golf event %d: %w", id, err)
		}
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, caller policy.Caller, id int) error {
	if err := policy.Require(caller, policy.EntityEvent, policy.OpDelete); err != nil {
		return err
	}

	existing, err := s.loadEvent(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.EventModify(caller, existing); err != nil {
		return err
	}

	// Cascade: scores recorded at the event go with it.
	if err := s.scores.DeleteByEventID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event scores: %w", err)
	}
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete golf event %d: %w", id, err)
	}
	return nil
}

func (s *eventService) loadEvent(ctx context.Context, id int) (*models.GolfEvent, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get golf event %d: %w", id, err)
	}
	return event, nil
}

func validateEvent(event *models.GolfEvent) error {
	v := newValidationError()
	validateRequired(v, "title", event.Title)
	validateRequired(v, "location", event.Location)
	if event.EventDate.IsZero() {
		v.add("event_date", "is required")
	}
	if event.CreatedByCoachID <= 0 {
		v.add("created_by_coach_id", "is required")
	}
	validateEventTimes(v, event.StartTime, event.EndTime)
	return v.orNil()
}
