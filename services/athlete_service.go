package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/golfteamapp/golfteam-system/policy"
	"github.com/golfteamapp/golfteam-system/repositories"
	"github.com/golfteamapp/golfteam-system/storage"
)

type AthleteService interface {
	List(ctx context.Context, caller policy.Caller) ([]models.Athlete, error)
	GetByID(ctx context.Context, caller policy.Caller, id int) (*models.Athlete, error)
	Create(ctx context.Context, caller policy.Caller, input CreateAthleteInput) (*models.Athlete, error)
	Update(ctx context.Context, caller policy.Caller, id int, input UpdateAthleteInput) (*models.Athlete, error)
	Delete(ctx context.Context, caller policy.Caller, id int) error
	UploadPicture(ctx context.Context, caller policy.Caller, id int, file io.Reader, contentType string) (*models.Athlete, error)
}

type CreateAthleteInput struct {
	Name                string `json:"name"`
	SwingRating         int    `json:"swing_rating"`
	PowerRating         int    `json:"power_rating"`
	UnderstandingRating int    `json:"understanding_rating"`
	PartnerID           int    `json:"partner_id"`
}

type UpdateAthleteInput struct {
	Name                string `json:"name"`
	SwingRating         int    `json:"swing_rating"`
	PowerRating         int    `json:"power_rating"`
	UnderstandingRating int    `json:"understanding_rating"`
	PartnerID           int    `json:"partner_id"`
}

type athleteService struct {
	athletes repositories.AthleteRepository
	scores   repositories.ScoreRepository
	uploader storage.FileUploader
}

func NewAthleteService(
	athletes repositories.AthleteRepository,
	scores repositories.ScoreRepository,
	uploader storage.FileUploader,
) AthleteService {
	return &athleteService{
		athletes: athletes,
		scores:   scores,
		uploader: uploader,
	}
}

func (s *athleteService) List(ctx context.Context, caller policy.Caller) ([]models.Athlete, error) {
	if err := policy.Require(caller, policy.EntityAthlete, policy.OpList); err != nil {
		return nil, err
	}
	// Deliberately unfiltered: any partner may see every athlete.
	athletes, err := s.athletes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	s.populatePictureURLs(athletes)
	return athletes, nil
}

func (s *athleteService) GetByID(ctx context.Context, caller policy.Caller, id int) (*models.Athlete, error) {
	if err := policy.Require(caller, policy.EntityAthlete, policy.OpView); err != nil {
		return nil, err
	}

	athlete, err := s.loadAthlete(ctx, id)
	if err != nil {
		return nil, err
	}

	scores, err := s.scores.ListByAthleteID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load athlete scores: %w", err)
	}
	athlete.Scores = scores

	s.populatePictureURL(athlete)
	return athlete, nil
}

func (s *athleteService) Create(ctx context.Context, caller policy.Caller, input CreateAthleteInput) (*models.Athlete, error) {
	if err := policy.Require(caller, policy.EntityAthlete, policy.OpCreate); err != nil {
		return nil, err
	}

	if err := validateAthleteInput(input.Name, input.SwingRating, input.PowerRating, input.UnderstandingRating, input.PartnerID); err != nil {
		return nil, err
	}

	athlete := &models.Athlete{
		Name:                strings.TrimSpace(input.Name),
		SwingRating:         input.SwingRating,
		PowerRating:         input.PowerRating,
		UnderstandingRating: input.UnderstandingRating,
		PartnerID:           input.PartnerID,
	}

	if err := s.athletes.Create(ctx, athlete); err != nil {
		if errors.Is(err, repositories.ErrAthletePartnerInvalid) {
			return nil, &ValidationError{Fields: map[string]string{"partner_id": "must reference an existing partner"}}
		}
		return nil, fmt.Errorf("failed to create athlete: %w", err)
	}
	return athlete, nil
}

func (s *athleteService) Update(ctx context.Context, caller policy.Caller, id int, input UpdateAthleteInput) (*models.Athlete, error) {
	if err := policy.Require(caller, policy.EntityAthlete, policy.OpUpdate); err != nil {
		return nil, err
	}

	existing, err := s.loadAthlete(ctx, id)
	if err != nil {
		return nil, err
	}

	submitted := &models.Athlete{
		Name:                strings.TrimSpace(input.Name),
		PictureKey:          existing.PictureKey, // pictures change through UploadPicture only
		SwingRating:         input.SwingRating,
		PowerRating:         input.PowerRating,
		UnderstandingRating: input.UnderstandingRating,
		PartnerID:           input.PartnerID,
	}

	effective, err := policy.AthleteUpdate(caller, existing, submitted)
	if err != nil {
		return nil, err
	}

	if err := validateAthleteInput(effective.Name, effective.SwingRating, effective.PowerRating, effective.UnderstandingRating, effective.PartnerID); err != nil {
		return nil, err
	}

	if err := s.saveAthlete(ctx, effective); err != nil {
		return nil, err
	}
	s.populatePictureURL(effective)
	return effective, nil
}

func (s *athleteService) Delete(ctx context.Context, caller policy.Caller, id int) error {
	if err := policy.Require(caller, policy.EntityAthlete, policy.OpDelete); err != nil {
		return err
	}

	if _, err := s.loadAthlete(ctx, id); err != nil {
		return err
	}

	// Cascade: the athlete's scores go with it.
	if err := s.scores.DeleteByAthleteID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete athlete scores: %w", err)
	}
	if err := s.athletes.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrAthleteNotFound) {
			return ErrAthleteNotFound
		}
		return fmt.Errorf("failed to delete athlete %d: %w", id, err)
	}
	return nil
}

func (s *athleteService) UploadPicture(ctx context.Context, caller policy.Caller, id int, file io.Reader, contentType string) (*models.Athlete, error) {
	if err := policy.Require(caller, policy.EntityAthlete, policy.OpUpdate); err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.New("picture storage is not configured")
	}

	existing, err := s.loadAthlete(ctx, id)
	if err != nil {
		return nil, err
	}

	// Picture changes follow the same ownership rule as edits: staff may touch
	// any athlete, a partner only their own.
	effective, err := policy.AthleteUpdate(caller, existing, existing)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("athletes/%d/picture_%d", id, time.Now().UnixNano())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload athlete picture: %w", err)
	}

	oldKey := effective.PictureKey
	effective.PictureKey = &result.Key
	if err := s.saveAthlete(ctx, effective); err != nil {
		return nil, err
	}

	if oldKey != nil && *oldKey != "" {
		// Best effort; an orphaned object is not worth failing the request.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	s.populatePictureURL(effective)
	return effective, nil
}

func (s *athleteService) loadAthlete(ctx context.Context, id int) (*models.Athlete, error) {
	athlete, err := s.athletes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAthleteNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, fmt.Errorf("failed to get athlete %d: %w", id, err)
	}
	return athlete, nil
}

// saveAthlete persists an update, re-checking a version conflict against the
// vanished-row case: gone means NOT_FOUND, otherwise the conflict is fatal.
func (s *athleteService) saveAthlete(ctx context.Context, athlete *models.Athlete) error {
	err := s.athletes.Update(ctx, athlete)
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrAthletePartnerInvalid) {
		return &ValidationError{Fields: map[string]string{"partner_id": "must reference an existing partner"}}
	}
	if errors.Is(err, repositories.ErrAthleteVersionConflict) {
		if _, getErr := s.athletes.GetByID(ctx, athlete.ID); errors.Is(getErr, repositories.ErrAthleteNotFound) {
			return ErrAthleteNotFound
		}
		return fmt.Errorf("%w: athlete %d", ErrEditConflict, athlete.ID)
	}
	return fmt.Errorf("failed to update athlete %d: %w", athlete.ID, err)
}

func validateAthleteInput(name string, swing, power, understanding, partnerID int) error {
	v := newValidationError()
	validateRequired(v, "name", name)
	validateRating(v, "swing_rating", swing)
	validateRating(v, "power_rating", power)
	validateRating(v, "understanding_rating", understanding)
	if partnerID <= 0 {
		v.add("partner_id", "is required")
	}
	return v.orNil()
}

func (s *athleteService) populatePictureURL(athlete *models.Athlete) {
	if athlete.PictureKey != nil && *athlete.PictureKey != "" && s.uploader != nil {
		url := s.uploader.GetPublicURL(*athlete.PictureKey)
		athlete.PictureURL = &url
	}
}

func (s *athleteService) populatePictureURLs(athletes []models.Athlete) {
	for i := range athletes {
		s.populatePictureURL(&athletes[i])
	}
}
