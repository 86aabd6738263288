package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/lib/pq"
)

var (
	ErrScoreNotFound        = errors.New("event score not found")
	ErrScoreRefInvalid      = errors.New("event score references a missing athlete, event or partner")
	ErrScoreVersionConflict = errors.New("event score row changed since it was loaded")
)

type ScoreRepository interface {
	Create(ctx context.Context, score *models.EventScore) error
	GetByID(ctx context.Context, id int) (*models.EventScore, error)
	List(ctx context.Context) ([]models.EventScore, error)
	// ListByPartnerID returns scores whose athlete is assigned to the partner
	// (visibility filter), not scores the partner entered.
	ListByPartnerID(ctx context.Context, partnerID int) ([]models.EventScore, error)
	ListByAthleteID(ctx context.Context, athleteID int) ([]models.EventScore, error)
	Latest(ctx context.Context) (*models.EventScore, error)
	Update(ctx context.Context, score *models.EventScore) error
	Delete(ctx context.Context, id int) error
	DeleteByAthleteID(ctx context.Context, athleteID int) error
	DeleteByEventID(ctx context.Context, eventID int) error
	Count(ctx context.Context) (int, error)
	CountByEnteredPartnerID(ctx context.Context, partnerID int) (int, error)
}

type postgresScoreRepository struct {
	db *sql.DB
}

func NewPostgresScoreRepository(db *sql.DB) ScoreRepository {
	return &postgresScoreRepository{db: db}
}

func (r *postgresScoreRepository) Create(ctx context.Context, score *models.EventScore) error {
	query := `
		INSERT INTO event_scores (athlete_id, event_id, entered_by_partner_id, golf_score, holes_completed, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, version`

	err := r.db.QueryRowContext(ctx, query,
		score.AthleteID,
		score.EventID,
		score.EnteredByPartnerID,
		score.GolfScore,
		score.HolesCompleted,
		score.Timestamp,
	).Scan(&score.ID, &score.Version)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrScoreRefInvalid
		}
		return err
	}
	return nil
}

func (r *postgresScoreRepository) GetByID(ctx context.Context, id int) (*models.EventScore, error) {
	query := scoreSelect + ` WHERE s.id = $1`
	return scanScoreWithRefs(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresScoreRepository) List(ctx context.Context) ([]models.EventScore, error) {
	return r.queryScores(ctx, scoreSelect+` ORDER BY s.recorded_at DESC`)
}

func (r *postgresScoreRepository) ListByPartnerID(ctx context.Context, partnerID int) ([]models.EventScore, error) {
	query := scoreSelect + ` WHERE a.partner_id = $1 ORDER BY s.recorded_at DESC`
	return r.queryScores(ctx, query, partnerID)
}

func (r *postgresScoreRepository) ListByAthleteID(ctx context.Context, athleteID int) ([]models.EventScore, error) {
	query := scoreSelect + ` WHERE s.athlete_id = $1 ORDER BY s.recorded_at DESC`
	return r.queryScores(ctx, query, athleteID)
}

func (r *postgresScoreRepository) Latest(ctx context.Context) (*models.EventScore, error) {
	query := scoreSelect + ` ORDER BY s.recorded_at DESC LIMIT 1`
	return scanScoreWithRefs(r.db.QueryRowContext(ctx, query))
}

func (r *postgresScoreRepository) Update(ctx context.Context, score *models.EventScore) error {
	query := `
		UPDATE event_scores SET
			athlete_id = $1,
			event_id = $2,
			entered_by_partner_id = $3,
			golf_score = $4,
			holes_completed = $5,
			recorded_at = $6,
			version = version + 1
		WHERE id = $7 AND version = $8`

	result, err := r.db.ExecContext(ctx, query,
		score.AthleteID,
		score.EventID,
		score.EnteredByPartnerID,
		score.GolfScore,
		score.HolesCompleted,
		score.Timestamp,
		score.ID,
		score.Version,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrScoreRefInvalid
		}
		return err
	}

	if err := checkAffectedRows(result, ErrScoreVersionConflict); err != nil {
		return err
	}
	score.Version++
	return nil
}

func (r *postgresScoreRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM event_scores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrScoreNotFound)
}

func (r *postgresScoreRepository) DeleteByAthleteID(ctx context.Context, athleteID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM event_scores WHERE athlete_id = $1`, athleteID)
	return err
}

func (r *postgresScoreRepository) DeleteByEventID(ctx context.Context, eventID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM event_scores WHERE event_id = $1`, eventID)
	return err
}

func (r *postgresScoreRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_scores`).Scan(&count)
	return count, err
}

func (r *postgresScoreRepository) CountByEnteredPartnerID(ctx context.Context, partnerID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_scores WHERE entered_by_partner_id = $1`, partnerID).Scan(&count)
	return count, err
}

func (r *postgresScoreRepository) queryScores(ctx context.Context, query string, args ...interface{}) ([]models.EventScore, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make([]models.EventScore, 0)
	for rows.Next() {
		score, scanErr := scanScoreWithRefs(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		scores = append(scores, *score)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

const scoreSelect = `
	SELECT
		s.id, s.athlete_id, s.event_id, s.entered_by_partner_id,
		s.golf_score, s.holes_completed, s.recorded_at, s.version,
		a.id, a.name, a.partner_id,
		e.id, e.title, e.event_date,
		p.id, p.name
	FROM event_scores s
	JOIN athletes a ON s.athlete_id = a.id
	JOIN golf_events e ON s.event_id = e.id
	JOIN partners p ON s.entered_by_partner_id = p.id`

func scanScoreWithRefs(row rowScanner) (*models.EventScore, error) {
	var score models.EventScore
	var athlete models.Athlete
	var event models.GolfEvent
	var partner models.Partner

	err := row.Scan(
		&score.ID,
		&score.AthleteID,
		&score.EventID,
		&score.EnteredByPartnerID,
		&score.GolfScore,
		&score.HolesCompleted,
		&score.Timestamp,
		&score.Version,
		&athlete.ID,
		&athlete.Name,
		&athlete.PartnerID,
		&event.ID,
		&event.Title,
		&event.EventDate,
		&partner.ID,
		&partner.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to scan event score: %w", err)
	}

	score.Athlete = &athlete
	score.Event = &event
	score.EnteredByPartner = &partner
	return &score, nil
}
