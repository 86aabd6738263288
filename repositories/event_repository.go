package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/lib/pq"
)

var (
	ErrEventNotFound        = errors.New("golf event not found")
	ErrEventCoachInvalid    = errors.New("golf event references a missing coach")
	ErrEventVersionConflict = errors.New("golf event row changed since it was loaded")
)

type EventRepository interface {
	Create(ctx context.Context, event *models.GolfEvent) error
	GetByID(ctx context.Context, id int) (*models.GolfEvent, error)
	List(ctx context.Context) ([]models.GolfEvent, error)
	ListRecent(ctx context.Context, limit int) ([]models.GolfEvent, error)
	// NextUpcoming returns the nearest event strictly after the given instant,
	// by date ascending, or ErrEventNotFound when there is none.
	NextUpcoming(ctx context.Context, after time.Time) (*models.GolfEvent, error)
	Update(ctx context.Context, event *models.GolfEvent) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	CountByCoachID(ctx context.Context, coachID int) (int, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) Create(ctx context.Context, event *models.GolfEvent) error {
	query := `
		INSERT INTO golf_events (title, event_date, start_time, end_time, location, created_by_coach_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, version`

	err := r.db.QueryRowContext(ctx, query,
		event.Title,
		event.EventDate,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.CreatedByCoachID,
	).Scan(&event.ID, &event.Version)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "golf_events_created_by_coach_id_fkey" {
				return ErrEventCoachInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.GolfEvent, error) {
	query := eventSelect + ` WHERE e.id = $1`
	return scanEventWithCoach(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresEventRepository) List(ctx context.Context) ([]models.GolfEvent, error) {
	return r.queryEvents(ctx, eventSelect+` ORDER BY e.event_date ASC, e.start_time ASC`)
}

func (r *postgresEventRepository) ListRecent(ctx context.Context, limit int) ([]models.GolfEvent, error) {
	return r.queryEvents(ctx, eventSelect+` ORDER BY e.event_date DESC LIMIT $1`, limit)
}

func (r *postgresEventRepository) NextUpcoming(ctx context.Context, after time.Time) (*models.GolfEvent, error) {
	query := eventSelect + ` WHERE e.event_date > $1 ORDER BY e.event_date ASC LIMIT 1`
	return scanEventWithCoach(r.db.QueryRowContext(ctx, query, after))
}

func (r *postgresEventRepository) Update(ctx context.Context, event *models.GolfEvent) error {
	query := `
		UPDATE golf_events SET
			title = $1,
			event_date = $2,
			start_time = $3,
			end_time = $4,
			location = $5,
			created_by_coach_id = $6,
			version = version + 1
		WHERE id = $7 AND version = $8`

	result, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.EventDate,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.CreatedByCoachID,
		event.ID,
		event.Version,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "golf_events_created_by_coach_id_fkey" {
				return ErrEventCoachInvalid
			}
		}
		return err
	}

	if err := checkAffectedRows(result, ErrEventVersionConflict); err != nil {
		return err
	}
	event.Version++
	return nil
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM golf_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM golf_events`).Scan(&count)
	return count, err
}

func (r *postgresEventRepository) CountByCoachID(ctx context.Context, coachID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM golf_events WHERE created_by_coach_id = $1`, coachID).Scan(&count)
	return count, err
}

func (r *postgresEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.GolfEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.GolfEvent, 0)
	for rows.Next() {
		event, scanErr := scanEventWithCoach(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		events = append(events, *event)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

const eventSelect = `
	SELECT
		e.id, e.title, e.event_date, e.start_time, e.end_time, e.location,
		e.created_by_coach_id, e.version,
		c.id, c.name, c.email, c.phone, c.user_id, c.version
	FROM golf_events e
	JOIN coaches c ON e.created_by_coach_id = c.id`

func scanEventWithCoach(row rowScanner) (*models.GolfEvent, error) {
	var event models.GolfEvent
	var coach models.Coach

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.EventDate,
		&event.StartTime,
		&event.EndTime,
		&event.Location,
		&event.CreatedByCoachID,
		&event.Version,
		&coach.ID,
		&coach.Name,
		&coach.Email,
		&coach.Phone,
		&coach.UserID,
		&coach.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan golf event with coach: %w", err)
	}

	event.CreatedByCoach = &coach
	return &event, nil
}
