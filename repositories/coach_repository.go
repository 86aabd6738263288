package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/lib/pq"
)

var (
	ErrCoachNotFound        = errors.New("coach not found")
	ErrCoachInUse           = errors.New("coach is referenced by golf events")
	ErrCoachVersionConflict = errors.New("coach row changed since it was loaded")
)

type CoachRepository interface {
	Create(ctx context.Context, coach *models.Coach) error
	GetByID(ctx context.Context, id int) (*models.Coach, error)
	GetByUserID(ctx context.Context, userID int) (*models.Coach, error)
	List(ctx context.Context) ([]models.Coach, error)
	Update(ctx context.Context, coach *models.Coach) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresCoachRepository struct {
	db *sql.DB
}

func NewPostgresCoachRepository(db *sql.DB) CoachRepository {
	return &postgresCoachRepository{db: db}
}

func (r *postgresCoachRepository) Create(ctx context.Context, coach *models.Coach) error {
	query := `
		INSERT INTO coaches (name, email, phone, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, version`

	return r.db.QueryRowContext(ctx, query,
		coach.Name,
		coach.Email,
		coach.Phone,
		coach.UserID,
	).Scan(&coach.ID, &coach.Version)
}

func (r *postgresCoachRepository) GetByID(ctx context.Context, id int) (*models.Coach, error) {
	query := `
		SELECT id, name, email, phone, user_id, version
		FROM coaches
		WHERE id = $1`
	return r.scanCoach(ctx, query, id)
}

func (r *postgresCoachRepository) GetByUserID(ctx context.Context, userID int) (*models.Coach, error) {
	query := `
		SELECT id, name, email, phone, user_id, version
		FROM coaches
		WHERE user_id = $1`
	return r.scanCoach(ctx, query, userID)
}

func (r *postgresCoachRepository) List(ctx context.Context) ([]models.Coach, error) {
	query := `
		SELECT id, name, email, phone, user_id, version
		FROM coaches
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coaches := make([]models.Coach, 0)
	for rows.Next() {
		var coach models.Coach
		scanErr := rows.Scan(
			&coach.ID,
			&coach.Name,
			&coach.Email,
			&coach.Phone,
			&coach.UserID,
			&coach.Version,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		coaches = append(coaches, coach)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return coaches, nil
}

func (r *postgresCoachRepository) Update(ctx context.Context, coach *models.Coach) error {
	query := `
		UPDATE coaches SET
			name = $1,
			email = $2,
			phone = $3,
			user_id = $4,
			version = version + 1
		WHERE id = $5 AND version = $6`

	result, err := r.db.ExecContext(ctx, query,
		coach.Name,
		coach.Email,
		coach.Phone,
		coach.UserID,
		coach.ID,
		coach.Version,
	)
	if err != nil {
		return err
	}

	if err := checkAffectedRows(result, ErrCoachVersionConflict); err != nil {
		return err
	}
	coach.Version++
	return nil
}

func (r *postgresCoachRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM coaches WHERE id = $1`, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrCoachInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrCoachNotFound)
}

func (r *postgresCoachRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM coaches`).Scan(&count)
	return count, err
}

func (r *postgresCoachRepository) scanCoach(ctx context.Context, query string, args ...interface{}) (*models.Coach, error) {
	coach := &models.Coach{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&coach.ID,
		&coach.Name,
		&coach.Email,
		&coach.Phone,
		&coach.UserID,
		&coach.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	return coach, nil
}
