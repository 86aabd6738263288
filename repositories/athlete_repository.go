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
	ErrAthleteNotFound        = errors.New("athlete not found")
	ErrAthletePartnerInvalid  = errors.New("athlete references a missing partner")
	ErrAthleteVersionConflict = errors.New("athlete row changed since it was loaded")
)

type AthleteRepository interface {
	Create(ctx context.Context, athlete *models.Athlete) error
	GetByID(ctx context.Context, id int) (*models.Athlete, error)
	GetByUserID(ctx context.Context, userID int) (*models.Athlete, error)
	List(ctx context.Context) ([]models.Athlete, error)
	FirstByPartnerID(ctx context.Context, partnerID int) (*models.Athlete, error)
	// Update is optimistic: it matches on the loaded version and bumps it.
	// A vanished or concurrently-changed row yields ErrAthleteVersionConflict.
	Update(ctx context.Context, athlete *models.Athlete) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	CountByPartnerID(ctx context.Context, partnerID int) (int, error)
}

type postgresAthleteRepository struct {
	db *sql.DB
}

func NewPostgresAthleteRepository(db *sql.DB) AthleteRepository {
	return &postgresAthleteRepository{db: db}
}

func (r *postgresAthleteRepository) Create(ctx context.Context, athlete *models.Athlete) error {
	query := `
		INSERT INTO athletes (name, picture_key, swing_rating, power_rating, understanding_rating, partner_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, version`

	err := r.db.QueryRowContext(ctx, query,
		athlete.Name,
		athlete.PictureKey,
		athlete.SwingRating,
		athlete.PowerRating,
		athlete.UnderstandingRating,
		athlete.PartnerID,
		athlete.UserID,
	).Scan(&athlete.ID, &athlete.Version)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "athletes_partner_id_fkey" {
				return ErrAthletePartnerInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresAthleteRepository) GetByID(ctx context.Context, id int) (*models.Athlete, error) {
	query := athleteSelect + ` WHERE a.id = $1`
	return r.scanAthleteWithPartner(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresAthleteRepository) GetByUserID(ctx context.Context, userID int) (*models.Athlete, error) {
	query := athleteSelect + ` WHERE a.user_id = $1`
	return r.scanAthleteWithPartner(r.db.QueryRowContext(ctx, query, userID))
}

func (r *postgresAthleteRepository) FirstByPartnerID(ctx context.Context, partnerID int) (*models.Athlete, error) {
	query := athleteSelect + ` WHERE a.partner_id = $1 ORDER BY a.id ASC LIMIT 1`
	return r.scanAthleteWithPartner(r.db.QueryRowContext(ctx, query, partnerID))
}

func (r *postgresAthleteRepository) List(ctx context.Context) ([]models.Athlete, error) {
	query := athleteSelect + ` ORDER BY a.name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	athletes := make([]models.Athlete, 0)
	for rows.Next() {
		athlete, scanErr := r.scanAthleteWithPartner(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		athletes = append(athletes, *athlete)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return athletes, nil
}

func (r *postgresAthleteRepository) Update(ctx context.Context, athlete *models.Athlete) error {
	query := `
		UPDATE athletes SET
			name = $1,
			picture_key = $2,
			swing_rating = $3,
			power_rating = $4,
			understanding_rating = $5,
			partner_id = $6,
			user_id = $7,
			version = version + 1
		WHERE id = $8 AND version = $9`

	result, err := r.db.ExecContext(ctx, query,
		athlete.Name,
		athlete.PictureKey,
		athlete.SwingRating,
		athlete.PowerRating,
		athlete.UnderstandingRating,
		athlete.PartnerID,
		athlete.UserID,
		athlete.ID,
		athlete.Version,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "athletes_partner_id_fkey" {
				return ErrAthletePartnerInvalid
			}
		}
		return err
	}

	if err := checkAffectedRows(result, ErrAthleteVersionConflict); err != nil {
		return err
	}
	athlete.Version++
	return nil
}

func (r *postgresAthleteRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM athletes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAthleteNotFound)
}

func (r *postgresAthleteRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM athletes`).Scan(&count)
	return count, err
}

func (r *postgresAthleteRepository) CountByPartnerID(ctx context.Context, partnerID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM athletes WHERE partner_id = $1`, partnerID).Scan(&count)
	return count, err
}

const athleteSelect = `
	SELECT
		a.id, a.name, a.picture_key, a.swing_rating, a.power_rating, a.understanding_rating,
		a.partner_id, a.user_id, a.version,
		p.id, p.name, p.email, p.phone, p.user_id, p.version
	FROM athletes a
	JOIN partners p ON a.partner_id = p.id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresAthleteRepository) scanAthleteWithPartner(row rowScanner) (*models.Athlete, error) {
	var athlete models.Athlete
	var partner models.Partner

	err := row.Scan(
		&athlete.ID,
		&athlete.Name,
		&athlete.PictureKey,
		&athlete.SwingRating,
		&athlete.PowerRating,
		&athlete.UnderstandingRating,
		&athlete.PartnerID,
		&athlete.UserID,
		&athlete.Version,
		&partner.ID,
		&partner.Name,
		&partner.Email,
		&partner.Phone,
		&partner.UserID,
		&partner.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAthleteNotFound
		}
		return nil, fmt.Errorf("failed to scan athlete with partner: %w", err)
	}

	athlete.Partner = &partner
	return &athlete, nil
}
