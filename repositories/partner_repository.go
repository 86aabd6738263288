package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/lib/pq"
)

var (
	ErrPartnerNotFound        = errors.New("partner not found")
	ErrPartnerInUse           = errors.New("partner is referenced by athletes or scores")
	ErrPartnerVersionConflict = errors.New("partner row changed since it was loaded")
)

type PartnerRepository interface {
	Create(ctx context.Context, partner *models.Partner) error
	GetByID(ctx context.Context, id int) (*models.Partner, error)
	GetByUserID(ctx context.Context, userID int) (*models.Partner, error)
	List(ctx context.Context) ([]models.Partner, error)
	Update(ctx context.Context, partner *models.Partner) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresPartnerRepository struct {
	db *sql.DB
}

func NewPostgresPartnerRepository(db *sql.DB) PartnerRepository {
	return &postgresPartnerRepository{db: db}
}

func (r *postgresPartnerRepository) Create(ctx context.Context, partner *models.Partner) error {
	query := `
		INSERT INTO partners (name, email, phone, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, version`

	return r.db.QueryRowContext(ctx, query,
		partner.Name,
		partner.Email,
		partner.Phone,
		partner.UserID,
	).Scan(&partner.ID, &partner.Version)
}

func (r *postgresPartnerRepository) GetByID(ctx context.Context, id int) (*models.Partner, error) {
	query := `
		SELECT id, name, email, phone, user_id, version
		FROM partners
		WHERE id = $1`
	return r.scanPartner(ctx, query, id)
}

func (r *postgresPartnerRepository) GetByUserID(ctx context.Context, userID int) (*models.Partner, error) {
	query := `
		SELECT id, name, email, phone, user_id, version
		FROM partners
		WHERE user_id = $1`
	return r.scanPartner(ctx, query, userID)
}

func (r *postgresPartnerRepository) List(ctx context.Context) ([]models.Partner, error) {
	query := `
		SELECT id, name, email, phone, user_id, version
		FROM partners
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	partners := make([]models.Partner, 0)
	for rows.Next() {
		var partner models.Partner
		scanErr := rows.Scan(
			&partner.ID,
			&partner.Name,
			&partner.Email,
			&partner.Phone,
			&partner.UserID,
			&partner.Version,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		partners = append(partners, partner)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return partners, nil
}

func (r *postgresPartnerRepository) Update(ctx context.Context, partner *models.Partner) error {
	query := `
		UPDATE partners SET
			name = $1,
			email = $2,
			phone = $3,
			user_id = $4,
			version = version + 1
		WHERE id = $5 AND version = $6`

	result, err := r.db.ExecContext(ctx, query,
		partner.Name,
		partner.Email,
		partner.Phone,
		partner.UserID,
		partner.ID,
		partner.Version,
	)
	if err != nil {
		return err
	}

	if err := checkAffectedRows(result, ErrPartnerVersionConflict); err != nil {
		return err
	}
	partner.Version++
	return nil
}

func (r *postgresPartnerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		// The FK restrict on athletes/scores should already have been checked
		// by the service; map the violation anyway in case of a race.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrPartnerInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrPartnerNotFound)
}

func (r *postgresPartnerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM partners`).Scan(&count)
	return count, err
}

func (r *postgresPartnerRepository) scanPartner(ctx context.Context, query string, args ...interface{}) (*models.Partner, error) {
	partner := &models.Partner{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&partner.ID,
		&partner.Name,
		&partner.Email,
		&partner.Phone,
		&partner.UserID,
		&partner.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}
	return partner, nil
}
