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
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// AssignRole grants the role if the user does not already have it.
	// Granting an already-held role is a no-op, not an error.
	AssignRole(ctx context.Context, userID int, role models.UserRole) error
	Count(ctx context.Context) (int, error)
	// CountWithoutProfiles counts identities with no linked coach, partner or
	// athlete row.
	CountWithoutProfiles(ctx context.Context) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, roles)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Email,
		user.PasswordHash,
		pq.Array(rolesToStrings(user.Roles)),
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "users_email_key" {
				return ErrUserEmailConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, roles, created_at
		FROM users
		WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, roles, created_at
		FROM users
		WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

func (r *postgresUserRepository) AssignRole(ctx context.Context, userID int, role models.UserRole) error {
	query := `
		UPDATE users
		SET roles = array_append(roles, $2)
		WHERE id = $1 AND NOT ($2 = ANY(roles))`

	result, err := r.db.ExecContext(ctx, query, userID, string(role))
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		// Either the user already has the role or the user does not exist.
		if _, getErr := r.GetByID(ctx, userID); getErr != nil {
			return getErr
		}
	}
	return nil
}

func (r *postgresUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func (r *postgresUserRepository) CountWithoutProfiles(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM users u
		WHERE NOT EXISTS (SELECT 1 FROM coaches c WHERE c.user_id = u.id)
		  AND NOT EXISTS (SELECT 1 FROM partners p WHERE p.user_id = u.id)
		  AND NOT EXISTS (SELECT 1 FROM athletes a WHERE a.user_id = u.id)`

	var count int
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

func (r *postgresUserRepository) scanUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user := &models.User{}
	var roles pq.StringArray

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&roles,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Roles = make([]models.UserRole, len(roles))
	for i, role := range roles {
		user.Roles[i] = models.UserRole(role)
	}
	return user, nil
}

func rolesToStrings(roles []models.UserRole) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
