package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"prepai-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()

	query := `
		INSERT INTO users (id, google_id, display_name, email, photo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		user.ID, user.GoogleID, user.DisplayName, user.Email, user.Photo,
	).Scan(&user.CreatedAt)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, google_id, display_name, email, photo, created_at
		FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.GoogleID, &user.DisplayName, &user.Email, &user.Photo, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, google_id, display_name, email, photo, created_at
		FROM users WHERE google_id = $1`

	err := r.pool.QueryRow(ctx, query, googleID).Scan(
		&user.ID, &user.GoogleID, &user.DisplayName, &user.Email, &user.Photo, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, google_id, display_name, email, photo, created_at
		FROM users WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.GoogleID, &user.DisplayName, &user.Email, &user.Photo, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// LinkGoogle attaches a Google identity to an account created before the
// Google profile was seen, refreshing name and photo from the profile.
func (r *UserRepo) LinkGoogle(ctx context.Context, id uuid.UUID, googleID, displayName string, photo *string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET google_id = $1,
			display_name = COALESCE(NULLIF(display_name, ''), $2),
			photo = COALESCE($3, photo)
		 WHERE id = $4`,
		googleID, displayName, photo, id,
	)
	return err
}
