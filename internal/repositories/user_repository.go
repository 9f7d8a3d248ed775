package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"echo-service/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository reads account records owned by the auth collaborator.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.User, error)
	UpsertByEmail(ctx context.Context, name, email string) (models.User, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByID fetches a single user.
func (r *UserRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, name, email, image, created_at FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// ListByIDs fetches users for the given ids.
func (r *UserRepo) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT id, name, email, image, created_at FROM users WHERE id = ANY($1)`, pq.Array(ids))
	return users, err
}

// UpsertByEmail creates a user if one does not exist for the email.
// Only the debug surface uses this.
func (r *UserRepo) UpsertByEmail(ctx context.Context, name, email string) (models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (id, name, email) VALUES ($1, $2, $3)
        ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
        RETURNING id, name, email, image, created_at`, uuid.NewString(), name, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.Image, &user.CreatedAt)
	return user, err
}
