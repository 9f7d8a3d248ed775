package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"echo-service/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository resolves bearer tokens written by the auth
// collaborator into user identities.
type SessionRepository interface {
	ResolveToken(ctx context.Context, token string) (models.User, models.Session, error)
	CreateSession(ctx context.Context, userID string, ttl time.Duration) (models.Session, error)
}

// SessionRepo is a sqlx implementation of SessionRepository.
type SessionRepo struct {
	db *sqlx.DB
}

// NewSessionRepo constructs a SessionRepo.
func NewSessionRepo(db *sqlx.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// ResolveToken returns the user and session for an unexpired token.
func (r *SessionRepo) ResolveToken(ctx context.Context, token string) (models.User, models.Session, error) {
	var session models.Session
	err := r.db.GetContext(ctx, &session, `SELECT token, user_id, expires_at, created_at FROM sessions WHERE token=$1 AND expires_at > NOW()`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return models.User{}, models.Session{}, err
	}

	var user models.User
	err = r.db.GetContext(ctx, &user, `SELECT id, name, email, image, created_at FROM users WHERE id=$1`, session.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.Session{}, ErrSessionNotFound
	}
	return user, session, err
}

// CreateSession mints a session token. Only the debug surface uses this;
// in production sessions come from the auth collaborator.
func (r *SessionRepo) CreateSession(ctx context.Context, userID string, ttl time.Duration) (models.Session, error) {
	var session models.Session
	err := r.db.QueryRowxContext(ctx, `INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3) RETURNING token, user_id, expires_at, created_at`,
		uuid.NewString(), userID, time.Now().Add(ttl)).
		Scan(&session.Token, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	return session, err
}
