package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"echo-service/internal/models"
)

var ErrReactionNotFound = errors.New("reaction not found")

// ReactionRepository abstracts reaction persistence.
type ReactionRepository interface {
	ListByMessage(ctx context.Context, messageID string) ([]models.Reaction, error)
	FindByTriple(ctx context.Context, memberID, messageID, value string) (models.Reaction, error)
	Create(ctx context.Context, value, memberID, messageID, workspaceID string) (models.Reaction, error)
	Delete(ctx context.Context, id string) error
}

// ReactionRepo is a sqlx implementation of ReactionRepository.
type ReactionRepo struct {
	db *sqlx.DB
}

// NewReactionRepo constructs a ReactionRepo.
func NewReactionRepo(db *sqlx.DB) *ReactionRepo {
	return &ReactionRepo{db: db}
}

// ListByMessage returns all reaction rows for a message in insertion order.
func (r *ReactionRepo) ListByMessage(ctx context.Context, messageID string) ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := r.db.SelectContext(ctx, &reactions, `SELECT id, value, member_id, message_id, workspace_id, created_at FROM reactions WHERE message_id=$1 ORDER BY created_at ASC`, messageID)
	return reactions, err
}

// FindByTriple looks up the row for an exact (member, message, value)
// triple. The store's unique constraint guarantees at most one.
func (r *ReactionRepo) FindByTriple(ctx context.Context, memberID, messageID, value string) (models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.GetContext(ctx, &reaction, `SELECT id, value, member_id, message_id, workspace_id, created_at FROM reactions WHERE member_id=$1 AND message_id=$2 AND value=$3`, memberID, messageID, value)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reaction{}, ErrReactionNotFound
	}
	return reaction, err
}

// Create stores a reaction row.
func (r *ReactionRepo) Create(ctx context.Context, value, memberID, messageID, workspaceID string) (models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.QueryRowxContext(ctx, `INSERT INTO reactions (id, value, member_id, message_id, workspace_id) VALUES ($1, $2, $3, $4, $5) RETURNING id, value, member_id, message_id, workspace_id, created_at`,
		uuid.NewString(), value, memberID, messageID, workspaceID).
		StructScan(&reaction)
	return reaction, err
}

// Delete removes a reaction row.
func (r *ReactionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reactions WHERE id=$1`, id)
	return affectedOrNotFound(res, err, ErrReactionNotFound)
}
