package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"echo-service/internal/models"
)

var ErrChannelNotFound = errors.New("channel not found")

// ChannelRepository abstracts channel persistence.
type ChannelRepository interface {
	Create(ctx context.Context, name, workspaceID string) (models.Channel, error)
	GetByID(ctx context.Context, id string) (models.Channel, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Channel, error)
	UpdateName(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// ChannelRepo is a sqlx implementation of ChannelRepository.
type ChannelRepo struct {
	db *sqlx.DB
}

// NewChannelRepo constructs a ChannelRepo.
func NewChannelRepo(db *sqlx.DB) *ChannelRepo {
	return &ChannelRepo{db: db}
}

// Create stores a channel. Callers normalize the name first.
func (r *ChannelRepo) Create(ctx context.Context, name, workspaceID string) (models.Channel, error) {
	var channel models.Channel
	err := r.db.QueryRowxContext(ctx, `INSERT INTO channels (id, name, workspace_id) VALUES ($1, $2, $3) RETURNING id, name, workspace_id, created_at`,
		uuid.NewString(), name, workspaceID).
		Scan(&channel.ID, &channel.Name, &channel.WorkspaceID, &channel.CreatedAt)
	return channel, err
}

// GetByID fetches a channel by id.
func (r *ChannelRepo) GetByID(ctx context.Context, id string) (models.Channel, error) {
	var channel models.Channel
	err := r.db.GetContext(ctx, &channel, `SELECT id, name, workspace_id, created_at FROM channels WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Channel{}, ErrChannelNotFound
	}
	return channel, err
}

// ListByWorkspace returns the workspace's channels.
func (r *ChannelRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Channel, error) {
	var channels []models.Channel
	err := r.db.SelectContext(ctx, &channels, `SELECT id, name, workspace_id, created_at FROM channels WHERE workspace_id=$1 ORDER BY created_at ASC`, workspaceID)
	return channels, err
}

// UpdateName renames the channel.
func (r *ChannelRepo) UpdateName(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE channels SET name=$2 WHERE id=$1`, id, name)
	return affectedOrNotFound(res, err, ErrChannelNotFound)
}

// Delete removes the channel; its messages cascade.
func (r *ChannelRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM channels WHERE id=$1`, id)
	return affectedOrNotFound(res, err, ErrChannelNotFound)
}
