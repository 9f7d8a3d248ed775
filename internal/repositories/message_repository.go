package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"echo-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// DefaultPageSize is the page size used when a list request does not
// specify a limit.
const DefaultPageSize = 20

const messageColumns = `id, member_id, body, image, workspace_id, channel_id, conversation_id, parent_message_id, created_at, updated_at`

// MessageFilter selects messages by destination. Nil fields are ignored.
type MessageFilter struct {
	ChannelID       *string
	ConversationID  *string
	ParentMessageID *string
}

// CreateMessageParams carries the fields of a new message.
type CreateMessageParams struct {
	MemberID        string
	Body            string
	Image           *string
	WorkspaceID     string
	ChannelID       *string
	ConversationID  *string
	ParentMessageID *string
}

// MessageRepository abstracts message persistence.
type MessageRepository interface {
	Create(ctx context.Context, params CreateMessageParams) (models.Message, error)
	GetByID(ctx context.Context, id string) (models.Message, error)
	List(ctx context.Context, filter MessageFilter, offset, limit int) ([]models.Message, error)
	ListThreadReplies(ctx context.Context, parentMessageID string) ([]models.Message, error)
	UpdateBody(ctx context.Context, id, body string) error
	Delete(ctx context.Context, id string) error
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create stores a message.
func (r *MessageRepo) Create(ctx context.Context, params CreateMessageParams) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (id, member_id, body, image, workspace_id, channel_id, conversation_id, parent_message_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+messageColumns,
		uuid.NewString(), params.MemberID, params.Body, params.Image, params.WorkspaceID, params.ChannelID, params.ConversationID, params.ParentMessageID).
		StructScan(&msg)
	return msg, err
}

// GetByID fetches a single message.
func (r *MessageRepo) GetByID(ctx context.Context, id string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// List returns a page of messages matching the filter, newest first.
// A non-positive limit falls back to DefaultPageSize.
func (r *MessageRepo) List(ctx context.Context, filter MessageFilter, offset, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	appendFilter := func(column string, value *string) {
		if value != nil && *value != "" {
			args = append(args, *value)
			where = append(where, column+"=$"+strconv.Itoa(len(args)))
		}
	}
	appendFilter("channel_id", filter.ChannelID)
	appendFilter("conversation_id", filter.ConversationID)
	appendFilter("parent_message_id", filter.ParentMessageID)

	query := `SELECT ` + messageColumns + ` FROM messages`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit) + ` OFFSET ` + strconv.Itoa(offset)

	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, query, args...)
	return msgs, err
}

// ListThreadReplies returns all replies under a parent message in scan
// order. No ORDER BY: the thread summary intentionally mirrors the
// observed behavior of taking the final element as the "last" reply.
func (r *MessageRepo) ListThreadReplies(ctx context.Context, parentMessageID string) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages WHERE parent_message_id=$1`, parentMessageID)
	return msgs, err
}

// UpdateBody replaces the body and bumps updated_at.
func (r *MessageRepo) UpdateBody(ctx context.Context, id, body string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET body=$2, updated_at=NOW() WHERE id=$1`, id, body)
	return affectedOrNotFound(res, err, ErrMessageNotFound)
}

// Delete removes a message; its reactions and replies cascade.
func (r *MessageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id=$1`, id)
	return affectedOrNotFound(res, err, ErrMessageNotFound)
}
