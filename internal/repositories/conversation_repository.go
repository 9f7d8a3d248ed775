package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"echo-service/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository abstracts direct-message pair persistence.
type ConversationRepository interface {
	FindByMembers(ctx context.Context, workspaceID, memberOneID, memberTwoID string) (models.Conversation, error)
	Create(ctx context.Context, workspaceID, memberOneID, memberTwoID string) (models.Conversation, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// FindByMembers looks up the conversation for an unordered member pair,
// checking both column orderings.
func (r *ConversationRepo) FindByMembers(ctx context.Context, workspaceID, memberOneID, memberTwoID string) (models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.GetContext(ctx, &conversation, `SELECT id, workspace_id, member_one_id, member_two_id, created_at FROM conversations
        WHERE workspace_id=$1
        AND ((member_one_id=$2 AND member_two_id=$3) OR (member_one_id=$3 AND member_two_id=$2))`,
		workspaceID, memberOneID, memberTwoID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conversation, err
}

// Create stores a new conversation.
func (r *ConversationRepo) Create(ctx context.Context, workspaceID, memberOneID, memberTwoID string) (models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.QueryRowxContext(ctx, `INSERT INTO conversations (id, workspace_id, member_one_id, member_two_id) VALUES ($1, $2, $3, $4) RETURNING id, workspace_id, member_one_id, member_two_id, created_at`,
		uuid.NewString(), workspaceID, memberOneID, memberTwoID).
		Scan(&conversation.ID, &conversation.WorkspaceID, &conversation.MemberOneID, &conversation.MemberTwoID, &conversation.CreatedAt)
	return conversation, err
}
