package models

import "time"

// Reaction is one member's emoji reaction on a message. The store
// enforces at most one row per (member, message, value).
type Reaction struct {
	ID          string    `db:"id" json:"id"`
	Value       string    `db:"value" json:"value"`
	MemberID    string    `db:"member_id" json:"memberId"`
	MessageID   string    `db:"message_id" json:"messageId"`
	WorkspaceID string    `db:"workspace_id" json:"workspaceId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
