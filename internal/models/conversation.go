package models

import "time"

// Conversation is a direct-message pair within a workspace. At most one
// exists per unordered pair of members.
type Conversation struct {
	ID          string    `db:"id" json:"id"`
	WorkspaceID string    `db:"workspace_id" json:"workspaceId"`
	MemberOneID string    `db:"member_one_id" json:"memberOneId"`
	MemberTwoID string    `db:"member_two_id" json:"memberTwoId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
