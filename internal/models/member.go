package models

import "time"

// Member roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Member is a user's membership in one workspace. At most one record
// exists per (user, workspace) pair.
type Member struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	WorkspaceID string    `db:"workspace_id" json:"workspaceId"`
	Role        string    `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
