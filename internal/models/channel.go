package models

import "time"

// Channel is a named public message stream scoped to a workspace.
type Channel struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	WorkspaceID string    `db:"workspace_id" json:"workspaceId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
