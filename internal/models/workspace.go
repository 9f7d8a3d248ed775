package models

import "time"

// Workspace is the top-level tenant container.
type Workspace struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	JoinCode  string    `db:"join_code" json:"joinCode"`
	UserID    string    `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// WorkspaceInfo is the pre-join view of a workspace.
type WorkspaceInfo struct {
	Name     string  `json:"name"`
	IsMember bool    `json:"isMember"`
	Role     *string `json:"role,omitempty"`
}
