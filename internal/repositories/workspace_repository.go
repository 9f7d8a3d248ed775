package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"echo-service/internal/models"
)

var ErrWorkspaceNotFound = errors.New("workspace not found")

// WorkspaceRepository abstracts workspace persistence.
type WorkspaceRepository interface {
	Create(ctx context.Context, name, joinCode, userID string) (models.Workspace, error)
	GetByID(ctx context.Context, id string) (models.Workspace, error)
	ListForUser(ctx context.Context, userID string) ([]models.Workspace, error)
	UpdateName(ctx context.Context, id, name string) error
	SetJoinCode(ctx context.Context, id, joinCode string) error
	Delete(ctx context.Context, id string) error
}

// WorkspaceRepo is a sqlx implementation of WorkspaceRepository.
type WorkspaceRepo struct {
	db *sqlx.DB
}

// NewWorkspaceRepo constructs a WorkspaceRepo.
func NewWorkspaceRepo(db *sqlx.DB) *WorkspaceRepo {
	return &WorkspaceRepo{db: db}
}

// Create stores the workspace, its admin member, and the default
// "general" channel atomically.
func (r *WorkspaceRepo) Create(ctx context.Context, name, joinCode, userID string) (models.Workspace, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Workspace{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var workspace models.Workspace
	if err = tx.QueryRowxContext(ctx, `INSERT INTO workspaces (id, name, join_code, user_id) VALUES ($1, $2, $3, $4) RETURNING id, name, join_code, user_id, created_at`,
		uuid.NewString(), name, joinCode, userID).
		Scan(&workspace.ID, &workspace.Name, &workspace.JoinCode, &workspace.UserID, &workspace.CreatedAt); err != nil {
		return models.Workspace{}, err
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO members (id, user_id, workspace_id, role) VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), userID, workspace.ID, models.RoleAdmin); err != nil {
		return models.Workspace{}, err
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO channels (id, name, workspace_id) VALUES ($1, $2, $3)`,
		uuid.NewString(), "general", workspace.ID); err != nil {
		return models.Workspace{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Workspace{}, err
	}
	return workspace, nil
}

// GetByID fetches a workspace by id.
func (r *WorkspaceRepo) GetByID(ctx context.Context, id string) (models.Workspace, error) {
	var workspace models.Workspace
	err := r.db.GetContext(ctx, &workspace, `SELECT id, name, join_code, user_id, created_at FROM workspaces WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Workspace{}, ErrWorkspaceNotFound
	}
	return workspace, err
}

// ListForUser returns workspaces where the user holds a member record.
func (r *WorkspaceRepo) ListForUser(ctx context.Context, userID string) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	err := r.db.SelectContext(ctx, &workspaces, `SELECT w.id, w.name, w.join_code, w.user_id, w.created_at FROM workspaces w
        INNER JOIN members m ON m.workspace_id = w.id
        WHERE m.user_id=$1
        ORDER BY w.created_at DESC`, userID)
	return workspaces, err
}

// UpdateName renames the workspace.
func (r *WorkspaceRepo) UpdateName(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE workspaces SET name=$2 WHERE id=$1`, id, name)
	return affectedOrNotFound(res, err, ErrWorkspaceNotFound)
}

// SetJoinCode replaces the join code.
func (r *WorkspaceRepo) SetJoinCode(ctx context.Context, id, joinCode string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE workspaces SET join_code=$2 WHERE id=$1`, id, joinCode)
	return affectedOrNotFound(res, err, ErrWorkspaceNotFound)
}

// Delete removes the workspace; channels, conversations, members,
// messages and reactions cascade at the store layer.
func (r *WorkspaceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id=$1`, id)
	return affectedOrNotFound(res, err, ErrWorkspaceNotFound)
}

func affectedOrNotFound(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}
