package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"echo-service/internal/models"
)

var ErrMemberNotFound = errors.New("member not found")

// MemberRepository abstracts membership persistence. FindByUserAndWorkspace
// is the authorization gate every workspace-scoped handler goes through.
type MemberRepository interface {
	Create(ctx context.Context, userID, workspaceID, role string) (models.Member, error)
	FindByUserAndWorkspace(ctx context.Context, userID, workspaceID string) (models.Member, error)
	GetByID(ctx context.Context, id string) (models.Member, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Member, error)
	UpdateRole(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error
}

// MemberRepo is a sqlx implementation of MemberRepository.
type MemberRepo struct {
	db *sqlx.DB
}

// NewMemberRepo constructs a MemberRepo.
func NewMemberRepo(db *sqlx.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

// Create stores a member record. The unique (user, workspace) constraint
// rejects duplicates.
func (r *MemberRepo) Create(ctx context.Context, userID, workspaceID, role string) (models.Member, error) {
	var member models.Member
	err := r.db.QueryRowxContext(ctx, `INSERT INTO members (id, user_id, workspace_id, role) VALUES ($1, $2, $3, $4) RETURNING id, user_id, workspace_id, role, created_at`,
		uuid.NewString(), userID, workspaceID, role).
		Scan(&member.ID, &member.UserID, &member.WorkspaceID, &member.Role, &member.CreatedAt)
	return member, err
}

// FindByUserAndWorkspace resolves the member record for a (user, workspace) pair.
func (r *MemberRepo) FindByUserAndWorkspace(ctx context.Context, userID, workspaceID string) (models.Member, error) {
	var member models.Member
	err := r.db.GetContext(ctx, &member, `SELECT id, user_id, workspace_id, role, created_at FROM members WHERE user_id=$1 AND workspace_id=$2`, userID, workspaceID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, ErrMemberNotFound
	}
	return member, err
}

// GetByID fetches a member by id.
func (r *MemberRepo) GetByID(ctx context.Context, id string) (models.Member, error) {
	var member models.Member
	err := r.db.GetContext(ctx, &member, `SELECT id, user_id, workspace_id, role, created_at FROM members WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, ErrMemberNotFound
	}
	return member, err
}

// ListByWorkspace returns all members of a workspace.
func (r *MemberRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Member, error) {
	var members []models.Member
	err := r.db.SelectContext(ctx, &members, `SELECT id, user_id, workspace_id, role, created_at FROM members WHERE workspace_id=$1 ORDER BY created_at ASC`, workspaceID)
	return members, err
}

// UpdateRole changes the member's role.
func (r *MemberRepo) UpdateRole(ctx context.Context, id, role string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE members SET role=$2 WHERE id=$1`, id, role)
	return affectedOrNotFound(res, err, ErrMemberNotFound)
}

// Delete removes the member record.
func (r *MemberRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id=$1`, id)
	return affectedOrNotFound(res, err, ErrMemberNotFound)
}
