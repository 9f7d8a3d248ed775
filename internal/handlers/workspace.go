package handlers

import (
	"errors"
	"math/rand"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"echo-service/internal/api"
	"echo-service/internal/models"
	"echo-service/internal/repositories"
	"echo-service/internal/telemetry"
)

const joinCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func generateJoinCode() string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteByte(joinCodeAlphabet[rand.Intn(len(joinCodeAlphabet))])
	}
	return b.String()
}

// WorkspaceHandler manages workspace endpoints.
type WorkspaceHandler struct {
	workspaceRepo repositories.WorkspaceRepository
	memberRepo    repositories.MemberRepository
	audit         *telemetry.AuditEmitter
}

// NewWorkspaceHandler constructs a WorkspaceHandler.
func NewWorkspaceHandler(workspaceRepo repositories.WorkspaceRepository, memberRepo repositories.MemberRepository, audit *telemetry.AuditEmitter) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceRepo: workspaceRepo, memberRepo: memberRepo, audit: audit}
}

// Create handles POST /api/workspaces/create-workspace. The caller
// becomes the admin member and a default "general" channel is created.
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	workspace, err := h.workspaceRepo.Create(c.Request.Context(), req.Name, generateJoinCode(), currentUserID(c))
	if err != nil {
		emitAudit(h.audit, c, "ERROR", "internal error")
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Workspace created")
	api.Write(c, http.StatusOK, "Created workspace", workspace.ID)
}

// Join handles POST /api/workspaces/join.
func (h *WorkspaceHandler) Join(c *gin.Context) {
	var req struct {
		WorkspaceID string `json:"workspaceId" binding:"required"`
		JoinCode    string `json:"joinCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	workspace, err := h.workspaceRepo.GetByID(c.Request.Context(), req.WorkspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrWorkspaceNotFound) {
			api.Write(c, http.StatusNotFound, "Workspace not found", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	if workspace.JoinCode != strings.ToLower(req.JoinCode) {
		api.Write(c, http.StatusBadRequest, "Invalid join code", nil)
		return
	}

	userID := currentUserID(c)
	if _, err := h.memberRepo.FindByUserAndWorkspace(c.Request.Context(), userID, req.WorkspaceID); err == nil {
		api.Write(c, http.StatusBadRequest, "Already a member of this workspace", nil)
		return
	} else if !errors.Is(err, repositories.ErrMemberNotFound) {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	if _, err := h.memberRepo.Create(c.Request.Context(), userID, req.WorkspaceID, models.RoleMember); err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Workspace joined")
	api.Write(c, http.StatusOK, "Joined workspace", nil)
}

// Update handles PATCH /api/workspaces/update-workspace (admin only).
func (h *WorkspaceHandler) Update(c *gin.Context) {
	var req struct {
		WorkspaceID string `json:"workspaceId" binding:"required"`
		Name        string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if !h.requireAdmin(c, req.WorkspaceID) {
		return
	}

	if err := h.workspaceRepo.UpdateName(c.Request.Context(), req.WorkspaceID, req.Name); err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Workspace updated")
	api.Write(c, http.StatusOK, "Updated workspace", nil)
}

// Remove handles DELETE /api/workspaces/remove-workspace (admin only).
// Channels, members, conversations, messages and reactions cascade at
// the store layer.
func (h *WorkspaceHandler) Remove(c *gin.Context) {
	var req struct {
		WorkspaceID string `json:"workspaceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if !h.requireAdmin(c, req.WorkspaceID) {
		return
	}

	if err := h.workspaceRepo.Delete(c.Request.Context(), req.WorkspaceID); err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Workspace removed")
	api.Write(c, http.StatusOK, "Removed workspace", nil)
}

// NewJoinCode handles POST /api/workspaces/new-join-code (admin only).
func (h *WorkspaceHandler) NewJoinCode(c *gin.Context) {
	var req struct {
		WorkspaceID string `json:"workspaceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if !h.requireAdmin(c, req.WorkspaceID) {
		return
	}

	if err := h.workspaceRepo.SetJoinCode(c.Request.Context(), req.WorkspaceID, generateJoinCode()); err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Join code rotated")
	api.Write(c, http.StatusOK, "Generated new join code", nil)
}

// GetInfo handles POST /api/workspaces/get-info-id. Membership is not
// required: the pre-join screen uses this.
func (h *WorkspaceHandler) GetInfo(c *gin.Context) {
	var req struct {
		WorkspaceID string `json:"workspaceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	workspace, err := h.workspaceRepo.GetByID(c.Request.Context(), req.WorkspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrWorkspaceNotFound) {
			api.Write(c, http.StatusNotFound, "Workspace not found", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	info := models.WorkspaceInfo{Name: workspace.Name}
	if member, err := h.memberRepo.FindByUserAndWorkspace(c.Request.Context(), currentUserID(c), req.WorkspaceID); err == nil {
		info.IsMember = true
		info.Role = &member.Role
	}

	api.Write(c, http.StatusOK, "Got workspace info", info)
}

// GetByID handles POST /api/workspaces/get-by-id (members only).
func (h *WorkspaceHandler) GetByID(c *gin.Context) {
	var req struct {
		WorkspaceID string `json:"workspaceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if _, err := h.memberRepo.FindByUserAndWorkspace(c.Request.Context(), currentUserID(c), req.WorkspaceID); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	workspace, err := h.workspaceRepo.GetByID(c.Request.Context(), req.WorkspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrWorkspaceNotFound) {
			api.Write(c, http.StatusNotFound, "Workspace not found", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	api.Write(c, http.StatusOK, "Got workspace", workspace)
}

// GetAll handles POST /api/workspaces/get-all.
func (h *WorkspaceHandler) GetAll(c *gin.Context) {
	workspaces, err := h.workspaceRepo.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	api.Write(c, http.StatusOK, "Got all workspaces", workspaces)
}

// requireAdmin writes the error response and returns false unless the
// caller holds an admin member record in the workspace.
func (h *WorkspaceHandler) requireAdmin(c *gin.Context, workspaceID string) bool {
	member, err := h.memberRepo.FindByUserAndWorkspace(c.Request.Context(), currentUserID(c), workspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
			return false
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return false
	}
	if member.Role != models.RoleAdmin {
		emitAudit(h.audit, c, "ERROR", "not allowed")
		api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
		return false
	}
	return true
}
