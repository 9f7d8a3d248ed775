package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"echo-service/internal/api"
	"echo-service/internal/models"
	"echo-service/internal/repositories"
	"echo-service/internal/telemetry"
)

// MemberHandler manages membership endpoints.
type MemberHandler struct {
	memberRepo repositories.MemberRepository
	userRepo   repositories.UserRepository
	audit      *telemetry.AuditEmitter
}

// NewMemberHandler constructs a MemberHandler.
func NewMemberHandler(memberRepo repositories.MemberRepository, userRepo repositories.UserRepository, audit *telemetry.AuditEmitter) *MemberHandler {
	return &MemberHandler{memberRepo: memberRepo, userRepo: userRepo, audit: audit}
}

// Current handles POST /api/members/current-member. A caller with no
// membership gets a 200 with null data, mirroring the client contract.
func (h *MemberHandler) Current(c *gin.Context) {
	var req struct {
		WorkspaceID string `json:"workspaceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	member, err := h.memberRepo.FindByUserAndWorkspace(c.Request.Context(), currentUserID(c), req.WorkspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusOK, "Got current member", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	api.Write(c, http.StatusOK, "Got current member", member)
}

// GetByID handles POST /api/members/get-by-id.
func (h *MemberHandler) GetByID(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	member, err := h.memberRepo.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusOK, "Got member by id", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	api.Write(c, http.StatusOK, "Got member by id", member)
}

// GetAll handles POST /api/members/get-all, returning the users behind
// the workspace's member records.
func (h *MemberHandler) GetAll(c *gin.Context) {
	var req struct {
		WorkspaceID string `json:"workspaceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	members, err := h.memberRepo.ListByWorkspace(c.Request.Context(), req.WorkspaceID)
	if err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	userIDs := make([]string, 0, len(members))
	for _, member := range members {
		userIDs = append(userIDs, member.UserID)
	}

	users, err := h.userRepo.ListByIDs(c.Request.Context(), userIDs)
	if err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	api.Write(c, http.StatusOK, "Got all members", users)
}

// Remove handles POST /api/members/remove-member. Admin members cannot
// be removed; otherwise removal requires the caller to be an admin of
// the workspace or the member being removed (leaving).
func (h *MemberHandler) Remove(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	member, err := h.memberRepo.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusNotFound, "Member not found", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	currentMember, err := h.memberRepo.FindByUserAndWorkspace(c.Request.Context(), currentUserID(c), member.WorkspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	if member.Role == models.RoleAdmin {
		api.Write(c, http.StatusBadRequest, "Admin cannot be removed", nil)
		return
	}
	if currentMember.Role != models.RoleAdmin && currentMember.ID != member.ID {
		api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
		return
	}

	if err := h.memberRepo.Delete(c.Request.Context(), req.ID); err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Member removed")
	api.Write(c, http.StatusOK, "Removed member", nil)
}

// UpdateRole handles POST /api/members/update-member (admin only).
func (h *MemberHandler) UpdateRole(c *gin.Context) {
	var req struct {
		ID   string `json:"id" binding:"required"`
		Role string `json:"role" binding:"required,oneof=admin member"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	member, err := h.memberRepo.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusNotFound, "Member not found", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	currentMember, err := h.memberRepo.FindByUserAndWorkspace(c.Request.Context(), currentUserID(c), member.WorkspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	if currentMember.Role != models.RoleAdmin {
		emitAudit(h.audit, c, "ERROR", "not allowed")
		api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
		return
	}

	if err := h.memberRepo.UpdateRole(c.Request.Context(), req.ID, req.Role); err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Member role updated")
	api.Write(c, http.StatusOK, "Updated member", nil)
}
