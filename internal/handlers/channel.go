package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"echo-service/internal/api"
	"echo-service/internal/models"
	"echo-service/internal/repositories"
	"echo-service/internal/telemetry"
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// normalizeChannelName collapses whitespace runs to hyphens and lowers
// the result, matching the displayed channel naming convention.
func normalizeChannelName(name string) string {
	return strings.ToLower(whitespaceRuns.ReplaceAllString(name, "-"))
}

// ChannelHandler manages channel endpoints.
type ChannelHandler struct {
	channelRepo repositories.ChannelRepository
	memberRepo  repositories.MemberRepository
	audit       *telemetry.AuditEmitter
}

// NewChannelHandler constructs a ChannelHandler.
func NewChannelHandler(channelRepo repositories.ChannelRepository, memberRepo repositories.MemberRepository, audit *telemetry.AuditEmitter) *ChannelHandler {
	return &ChannelHandler{channelRepo: channelRepo, memberRepo: memberRepo, audit: audit}
}

// Create handles POST /api/channels/create-channel (admin only).
func (h *ChannelHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		WorkspaceID string `json:"workspaceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if !h.requireRole(c, req.WorkspaceID, models.RoleAdmin) {
		return
	}

	if _, err := h.channelRepo.Create(c.Request.Context(), normalizeChannelName(req.Name), req.WorkspaceID); err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Channel created")
	api.Write(c, http.StatusOK, "Created channel", nil)
}

// GetAll handles POST /api/channels/get-all (members only).
func (h *ChannelHandler) GetAll(c *gin.Context) {
	var req struct {
		WorkspaceID string `json:"workspaceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if !h.requireRole(c, req.WorkspaceID, "") {
		return
	}

	channels, err := h.channelRepo.ListByWorkspace(c.Request.Context(), req.WorkspaceID)
	if err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	api.Write(c, http.StatusOK, "Channels fetched", channels)
}

// GetByID handles POST /api/channels/get-by-id.
func (h *ChannelHandler) GetByID(c *gin.Context) {
	channel, ok := h.lookupChannel(c)
	if !ok {
		return
	}

	if !h.requireRole(c, channel.WorkspaceID, "") {
		return
	}

	api.Write(c, http.StatusOK, "Channel fetched", channel)
}

// Update handles POST /api/channels/update-channel (admin only).
func (h *ChannelHandler) Update(c *gin.Context) {
	var req struct {
		ChannelID string `json:"channelId" binding:"required"`
		Name      string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	channel, err := h.channelRepo.GetByID(c.Request.Context(), req.ChannelID)
	if err != nil {
		if errors.Is(err, repositories.ErrChannelNotFound) {
			api.Write(c, http.StatusNotFound, "Channel not found", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	if !h.requireRole(c, channel.WorkspaceID, models.RoleAdmin) {
		return
	}

	if err := h.channelRepo.UpdateName(c.Request.Context(), req.ChannelID, normalizeChannelName(req.Name)); err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Channel updated")
	api.Write(c, http.StatusOK, "Channel updated", nil)
}

// Remove handles POST /api/channels/remove-channel (admin only).
func (h *ChannelHandler) Remove(c *gin.Context) {
	channel, ok := h.lookupChannel(c)
	if !ok {
		return
	}

	if !h.requireRole(c, channel.WorkspaceID, models.RoleAdmin) {
		return
	}

	if err := h.channelRepo.Delete(c.Request.Context(), channel.ID); err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Channel removed")
	api.Write(c, http.StatusOK, "Channel removed", nil)
}

func (h *ChannelHandler) lookupChannel(c *gin.Context) (models.Channel, bool) {
	var req struct {
		ChannelID string `json:"channelId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return models.Channel{}, false
	}

	channel, err := h.channelRepo.GetByID(c.Request.Context(), req.ChannelID)
	if err != nil {
		if errors.Is(err, repositories.ErrChannelNotFound) {
			api.Write(c, http.StatusNotFound, "Channel not found", nil)
			return models.Channel{}, false
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return models.Channel{}, false
	}
	return channel, true
}

// requireRole checks workspace membership; when role is non-empty the
// member must hold it.
func (h *ChannelHandler) requireRole(c *gin.Context, workspaceID, role string) bool {
	member, err := h.memberRepo.FindByUserAndWorkspace(c.Request.Context(), currentUserID(c), workspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
			return false
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return false
	}
	if role != "" && member.Role != role {
		emitAudit(h.audit, c, "ERROR", "not allowed")
		api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
		return false
	}
	return true
}
