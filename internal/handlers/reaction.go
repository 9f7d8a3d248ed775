package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"echo-service/internal/api"
	"echo-service/internal/observability"
	"echo-service/internal/repositories"
	"echo-service/internal/telemetry"
)

// ReactionHandler manages the reaction toggle endpoint.
type ReactionHandler struct {
	reactionRepo repositories.ReactionRepository
	messageRepo  repositories.MessageRepository
	memberRepo   repositories.MemberRepository
	audit        *telemetry.AuditEmitter
}

// NewReactionHandler constructs a ReactionHandler.
func NewReactionHandler(reactionRepo repositories.ReactionRepository, messageRepo repositories.MessageRepository, memberRepo repositories.MemberRepository, audit *telemetry.AuditEmitter) *ReactionHandler {
	return &ReactionHandler{reactionRepo: reactionRepo, messageRepo: messageRepo, memberRepo: memberRepo, audit: audit}
}

// Toggle handles POST /api/reactions/toggle. A second toggle of the
// same value by the same member removes the reaction; a different value
// adds a new one alongside the existing ones.
func (h *ReactionHandler) Toggle(c *gin.Context) {
	var req struct {
		MessageID string `json:"messageId" binding:"required"`
		Value     string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	message, err := h.messageRepo.GetByID(ctx, req.MessageID)
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			api.Write(c, http.StatusNotFound, "Message not found", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	member, err := h.memberRepo.FindByUserAndWorkspace(ctx, currentUserID(c), message.WorkspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	existing, err := h.reactionRepo.FindByTriple(ctx, member.ID, message.ID, req.Value)
	switch {
	case err == nil:
		if err := h.reactionRepo.Delete(ctx, existing.ID); err != nil {
			api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}
		observability.IncReactionToggle("removed")
	case errors.Is(err, repositories.ErrReactionNotFound):
		if _, err := h.reactionRepo.Create(ctx, req.Value, member.ID, message.ID, message.WorkspaceID); err != nil {
			api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}
		observability.IncReactionToggle("added")
	default:
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Reaction toggled")
	api.Write(c, http.StatusOK, "Reaction toggled", nil)
}
