package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"echo-service/internal/api"
	"echo-service/internal/repositories"
)

// ConversationHandler manages direct-message conversations.
type ConversationHandler struct {
	conversationRepo repositories.ConversationRepository
	memberRepo       repositories.MemberRepository
}

// NewConversationHandler constructs a ConversationHandler.
func NewConversationHandler(conversationRepo repositories.ConversationRepository, memberRepo repositories.MemberRepository) *ConversationHandler {
	return &ConversationHandler{conversationRepo: conversationRepo, memberRepo: memberRepo}
}

// CreateOrGet handles POST /api/conversations/create-or-get-conversation.
// At most one conversation exists per unordered member pair; both
// orderings are checked before creating.
func (h *ConversationHandler) CreateOrGet(c *gin.Context) {
	var req struct {
		MemberID    string `json:"memberId" binding:"required"`
		WorkspaceID string `json:"workspaceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	currentMember, err := h.memberRepo.FindByUserAndWorkspace(ctx, currentUserID(c), req.WorkspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusNotFound, "Member not found", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	otherMember, err := h.memberRepo.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusNotFound, "Member not found", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	existing, err := h.conversationRepo.FindByMembers(ctx, req.WorkspaceID, currentMember.ID, otherMember.ID)
	if err == nil {
		api.Write(c, http.StatusOK, "Conversation found", existing.ID)
		return
	}
	if !errors.Is(err, repositories.ErrConversationNotFound) {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	conversation, err := h.conversationRepo.Create(ctx, req.WorkspaceID, currentMember.ID, otherMember.ID)
	if err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	api.Write(c, http.StatusOK, "Conversation created", conversation.ID)
}
