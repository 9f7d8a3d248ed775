package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"echo-service/internal/api"
	"echo-service/internal/models"
	"echo-service/internal/observability"
	"echo-service/internal/repositories"
	"echo-service/internal/telemetry"
)

// MessageHandler manages message endpoints.
type MessageHandler struct {
	messageRepo  repositories.MessageRepository
	memberRepo   repositories.MemberRepository
	userRepo     repositories.UserRepository
	reactionRepo repositories.ReactionRepository
	audit        *telemetry.AuditEmitter
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(messageRepo repositories.MessageRepository, memberRepo repositories.MemberRepository, userRepo repositories.UserRepository, reactionRepo repositories.ReactionRepository, audit *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{
		messageRepo:  messageRepo,
		memberRepo:   memberRepo,
		userRepo:     userRepo,
		reactionRepo: reactionRepo,
		audit:        audit,
	}
}

// Create handles POST /api/messages/create-message. A thread reply sent
// without a channel or conversation inherits the conversation from its
// parent message.
func (h *MessageHandler) Create(c *gin.Context) {
	var req struct {
		Body            string  `json:"body" binding:"required"`
		Image           *string `json:"image"`
		WorkspaceID     string  `json:"workspaceId" binding:"required"`
		ChannelID       *string `json:"channelId"`
		ConversationID  *string `json:"conversationId"`
		ParentMessageID *string `json:"parentMessageId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	member, err := h.memberRepo.FindByUserAndWorkspace(ctx, currentUserID(c), req.WorkspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	conversationID := req.ConversationID
	if req.ChannelID == nil && conversationID == nil && req.ParentMessageID != nil {
		parent, err := h.messageRepo.GetByID(ctx, *req.ParentMessageID)
		if err != nil {
			if errors.Is(err, repositories.ErrMessageNotFound) {
				api.Write(c, http.StatusNotFound, "Parent message not found", nil)
				return
			}
			api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}
		conversationID = parent.ConversationID
	}

	message, err := h.messageRepo.Create(ctx, repositories.CreateMessageParams{
		MemberID:        member.ID,
		Body:            req.Body,
		Image:           req.Image,
		WorkspaceID:     req.WorkspaceID,
		ChannelID:       req.ChannelID,
		ConversationID:  conversationID,
		ParentMessageID: req.ParentMessageID,
	})
	if err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	observability.IncMessageCreated()
	emitAudit(h.audit, c, "INFO", "Message created")
	api.Write(c, http.StatusOK, "Message created", message.ID)
}

// GetByID handles POST /api/messages/get-by-id. The reaction groups on
// this endpoint carry the deduplicated member id lists.
func (h *MessageHandler) GetByID(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	message, err := h.messageRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			api.Write(c, http.StatusNotFound, "Message not found", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	if _, err := h.memberRepo.FindByUserAndWorkspace(ctx, currentUserID(c), message.WorkspaceID); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	member, err := h.memberRepo.GetByID(ctx, message.MemberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusNotFound, "Member not found", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	user, err := h.userRepo.GetByID(ctx, member.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			api.Write(c, http.StatusNotFound, "User not found", nil)
			return
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	reactions, err := h.reactionRepo.ListByMessage(ctx, message.ID)
	if err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	api.Write(c, http.StatusOK, "Message fetched", models.MessageDetail{
		Message:   message,
		Member:    member,
		User:      user,
		Reactions: groupReactions(reactions, true),
	})
}

// GetAll handles POST /api/messages/get-all: a page of messages for a
// channel, conversation or thread, enriched with author, reaction
// counts and thread summaries. Entries whose author can no longer be
// resolved are dropped from the page.
func (h *MessageHandler) GetAll(c *gin.Context) {
	var req struct {
		ChannelID       *string `json:"channelId"`
		ConversationID  *string `json:"conversationId"`
		ParentMessageID *string `json:"parentMessageId"`
		Offset          int     `json:"offset"`
		Limit           int     `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	messages, err := h.messageRepo.List(ctx, repositories.MessageFilter{
		ChannelID:       req.ChannelID,
		ConversationID:  req.ConversationID,
		ParentMessageID: req.ParentMessageID,
	}, req.Offset, req.Limit)
	if err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	enriched := make([]models.EnrichedMessage, 0, len(messages))
	for _, message := range messages {
		member, err := h.memberRepo.GetByID(ctx, message.MemberID)
		if err != nil {
			continue
		}
		user, err := h.userRepo.GetByID(ctx, member.UserID)
		if err != nil {
			continue
		}

		reactions, err := h.reactionRepo.ListByMessage(ctx, message.ID)
		if err != nil {
			api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}

		thread, err := h.threadSummary(c, message.ID)
		if err != nil {
			api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}

		enriched = append(enriched, models.EnrichedMessage{
			Message:         message,
			Member:          member,
			User:            user,
			Reactions:       groupReactions(reactions, false),
			ThreadCount:     thread.Count,
			ThreadImage:     thread.Image,
			ThreadName:      thread.Name,
			ThreadTimestamp: thread.Timestamp,
		})
	}

	api.Write(c, http.StatusOK, "Messages fetched", enriched)
}

// Update handles POST /api/messages/update-message (author only).
func (h *MessageHandler) Update(c *gin.Context) {
	var req struct {
		ID   string `json:"id" binding:"required"`
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	message, ok := h.requireAuthor(c, req.ID)
	if !ok {
		return
	}

	if err := h.messageRepo.UpdateBody(c.Request.Context(), message.ID, req.Body); err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Message updated")
	api.Write(c, http.StatusOK, "Message updated", nil)
}

// Remove handles POST /api/messages/remove-message (author only).
func (h *MessageHandler) Remove(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	message, ok := h.requireAuthor(c, req.ID)
	if !ok {
		return
	}

	if err := h.messageRepo.Delete(c.Request.Context(), message.ID); err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Message removed")
	api.Write(c, http.StatusOK, "Message removed", nil)
}

// requireAuthor loads the message and checks the caller is its author.
// Writes the error response and returns false otherwise.
func (h *MessageHandler) requireAuthor(c *gin.Context, messageID string) (models.Message, bool) {
	ctx := c.Request.Context()
	message, err := h.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			api.Write(c, http.StatusNotFound, "Message not found", nil)
			return models.Message{}, false
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return models.Message{}, false
	}

	member, err := h.memberRepo.FindByUserAndWorkspace(ctx, currentUserID(c), message.WorkspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
			return models.Message{}, false
		}
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return models.Message{}, false
	}
	if member.ID != message.MemberID {
		emitAudit(h.audit, c, "ERROR", "not allowed")
		api.Write(c, http.StatusUnauthorized, "Unauthorized access", nil)
		return models.Message{}, false
	}
	return message, true
}

// threadSummary aggregates the replies under a message. The "last"
// reply is the final element of the scan, and lookups for its author
// fall back to empty fields rather than failing the page.
func (h *MessageHandler) threadSummary(c *gin.Context, messageID string) (models.ThreadSummary, error) {
	ctx := c.Request.Context()
	replies, err := h.messageRepo.ListThreadReplies(ctx, messageID)
	if err != nil {
		return models.ThreadSummary{}, err
	}
	if len(replies) == 0 {
		return models.ThreadSummary{}, nil
	}

	summary := models.ThreadSummary{Count: len(replies)}
	last := replies[len(replies)-1]
	summary.Timestamp = last.CreatedAt.UnixMilli()

	member, err := h.memberRepo.GetByID(ctx, last.MemberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return summary, nil
		}
		return models.ThreadSummary{}, err
	}
	user, err := h.userRepo.GetByID(ctx, member.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return summary, nil
		}
		return models.ThreadSummary{}, err
	}

	summary.Name = user.Name
	if user.Image != nil {
		summary.Image = *user.Image
	}
	return summary, nil
}

// groupReactions folds reaction rows into per-value groups, preserving
// first-seen value order. Member ids are deduplicated and only included
// when includeMembers is set.
func groupReactions(reactions []models.Reaction, includeMembers bool) []models.ReactionGroup {
	groups := make([]models.ReactionGroup, 0, len(reactions))
	index := make(map[string]int, len(reactions))
	seen := make(map[string]struct{}, len(reactions))

	for _, reaction := range reactions {
		i, ok := index[reaction.Value]
		if !ok {
			i = len(groups)
			index[reaction.Value] = i
			groups = append(groups, models.ReactionGroup{Value: reaction.Value})
		}
		groups[i].Count++

		if !includeMembers {
			continue
		}
		key := reaction.Value + "\x00" + reaction.MemberID
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		groups[i].MemberIDs = append(groups[i].MemberIDs, reaction.MemberID)
	}
	return groups
}
