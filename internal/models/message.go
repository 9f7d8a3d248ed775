package models

import "time"

// Message is a chat message. Exactly one of ChannelID/ConversationID is
// the addressing target, except thread replies which may carry neither
// and inherit the conversation from the parent.
type Message struct {
	ID              string    `db:"id" json:"id"`
	MemberID        string    `db:"member_id" json:"memberId"`
	Body            string    `db:"body" json:"body"`
	Image           *string   `db:"image" json:"image,omitempty"`
	WorkspaceID     string    `db:"workspace_id" json:"workspaceId"`
	ChannelID       *string   `db:"channel_id" json:"channelId,omitempty"`
	ConversationID  *string   `db:"conversation_id" json:"conversationId,omitempty"`
	ParentMessageID *string   `db:"parent_message_id" json:"parentMessageId,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// ReactionGroup is the aggregated view of one reaction value on a
// message. MemberIDs is deduplicated; it is omitted on the list API.
type ReactionGroup struct {
	Value     string   `json:"value"`
	Count     int      `json:"count"`
	MemberIDs []string `json:"memberIds,omitempty"`
}

// ThreadSummary describes the replies under a parent message. Timestamp
// is epoch milliseconds of the last reply in scan order.
type ThreadSummary struct {
	Count     int    `json:"count"`
	Image     string `json:"image"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
}

// EnrichedMessage is a list entry joined with its author and the
// reaction/thread aggregates.
type EnrichedMessage struct {
	Message
	Member          Member          `json:"member"`
	User            User            `json:"user"`
	Reactions       []ReactionGroup `json:"reactions"`
	ThreadCount     int             `json:"threadCount"`
	ThreadImage     string          `json:"threadImage"`
	ThreadName      string          `json:"threadName"`
	ThreadTimestamp int64           `json:"threadTimestamp"`
}

// MessageDetail is the get-by-id payload.
type MessageDetail struct {
	Message   Message         `json:"message"`
	Member    Member          `json:"member"`
	User      User            `json:"user"`
	Reactions []ReactionGroup `json:"reactions"`
}
