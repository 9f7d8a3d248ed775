package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"echo-service/internal/mocks"
	"echo-service/internal/models"
	"echo-service/internal/repositories"
)

func setupMessageRouter(handler *MessageHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Next()
	})
	r.POST("/api/messages/create-message", handler.Create)
	r.POST("/api/messages/get-by-id", handler.GetByID)
	r.POST("/api/messages/get-all", handler.GetAll)
	r.POST("/api/messages/update-message", handler.Update)
	r.POST("/api/messages/remove-message", handler.Remove)
	return r
}

func TestCreateMessageInChannel(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewMessageHandler(messageRepo, memberRepo, new(mocks.UserRepositoryMock), new(mocks.ReactionRepositoryMock), nil)
	router := setupMessageRouter(handler)

	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{ID: "m-1"}, nil).Once()
	messageRepo.On("Create", mock.Anything, mock.MatchedBy(func(p repositories.CreateMessageParams) bool {
		return p.MemberID == "m-1" && p.Body == "hello" && p.ChannelID != nil && *p.ChannelID == "ch-1" && p.ConversationID == nil
	})).Return(models.Message{ID: "msg-1"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/messages/create-message", bytes.NewBufferString(`{"body":"hello","workspaceId":"ws-1","channelId":"ch-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Message created", resp["message"])
	assert.Equal(t, "msg-1", resp["data"])
	messageRepo.AssertExpectations(t)
}

func TestCreateThreadReplyInheritsConversation(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewMessageHandler(messageRepo, memberRepo, new(mocks.UserRepositoryMock), new(mocks.ReactionRepositoryMock), nil)
	router := setupMessageRouter(handler)

	convID := "conv-1"
	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{ID: "m-1"}, nil).Once()
	messageRepo.On("GetByID", mock.Anything, "msg-parent").Return(models.Message{ID: "msg-parent", ConversationID: &convID}, nil).Once()
	messageRepo.On("Create", mock.Anything, mock.MatchedBy(func(p repositories.CreateMessageParams) bool {
		return p.ConversationID != nil && *p.ConversationID == "conv-1" && p.ParentMessageID != nil && *p.ParentMessageID == "msg-parent"
	})).Return(models.Message{ID: "msg-2"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/messages/create-message", bytes.NewBufferString(`{"body":"reply","workspaceId":"ws-1","parentMessageId":"msg-parent"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestCreateThreadReplyParentMissing(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewMessageHandler(messageRepo, memberRepo, new(mocks.UserRepositoryMock), new(mocks.ReactionRepositoryMock), nil)
	router := setupMessageRouter(handler)

	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{ID: "m-1"}, nil).Once()
	messageRepo.On("GetByID", mock.Anything, "msg-x").Return(models.Message{}, repositories.ErrMessageNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/messages/create-message", bytes.NewBufferString(`{"body":"reply","workspaceId":"ws-1","parentMessageId":"msg-x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Parent message not found", resp["message"])
}

func TestCreateMessageNonMember(t *testing.T) {
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewMessageHandler(new(mocks.MessageRepositoryMock), memberRepo, new(mocks.UserRepositoryMock), new(mocks.ReactionRepositoryMock), nil)
	router := setupMessageRouter(handler)

	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{}, repositories.ErrMemberNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/messages/create-message", bytes.NewBufferString(`{"body":"hello","workspaceId":"ws-1","channelId":"ch-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetMessageByIDIncludesMemberIDs(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	reactionRepo := new(mocks.ReactionRepositoryMock)
	handler := NewMessageHandler(messageRepo, memberRepo, userRepo, reactionRepo, nil)
	router := setupMessageRouter(handler)

	messageRepo.On("GetByID", mock.Anything, "msg-1").Return(models.Message{ID: "msg-1", MemberID: "m-1", WorkspaceID: "ws-1"}, nil).Once()
	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{ID: "m-9"}, nil).Once()
	memberRepo.On("GetByID", mock.Anything, "m-1").Return(models.Member{ID: "m-1", UserID: "user-2"}, nil).Once()
	userRepo.On("GetByID", mock.Anything, "user-2").Return(models.User{ID: "user-2", Name: "bob"}, nil).Once()
	reactionRepo.On("ListByMessage", mock.Anything, "msg-1").Return([]models.Reaction{
		{ID: "r-1", Value: "👍", MemberID: "m-1"},
		{ID: "r-2", Value: "👍", MemberID: "m-9"},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/messages/get-by-id", bytes.NewBufferString(`{"id":"msg-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data models.MessageDetail `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data.Reactions, 1)
	assert.Equal(t, 2, resp.Data.Reactions[0].Count)
	assert.Equal(t, []string{"m-1", "m-9"}, resp.Data.Reactions[0].MemberIDs)
}

func TestGetAllMessagesEnriches(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	reactionRepo := new(mocks.ReactionRepositoryMock)
	handler := NewMessageHandler(messageRepo, memberRepo, userRepo, reactionRepo, nil)
	router := setupMessageRouter(handler)

	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	messageRepo.On("List", mock.Anything, mock.MatchedBy(func(f repositories.MessageFilter) bool {
		return f.ChannelID != nil && *f.ChannelID == "ch-1"
	}), 0, 0).Return([]models.Message{{ID: "msg-1", MemberID: "m-1", WorkspaceID: "ws-1", CreatedAt: created}}, nil).Once()
	memberRepo.On("GetByID", mock.Anything, "m-1").Return(models.Member{ID: "m-1", UserID: "user-2"}, nil).Once()
	userRepo.On("GetByID", mock.Anything, "user-2").Return(models.User{ID: "user-2", Name: "bob"}, nil).Once()
	reactionRepo.On("ListByMessage", mock.Anything, "msg-1").Return([]models.Reaction{
		{ID: "r-1", Value: "👍", MemberID: "m-1"},
	}, nil).Once()
	messageRepo.On("ListThreadReplies", mock.Anything, "msg-1").Return([]models.Message(nil), nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/messages/get-all", bytes.NewBufferString(`{"channelId":"ch-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []models.EnrichedMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "bob", resp.Data[0].User.Name)
	assert.Equal(t, 0, resp.Data[0].ThreadCount)
	require.Len(t, resp.Data[0].Reactions, 1)
	assert.Equal(t, 1, resp.Data[0].Reactions[0].Count)
	assert.Empty(t, resp.Data[0].Reactions[0].MemberIDs)
}

func TestGetAllMessagesDropsOrphans(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewMessageHandler(messageRepo, memberRepo, new(mocks.UserRepositoryMock), new(mocks.ReactionRepositoryMock), nil)
	router := setupMessageRouter(handler)

	messageRepo.On("List", mock.Anything, mock.Anything, 0, 0).Return([]models.Message{{ID: "msg-1", MemberID: "m-gone", WorkspaceID: "ws-1"}}, nil).Once()
	memberRepo.On("GetByID", mock.Anything, "m-gone").Return(models.Member{}, repositories.ErrMemberNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/messages/get-all", bytes.NewBufferString(`{"channelId":"ch-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []models.EnrichedMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Data)
}

func TestGetAllMessagesThreadSummary(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	reactionRepo := new(mocks.ReactionRepositoryMock)
	handler := NewMessageHandler(messageRepo, memberRepo, userRepo, reactionRepo, nil)
	router := setupMessageRouter(handler)

	lastReplyAt := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	image := "https://cdn.example.com/bob.png"
	messageRepo.On("List", mock.Anything, mock.Anything, 0, 0).Return([]models.Message{{ID: "msg-1", MemberID: "m-1", WorkspaceID: "ws-1"}}, nil).Once()
	memberRepo.On("GetByID", mock.Anything, "m-1").Return(models.Member{ID: "m-1", UserID: "user-2"}, nil).Once()
	userRepo.On("GetByID", mock.Anything, "user-2").Return(models.User{ID: "user-2", Name: "bob"}, nil).Once()
	reactionRepo.On("ListByMessage", mock.Anything, "msg-1").Return([]models.Reaction(nil), nil).Once()
	messageRepo.On("ListThreadReplies", mock.Anything, "msg-1").Return([]models.Message{
		{ID: "msg-2", MemberID: "m-2", CreatedAt: lastReplyAt.Add(-time.Hour)},
		{ID: "msg-3", MemberID: "m-3", CreatedAt: lastReplyAt},
	}, nil).Once()
	memberRepo.On("GetByID", mock.Anything, "m-3").Return(models.Member{ID: "m-3", UserID: "user-3"}, nil).Once()
	userRepo.On("GetByID", mock.Anything, "user-3").Return(models.User{ID: "user-3", Name: "carol", Image: &image}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/messages/get-all", bytes.NewBufferString(`{"channelId":"ch-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []models.EnrichedMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Data[0].ThreadCount)
	assert.Equal(t, "carol", resp.Data[0].ThreadName)
	assert.Equal(t, image, resp.Data[0].ThreadImage)
	assert.Equal(t, lastReplyAt.UnixMilli(), resp.Data[0].ThreadTimestamp)
}

func TestUpdateMessageAuthorOnly(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewMessageHandler(messageRepo, memberRepo, new(mocks.UserRepositoryMock), new(mocks.ReactionRepositoryMock), nil)
	router := setupMessageRouter(handler)

	messageRepo.On("GetByID", mock.Anything, "msg-1").Return(models.Message{ID: "msg-1", MemberID: "m-2", WorkspaceID: "ws-1"}, nil).Once()
	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{ID: "m-1"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/messages/update-message", bytes.NewBufferString(`{"id":"msg-1","body":"edited"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	messageRepo.AssertNotCalled(t, "UpdateBody", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMessageSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewMessageHandler(messageRepo, memberRepo, new(mocks.UserRepositoryMock), new(mocks.ReactionRepositoryMock), nil)
	router := setupMessageRouter(handler)

	messageRepo.On("GetByID", mock.Anything, "msg-1").Return(models.Message{ID: "msg-1", MemberID: "m-1", WorkspaceID: "ws-1"}, nil).Once()
	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{ID: "m-1"}, nil).Once()
	messageRepo.On("UpdateBody", mock.Anything, "msg-1", "edited").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/messages/update-message", bytes.NewBufferString(`{"id":"msg-1","body":"edited"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestRemoveMessageSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewMessageHandler(messageRepo, memberRepo, new(mocks.UserRepositoryMock), new(mocks.ReactionRepositoryMock), nil)
	router := setupMessageRouter(handler)

	messageRepo.On("GetByID", mock.Anything, "msg-1").Return(models.Message{ID: "msg-1", MemberID: "m-1", WorkspaceID: "ws-1"}, nil).Once()
	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{ID: "m-1"}, nil).Once()
	messageRepo.On("Delete", mock.Anything, "msg-1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/messages/remove-message", bytes.NewBufferString(`{"id":"msg-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestRemoveMessageNotFound(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo, new(mocks.MemberRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.ReactionRepositoryMock), nil)
	router := setupMessageRouter(handler)

	messageRepo.On("GetByID", mock.Anything, "msg-x").Return(models.Message{}, repositories.ErrMessageNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/messages/remove-message", bytes.NewBufferString(`{"id":"msg-x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
