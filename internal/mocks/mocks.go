package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"echo-service/internal/models"
	"echo-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	args := m.Called(ctx, ids)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) UpsertByEmail(ctx context.Context, name, email string) (models.User, error) {
	args := m.Called(ctx, name, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type SessionRepositoryMock struct {
	mock.Mock
}

func (m *SessionRepositoryMock) ResolveToken(ctx context.Context, token string) (models.User, models.Session, error) {
	args := m.Called(ctx, token)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	var session models.Session
	if val := args.Get(1); val != nil {
		session = val.(models.Session)
	}
	return user, session, args.Error(2)
}

func (m *SessionRepositoryMock) CreateSession(ctx context.Context, userID string, ttl time.Duration) (models.Session, error) {
	args := m.Called(ctx, userID, ttl)
	var session models.Session
	if val := args.Get(0); val != nil {
		session = val.(models.Session)
	}
	return session, args.Error(1)
}

type WorkspaceRepositoryMock struct {
	mock.Mock
}

func (m *WorkspaceRepositoryMock) Create(ctx context.Context, name, joinCode, userID string) (models.Workspace, error) {
	args := m.Called(ctx, name, joinCode, userID)
	var workspace models.Workspace
	if val := args.Get(0); val != nil {
		workspace = val.(models.Workspace)
	}
	return workspace, args.Error(1)
}

func (m *WorkspaceRepositoryMock) GetByID(ctx context.Context, id string) (models.Workspace, error) {
	args := m.Called(ctx, id)
	var workspace models.Workspace
	if val := args.Get(0); val != nil {
		workspace = val.(models.Workspace)
	}
	return workspace, args.Error(1)
}

func (m *WorkspaceRepositoryMock) ListForUser(ctx context.Context, userID string) ([]models.Workspace, error) {
	args := m.Called(ctx, userID)
	var workspaces []models.Workspace
	if val := args.Get(0); val != nil {
		workspaces = val.([]models.Workspace)
	}
	return workspaces, args.Error(1)
}

func (m *WorkspaceRepositoryMock) UpdateName(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *WorkspaceRepositoryMock) SetJoinCode(ctx context.Context, id, joinCode string) error {
	args := m.Called(ctx, id, joinCode)
	return args.Error(0)
}

func (m *WorkspaceRepositoryMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MemberRepositoryMock struct {
	mock.Mock
}

func (m *MemberRepositoryMock) Create(ctx context.Context, userID, workspaceID, role string) (models.Member, error) {
	args := m.Called(ctx, userID, workspaceID, role)
	var member models.Member
	if val := args.Get(0); val != nil {
		member = val.(models.Member)
	}
	return member, args.Error(1)
}

func (m *MemberRepositoryMock) FindByUserAndWorkspace(ctx context.Context, userID, workspaceID string) (models.Member, error) {
	args := m.Called(ctx, userID, workspaceID)
	var member models.Member
	if val := args.Get(0); val != nil {
		member = val.(models.Member)
	}
	return member, args.Error(1)
}

func (m *MemberRepositoryMock) GetByID(ctx context.Context, id string) (models.Member, error) {
	args := m.Called(ctx, id)
	var member models.Member
	if val := args.Get(0); val != nil {
		member = val.(models.Member)
	}
	return member, args.Error(1)
}

func (m *MemberRepositoryMock) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Member, error) {
	args := m.Called(ctx, workspaceID)
	var members []models.Member
	if val := args.Get(0); val != nil {
		members = val.([]models.Member)
	}
	return members, args.Error(1)
}

func (m *MemberRepositoryMock) UpdateRole(ctx context.Context, id, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MemberRepositoryMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ChannelRepositoryMock struct {
	mock.Mock
}

func (m *ChannelRepositoryMock) Create(ctx context.Context, name, workspaceID string) (models.Channel, error) {
	args := m.Called(ctx, name, workspaceID)
	var channel models.Channel
	if val := args.Get(0); val != nil {
		channel = val.(models.Channel)
	}
	return channel, args.Error(1)
}

func (m *ChannelRepositoryMock) GetByID(ctx context.Context, id string) (models.Channel, error) {
	args := m.Called(ctx, id)
	var channel models.Channel
	if val := args.Get(0); val != nil {
		channel = val.(models.Channel)
	}
	return channel, args.Error(1)
}

func (m *ChannelRepositoryMock) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Channel, error) {
	args := m.Called(ctx, workspaceID)
	var channels []models.Channel
	if val := args.Get(0); val != nil {
		channels = val.([]models.Channel)
	}
	return channels, args.Error(1)
}

func (m *ChannelRepositoryMock) UpdateName(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *ChannelRepositoryMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) FindByMembers(ctx context.Context, workspaceID, memberOneID, memberTwoID string) (models.Conversation, error) {
	args := m.Called(ctx, workspaceID, memberOneID, memberTwoID)
	var conversation models.Conversation
	if val := args.Get(0); val != nil {
		conversation = val.(models.Conversation)
	}
	return conversation, args.Error(1)
}

func (m *ConversationRepositoryMock) Create(ctx context.Context, workspaceID, memberOneID, memberTwoID string) (models.Conversation, error) {
	args := m.Called(ctx, workspaceID, memberOneID, memberTwoID)
	var conversation models.Conversation
	if val := args.Get(0); val != nil {
		conversation = val.(models.Conversation)
	}
	return conversation, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, params repositories.CreateMessageParams) (models.Message, error) {
	args := m.Called(ctx, params)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetByID(ctx context.Context, id string) (models.Message, error) {
	args := m.Called(ctx, id)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) List(ctx context.Context, filter repositories.MessageFilter, offset, limit int) ([]models.Message, error) {
	args := m.Called(ctx, filter, offset, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) ListThreadReplies(ctx context.Context, parentMessageID string) ([]models.Message, error) {
	args := m.Called(ctx, parentMessageID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) UpdateBody(ctx context.Context, id, body string) error {
	args := m.Called(ctx, id, body)
	return args.Error(0)
}

func (m *MessageRepositoryMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ReactionRepositoryMock struct {
	mock.Mock
}

func (m *ReactionRepositoryMock) ListByMessage(ctx context.Context, messageID string) ([]models.Reaction, error) {
	args := m.Called(ctx, messageID)
	var reactions []models.Reaction
	if val := args.Get(0); val != nil {
		reactions = val.([]models.Reaction)
	}
	return reactions, args.Error(1)
}

func (m *ReactionRepositoryMock) FindByTriple(ctx context.Context, memberID, messageID, value string) (models.Reaction, error) {
	args := m.Called(ctx, memberID, messageID, value)
	var reaction models.Reaction
	if val := args.Get(0); val != nil {
		reaction = val.(models.Reaction)
	}
	return reaction, args.Error(1)
}

func (m *ReactionRepositoryMock) Create(ctx context.Context, value, memberID, messageID, workspaceID string) (models.Reaction, error) {
	args := m.Called(ctx, value, memberID, messageID, workspaceID)
	var reaction models.Reaction
	if val := args.Get(0); val != nil {
		reaction = val.(models.Reaction)
	}
	return reaction, args.Error(1)
}

func (m *ReactionRepositoryMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type TicketRepositoryMock struct {
	mock.Mock
}

func (m *TicketRepositoryMock) Create(ctx context.Context, userID, category, subject, message, priority string) (models.Ticket, error) {
	args := m.Called(ctx, userID, category, subject, message, priority)
	var ticket models.Ticket
	if val := args.Get(0); val != nil {
		ticket = val.(models.Ticket)
	}
	return ticket, args.Error(1)
}

func (m *TicketRepositoryMock) ListByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	args := m.Called(ctx, userID)
	var tickets []models.Ticket
	if val := args.Get(0); val != nil {
		tickets = val.([]models.Ticket)
	}
	return tickets, args.Error(1)
}

var (
	_ repositories.UserRepository         = (*UserRepositoryMock)(nil)
	_ repositories.SessionRepository      = (*SessionRepositoryMock)(nil)
	_ repositories.WorkspaceRepository    = (*WorkspaceRepositoryMock)(nil)
	_ repositories.MemberRepository       = (*MemberRepositoryMock)(nil)
	_ repositories.ChannelRepository      = (*ChannelRepositoryMock)(nil)
	_ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
	_ repositories.MessageRepository      = (*MessageRepositoryMock)(nil)
	_ repositories.ReactionRepository     = (*ReactionRepositoryMock)(nil)
	_ repositories.TicketRepository       = (*TicketRepositoryMock)(nil)
)
