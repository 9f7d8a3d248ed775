package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"echo-service/internal/mocks"
	"echo-service/internal/models"
	"echo-service/internal/repositories"
)

func setupWorkspaceRouter(handler *WorkspaceHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Next()
	})
	r.POST("/api/workspaces/create-workspace", handler.Create)
	r.POST("/api/workspaces/join", handler.Join)
	r.PATCH("/api/workspaces/update-workspace", handler.Update)
	r.DELETE("/api/workspaces/remove-workspace", handler.Remove)
	r.POST("/api/workspaces/new-join-code", handler.NewJoinCode)
	r.POST("/api/workspaces/get-info-id", handler.GetInfo)
	r.POST("/api/workspaces/get-by-id", handler.GetByID)
	r.POST("/api/workspaces/get-all", handler.GetAll)
	return r
}

func TestCreateWorkspaceSuccess(t *testing.T) {
	workspaceRepo := new(mocks.WorkspaceRepositoryMock)
	handler := NewWorkspaceHandler(workspaceRepo, new(mocks.MemberRepositoryMock), nil)
	router := setupWorkspaceRouter(handler)

	workspaceRepo.On("Create", mock.Anything, "acme", mock.MatchedBy(func(code string) bool {
		return len(code) == 6
	}), "user-1").Return(models.Workspace{ID: "ws-1", Name: "acme"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/create-workspace", bytes.NewBufferString(`{"name":"acme"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Created workspace", resp["message"])
	assert.Equal(t, "ws-1", resp["data"])
	workspaceRepo.AssertExpectations(t)
}

func TestJoinWorkspaceWrongCode(t *testing.T) {
	workspaceRepo := new(mocks.WorkspaceRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewWorkspaceHandler(workspaceRepo, memberRepo, nil)
	router := setupWorkspaceRouter(handler)

	workspaceRepo.On("GetByID", mock.Anything, "ws-1").Return(models.Workspace{ID: "ws-1", JoinCode: "abc123"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/join", bytes.NewBufferString(`{"workspaceId":"ws-1","joinCode":"zzz999"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Invalid join code", resp["message"])
	workspaceRepo.AssertExpectations(t)
}

func TestJoinWorkspaceCodeCaseInsensitive(t *testing.T) {
	workspaceRepo := new(mocks.WorkspaceRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewWorkspaceHandler(workspaceRepo, memberRepo, nil)
	router := setupWorkspaceRouter(handler)

	workspaceRepo.On("GetByID", mock.Anything, "ws-1").Return(models.Workspace{ID: "ws-1", JoinCode: "abc123"}, nil).Once()
	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{}, repositories.ErrMemberNotFound).Once()
	memberRepo.On("Create", mock.Anything, "user-1", "ws-1", models.RoleMember).Return(models.Member{ID: "m-2"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/join", bytes.NewBufferString(`{"workspaceId":"ws-1","joinCode":"ABC123"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	workspaceRepo.AssertExpectations(t)
	memberRepo.AssertExpectations(t)
}

func TestJoinWorkspaceAlreadyMember(t *testing.T) {
	workspaceRepo := new(mocks.WorkspaceRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewWorkspaceHandler(workspaceRepo, memberRepo, nil)
	router := setupWorkspaceRouter(handler)

	workspaceRepo.On("GetByID", mock.Anything, "ws-1").Return(models.Workspace{ID: "ws-1", JoinCode: "abc123"}, nil).Once()
	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{ID: "m-1"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/join", bytes.NewBufferString(`{"workspaceId":"ws-1","joinCode":"abc123"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Already a member of this workspace", resp["message"])
}

func TestJoinWorkspaceNotFound(t *testing.T) {
	workspaceRepo := new(mocks.WorkspaceRepositoryMock)
	handler := NewWorkspaceHandler(workspaceRepo, new(mocks.MemberRepositoryMock), nil)
	router := setupWorkspaceRouter(handler)

	workspaceRepo.On("GetByID", mock.Anything, "ws-x").Return(models.Workspace{}, repositories.ErrWorkspaceNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/join", bytes.NewBufferString(`{"workspaceId":"ws-x","joinCode":"abc123"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateWorkspaceRequiresAdmin(t *testing.T) {
	workspaceRepo := new(mocks.WorkspaceRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewWorkspaceHandler(workspaceRepo, memberRepo, nil)
	router := setupWorkspaceRouter(handler)

	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{ID: "m-1", Role: models.RoleMember}, nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/api/workspaces/update-workspace", bytes.NewBufferString(`{"workspaceId":"ws-1","name":"renamed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	workspaceRepo.AssertNotCalled(t, "UpdateName", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateWorkspaceSuccess(t *testing.T) {
	workspaceRepo := new(mocks.WorkspaceRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewWorkspaceHandler(workspaceRepo, memberRepo, nil)
	router := setupWorkspaceRouter(handler)

	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{ID: "m-1", Role: models.RoleAdmin}, nil).Once()
	workspaceRepo.On("UpdateName", mock.Anything, "ws-1", "renamed").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/api/workspaces/update-workspace", bytes.NewBufferString(`{"workspaceId":"ws-1","name":"renamed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	workspaceRepo.AssertExpectations(t)
}

func TestGetWorkspaceInfoNonMember(t *testing.T) {
	workspaceRepo := new(mocks.WorkspaceRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewWorkspaceHandler(workspaceRepo, memberRepo, nil)
	router := setupWorkspaceRouter(handler)

	workspaceRepo.On("GetByID", mock.Anything, "ws-1").Return(models.Workspace{ID: "ws-1", Name: "acme", JoinCode: "abc123"}, nil).Once()
	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{}, repositories.ErrMemberNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/get-info-id", bytes.NewBufferString(`{"workspaceId":"ws-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data models.WorkspaceInfo `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "acme", resp.Data.Name)
	assert.False(t, resp.Data.IsMember)
	assert.Nil(t, resp.Data.Role)
}

func TestGetWorkspaceByIDNonMember(t *testing.T) {
	memberRepo := new(mocks.MemberRepositoryMock)
	handler := NewWorkspaceHandler(new(mocks.WorkspaceRepositoryMock), memberRepo, nil)
	router := setupWorkspaceRouter(handler)

	memberRepo.On("FindByUserAndWorkspace", mock.Anything, "user-1", "ws-1").Return(models.Member{}, repositories.ErrMemberNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/get-by-id", bytes.NewBufferString(`{"workspaceId":"ws-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetAllWorkspaces(t *testing.T) {
	workspaceRepo := new(mocks.WorkspaceRepositoryMock)
	handler := NewWorkspaceHandler(workspaceRepo, new(mocks.MemberRepositoryMock), nil)
	router := setupWorkspaceRouter(handler)

	workspaceRepo.On("ListForUser", mock.Anything, "user-1").Return([]models.Workspace{{ID: "ws-1"}, {ID: "ws-2"}}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/get-all", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	workspaceRepo.AssertExpectations(t)
}

func TestGenerateJoinCodeShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := generateJoinCode()
		require.Len(t, code, 6)
		for _, ch := range code {
			assert.Contains(t, joinCodeAlphabet, string(ch))
		}
	}
}
