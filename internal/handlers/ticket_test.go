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
)

func setupTicketRouter(handler *TicketHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Next()
	})
	r.POST("/api/tickets/submit-ticket", handler.Submit)
	r.POST("/api/tickets/get-tickets", handler.GetTickets)
	return r
}

func TestSubmitTicketSuccess(t *testing.T) {
	ticketRepo := new(mocks.TicketRepositoryMock)
	handler := NewTicketHandler(ticketRepo, nil)
	router := setupTicketRouter(handler)

	ticketRepo.On("Create", mock.Anything, "user-1", "billing", "Invoice issue", "Wrong amount charged", "high").
		Return(models.Ticket{ID: "t-1", Status: "Open"}, nil).Once()

	body := `{"category":"billing","subject":"Invoice issue","message":"Wrong amount charged","priority":"high"}`
	req := httptest.NewRequest(http.MethodPost, "/api/tickets/submit-ticket", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Ticket submitted successfully.", resp["message"])
	ticketRepo.AssertExpectations(t)
}

func TestSubmitTicketMissingFields(t *testing.T) {
	ticketRepo := new(mocks.TicketRepositoryMock)
	handler := NewTicketHandler(ticketRepo, nil)
	router := setupTicketRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/tickets/submit-ticket", bytes.NewBufferString(`{"category":"billing"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	ticketRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetTickets(t *testing.T) {
	ticketRepo := new(mocks.TicketRepositoryMock)
	handler := NewTicketHandler(ticketRepo, nil)
	router := setupTicketRouter(handler)

	ticketRepo.On("ListByUser", mock.Anything, "user-1").Return([]models.Ticket{{ID: "t-1"}, {ID: "t-2"}}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/tickets/get-tickets", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	ticketRepo.AssertExpectations(t)
}
