package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"echo-service/internal/api"
	"echo-service/internal/repositories"
	"echo-service/internal/telemetry"
)

// TicketHandler manages support tickets.
type TicketHandler struct {
	ticketRepo repositories.TicketRepository
	audit      *telemetry.AuditEmitter
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(ticketRepo repositories.TicketRepository, audit *telemetry.AuditEmitter) *TicketHandler {
	return &TicketHandler{ticketRepo: ticketRepo, audit: audit}
}

// Submit handles POST /api/tickets/submit.
func (h *TicketHandler) Submit(c *gin.Context) {
	var req struct {
		Category string `json:"category" binding:"required"`
		Subject  string `json:"subject" binding:"required"`
		Message  string `json:"message" binding:"required"`
		Priority string `json:"priority" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Write(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ticket, err := h.ticketRepo.Create(c.Request.Context(), currentUserID(c), req.Category, req.Subject, req.Message, req.Priority)
	if err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	emitAudit(h.audit, c, "INFO", "Ticket submitted")
	api.Write(c, http.StatusOK, "Ticket submitted successfully.", ticket.ID)
}

// GetTickets handles POST /api/tickets/get-tickets, listing the
// caller's tickets newest first.
func (h *TicketHandler) GetTickets(c *gin.Context) {
	tickets, err := h.ticketRepo.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	api.Write(c, http.StatusOK, "Tickets fetched", tickets)
}
