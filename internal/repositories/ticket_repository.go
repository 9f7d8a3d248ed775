package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"echo-service/internal/models"
)

// TicketRepository abstracts support-ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, userID, category, subject, message, priority string) (models.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]models.Ticket, error)
}

// TicketRepo is a sqlx implementation of TicketRepository.
type TicketRepo struct {
	db *sqlx.DB
}

// NewTicketRepo constructs a TicketRepo.
func NewTicketRepo(db *sqlx.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

// Create stores a ticket with status "Open".
func (r *TicketRepo) Create(ctx context.Context, userID, category, subject, message, priority string) (models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.QueryRowxContext(ctx, `INSERT INTO tickets (id, user_id, category, subject, message, priority, status) VALUES ($1, $2, $3, $4, $5, $6, 'Open')
        RETURNING id, user_id, category, subject, message, priority, status, created_at`,
		uuid.NewString(), userID, category, subject, message, priority).
		StructScan(&ticket)
	return ticket, err
}

// ListByUser returns the user's tickets, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.SelectContext(ctx, &tickets, `SELECT id, user_id, category, subject, message, priority, status, created_at FROM tickets WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	return tickets, err
}
