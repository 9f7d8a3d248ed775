package models

import "time"

// Ticket is a support request submitted from the settings page.
type Ticket struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Category  string    `db:"category" json:"category"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	Priority  string    `db:"priority" json:"priority"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
