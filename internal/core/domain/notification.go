package domain

import "time"

// NotificationEvent identifies the workflow event a notification records.
type NotificationEvent string

const (
	EventExpenseSubmitted NotificationEvent = "expense_submitted"
	EventExpenseApproved  NotificationEvent = "expense_approved"
	EventExpenseRejected  NotificationEvent = "expense_rejected"
)

// Notification is an append-only audit record of a workflow event. It is
// written inside the same transaction as the state change it describes and
// never read back by the workflow engine.
type Notification struct {
	ID        int64             `json:"id"`
	ExpenseID int64             `json:"expense_id"`
	EventType NotificationEvent `json:"event_type"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
}
