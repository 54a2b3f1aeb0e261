package ports

import (
	"context"
	"time"

	"github.com/reimburse/expense-system/internal/core/domain"
)

// ListExpensesFilter carries all query parameters for listing expenses.
// ActorEmail is enforced by the service layer (RBAC).
type ListExpensesFilter struct {
	ActorEmail     string    // empty = no scoping (admin); non-empty = submitter or approver match
	Status         string    // optional: filter by expense status
	Category       string    // optional: filter by category
	SubmitterEmail string    // optional: filter by submitter
	DateFrom       time.Time // optional: submitted_at >= DateFrom
	DateTo         time.Time // optional: submitted_at <= DateTo
	Page           int       // 1-based
	Limit          int       // max rows per page (capped at 100 by service)
}

// ExpenseRepository defines persistence operations for expenses.
type ExpenseRepository interface {
	// Insert persists a new expense, assigning its monotonic id.
	Insert(ctx context.Context, e *domain.Expense) error
	FindByID(ctx context.Context, id int64) (*domain.Expense, error)
	// UpdateStatusFromSubmitted sets the expense status and updated_at only if
	// the row is still Submitted. Returns domain.ErrAlreadyDecided when the
	// row exists but has left the Submitted state (lost-update guard), or
	// domain.ErrExpenseNotFound when it does not exist.
	UpdateStatusFromSubmitted(ctx context.Context, id int64, status domain.ExpenseStatus, updatedAt time.Time) error
	// List returns a page of expenses matching filter and the total count.
	List(ctx context.Context, filter ListExpensesFilter) ([]*domain.Expense, int64, error)
}
