package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reimburse/expense-system/internal/core/domain"
)

// SubmitExpenseInput carries all data needed to submit a new expense.
type SubmitExpenseInput struct {
	SubmitterEmail string
	Amount         decimal.Decimal
	ExpenseDate    time.Time
	Category       string
	Description    string
	ApproverEmail  string
	// IdempotencyKey, when non-empty, makes resubmission with the same key
	// return the previously created expense without side effects.
	IdempotencyKey string
}

// DecideExpenseInput carries a decision taken by the designated approver.
type DecideExpenseInput struct {
	ExpenseID       int64
	ActorEmail      string
	Decision        string // "Approved" or "Rejected"
	RejectionReason string // required when Decision is "Rejected"
}

// GetExpenseInput carries the parameters for retrieving a single expense.
// Role and ActorEmail enforce read authorization: employees only see
// expenses they submitted or are designated to approve.
type GetExpenseInput struct {
	ExpenseID  int64
	ActorEmail string
	Role       string
}

// ExpenseResult is the full expense view returned by the workflow operations.
type ExpenseResult struct {
	ID             int64
	SubmitterEmail string
	Amount         decimal.Decimal
	ExpenseDate    time.Time
	Category       string
	Description    string
	Status         string
	ApproverEmail  string
	SubmittedAt    time.Time
	UpdatedAt      *time.Time
	// AlreadyExisted is true when the Idempotency-Key matched an existing expense.
	AlreadyExisted bool
}

// ListExpensesInput carries all parameters for the list endpoint.
type ListExpensesInput struct {
	ActorEmail     string
	Role           string
	Status         string
	Category       string
	SubmitterEmail string
	DateFrom       time.Time
	DateTo         time.Time
	Page           int
	Limit          int
}

// ListExpensesResult is returned by ListExpenses.
type ListExpensesResult struct {
	Items      []ExpenseResult
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// WorkflowService defines the expense workflow use cases: it is the only
// component allowed to move an expense between states.
type WorkflowService interface {
	SubmitExpense(ctx context.Context, input SubmitExpenseInput) (*ExpenseResult, error)
	DecideExpense(ctx context.Context, input DecideExpenseInput) (*ExpenseResult, error)
	GetExpense(ctx context.Context, input GetExpenseInput) (*ExpenseResult, error)
	ListExpenses(ctx context.Context, input ListExpensesInput) (*ListExpensesResult, error)
}

// NewExpenseResult maps a domain expense to the service result view.
func NewExpenseResult(e *domain.Expense) *ExpenseResult {
	return &ExpenseResult{
		ID:             e.ID,
		SubmitterEmail: e.SubmitterEmail,
		Amount:         e.Amount,
		ExpenseDate:    e.ExpenseDate,
		Category:       string(e.Category),
		Description:    e.Description,
		Status:         string(e.Status),
		ApproverEmail:  e.ApproverEmail,
		SubmittedAt:    e.SubmittedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
