package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus represents the lifecycle state of an expense.
type ExpenseStatus string

const (
	StatusSubmitted ExpenseStatus = "Submitted"
	StatusApproved  ExpenseStatus = "Approved"
	StatusRejected  ExpenseStatus = "Rejected"
)

// validTransitions defines the allowed state machine transitions.
// Approved and Rejected are terminal.
var validTransitions = map[ExpenseStatus][]ExpenseStatus{
	StatusSubmitted: {StatusApproved, StatusRejected},
}

var ErrExpenseNotFound = errors.New("expense not found")
var ErrAlreadyDecided = errors.New("expense already decided")
var ErrNotApprover = errors.New("only the designated approver may decide")
var ErrInvalidExpense = errors.New("invalid expense")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ExpenseStatus) CanTransitionTo(next ExpenseStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s ExpenseStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Category is the closed set of expense categories.
type Category string

const (
	CategoryTravel    Category = "Travel"
	CategoryMeals     Category = "Meals"
	CategorySupplies  Category = "Supplies"
	CategoryEquipment Category = "Equipment"
	CategoryOther     Category = "Other"
)

// Categories lists every valid category.
var Categories = []Category{CategoryTravel, CategoryMeals, CategorySupplies, CategoryEquipment, CategoryOther}

// ValidCategory reports whether c belongs to the closed category set.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DescriptionMaxLen bounds the expense description (1–500 characters).
const DescriptionMaxLen = 500

// Expense is the core aggregate root. Approval and Notification rows exist
// only as side effects of a workflow transition on their expense.
type Expense struct {
	ID             int64           `json:"id"`
	SubmitterEmail string          `json:"submitter_email"`
	Amount         decimal.Decimal `json:"amount"`
	ExpenseDate    time.Time       `json:"expense_date"`
	Category       Category        `json:"category"`
	Description    string          `json:"description"`
	Status         ExpenseStatus   `json:"status"`
	ApproverEmail  string          `json:"approver_email"`
	SubmittedAt    time.Time       `json:"submitted_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}
