package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type submitExpenseRequest struct {
	SubmitterEmail string          `json:"submitter_email" validate:"required,email"`
	Amount         decimal.Decimal `json:"amount"          validate:"required"`
	ExpenseDate    string          `json:"expense_date"    validate:"required,datetime=2006-01-02"`
	Category       string          `json:"category"        validate:"required,oneof=Travel Meals Supplies Equipment Other"`
	Description    string          `json:"description"     validate:"required,min=1,max=500"`
	ApproverEmail  string          `json:"approver_email"  validate:"required,email"`
}

type decideExpenseRequest struct {
	Decision        string `json:"decision"                   validate:"required,oneof=Approved Rejected"`
	RejectionReason string `json:"rejection_reason,omitempty" validate:"max=500"`
}

// --- Response types ---
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type expenseLinks struct {
	Self string `json:"self"`
}

type expenseResponse struct {
	ID             int64           `json:"id"`
	SubmitterEmail string          `json:"submitter_email"`
	Amount         decimal.Decimal `json:"amount"`
	ExpenseDate    string          `json:"expense_date"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	Status         string          `json:"status"`
	ApproverEmail  string          `json:"approver_email"`
	SubmittedAt    time.Time       `json:"submitted_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
	Links          expenseLinks    `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listExpensesResponse struct {
	Data       []expenseResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
