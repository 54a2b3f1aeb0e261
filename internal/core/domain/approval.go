package domain

import "time"

// DecisionAction is the action recorded by an approval row.
type DecisionAction string

const (
	ActionApproved DecisionAction = "Approved"
	ActionRejected DecisionAction = "Rejected"
)

// Approval is an append-only record of a decision taken on an expense.
// RejectionReason is set only when Action is Rejected.
type Approval struct {
	ID              int64          `json:"id"`
	ExpenseID       int64          `json:"expense_id"`
	ApproverEmail   string         `json:"approver_email"`
	Action          DecisionAction `json:"action"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}
