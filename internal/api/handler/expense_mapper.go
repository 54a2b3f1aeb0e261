package handler

import (
	"fmt"
	"time"

	"github.com/reimburse/expense-system/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

func toSubmitInput(req submitExpenseRequest, idempotencyKey string) (ports.SubmitExpenseInput, error) {
	expenseDate, err := time.Parse(dateLayout, req.ExpenseDate)
	if err != nil {
		return ports.SubmitExpenseInput{}, fmt.Errorf("expense_date must be a %s date: %w", dateLayout, err)
	}
	return ports.SubmitExpenseInput{
		SubmitterEmail: req.SubmitterEmail,
		Amount:         req.Amount,
		ExpenseDate:    expenseDate,
		Category:       req.Category,
		Description:    req.Description,
		ApproverEmail:  req.ApproverEmail,
		IdempotencyKey: idempotencyKey,
	}, nil
}

// --- Service result → HTTP response ---

func toExpenseResponse(r *ports.ExpenseResult) expenseResponse {
	return expenseResponse{
		ID:             r.ID,
		SubmitterEmail: r.SubmitterEmail,
		Amount:         r.Amount,
		ExpenseDate:    r.ExpenseDate.Format(dateLayout),
		Category:       r.Category,
		Description:    r.Description,
		Status:         r.Status,
		ApproverEmail:  r.ApproverEmail,
		SubmittedAt:    r.SubmittedAt.UTC(),
		UpdatedAt:      r.UpdatedAt,
		Links: expenseLinks{
			Self: fmt.Sprintf("/v1/expenses/%d", r.ID),
		},
	}
}

func toListResponse(r *ports.ListExpensesResult) listExpensesResponse {
	items := make([]expenseResponse, len(r.Items))
	for i := range r.Items {
		items[i] = toExpenseResponse(&r.Items[i])
	}
	return listExpensesResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
