package ports

import (
	"context"

	"github.com/reimburse/expense-system/internal/core/domain"
)

// ApprovalRepository is the append-only approval ledger.
type ApprovalRepository interface {
	Insert(ctx context.Context, a *domain.Approval) error
	FindByExpenseID(ctx context.Context, expenseID int64) ([]*domain.Approval, error)
}
