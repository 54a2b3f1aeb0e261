package ports

import (
	"context"

	"github.com/reimburse/expense-system/internal/core/domain"
)

// NotificationRepository is the append-only notification log. The workflow
// engine only writes to it; reads exist for audit tooling and tests.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	FindByExpenseID(ctx context.Context, expenseID int64) ([]*domain.Notification, error)
}
