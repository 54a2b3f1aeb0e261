package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/reimburse/expense-system/internal/core/domain"
	"github.com/reimburse/expense-system/internal/core/ports"
)

// IdempotencyStore abstracts the submission replay store (Redis).
type IdempotencyStore interface {
	// Lookup returns the expense id previously stored under key, if any.
	Lookup(ctx context.Context, key string) (int64, bool, error)
	Save(ctx context.Context, key string, expenseID int64) error
}

type workflowService struct {
	users         ports.UserRepository
	expenses      ports.ExpenseRepository
	approvals     ports.ApprovalRepository
	notifications ports.NotificationRepository
	tx            ports.TxRunner
	idem          IdempotencyStore
	log           zerolog.Logger
}

// NewWorkflowService returns the WorkflowService implementation. It is the
// single owner of expense state transitions and their atomic side effects.
func NewWorkflowService(
	users ports.UserRepository,
	expenses ports.ExpenseRepository,
	approvals ports.ApprovalRepository,
	notifications ports.NotificationRepository,
	tx ports.TxRunner,
	idem IdempotencyStore,
	log zerolog.Logger,
) ports.WorkflowService {
	return &workflowService{
		users:         users,
		expenses:      expenses,
		approvals:     approvals,
		notifications: notifications,
		tx:            tx,
		idem:          idem,
		log:           log,
	}
}

// SubmitExpense validates the submission and atomically persists the new
// expense together with its expense_submitted notification.
func (s *workflowService) SubmitExpense(ctx context.Context, in ports.SubmitExpenseInput) (*ports.ExpenseResult, error) {
	// 1. Idempotent replay — return the previously created expense untouched.
	if s.idem != nil && in.IdempotencyKey != "" {
		if id, ok, err := s.idem.Lookup(ctx, in.IdempotencyKey); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency lookup failed, processing anyway")
		} else if ok {
			existing, err := s.expenses.FindByID(ctx, id)
			if err == nil {
				s.log.Info().Int64("expense_id", id).Str("idempotency_key", in.IdempotencyKey).Msg("idempotent replay")
				result := ports.NewExpenseResult(existing)
				result.AlreadyExisted = true
				return result, nil
			}
		}
	}

	// 2. Validate request data.
	if err := validateSubmission(in); err != nil {
		return nil, err
	}

	// 3. Both emails must resolve to registered users.
	if ok, err := s.users.Exists(ctx, in.SubmitterEmail); err != nil {
		return nil, fmt.Errorf("submit expense: check submitter: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("submitter unknown: %w", domain.ErrUserNotFound)
	}
	if ok, err := s.users.Exists(ctx, in.ApproverEmail); err != nil {
		return nil, fmt.Errorf("submit expense: check approver: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("approver unknown: %w", domain.ErrUserNotFound)
	}

	now := time.Now().UTC()
	expense := &domain.Expense{
		SubmitterEmail: in.SubmitterEmail,
		Amount:         in.Amount,
		ExpenseDate:    in.ExpenseDate,
		Category:       domain.Category(in.Category),
		Description:    in.Description,
		Status:         domain.StatusSubmitted,
		ApproverEmail:  in.ApproverEmail,
		SubmittedAt:    now,
	}

	// 4. Expense insert and notification append are a single atomic unit.
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.expenses.Insert(ctx, expense); err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		notification := &domain.Notification{
			ExpenseID: expense.ID,
			EventType: domain.EventExpenseSubmitted,
			Message:   fmt.Sprintf("Expense #%d submitted by %s for $%s", expense.ID, expense.SubmitterEmail, expense.Amount.StringFixed(2)),
			CreatedAt: now,
		}
		if err := s.notifications.Insert(ctx, notification); err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("submitter", in.SubmitterEmail).Msg("failed to submit expense")
		return nil, err
	}

	if s.idem != nil && in.IdempotencyKey != "" {
		if err := s.idem.Save(ctx, in.IdempotencyKey, expense.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.log.Info().
		Int64("expense_id", expense.ID).
		Str("submitter", expense.SubmitterEmail).
		Str("approver", expense.ApproverEmail).
		Str("category", string(expense.Category)).
		Msg("expense submitted")

	return ports.NewExpenseResult(expense), nil
}

// DecideExpense applies an approve/reject decision. The status update, the
// approval ledger row, and the notification are committed atomically; a
// conditional update on the Submitted status prevents two concurrent
// decisions from both succeeding.
func (s *workflowService) DecideExpense(ctx context.Context, in ports.DecideExpenseInput) (*ports.ExpenseResult, error) {
	action := domain.DecisionAction(in.Decision)
	if action != domain.ActionApproved && action != domain.ActionRejected {
		return nil, fmt.Errorf("%w: decision must be Approved or Rejected", domain.ErrInvalidExpense)
	}

	expense, err := s.expenses.FindByID(ctx, in.ExpenseID)
	if err != nil {
		return nil, fmt.Errorf("decide expense: %w", err)
	}

	// Authority is checked before state: a non-approver is rejected with
	// Forbidden regardless of the expense status.
	if in.ActorEmail != expense.ApproverEmail {
		return nil, fmt.Errorf("decide expense: %w", domain.ErrNotApprover)
	}

	newStatus := domain.StatusApproved
	eventType := domain.EventExpenseApproved
	if action == domain.ActionRejected {
		newStatus = domain.StatusRejected
		eventType = domain.EventExpenseRejected
	}
	if !expense.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("decide expense: %w", domain.ErrAlreadyDecided)
	}

	reason := strings.TrimSpace(in.RejectionReason)
	if action == domain.ActionRejected && reason == "" {
		return nil, fmt.Errorf("%w: rejection_reason is required when rejecting", domain.ErrInvalidExpense)
	}

	now := time.Now().UTC()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Conditional update: fails with ErrAlreadyDecided if another decision
		// committed since the read above.
		if err := s.expenses.UpdateStatusFromSubmitted(ctx, expense.ID, newStatus, now); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		approval := &domain.Approval{
			ExpenseID:       expense.ID,
			ApproverEmail:   in.ActorEmail,
			Action:          action,
			RejectionReason: reason,
			CreatedAt:       now,
		}
		if err := s.approvals.Insert(ctx, approval); err != nil {
			return fmt.Errorf("insert approval: %w", err)
		}
		notification := &domain.Notification{
			ExpenseID: expense.ID,
			EventType: eventType,
			Message:   decisionMessage(expense, action, in.ActorEmail, reason),
			CreatedAt: now,
		}
		if err := s.notifications.Insert(ctx, notification); err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Int64("expense_id", expense.ID).Str("actor", in.ActorEmail).Msg("failed to decide expense")
		return nil, err
	}

	expense.Status = newStatus
	expense.UpdatedAt = &now

	s.log.Info().
		Int64("expense_id", expense.ID).
		Str("actor", in.ActorEmail).
		Str("action", string(action)).
		Msg("expense decided")

	return ports.NewExpenseResult(expense), nil
}

// GetExpense is a read-only fetch with role scoping: employees only see
// expenses they submitted or are designated to approve.
func (s *workflowService) GetExpense(ctx context.Context, in ports.GetExpenseInput) (*ports.ExpenseResult, error) {
	expense, err := s.expenses.FindByID(ctx, in.ExpenseID)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}

	if in.Role != domain.RoleAdmin &&
		in.ActorEmail != expense.SubmitterEmail &&
		in.ActorEmail != expense.ApproverEmail {
		return nil, fmt.Errorf("get expense: %w", domain.ErrForbidden)
	}

	return ports.NewExpenseResult(expense), nil
}

// ListExpenses returns a page of expenses. Admins see everything; employees
// are scoped to expenses they submitted or approve.
func (s *workflowService) ListExpenses(ctx context.Context, in ports.ListExpensesInput) (*ports.ListExpensesResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	filter := ports.ListExpensesFilter{
		Status:         in.Status,
		Category:       in.Category,
		SubmitterEmail: in.SubmitterEmail,
		DateFrom:       in.DateFrom,
		DateTo:         in.DateTo,
		Page:           page,
		Limit:          limit,
	}
	if in.Role != domain.RoleAdmin {
		filter.ActorEmail = in.ActorEmail
	}

	expenses, total, err := s.expenses.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	items := make([]ports.ExpenseResult, len(expenses))
	for i, e := range expenses {
		items[i] = *ports.NewExpenseResult(e)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &ports.ListExpensesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// validateSubmission enforces the submission invariants: positive amount with
// at most two decimal places, a known category, a bounded description, and
// distinct submitter/approver.
func validateSubmission(in ports.SubmitExpenseInput) error {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be greater than 0", domain.ErrInvalidExpense)
	}
	if !in.Amount.Equal(in.Amount.Round(2)) {
		return fmt.Errorf("%w: amount must have at most two decimal places", domain.ErrInvalidExpense)
	}
	if !domain.ValidCategory(domain.Category(in.Category)) {
		return fmt.Errorf("%w: category must be one of Travel, Meals, Supplies, Equipment, Other", domain.ErrInvalidExpense)
	}
	if n := utf8.RuneCountInString(in.Description); n == 0 || n > domain.DescriptionMaxLen {
		return fmt.Errorf("%w: description must be 1-%d characters", domain.ErrInvalidExpense, domain.DescriptionMaxLen)
	}
	// Policy decision: self-approval is disallowed even though registration
	// itself does not prevent it.
	if in.SubmitterEmail == in.ApproverEmail {
		return fmt.Errorf("%w: approver must differ from submitter", domain.ErrInvalidExpense)
	}
	if in.ExpenseDate.IsZero() {
		return fmt.Errorf("%w: expense_date is required", domain.ErrInvalidExpense)
	}
	return nil
}

func decisionMessage(e *domain.Expense, action domain.DecisionAction, actor, reason string) string {
	amount := e.Amount.StringFixed(2)
	if action == domain.ActionRejected {
		return fmt.Sprintf("Expense #%d for $%s rejected by %s: %s", e.ID, amount, actor, reason)
	}
	return fmt.Sprintf("Expense #%d for $%s approved by %s", e.ID, amount, actor)
}
