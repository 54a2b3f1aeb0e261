package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reimburse/expense-system/internal/core/domain"
)

const collectionApprovals = "approvals"

// ApprovalRepository implements the append-only approval ledger.
type ApprovalRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewApprovalRepository(db *mongo.Database) *ApprovalRepository {
	return &ApprovalRepository{db: db, col: db.Collection(collectionApprovals)}
}

type mongoApproval struct {
	ID              int64  `bson:"_id"`
	ExpenseID       int64  `bson:"expense_id"`
	ApproverEmail   string `bson:"approver_email"`
	Action          string `bson:"action"`
	RejectionReason string `bson:"rejection_reason,omitempty"`
	CreatedAt       int64  `bson:"created_at"`
}

func (r *ApprovalRepository) Insert(ctx context.Context, a *domain.Approval) error {
	id, err := nextSequence(ctx, r.db, collectionApprovals)
	if err != nil {
		return err
	}
	a.ID = id

	doc := mongoApproval{
		ID:              a.ID,
		ExpenseID:       a.ExpenseID,
		ApproverEmail:   a.ApproverEmail,
		Action:          string(a.Action),
		RejectionReason: a.RejectionReason,
		CreatedAt:       a.CreatedAt.Unix(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

func (r *ApprovalRepository) FindByExpenseID(ctx context.Context, expenseID int64) ([]*domain.Approval, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"expense_id": expenseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find approvals: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*domain.Approval
	for cursor.Next(ctx) {
		var m mongoApproval
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode approval: %w", err)
		}
		result = append(result, &domain.Approval{
			ID:              m.ID,
			ExpenseID:       m.ExpenseID,
			ApproverEmail:   m.ApproverEmail,
			Action:          domain.DecisionAction(m.Action),
			RejectionReason: m.RejectionReason,
			CreatedAt:       unixToTime(m.CreatedAt),
		})
	}
	return result, cursor.Err()
}
