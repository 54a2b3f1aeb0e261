package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reimburse/expense-system/internal/core/domain"
	"github.com/reimburse/expense-system/internal/core/ports"
)

const collectionExpenses = "expenses"

type ExpenseRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{db: db, col: db.Collection(collectionExpenses)}
}

// mongoExpense is the persisted shape. Amount is stored as a string so the
// two-decimal monetary value survives round-trips exactly.
type mongoExpense struct {
	ID             int64      `bson:"_id"`
	SubmitterEmail string     `bson:"submitter_email"`
	Amount         string     `bson:"amount"`
	ExpenseDate    time.Time  `bson:"expense_date"`
	Category       string     `bson:"category"`
	Description    string     `bson:"description"`
	Status         string     `bson:"status"`
	ApproverEmail  string     `bson:"approver_email"`
	SubmittedAt    time.Time  `bson:"submitted_at"`
	UpdatedAt      *time.Time `bson:"updated_at,omitempty"`
}

func toMongoExpense(e *domain.Expense) mongoExpense {
	return mongoExpense{
		ID:             e.ID,
		SubmitterEmail: e.SubmitterEmail,
		Amount:         e.Amount.StringFixed(2),
		ExpenseDate:    e.ExpenseDate.UTC(),
		Category:       string(e.Category),
		Description:    e.Description,
		Status:         string(e.Status),
		ApproverEmail:  e.ApproverEmail,
		SubmittedAt:    e.SubmittedAt.UTC(),
		UpdatedAt:      e.UpdatedAt,
	}
}

func (m mongoExpense) toDomain() (*domain.Expense, error) {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil, fmt.Errorf("decode amount %q: %w", m.Amount, err)
	}
	return &domain.Expense{
		ID:             m.ID,
		SubmitterEmail: m.SubmitterEmail,
		Amount:         amount,
		ExpenseDate:    m.ExpenseDate,
		Category:       domain.Category(m.Category),
		Description:    m.Description,
		Status:         domain.ExpenseStatus(m.Status),
		ApproverEmail:  m.ApproverEmail,
		SubmittedAt:    m.SubmittedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

// Insert assigns the next monotonic id and persists the expense document.
func (r *ExpenseRepository) Insert(ctx context.Context, e *domain.Expense) error {
	id, err := nextSequence(ctx, r.db, collectionExpenses)
	if err != nil {
		return err
	}
	e.ID = id

	if _, err := r.col.InsertOne(ctx, toMongoExpense(e)); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id int64) (*domain.Expense, error) {
	var m mongoExpense
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return m.toDomain()
}

// UpdateStatusFromSubmitted performs a conditional update keyed on the
// Submitted status. A concurrent decision that committed first leaves no
// matching document, which is reported as ErrAlreadyDecided.
func (r *ExpenseRepository) UpdateStatusFromSubmitted(ctx context.Context, id int64, status domain.ExpenseStatus, updatedAt time.Time) error {
	filter := bson.M{"_id": id, "status": string(domain.StatusSubmitted)}
	update := bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": updatedAt.UTC(),
	}}

	res := r.col.FindOneAndUpdate(ctx, filter, update)
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Distinguish a decided expense from a missing one.
			n, countErr := r.col.CountDocuments(ctx, bson.M{"_id": id})
			if countErr != nil {
				return fmt.Errorf("update status: %w", countErr)
			}
			if n == 0 {
				return domain.ErrExpenseNotFound
			}
			return domain.ErrAlreadyDecided
		}
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// List returns a page of expenses matching filter and the total count, newest first.
func (r *ExpenseRepository) List(ctx context.Context, filter ports.ListExpensesFilter) ([]*domain.Expense, int64, error) {
	query := bson.M{}
	if filter.ActorEmail != "" {
		query["$or"] = []bson.M{
			{"submitter_email": filter.ActorEmail},
			{"approver_email": filter.ActorEmail},
		}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.SubmitterEmail != "" {
		query["submitter_email"] = filter.SubmitterEmail
	}
	dateRange := bson.M{}
	if !filter.DateFrom.IsZero() {
		dateRange["$gte"] = filter.DateFrom.UTC()
	}
	if !filter.DateTo.IsZero() {
		dateRange["$lte"] = filter.DateTo.UTC()
	}
	if len(dateRange) > 0 {
		query["submitted_at"] = dateRange
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: -1}}).
		SetSkip(int64((page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*domain.Expense
	for cursor.Next(ctx) {
		var m mongoExpense
		if err := cursor.Decode(&m); err != nil {
			return nil, 0, fmt.Errorf("decode expense: %w", err)
		}
		e, err := m.toDomain()
		if err != nil {
			return nil, 0, err
		}
		result = append(result, e)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}

	return result, total, nil
}

// EnsureIndexes creates the indexes the workflow queries depend on.
func (r *ExpenseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "submitter_email", Value: 1}}},
		{Keys: bson.D{{Key: "approver_email", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "submitted_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
