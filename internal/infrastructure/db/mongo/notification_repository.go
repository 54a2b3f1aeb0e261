package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reimburse/expense-system/internal/core/domain"
)

const collectionNotifications = "notifications"

// NotificationRepository implements the append-only notification log.
type NotificationRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{db: db, col: db.Collection(collectionNotifications)}
}

type mongoNotification struct {
	ID        int64  `bson:"_id"`
	ExpenseID int64  `bson:"expense_id"`
	EventType string `bson:"event_type"`
	Message   string `bson:"message"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	id, err := nextSequence(ctx, r.db, collectionNotifications)
	if err != nil {
		return err
	}
	n.ID = id

	doc := mongoNotification{
		ID:        n.ID,
		ExpenseID: n.ExpenseID,
		EventType: string(n.EventType),
		Message:   n.Message,
		CreatedAt: n.CreatedAt.Unix(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) FindByExpenseID(ctx context.Context, expenseID int64) ([]*domain.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"expense_id": expenseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*domain.Notification
	for cursor.Next(ctx) {
		var m mongoNotification
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		result = append(result, &domain.Notification{
			ID:        m.ID,
			ExpenseID: m.ExpenseID,
			EventType: domain.NotificationEvent(m.EventType),
			Message:   m.Message,
			CreatedAt: unixToTime(m.CreatedAt),
		})
	}
	return result, cursor.Err()
}
