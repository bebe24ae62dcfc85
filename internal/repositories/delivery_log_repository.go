package repositories

import (
	"context"
	"time"

	"github.com/shaka3507/amanos/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeliveryLogRepository defines the interface for the append-only
// notification delivery log.
type DeliveryLogRepository interface {
	Record(ctx context.Context, entry *models.DeliveryLogEntry) error
	GetByAlertID(ctx context.Context, alertID uint, limit int64) ([]models.DeliveryLogEntry, error)
}

// MongoDeliveryLogRepository implements DeliveryLogRepository for MongoDB
type MongoDeliveryLogRepository struct {
	collection *mongo.Collection
}

// NewMongoDeliveryLogRepository creates a new MongoDeliveryLogRepository
func NewMongoDeliveryLogRepository(db *mongo.Database) *MongoDeliveryLogRepository {
	return &MongoDeliveryLogRepository{collection: db.Collection("delivery_log")}
}

// Record appends one delivery attempt to the log.
func (r *MongoDeliveryLogRepository) Record(ctx context.Context, entry *models.DeliveryLogEntry) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// GetByAlertID retrieves the most recent delivery attempts for an alert.
func (r *MongoDeliveryLogRepository) GetByAlertID(ctx context.Context, alertID uint, limit int64) ([]models.DeliveryLogEntry, error) {
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"alert_id": alertID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.DeliveryLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
