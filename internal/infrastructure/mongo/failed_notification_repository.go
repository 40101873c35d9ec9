package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// FailedNotificationRepository は配信できなかった通知を pending 状態で保存する。
type FailedNotificationRepository struct {
	collection *mongo.Collection
}

func NewFailedNotificationRepository(db *mongo.Database, collectionName string) *FailedNotificationRepository {
	return &FailedNotificationRepository{collection: db.Collection(collectionName)}
}

// RecordFailure implements application.FailureRecorder.
func (r *FailedNotificationRepository) RecordFailure(ctx context.Context, target string, payload map[string]any, cause error, attempts int) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	now := time.Now().UTC()
	doc := FailedNotificationDocument{
		Target:      target,
		Payload:     payload,
		Error:       message,
		Attempts:    attempts,
		Status:      "pending",
		CreatedAt:   now,
		LastTriedAt: now,
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}
