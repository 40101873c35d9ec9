package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SequenceRepository hands out monotonically increasing integers per sequence name.
type SequenceRepository struct {
	collection *mongo.Collection
}

func NewSequenceRepository(db *mongo.Database, collectionName string) *SequenceRepository {
	return &SequenceRepository{collection: db.Collection(collectionName)}
}

// Next increments the named counter and returns the new value.
func (r *SequenceRepository) Next(ctx context.Context, name string) (int, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc counterDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// Reset moves the named counter so the next value handed out is floor+1.
func (r *SequenceRepository) Reset(ctx context.Context, name string, floor int) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": name}, bson.M{"$set": bson.M{"seq": floor}}, opts)
	return err
}

// Advance raises the named counter to at least floor so later Next calls never hand it out.
func (r *SequenceRepository) Advance(ctx context.Context, name string, floor int) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": name}, bson.M{"$max": bson.M{"seq": floor}}, opts)
	return err
}
