package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/sngm3741/dealer-review-services/internal/review/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewSequence は新規レビューの id を採番するためのシーケンス名。
const ReviewSequence = "reviews"

// maxIDAttempts は採番した id が既存レビューと衝突した際の再採番回数の上限。
const maxIDAttempts = 3

// ReviewRepository implements application.ReviewRepository using MongoDB.
type ReviewRepository struct {
	collection *mongo.Collection
	sequences  *SequenceRepository
}

// NewReviewRepository はレビューコレクションと採番用コレクションを束縛したリポジトリを構築する。
func NewReviewRepository(db *mongo.Database, reviewCollection, counterCollection string) *ReviewRepository {
	return &ReviewRepository{
		collection: db.Collection(reviewCollection),
		sequences:  NewSequenceRepository(db, counterCollection),
	}
}

// FindByDealership は dealership が一致するレビューを id 昇順で返す。
func (r *ReviewRepository) FindByDealership(ctx context.Context, dealership int) ([]domain.Review, error) {
	filter := bson.M{"dealership": bson.M{"$eq": dealership}}
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := make([]domain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		reviews = append(reviews, mapReviewDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Create はレビューを 1 件追加する。id 未指定の場合はシーケンスから採番し、
// 指定された場合はシーケンスをその id まで進めてから保存する。
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if review.ID != 0 {
		if err := r.sequences.Advance(ctx, ReviewSequence, review.ID); err != nil {
			return fmt.Errorf("review id シーケンスの更新に失敗: %w", err)
		}
		return r.insert(ctx, review)
	}

	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		var next int
		next, err = r.sequences.Next(ctx, ReviewSequence)
		if err != nil {
			return fmt.Errorf("review id の採番に失敗: %w", err)
		}
		review.ID = next
		err = r.insert(ctx, review)
		if !errors.Is(err, domain.ErrReviewIDConflict) {
			return err
		}
	}
	review.ID = 0
	return err
}

func (r *ReviewRepository) insert(ctx context.Context, review *domain.Review) error {
	doc := ReviewDocument{
		ID:           review.ID,
		Name:         review.Name,
		Dealership:   review.Dealership,
		Review:       review.Review,
		Purchase:     review.Purchase,
		PurchaseDate: review.PurchaseDate,
		CarMake:      review.CarMake,
		CarModel:     review.CarModel,
		CarYear:      review.CarYear,
		Username:     review.Username,
		CreatedAt:    review.CreatedAt,
		Extra:        extraDocument(review.Extra),
	}

	_, err := r.collection.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %d", domain.ErrReviewIDConflict, review.ID)
	}
	return err
}

// EnsureIndexes は id の一意インデックスと dealership 検索用インデックスを作成する。
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_review_id"),
		},
		{
			Keys:    bson.D{{Key: "dealership", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().SetName("dealership_id"),
		},
	})
	if err != nil {
		return fmt.Errorf("reviews インデックス作成に失敗: %w", err)
	}
	return nil
}

// Drop removes every review. Only the seeder uses it.
func (r *ReviewRepository) Drop(ctx context.Context) error {
	return r.collection.Drop(ctx)
}

func mapReviewDocument(doc ReviewDocument) domain.Review {
	return domain.Review{
		ID:           doc.ID,
		Name:         doc.Name,
		Dealership:   doc.Dealership,
		Review:       doc.Review,
		Purchase:     doc.Purchase,
		PurchaseDate: doc.PurchaseDate,
		CarMake:      doc.CarMake,
		CarModel:     doc.CarModel,
		CarYear:      doc.CarYear,
		Username:     doc.Username,
		CreatedAt:    doc.CreatedAt,
		Extra:        extraFields(doc.Extra),
	}
}

func extraDocument(extra map[string]any) bson.M {
	if len(extra) == 0 {
		return nil
	}
	doc := make(bson.M, len(extra))
	for key, value := range extra {
		if domain.IsExtraField(key) {
			doc[key] = value
		}
	}
	return doc
}

// extraFields は inline で読み込んだ追加キーを JSON に出せる素の map / slice に戻す。
func extraFields(doc bson.M) map[string]any {
	if len(doc) == 0 {
		return nil
	}
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		out[key] = plainValue(value)
	}
	return out
}

func plainValue(value any) any {
	switch v := value.(type) {
	case primitive.D:
		m := make(map[string]any, len(v))
		for _, e := range v {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(v))
		for key, inner := range v {
			m[key] = plainValue(inner)
		}
		return m
	case primitive.A:
		items := make([]any, len(v))
		for i, inner := range v {
			items[i] = plainValue(inner)
		}
		return items
	default:
		return v
	}
}
