package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewDocument は MongoDB 上でのディーラーレビューのスキーマを表現する。
// フィールド名は既存クライアントとの互換のため snake_case のまま保存する。
type ReviewDocument struct {
	ObjectID     primitive.ObjectID `bson:"_id,omitempty"`
	ID           int                `bson:"id"`
	Name         string             `bson:"name"`
	Dealership   int                `bson:"dealership"`
	Review       string             `bson:"review"`
	Purchase     bool               `bson:"purchase"`
	PurchaseDate string             `bson:"purchase_date,omitempty"`
	CarMake      string             `bson:"car_make,omitempty"`
	CarModel     string             `bson:"car_model,omitempty"`
	CarYear      int                `bson:"car_year,omitempty"`
	Username     string             `bson:"username"`
	CreatedAt    time.Time          `bson:"createdAt,omitempty"`
	Extra        bson.M             `bson:",inline"`
}

// counterDocument は連番採番用コレクションの 1 レコード。
type counterDocument struct {
	Name string `bson:"_id"`
	Seq  int    `bson:"seq"`
}

// FailedNotificationDocument は配信に失敗した通知の記録。
type FailedNotificationDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Target      string             `bson:"target"`
	Payload     map[string]any     `bson:"payload"`
	Error       string             `bson:"error"`
	Attempts    int                `bson:"attempts"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	LastTriedAt time.Time          `bson:"lastTriedAt"`
}
