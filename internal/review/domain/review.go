package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrReviewIDConflict は同じ id のレビューが既に存在する場合に返る。
var ErrReviewIDConflict = errors.New("review id already exists")

// Review はレビューサービスが保持するディーラーレビュー 1 件分のドキュメント。
type Review struct {
	ID           int
	Name         string
	Dealership   int
	Review       string
	Purchase     bool
	PurchaseDate string
	CarMake      string
	CarModel     string
	CarYear      int
	Username     string
	CreatedAt    time.Time
	// Extra は既知フィールド以外に投稿されたトップレベルのキーと値。
	Extra map[string]any
}

// RequiredFields は投稿時に必須となる JSON フィールド名を検査順に並べたもの。
var RequiredFields = []string{"name", "dealership", "review", "purchase", "username"}

var knownFields = map[string]struct{}{
	"id": {}, "name": {}, "dealership": {}, "review": {}, "purchase": {},
	"purchase_date": {}, "car_make": {}, "car_model": {}, "car_year": {}, "username": {},
	// 保存時に内部で使うキー
	"_id": {}, "createdAt": {},
}

// IsExtraField は key を Extra として保持できるかを返す。
func IsExtraField(key string) bool {
	if key == "" || strings.HasPrefix(key, "$") {
		return false
	}
	_, known := knownFields[key]
	return !known
}
