package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileDocument は MongoDB 上での店舗プロファイルスキーマを Go 構造体として表現したもの。
// storeId が論理キーで、webhook からの upsert はこのフィールドで行う。
type ProfileDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	StoreID       string             `bson:"storeId"`
	RecordID      string             `bson:"recordId,omitempty"`
	Name          string             `bson:"name"`
	Phone         string             `bson:"phone,omitempty"`
	Email         string             `bson:"email,omitempty"`
	LIFFID        string             `bson:"liffId"`
	PrimaryColor  string             `bson:"primaryColor,omitempty"`
	BusinessHours map[string]string  `bson:"businessHours,omitempty"`
	Menus         []MenuDocument     `bson:"menus,omitempty"`
	CreatedAt     *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt     *time.Time         `bson:"updatedAt,omitempty"`
}

// MenuDocument はメニューカタログ 1 件分の埋め込みドキュメント。
type MenuDocument struct {
	ID              string `bson:"id"`
	Name            string `bson:"name"`
	DurationMinutes int    `bson:"time"`
	Price           int    `bson:"price"`
}
