package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/sngm3741/line-forms-services/api/internal/config"
	mongodoc "github.com/sngm3741/line-forms-services/api/internal/infrastructure/mongo"
	reservation "github.com/sngm3741/line-forms-services/api/internal/reservation/domain"
	storedomain "github.com/sngm3741/line-forms-services/api/internal/store/domain"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// デモ用の店舗プロファイルを投入するワンショットコマンド。
// ローカル環境でフォームの表示確認を行うために使う。
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("MongoDB への接続に失敗: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("MongoDB 切断時にエラー: %v", err)
		}
	}()

	repo := mongodoc.NewProfileRepository(client.Database(cfg.MongoDatabase), cfg.StoreCollection)

	profile := &storedomain.Profile{
		StoreID:      "demo-store",
		RecordID:     "1",
		Name:         "デモ店舗",
		Phone:        "03-1234-5678",
		Email:        "demo@example.com",
		LIFFID:       "1234567890-abcdefgh",
		PrimaryColor: "#ff6b6b",
		BusinessHours: map[string]string{
			"mon": "10:00-19:00",
			"tue": "10:00-19:00",
			"wed": "10:00-19:00",
			"thu": "10:00-19:00",
			"fri": "10:00-20:00",
			"sat": "09:00-20:00",
			"sun": "定休日",
		},
		Menus: []reservation.MenuItem{
			{ID: "cut", Name: "カット", DurationMinutes: 60, Price: 5000},
			{ID: "color", Name: "カラー", DurationMinutes: 120, Price: 8000},
			{ID: "perm", Name: "パーマ", DurationMinutes: 150, Price: 12000},
		},
	}

	if err := repo.Upsert(ctx, profile); err != nil {
		log.Fatalf("デモ店舗の投入に失敗: %v", err)
	}

	log.Printf("デモ店舗を投入しました: store_id=%s menus=%d", profile.StoreID, len(profile.Menus))
}
