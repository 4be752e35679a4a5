package mongo

import (
	"context"
	"strings"
	"time"

	reservation "github.com/sngm3741/line-forms-services/api/internal/reservation/domain"
	"github.com/sngm3741/line-forms-services/api/internal/store/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileRepository implements application.ProfileRepository using MongoDB.
type ProfileRepository struct {
	collection *mongo.Collection
}

// NewProfileRepository creates a new Mongo-backed profile repository.
func NewProfileRepository(db *mongo.Database, collectionName string) *ProfileRepository {
	return &ProfileRepository{collection: db.Collection(collectionName)}
}

// FindByStoreID returns a single profile by its store identifier.
func (r *ProfileRepository) FindByStoreID(ctx context.Context, storeID string) (*domain.Profile, error) {
	var doc ProfileDocument
	filter := bson.M{"storeId": strings.TrimSpace(storeID)}
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, err
	}
	profile := mapProfileDocument(doc)
	return &profile, nil
}

// Upsert writes a profile keyed by storeId, preserving createdAt on
// updates.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	now := time.Now().UTC()

	menus := make([]MenuDocument, 0, len(profile.Menus))
	for _, item := range profile.Menus {
		menus = append(menus, MenuDocument{
			ID:              item.ID,
			Name:            item.Name,
			DurationMinutes: item.DurationMinutes,
			Price:           item.Price,
		})
	}

	update := bson.M{
		"$set": bson.M{
			"recordId":      profile.RecordID,
			"name":          profile.Name,
			"phone":         profile.Phone,
			"email":         profile.Email,
			"liffId":        profile.LIFFID,
			"primaryColor":  profile.PrimaryColor,
			"businessHours": profile.BusinessHours,
			"menus":         menus,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"storeId":   profile.StoreID,
			"createdAt": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"storeId": profile.StoreID}, update, opts)
	return err
}

func mapProfileDocument(doc ProfileDocument) domain.Profile {
	createdAt := time.Time{}
	if doc.CreatedAt != nil {
		createdAt = *doc.CreatedAt
	}
	updatedAt := time.Time{}
	if doc.UpdatedAt != nil {
		updatedAt = *doc.UpdatedAt
	}

	menus := make([]reservation.MenuItem, 0, len(doc.Menus))
	for _, item := range doc.Menus {
		menus = append(menus, reservation.MenuItem{
			ID:              item.ID,
			Name:            item.Name,
			DurationMinutes: item.DurationMinutes,
			Price:           item.Price,
		})
	}

	hours := make(map[string]string, len(doc.BusinessHours))
	for day, value := range doc.BusinessHours {
		hours[day] = value
	}

	return domain.Profile{
		StoreID:       doc.StoreID,
		RecordID:      doc.RecordID,
		Name:          doc.Name,
		Phone:         doc.Phone,
		Email:         doc.Email,
		LIFFID:        doc.LIFFID,
		PrimaryColor:  doc.PrimaryColor,
		BusinessHours: hours,
		Menus:         menus,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}
