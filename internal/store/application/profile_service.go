package application

import (
	"context"

	"github.com/sngm3741/line-forms-services/api/internal/store/domain"
)

// ProfileRepository abstracts persistence of store profiles.
// ProfileRepository は店舗プロファイルを読み書きするためのポート。
type ProfileRepository interface {
	FindByStoreID(ctx context.Context, storeID string) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}

// ProfileService describes store profile use-cases: serving the page
// injection payload and registering/updating profiles from the webhook.
type ProfileService interface {
	Get(ctx context.Context, storeID string) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}

// NewProfileService creates a repository-backed profile service.
func NewProfileService(repo ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

type profileService struct {
	repo ProfileRepository
}

func (s *profileService) Get(ctx context.Context, storeID string) (*domain.Profile, error) {
	return s.repo.FindByStoreID(ctx, storeID)
}

func (s *profileService) Upsert(ctx context.Context, profile *domain.Profile) error {
	return s.repo.Upsert(ctx, profile)
}
