// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/plakatpro/plakatpro/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// ClientRepository defines operations for clients
type ClientRepository interface {
	Repository[models.Client, models.ClientFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uint) error
}

// CityRepository defines operations for cities
type CityRepository interface {
	Repository[models.City, models.CityFilter]
	ByUUID(ctx context.Context, uuid string) (*models.City, error)
	ByPostalCode(ctx context.Context, postalCode string) (*models.City, error)
	Update(ctx context.Context, city *models.City) error
	Delete(ctx context.Context, id uint) error
}

// DistributionListRepository defines operations for distribution lists
type DistributionListRepository interface {
	Repository[models.DistributionList, models.DistributionListFilter]
	// ByUUID loads the list with its client, items (postal-code order),
	// item cities, asset references and derived campaign.
	ByUUID(ctx context.Context, uuid string) (*models.DistributionList, error)
	Update(ctx context.Context, list *models.DistributionList) error
	UpdateStatus(ctx context.Context, id uint, status models.DistributionListStatus, sentAt, acceptedAt *time.Time) error
	Archive(ctx context.Context, id uint) error
}

// DistributionListItemRepository defines operations for list items
type DistributionListItemRepository interface {
	Repository[models.DistributionListItem, models.DistributionListItemFilter]
	// ListByListID returns the list's items joined with their cities,
	// ordered by city postal code ascending.
	ListByListID(ctx context.Context, listID uint) ([]*models.DistributionListItem, error)
	Update(ctx context.Context, item *models.DistributionListItem) error
	MarkRequestSent(ctx context.Context, itemID uint, sentAt time.Time) error
	Delete(ctx context.Context, id uint) error
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Campaign, error)
	BySourceListID(ctx context.Context, listID uint) (*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	UpdateStatus(ctx context.Context, id uint, status models.CampaignStatus) error
	Archive(ctx context.Context, id uint) error
}

// PermitRepository defines operations for permits
type PermitRepository interface {
	Repository[models.Permit, models.PermitFilter]
	ListByCampaignID(ctx context.Context, campaignID uint) ([]*models.Permit, error)
	UpdateStatus(ctx context.Context, id uint, status models.PermitStatus, decidedAt *time.Time) error
}

// PermitEmailRepository defines operations for permit email audit records.
// Audit rows are append-only; there is deliberately no update path.
type PermitEmailRepository interface {
	Repository[models.PermitEmail, models.PermitEmailFilter]
	ListByItemID(ctx context.Context, itemID uint) ([]*models.PermitEmail, error)
}

// FileAssetRepository defines operations for file assets
type FileAssetRepository interface {
	Repository[models.FileAsset, models.FileAssetFilter]
	ByUUID(ctx context.Context, uuid string) (*models.FileAsset, error)
	ByStorageKey(ctx context.Context, key string) (*models.FileAsset, error)
	Delete(ctx context.Context, id uint) error
}
