// Package testing provides test utilities and database setup for testing the campaign management system
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestClient creates a client with a unique name and email
func (tf *TestFixtures) CreateTestClient() (*models.Client, error) {
	n := rand.Intn(1000000)
	client := &models.Client{
		UUID:    uuid.New(),
		Name:    fmt.Sprintf("Testkunde %d GmbH", n),
		Email:   fmt.Sprintf("kunde%d@example.de", n),
		Phone:   "+49 241 0000000",
		Address: "Musterstrasse 1, 52062 Aachen",
	}

	if err := tf.DB.DB.Create(client).Error; err != nil {
		return nil, fmt.Errorf("failed to create test client: %w", err)
	}
	return client, nil
}

// CreateTestCity creates a municipality with a unique postal code
func (tf *TestFixtures) CreateTestCity(feeModel models.FeeModel, fee string) (*models.City, error) {
	n := rand.Intn(90000) + 10000
	feeDecimal, err := decimal.NewFromString(fee)
	if err != nil {
		return nil, fmt.Errorf("invalid fee %q: %w", fee, err)
	}

	city := &models.City{
		UUID:         uuid.New(),
		Name:         fmt.Sprintf("Teststadt %d", n),
		PostalCode:   fmt.Sprintf("%05d", n),
		ContactEmail: fmt.Sprintf("ordnungsamt@stadt%d.example.de", n),
		FeeModel:     feeModel,
		Fee:          feeDecimal,
	}

	if err := tf.DB.DB.Create(city).Error; err != nil {
		return nil, fmt.Errorf("failed to create test city: %w", err)
	}
	return city, nil
}

// CreateTestList creates a distribution list in the given status for the client
func (tf *TestFixtures) CreateTestList(client *models.Client, status models.DistributionListStatus) (*models.DistributionList, error) {
	list := &models.DistributionList{
		UUID:      uuid.New(),
		ClientID:  client.ID,
		EventName: fmt.Sprintf("Stadtfest %d", rand.Intn(1000000)),
		Status:    status,
	}
	if status != models.DistributionListStatusDraft {
		list.SentAt = utils.UTCNowPtr()
	}
	if status == models.DistributionListStatusAccepted {
		list.AcceptedAt = utils.UTCNowPtr()
	}

	if err := tf.DB.DB.Create(list).Error; err != nil {
		return nil, fmt.Errorf("failed to create test list: %w", err)
	}
	return list, nil
}

// CreateTestItem adds a quoted placement for one city to the list
func (tf *TestFixtures) CreateTestItem(list *models.DistributionList, city *models.City, quantity int, size models.PosterSize) (*models.DistributionListItem, error) {
	item := &models.DistributionListItem{
		UUID:               uuid.New(),
		DistributionListID: list.ID,
		CityID:             city.ID,
		Quantity:           quantity,
		PosterSize:         size,
		PermitStatus:       models.PermitStatusDraft,
	}

	if err := tf.DB.DB.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create test item: %w", err)
	}
	return item, nil
}

// CreateTestAsset creates a file asset row without a backing blob
func (tf *TestFixtures) CreateTestAsset(kind string) (*models.FileAsset, error) {
	contentType := "image/jpeg"
	filename := "plakat.jpg"
	if kind == models.AssetKindPermitForm {
		contentType = "application/pdf"
		filename = "antrag.pdf"
	}

	asset := &models.FileAsset{
		UUID:             uuid.New(),
		StorageKey:       fmt.Sprintf("%s/%s.bin", kind, uuid.New().String()),
		OriginalFilename: filename,
		ContentType:      contentType,
		SizeBytes:        1024,
		Kind:             kind,
	}

	if err := tf.DB.DB.Create(asset).Error; err != nil {
		return nil, fmt.Errorf("failed to create test asset: %w", err)
	}
	return asset, nil
}
