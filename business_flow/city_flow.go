package businessflow

import (
	"context"
	"strings"

	"github.com/plakatpro/plakatpro/app/dto"
	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CityFlow handles municipality management business logic
type CityFlow interface {
	CreateCity(ctx context.Context, req *dto.CreateCityRequest, metadata *ClientMetadata) (*dto.CityDTO, error)
	GetCity(ctx context.Context, uuid string) (*dto.CityDTO, error)
	UpdateCity(ctx context.Context, uuid string, req *dto.UpdateCityRequest, metadata *ClientMetadata) (*dto.CityDTO, error)
	DeleteCity(ctx context.Context, uuid string, metadata *ClientMetadata) error
	ListCities(ctx context.Context, req *dto.ListCitiesRequest) (*dto.ListCitiesResponse, error)
}

// CityFlowImpl implements the city business flow
type CityFlowImpl struct {
	cityRepo  repository.CityRepository
	itemRepo  repository.DistributionListItemRepository
	assetRepo repository.FileAssetRepository
	db        *gorm.DB
}

// NewCityFlow creates a new city flow instance
func NewCityFlow(
	cityRepo repository.CityRepository,
	itemRepo repository.DistributionListItemRepository,
	assetRepo repository.FileAssetRepository,
	db *gorm.DB,
) CityFlow {
	return &CityFlowImpl{
		cityRepo:  cityRepo,
		itemRepo:  itemRepo,
		assetRepo: assetRepo,
		db:        db,
	}
}

// CreateCity registers a municipality
func (f *CityFlowImpl) CreateCity(ctx context.Context, req *dto.CreateCityRequest, metadata *ClientMetadata) (*dto.CityDTO, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, NewBusinessError(CodeValidation, "City name is required", ErrCityNameRequired)
	}
	postalCode := strings.TrimSpace(req.PostalCode)
	if postalCode == "" {
		return nil, NewBusinessError(CodeValidation, "Postal code is required", ErrPostalCodeRequired)
	}

	existing, err := f.cityRepo.ByPostalCode(ctx, postalCode)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to check postal code", err)
	}
	if existing != nil {
		return nil, NewBusinessError(CodeConflict, "Postal code already exists", ErrPostalCodeAlreadyExists)
	}

	city := &models.City{
		Name:               strings.TrimSpace(req.Name),
		PostalCode:         postalCode,
		ContactEmail:       strings.TrimSpace(req.ContactEmail),
		FeeModel:           models.FeeModelPauschal,
		Fee:                decimal.Zero,
		MaxQuantity:        req.MaxQuantity,
		RequiresPermitForm: req.RequiresPermitForm,
		RequiresPosterIMG:  req.RequiresPosterIMG,
	}

	if req.FeeModel != "" {
		feeModel := models.FeeModel(req.FeeModel)
		if !feeModel.Valid() {
			return nil, NewBusinessError(CodeValidation, "City fee model is invalid", ErrCityFeeModelInvalid)
		}
		city.FeeModel = feeModel
	}
	if req.Fee != "" {
		fee, err := decimal.NewFromString(req.Fee)
		if err != nil || fee.IsNegative() {
			return nil, NewBusinessErrorf(CodeValidation, "City fee %q is invalid", err, req.Fee)
		}
		city.Fee = fee
	}
	if req.MaxPosterSize != nil {
		size := models.PosterSize(*req.MaxPosterSize)
		if !size.Valid() {
			return nil, NewBusinessError(CodeValidation, "Poster size is invalid", ErrItemPosterSizeInvalid)
		}
		city.MaxPosterSize = &size
	}
	if req.PermitFormAssetID != nil {
		asset, err := f.resolvePermitForm(ctx, *req.PermitFormAssetID)
		if err != nil {
			return nil, err
		}
		city.PermitFormAssetID = &asset.ID
		city.PermitFormAsset = asset
	}

	if err := f.cityRepo.Save(ctx, city); err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to create city", err)
	}

	d := ToCityDTO(city)
	return &d, nil
}

// GetCity retrieves a single municipality by UUID
func (f *CityFlowImpl) GetCity(ctx context.Context, uuid string) (*dto.CityDTO, error) {
	city, err := f.cityRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Failed to lookup city", err)
	}
	if city == nil {
		return nil, NewBusinessError(CodeNotFound, "City not found", ErrCityNotFound)
	}

	d := ToCityDTO(city)
	return &d, nil
}

// UpdateCity applies the provided fields to an existing municipality.
// Postal codes are immutable; they identify the city to the outside world.
func (f *CityFlowImpl) UpdateCity(ctx context.Context, uuid string, req *dto.UpdateCityRequest, metadata *ClientMetadata) (*dto.CityDTO, error) {
	city, err := f.cityRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Failed to lookup city", err)
	}
	if city == nil {
		return nil, NewBusinessError(CodeNotFound, "City not found", ErrCityNotFound)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, NewBusinessError(CodeValidation, "City name is required", ErrCityNameRequired)
		}
		city.Name = strings.TrimSpace(*req.Name)
	}
	if req.ContactEmail != nil {
		city.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.FeeModel != nil {
		feeModel := models.FeeModel(*req.FeeModel)
		if !feeModel.Valid() {
			return nil, NewBusinessError(CodeValidation, "City fee model is invalid", ErrCityFeeModelInvalid)
		}
		city.FeeModel = feeModel
	}
	if req.Fee != nil {
		fee, err := decimal.NewFromString(*req.Fee)
		if err != nil || fee.IsNegative() {
			return nil, NewBusinessErrorf(CodeValidation, "City fee %q is invalid", err, *req.Fee)
		}
		city.Fee = fee
	}
	if req.MaxQuantity != nil {
		city.MaxQuantity = req.MaxQuantity
	}
	if req.MaxPosterSize != nil {
		size := models.PosterSize(*req.MaxPosterSize)
		if !size.Valid() {
			return nil, NewBusinessError(CodeValidation, "Poster size is invalid", ErrItemPosterSizeInvalid)
		}
		city.MaxPosterSize = &size
	}
	if req.RequiresPermitForm != nil {
		city.RequiresPermitForm = *req.RequiresPermitForm
	}
	if req.RequiresPosterIMG != nil {
		city.RequiresPosterIMG = *req.RequiresPosterIMG
	}
	if req.PermitFormAssetID != nil {
		asset, err := f.resolvePermitForm(ctx, *req.PermitFormAssetID)
		if err != nil {
			return nil, err
		}
		city.PermitFormAssetID = &asset.ID
		city.PermitFormAsset = asset
	}

	if err := f.cityRepo.Update(ctx, city); err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to update city", err)
	}

	d := ToCityDTO(city)
	return &d, nil
}

// ListCities returns a paginated city listing in postal-code order
func (f *CityFlowImpl) ListCities(ctx context.Context, req *dto.ListCitiesRequest) (*dto.ListCitiesResponse, error) {
	page, pageSize, err := normalizePaging(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Invalid paging parameters", err)
	}

	filter := models.CityFilter{
		Name:     req.Name,
		HasEmail: req.HasEmail,
	}

	total, err := f.cityRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to count cities", err)
	}

	cities, err := f.cityRepo.ByFilter(ctx, filter, "postal_code ASC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to list cities", err)
	}

	items := make([]dto.CityDTO, 0, len(cities))
	for _, city := range cities {
		items = append(items, ToCityDTO(city))
	}

	return &dto.ListCitiesResponse{
		Message:    "Cities retrieved successfully",
		Items:      items,
		Pagination: buildPagination(page, pageSize, total),
	}, nil
}

// DeleteCity removes a municipality. Cities referenced by distribution list
// items stay; deleting them would orphan quoted placements.
func (f *CityFlowImpl) DeleteCity(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	city, err := f.cityRepo.ByUUID(ctx, uuid)
	if err != nil {
		return NewBusinessError(CodeValidation, "Failed to lookup city", err)
	}
	if city == nil {
		return NewBusinessError(CodeNotFound, "City not found", ErrCityNotFound)
	}

	referenced, err := f.itemRepo.Exists(ctx, models.DistributionListItemFilter{CityID: &city.ID})
	if err != nil {
		return NewBusinessError(CodeInternal, "Failed to check city references", err)
	}
	if referenced {
		return NewBusinessError(CodeConflict, "City is still referenced by distribution lists", ErrCityInUse)
	}

	if err := f.cityRepo.Delete(ctx, city.ID); err != nil {
		return NewBusinessError(CodeInternal, "Failed to delete city", err)
	}
	return nil
}

func (f *CityFlowImpl) resolvePermitForm(ctx context.Context, assetUUID string) (*models.FileAsset, error) {
	asset, err := f.assetRepo.ByUUID(ctx, assetUUID)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Failed to lookup permit form asset", err)
	}
	if asset == nil {
		return nil, NewBusinessError(CodeNotFound, "Permit form asset not found", ErrAssetNotFound)
	}
	if asset.Kind != models.AssetKindPermitForm {
		return nil, NewBusinessError(CodeValidation, "Asset is not a permit form", ErrAssetKindInvalid)
	}
	return asset, nil
}
