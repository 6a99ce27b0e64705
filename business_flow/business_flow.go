// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/plakatpro/plakatpro/app/dto"
	"github.com/plakatpro/plakatpro/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds request-related information for logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// ToClientDTO converts a client model to its API representation
func ToClientDTO(client *models.Client) dto.ClientDTO {
	return dto.ClientDTO{
		ID:        client.ID,
		UUID:      client.UUID.String(),
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Address:   client.Address,
		CreatedAt: formatTime(client.CreatedAt),
	}
}

// ToCityDTO converts a city model to its API representation
func ToCityDTO(city *models.City) dto.CityDTO {
	d := dto.CityDTO{
		ID:                 city.ID,
		UUID:               city.UUID.String(),
		Name:               city.Name,
		PostalCode:         city.PostalCode,
		ContactEmail:       city.ContactEmail,
		FeeModel:           city.FeeModel.String(),
		Fee:                city.Fee.StringFixed(2),
		MaxQuantity:        city.MaxQuantity,
		RequiresPermitForm: city.RequiresPermitForm,
		RequiresPosterIMG:  city.RequiresPosterIMG,
		CreatedAt:          formatTime(city.CreatedAt),
	}
	if city.MaxPosterSize != nil {
		s := string(*city.MaxPosterSize)
		d.MaxPosterSize = &s
	}
	if city.PermitFormAsset != nil {
		u := city.PermitFormAsset.UUID.String()
		d.PermitFormAssetID = &u
	}
	return d
}

// ToItemDTO converts a distribution list item to its API representation
func ToItemDTO(item *models.DistributionListItem) dto.DistributionListItemDTO {
	d := dto.DistributionListItemDTO{
		ID:                 item.ID,
		UUID:               item.UUID.String(),
		Quantity:           item.Quantity,
		PosterSize:         string(item.PosterSize),
		Fee:                item.EffectiveFee().StringFixed(2),
		DistanceKm:         item.DistanceKm,
		AttachPosterImage:  item.AttachPosterImage,
		AttachPermitForm:   item.AttachPermitForm,
		PermitStatus:       string(item.PermitStatus),
		RequestSentAt:      formatTimePtr(item.RequestSentAt),
		ResponseReceivedAt: formatTimePtr(item.ResponseReceivedAt),
		ResponseType:       item.ResponseType,
	}
	if item.City != nil {
		d.CityUUID = item.City.UUID.String()
		d.CityName = item.City.Name
		d.PostalCode = item.City.PostalCode
	}
	return d
}

// ToQuoteCostsDTO rounds a cost breakdown for display
func ToQuoteCostsDTO(costs QuoteCosts) dto.QuoteCostsDTO {
	return dto.QuoteCostsDTO{
		QuantityA1:      costs.QuantityA1,
		QuantityA0:      costs.QuantityA0,
		QuantityOther:   costs.QuantityOther,
		TotalQuantity:   costs.TotalQuantity,
		CostA1:          costs.CostA1.StringFixed(2),
		CostA0:          costs.CostA0.StringFixed(2),
		ApplicationCost: costs.ApplicationCost.StringFixed(2),
		CityFees:        costs.CityFees.StringFixed(2),
		Subtotal:        costs.Subtotal.StringFixed(2),
		VAT:             costs.VAT.StringFixed(2),
		Total:           costs.Total.StringFixed(2),
	}
}

// ToDistributionListDTO converts a list with its loaded relations
func ToDistributionListDTO(list *models.DistributionList, withItems bool) dto.DistributionListDTO {
	d := dto.DistributionListDTO{
		ID:           list.ID,
		UUID:         list.UUID.String(),
		EventName:    list.EventName,
		EventAddress: list.EventAddress,
		EventDate:    formatTimePtr(list.EventDate),
		StartDate:    formatTimePtr(list.StartDate),
		EndDate:      formatTimePtr(list.EndDate),
		Notes:        list.Notes,
		Status:       string(list.Status),
		Archived:     list.IsArchived(),
		SentAt:       formatTimePtr(list.SentAt),
		AcceptedAt:   formatTimePtr(list.AcceptedAt),
		CreatedAt:    formatTime(list.CreatedAt),
	}
	if list.Client != nil {
		d.ClientUUID = list.Client.UUID.String()
		d.ClientName = list.Client.Name
	}
	if list.PosterImageAsset != nil {
		u := list.PosterImageAsset.UUID.String()
		d.PosterImageAssetUUID = &u
	}
	if list.Campaign != nil {
		u := list.Campaign.UUID.String()
		d.CampaignUUID = &u
	}
	if withItems {
		for i := range list.Items {
			d.Items = append(d.Items, ToItemDTO(&list.Items[i]))
		}
	}
	return d
}

// ToPermitDTO converts a permit model to its API representation
func ToPermitDTO(permit *models.Permit) dto.PermitDTO {
	d := dto.PermitDTO{
		ID:         permit.ID,
		UUID:       permit.UUID.String(),
		Quantity:   permit.Quantity,
		PosterSize: string(permit.PosterSize),
		Fee:        permit.Fee.StringFixed(2),
		Status:     string(permit.Status),
		SentAt:     formatTimePtr(permit.SentAt),
		DecidedAt:  formatTimePtr(permit.DecidedAt),
	}
	if permit.City != nil {
		d.CityUUID = permit.City.UUID.String()
		d.CityName = permit.City.Name
		d.PostalCode = permit.City.PostalCode
	}
	return d
}

// ToCampaignDTO converts a campaign with its loaded relations
func ToCampaignDTO(campaign *models.Campaign, withPermits bool) dto.CampaignDTO {
	d := dto.CampaignDTO{
		ID:           campaign.ID,
		UUID:         campaign.UUID.String(),
		EventName:    campaign.EventName,
		EventAddress: campaign.EventAddress,
		EventDate:    formatTimePtr(campaign.EventDate),
		StartDate:    formatTimePtr(campaign.StartDate),
		EndDate:      formatTimePtr(campaign.EndDate),
		Notes:        campaign.Notes,
		Status:       string(campaign.Status),
		Archived:     campaign.IsArchived(),
		CreatedAt:    formatTime(campaign.CreatedAt),
	}
	if campaign.Client != nil {
		d.ClientUUID = campaign.Client.UUID.String()
		d.ClientName = campaign.Client.Name
	}
	if campaign.SourceList != nil {
		u := campaign.SourceList.UUID.String()
		d.SourceListUUID = &u
	}
	if withPermits {
		for i := range campaign.Permits {
			d.Permits = append(d.Permits, ToPermitDTO(&campaign.Permits[i]))
		}
	}
	return d
}

// ToAssetDTO converts a file asset model to its API representation
func ToAssetDTO(asset *models.FileAsset) dto.AssetDTO {
	return dto.AssetDTO{
		ID:               asset.ID,
		UUID:             asset.UUID.String(),
		OriginalFilename: asset.OriginalFilename,
		ContentType:      asset.ContentType,
		SizeBytes:        asset.SizeBytes,
		Kind:             asset.Kind,
		CreatedAt:        formatTime(asset.CreatedAt),
	}
}
