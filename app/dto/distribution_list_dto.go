package dto

// DistributionListItemInput is one quoted placement in a create/update request
type DistributionListItemInput struct {
	CityUUID          string  `json:"city_uuid" validate:"required,uuid"`
	Quantity          int     `json:"quantity" validate:"required,min=1"`
	PosterSize        string  `json:"poster_size" validate:"required,oneof=A1 A0 120x180"`
	Fee               *string `json:"fee,omitempty" validate:"omitempty"`
	DistanceKm        *float64 `json:"distance_km,omitempty" validate:"omitempty,min=0"`
	AttachPosterImage bool    `json:"attach_poster_image"`
	AttachPermitForm  bool    `json:"attach_permit_form"`
}

// CreateDistributionListRequest holds the fields for creating a list
type CreateDistributionListRequest struct {
	ClientUUID   string                      `json:"client_uuid" validate:"required,uuid"`
	EventName    string                      `json:"event_name" validate:"required,min=1,max=255"`
	EventAddress string                      `json:"event_address" validate:"omitempty"`
	EventDate    *string                     `json:"event_date,omitempty" validate:"omitempty"`
	StartDate    *string                     `json:"start_date,omitempty" validate:"omitempty"`
	EndDate      *string                     `json:"end_date,omitempty" validate:"omitempty"`
	Notes        string                      `json:"notes" validate:"omitempty"`
	Items        []DistributionListItemInput `json:"items" validate:"omitempty,dive"`
}

// UpdateDistributionListRequest holds optional fields for updating a list.
// When Items is present the item set is replaced wholesale.
type UpdateDistributionListRequest struct {
	EventName            *string                      `json:"event_name,omitempty" validate:"omitempty,min=1,max=255"`
	EventAddress         *string                      `json:"event_address,omitempty" validate:"omitempty"`
	EventDate            *string                      `json:"event_date,omitempty" validate:"omitempty"`
	StartDate            *string                      `json:"start_date,omitempty" validate:"omitempty"`
	EndDate              *string                      `json:"end_date,omitempty" validate:"omitempty"`
	Notes                *string                      `json:"notes,omitempty" validate:"omitempty"`
	Status               *string                      `json:"status,omitempty" validate:"omitempty,oneof=draft sent accepted rejected revised"`
	PosterImageAssetUUID *string                      `json:"poster_image_asset_uuid,omitempty" validate:"omitempty,uuid"`
	Items                []DistributionListItemInput  `json:"items,omitempty" validate:"omitempty,dive"`
}

// DistributionListItemDTO is the API representation of a list item
type DistributionListItemDTO struct {
	ID                 uint     `json:"id"`
	UUID               string   `json:"uuid"`
	CityUUID           string   `json:"city_uuid,omitempty"`
	CityName           string   `json:"city_name,omitempty"`
	PostalCode         string   `json:"postal_code,omitempty"`
	Quantity           int      `json:"quantity"`
	PosterSize         string   `json:"poster_size"`
	Fee                string   `json:"fee"`
	DistanceKm         *float64 `json:"distance_km,omitempty"`
	AttachPosterImage  bool     `json:"attach_poster_image"`
	AttachPermitForm   bool     `json:"attach_permit_form"`
	PermitStatus       string   `json:"permit_status"`
	RequestSentAt      *string  `json:"request_sent_at,omitempty"`
	ResponseReceivedAt *string  `json:"response_received_at,omitempty"`
	ResponseType       *string  `json:"response_type,omitempty"`
}

// QuoteCostsDTO is the API representation of a cost breakdown. Amounts are
// rounded to two decimals for display.
type QuoteCostsDTO struct {
	QuantityA1      int    `json:"quantity_a1"`
	QuantityA0      int    `json:"quantity_a0"`
	QuantityOther   int    `json:"quantity_other"`
	TotalQuantity   int    `json:"total_quantity"`
	CostA1          string `json:"cost_a1"`
	CostA0          string `json:"cost_a0"`
	ApplicationCost string `json:"application_cost"`
	CityFees        string `json:"city_fees"`
	Subtotal        string `json:"subtotal"`
	VAT             string `json:"vat"`
	Total           string `json:"total"`
}

// DistributionListDTO is the API representation of a distribution list
type DistributionListDTO struct {
	ID                   uint                      `json:"id"`
	UUID                 string                    `json:"uuid"`
	ClientUUID           string                    `json:"client_uuid,omitempty"`
	ClientName           string                    `json:"client_name,omitempty"`
	EventName            string                    `json:"event_name"`
	EventAddress         string                    `json:"event_address"`
	EventDate            *string                   `json:"event_date,omitempty"`
	StartDate            *string                   `json:"start_date,omitempty"`
	EndDate              *string                   `json:"end_date,omitempty"`
	Notes                string                    `json:"notes"`
	Status               string                    `json:"status"`
	PosterImageAssetUUID *string                   `json:"poster_image_asset_uuid,omitempty"`
	CampaignUUID         *string                   `json:"campaign_uuid,omitempty"`
	Archived             bool                      `json:"archived"`
	SentAt               *string                   `json:"sent_at,omitempty"`
	AcceptedAt           *string                   `json:"accepted_at,omitempty"`
	CreatedAt            string                    `json:"created_at"`
	Items                []DistributionListItemDTO `json:"items,omitempty"`
	Costs                *QuoteCostsDTO            `json:"costs,omitempty"`
}

// ListDistributionListsRequest holds filter and paging parameters
type ListDistributionListsRequest struct {
	ClientUUID *string `json:"client_uuid,omitempty" query:"client_uuid" validate:"omitempty,uuid"`
	Status     *string `json:"status,omitempty" query:"status" validate:"omitempty,oneof=draft sent accepted rejected revised"`
	Scope      *string `json:"scope,omitempty" query:"scope" validate:"omitempty,oneof=active past archived"`
	Page       int     `json:"page" query:"page" validate:"omitempty,min=1"`
	PageSize   int     `json:"page_size" query:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListDistributionListsResponse is the response for list listing
type ListDistributionListsResponse struct {
	Message    string                `json:"message"`
	Items      []DistributionListDTO `json:"items"`
	Pagination Pagination            `json:"pagination"`
}

// SendToClientResponse is returned after a quote left for the client
type SendToClientResponse struct {
	Message   string        `json:"message"`
	UUID      string        `json:"uuid"`
	Status    string        `json:"status"`
	SentAt    string        `json:"sent_at"`
	Recipient string        `json:"recipient"`
	Costs     QuoteCostsDTO `json:"costs"`
}

// RecordResponseRequest records the client's decision on a quote
type RecordResponseRequest struct {
	Response string `json:"response" validate:"required,oneof=accepted rejected"`
}

// RecordResponseResponse confirms the recorded decision
type RecordResponseResponse struct {
	Message string `json:"message"`
	UUID    string `json:"uuid"`
	Status  string `json:"status"`
}

// ConvertToCampaignResponse is returned after a successful conversion
type ConvertToCampaignResponse struct {
	Message      string `json:"message"`
	ListUUID     string `json:"list_uuid"`
	CampaignUUID string `json:"campaign_uuid"`
	Status       string `json:"status"`
	PermitCount  int    `json:"permit_count"`
}

// PermitDispatchOutcome is the per-item result of a batch send
type PermitDispatchOutcome struct {
	ItemUUID   string  `json:"item_uuid"`
	CityName   string  `json:"city_name"`
	PostalCode string  `json:"postal_code"`
	Status     string  `json:"status"` // sent, skipped, failed
	Reason     *string `json:"reason,omitempty"`
}

// SendApplicationsResponse aggregates a batch permit dispatch
type SendApplicationsResponse struct {
	Message  string                  `json:"message"`
	ListUUID string                  `json:"list_uuid"`
	Sent     int                     `json:"sent"`
	Skipped  int                     `json:"skipped"`
	Failed   int                     `json:"failed"`
	Outcomes []PermitDispatchOutcome `json:"outcomes"`
}
