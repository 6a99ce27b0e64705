package dto

// PermitDTO is the API representation of a campaign permit
type PermitDTO struct {
	ID         uint    `json:"id"`
	UUID       string  `json:"uuid"`
	CityUUID   string  `json:"city_uuid,omitempty"`
	CityName   string  `json:"city_name,omitempty"`
	PostalCode string  `json:"postal_code,omitempty"`
	Quantity   int     `json:"quantity"`
	PosterSize string  `json:"poster_size"`
	Fee        string  `json:"fee"`
	Status     string  `json:"status"`
	SentAt     *string `json:"sent_at,omitempty"`
	DecidedAt  *string `json:"decided_at,omitempty"`
}

// CampaignDTO is the API representation of a campaign
type CampaignDTO struct {
	ID             uint        `json:"id"`
	UUID           string      `json:"uuid"`
	ClientUUID     string      `json:"client_uuid,omitempty"`
	ClientName     string      `json:"client_name,omitempty"`
	SourceListUUID *string     `json:"source_list_uuid,omitempty"`
	EventName      string      `json:"event_name"`
	EventAddress   string      `json:"event_address"`
	EventDate      *string     `json:"event_date,omitempty"`
	StartDate      *string     `json:"start_date,omitempty"`
	EndDate        *string     `json:"end_date,omitempty"`
	Notes          string      `json:"notes"`
	Status         string      `json:"status"`
	Archived       bool        `json:"archived"`
	CreatedAt      string      `json:"created_at"`
	Permits        []PermitDTO `json:"permits,omitempty"`
}

// ListCampaignsRequest holds filter and paging parameters for campaigns
type ListCampaignsRequest struct {
	ClientUUID *string `json:"client_uuid,omitempty" query:"client_uuid" validate:"omitempty,uuid"`
	Status     *string `json:"status,omitempty" query:"status" validate:"omitempty"`
	Archived   *bool   `json:"archived,omitempty" query:"archived"`
	Page       int     `json:"page" query:"page" validate:"omitempty,min=1"`
	PageSize   int     `json:"page_size" query:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListCampaignsResponse is the response for campaign listing
type ListCampaignsResponse struct {
	Message    string        `json:"message"`
	Items      []CampaignDTO `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// UpdateCampaignStatusRequest moves a campaign on the board
type UpdateCampaignStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=backlog permits print planning hanging control removal_plan removal_live report archive"`
}

// UpdatePermitStatusRequest records a municipality decision
type UpdatePermitStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent requested info_needed approved approved_with_conditions rejected"`
}
