package dto

// CreateCityRequest holds the fields for registering a municipality
type CreateCityRequest struct {
	Name               string  `json:"name" validate:"required,min=1,max=255"`
	PostalCode         string  `json:"postal_code" validate:"required,min=4,max=10"`
	ContactEmail       string  `json:"contact_email" validate:"omitempty,email,max=255"`
	FeeModel           string  `json:"fee_model" validate:"omitempty,oneof=pauschal pro_plakat pro_zeitraum"`
	Fee                string  `json:"fee" validate:"omitempty"`
	MaxQuantity        *int    `json:"max_quantity,omitempty" validate:"omitempty,min=1"`
	MaxPosterSize      *string `json:"max_poster_size,omitempty" validate:"omitempty,oneof=A1 A0 120x180"`
	RequiresPermitForm bool    `json:"requires_permit_form"`
	RequiresPosterIMG  bool    `json:"requires_poster_image"`
	PermitFormAssetID  *string `json:"permit_form_asset_uuid,omitempty" validate:"omitempty,uuid"`
}

// UpdateCityRequest holds optional fields for updating a municipality
type UpdateCityRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	ContactEmail       *string `json:"contact_email,omitempty" validate:"omitempty,email,max=255"`
	FeeModel           *string `json:"fee_model,omitempty" validate:"omitempty,oneof=pauschal pro_plakat pro_zeitraum"`
	Fee                *string `json:"fee,omitempty" validate:"omitempty"`
	MaxQuantity        *int    `json:"max_quantity,omitempty" validate:"omitempty,min=1"`
	MaxPosterSize      *string `json:"max_poster_size,omitempty" validate:"omitempty,oneof=A1 A0 120x180"`
	RequiresPermitForm *bool   `json:"requires_permit_form,omitempty"`
	RequiresPosterIMG  *bool   `json:"requires_poster_image,omitempty"`
	PermitFormAssetID  *string `json:"permit_form_asset_uuid,omitempty" validate:"omitempty,uuid"`
}

// CityDTO is the API representation of a municipality
type CityDTO struct {
	ID                 uint    `json:"id"`
	UUID               string  `json:"uuid"`
	Name               string  `json:"name"`
	PostalCode         string  `json:"postal_code"`
	ContactEmail       string  `json:"contact_email"`
	FeeModel           string  `json:"fee_model"`
	Fee                string  `json:"fee"`
	MaxQuantity        *int    `json:"max_quantity,omitempty"`
	MaxPosterSize      *string `json:"max_poster_size,omitempty"`
	RequiresPermitForm bool    `json:"requires_permit_form"`
	RequiresPosterIMG  bool    `json:"requires_poster_image"`
	PermitFormAssetID  *string `json:"permit_form_asset_uuid,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

// ListCitiesRequest holds filter and paging parameters for listing cities
type ListCitiesRequest struct {
	Name     *string `json:"name,omitempty" query:"name" validate:"omitempty"`
	HasEmail *bool   `json:"has_email,omitempty" query:"has_email"`
	Page     int     `json:"page" query:"page" validate:"omitempty,min=1"`
	PageSize int     `json:"page_size" query:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListCitiesResponse is the response for city listing
type ListCitiesResponse struct {
	Message    string     `json:"message"`
	Items      []CityDTO  `json:"items"`
	Pagination Pagination `json:"pagination"`
}
