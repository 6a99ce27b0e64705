package dto

// CreateClientRequest holds the fields for creating a client
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Address string `json:"address" validate:"omitempty"`
}

// UpdateClientRequest holds optional fields for updating a client
type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty"`
}

// ClientDTO is the API representation of a client
type ClientDTO struct {
	ID        uint   `json:"id"`
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
}

// ListClientsRequest holds filter and paging parameters for listing clients
type ListClientsRequest struct {
	Name     *string `json:"name,omitempty" query:"name" validate:"omitempty"`
	Page     int     `json:"page" query:"page" validate:"omitempty,min=1"`
	PageSize int     `json:"page_size" query:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListClientsResponse is the response for client listing
type ListClientsResponse struct {
	Message    string      `json:"message"`
	Items      []ClientDTO `json:"items"`
	Pagination Pagination  `json:"pagination"`
}
