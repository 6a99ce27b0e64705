package businessflow

import (
	"context"
	"strings"

	"github.com/plakatpro/plakatpro/app/dto"
	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/repository"
	"gorm.io/gorm"
)

// ClientFlow handles client management business logic
type ClientFlow interface {
	CreateClient(ctx context.Context, req *dto.CreateClientRequest, metadata *ClientMetadata) (*dto.ClientDTO, error)
	GetClient(ctx context.Context, uuid string) (*dto.ClientDTO, error)
	UpdateClient(ctx context.Context, uuid string, req *dto.UpdateClientRequest, metadata *ClientMetadata) (*dto.ClientDTO, error)
	DeleteClient(ctx context.Context, uuid string, metadata *ClientMetadata) error
	ListClients(ctx context.Context, req *dto.ListClientsRequest) (*dto.ListClientsResponse, error)
}

// ClientFlowImpl implements the client business flow
type ClientFlowImpl struct {
	clientRepo repository.ClientRepository
	listRepo   repository.DistributionListRepository
	db         *gorm.DB
}

// NewClientFlow creates a new client flow instance
func NewClientFlow(
	clientRepo repository.ClientRepository,
	listRepo repository.DistributionListRepository,
	db *gorm.DB,
) ClientFlow {
	return &ClientFlowImpl{
		clientRepo: clientRepo,
		listRepo:   listRepo,
		db:         db,
	}
}

// CreateClient registers a new client
func (f *ClientFlowImpl) CreateClient(ctx context.Context, req *dto.CreateClientRequest, metadata *ClientMetadata) (*dto.ClientDTO, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, NewBusinessError(CodeValidation, "Client name is required", ErrClientNameRequired)
	}

	client := &models.Client{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
	}

	if err := f.clientRepo.Save(ctx, client); err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to create client", err)
	}

	d := ToClientDTO(client)
	return &d, nil
}

// GetClient retrieves a single client by UUID
func (f *ClientFlowImpl) GetClient(ctx context.Context, uuid string) (*dto.ClientDTO, error) {
	client, err := f.clientRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Failed to lookup client", err)
	}
	if client == nil {
		return nil, NewBusinessError(CodeNotFound, "Client not found", ErrClientNotFound)
	}

	d := ToClientDTO(client)
	return &d, nil
}

// UpdateClient applies the provided fields to an existing client
func (f *ClientFlowImpl) UpdateClient(ctx context.Context, uuid string, req *dto.UpdateClientRequest, metadata *ClientMetadata) (*dto.ClientDTO, error) {
	client, err := f.clientRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Failed to lookup client", err)
	}
	if client == nil {
		return nil, NewBusinessError(CodeNotFound, "Client not found", ErrClientNotFound)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, NewBusinessError(CodeValidation, "Client name is required", ErrClientNameRequired)
		}
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		client.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		client.Address = strings.TrimSpace(*req.Address)
	}

	if err := f.clientRepo.Update(ctx, client); err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to update client", err)
	}

	d := ToClientDTO(client)
	return &d, nil
}

// DeleteClient removes a client that has no distribution lists left
func (f *ClientFlowImpl) DeleteClient(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	client, err := f.clientRepo.ByUUID(ctx, uuid)
	if err != nil {
		return NewBusinessError(CodeValidation, "Failed to lookup client", err)
	}
	if client == nil {
		return NewBusinessError(CodeNotFound, "Client not found", ErrClientNotFound)
	}

	hasLists, err := f.listRepo.Exists(ctx, models.DistributionListFilter{ClientID: &client.ID})
	if err != nil {
		return NewBusinessError(CodeInternal, "Failed to check client usage", err)
	}
	if hasLists {
		return NewBusinessError(CodeConflict, "Client still has distribution lists", ErrClientHasActiveLists)
	}

	if err := f.clientRepo.Delete(ctx, client.ID); err != nil {
		return NewBusinessError(CodeInternal, "Failed to delete client", err)
	}

	return nil
}

// ListClients returns a paginated client listing
func (f *ClientFlowImpl) ListClients(ctx context.Context, req *dto.ListClientsRequest) (*dto.ListClientsResponse, error) {
	page, pageSize, err := normalizePaging(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Invalid paging parameters", err)
	}

	filter := models.ClientFilter{Name: req.Name}

	total, err := f.clientRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to count clients", err)
	}

	clients, err := f.clientRepo.ByFilter(ctx, filter, "name ASC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to list clients", err)
	}

	items := make([]dto.ClientDTO, 0, len(clients))
	for _, client := range clients {
		items = append(items, ToClientDTO(client))
	}

	return &dto.ListClientsResponse{
		Message:    "Clients retrieved successfully",
		Items:      items,
		Pagination: buildPagination(page, pageSize, total),
	}, nil
}

func normalizePaging(page, pageSize int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 25
	}
	if page < 1 {
		return 0, 0, ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return 0, 0, ErrInvalidPageSize
	}
	return page, pageSize, nil
}

func buildPagination(page, pageSize int, total int64) dto.Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return dto.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
