package businessflow

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/plakatpro/plakatpro/app/dto"
	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/repository"
	"github.com/plakatpro/plakatpro/utils"
)

// CampaignFlow handles the execution phase: board moves and permit decisions
type CampaignFlow interface {
	GetCampaign(ctx context.Context, uuid string) (*dto.CampaignDTO, error)
	ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error)
	UpdateCampaignStatus(ctx context.Context, uuid string, req *dto.UpdateCampaignStatusRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error)
	ArchiveCampaign(ctx context.Context, uuid string, metadata *ClientMetadata) error
	UpdatePermitStatus(ctx context.Context, campaignUUID, permitUUID string, req *dto.UpdatePermitStatusRequest, metadata *ClientMetadata) (*dto.PermitDTO, error)
}

// CampaignFlowImpl implements the campaign business flow
type CampaignFlowImpl struct {
	campRepo   repository.CampaignRepository
	permitRepo repository.PermitRepository
	clientRepo repository.ClientRepository
	db         *gorm.DB
}

// NewCampaignFlow creates a new campaign flow instance
func NewCampaignFlow(
	campRepo repository.CampaignRepository,
	permitRepo repository.PermitRepository,
	clientRepo repository.ClientRepository,
	db *gorm.DB,
) CampaignFlow {
	return &CampaignFlowImpl{
		campRepo:   campRepo,
		permitRepo: permitRepo,
		clientRepo: clientRepo,
		db:         db,
	}
}

// GetCampaign retrieves a campaign with its permits
func (f *CampaignFlowImpl) GetCampaign(ctx context.Context, uuid string) (*dto.CampaignDTO, error) {
	campaign, err := f.loadCampaign(ctx, uuid)
	if err != nil {
		return nil, err
	}

	d := ToCampaignDTO(campaign, true)
	return &d, nil
}

// ListCampaigns returns a filtered page of campaigns. Archived campaigns are
// excluded unless asked for.
func (f *CampaignFlowImpl) ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error) {
	page, pageSize, err := normalizePaging(req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	filter := models.CampaignFilter{}
	if req.ClientUUID != nil {
		client, err := f.clientRepo.ByUUID(ctx, *req.ClientUUID)
		if err != nil {
			return nil, NewBusinessError(CodeValidation, "Failed to lookup client", err)
		}
		if client == nil {
			return nil, NewBusinessError(CodeNotFound, "Client not found", ErrClientNotFound)
		}
		filter.ClientID = &client.ID
	}
	if req.Status != nil {
		status := models.CampaignStatus(*req.Status)
		if !status.Valid() {
			return nil, NewBusinessErrorf(CodeValidation, "Invalid campaign status %q", ErrCampaignStatusInvalid, *req.Status)
		}
		filter.Status = &status
	}
	if req.Archived != nil {
		filter.Archived = req.Archived
	} else {
		notArchived := false
		filter.Archived = &notArchived
	}

	campaigns, err := f.campRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to list campaigns", err)
	}
	total, err := f.campRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to count campaigns", err)
	}

	items := make([]dto.CampaignDTO, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, ToCampaignDTO(campaign, false))
	}

	return &dto.ListCampaignsResponse{
		Message:    "Campaigns retrieved successfully",
		Items:      items,
		Pagination: buildPagination(page, pageSize, total),
	}, nil
}

// UpdateCampaignStatus moves a campaign to another board column. Any column
// is reachable from any other; the board imposes no transition order.
func (f *CampaignFlowImpl) UpdateCampaignStatus(ctx context.Context, uuid string, req *dto.UpdateCampaignStatusRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error) {
	campaign, err := f.loadCampaign(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if campaign.IsArchived() {
		return nil, NewBusinessError(CodeConflict, "Campaign is archived", ErrCampaignArchived)
	}

	newStatus := models.CampaignStatus(req.Status)
	if !newStatus.Valid() {
		return nil, NewBusinessErrorf(CodeValidation, "Invalid campaign status %q", ErrCampaignStatusInvalid, req.Status)
	}

	if campaign.Status != newStatus {
		if err := f.campRepo.UpdateStatus(ctx, campaign.ID, newStatus); err != nil {
			return nil, NewBusinessError(CodeInternal, "Failed to update campaign status", err)
		}
		campaign.Status = newStatus
	}

	d := ToCampaignDTO(campaign, true)
	return &d, nil
}

// ArchiveCampaign moves a campaign to the archive column and stamps it.
// Archiving is monotonic; re-archiving is a no-op.
func (f *CampaignFlowImpl) ArchiveCampaign(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	campaign, err := f.loadCampaign(ctx, uuid)
	if err != nil {
		return err
	}
	if campaign.IsArchived() {
		return nil
	}

	if err := f.campRepo.Archive(ctx, campaign.ID); err != nil {
		return NewBusinessError(CodeInternal, "Failed to archive campaign", err)
	}
	return nil
}

// UpdatePermitStatus records the municipality's decision on one permit. A
// terminal decision stamps the decision time once.
func (f *CampaignFlowImpl) UpdatePermitStatus(ctx context.Context, campaignUUID, permitUUID string, req *dto.UpdatePermitStatusRequest, metadata *ClientMetadata) (*dto.PermitDTO, error) {
	campaign, err := f.loadCampaign(ctx, campaignUUID)
	if err != nil {
		return nil, err
	}

	parsedUUID, err := utils.ParseUUID(permitUUID)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Invalid permit UUID", err)
	}

	var permit *models.Permit
	for i := range campaign.Permits {
		if campaign.Permits[i].UUID == parsedUUID {
			permit = &campaign.Permits[i]
			break
		}
	}
	if permit == nil {
		return nil, NewBusinessError(CodeNotFound, "Permit not found", ErrPermitNotFound)
	}

	newStatus := models.PermitStatus(req.Status)
	if !newStatus.Valid() {
		return nil, NewBusinessErrorf(CodeValidation, "Invalid permit status %q", ErrPermitDecisionInvalid, req.Status)
	}

	var decidedAt *time.Time
	if isPermitDecision(newStatus) && permit.DecidedAt == nil {
		now := utils.UTCNow()
		decidedAt = &now
	}

	if permit.Status != newStatus || decidedAt != nil {
		if err := f.permitRepo.UpdateStatus(ctx, permit.ID, newStatus, decidedAt); err != nil {
			return nil, NewBusinessError(CodeInternal, "Failed to update permit status", err)
		}
		permit.Status = newStatus
		if decidedAt != nil {
			permit.DecidedAt = decidedAt
		}
	}

	d := ToPermitDTO(permit)
	return &d, nil
}

func (f *CampaignFlowImpl) loadCampaign(ctx context.Context, uuid string) (*models.Campaign, error) {
	campaign, err := f.campRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError(CodeNotFound, "Campaign not found", ErrCampaignNotFound)
	}
	return campaign, nil
}

// isPermitDecision reports whether a status is a final municipality answer
func isPermitDecision(status models.PermitStatus) bool {
	switch status {
	case models.PermitStatusApproved, models.PermitStatusApprovedWithConditions, models.PermitStatusRejected:
		return true
	default:
		return false
	}
}
