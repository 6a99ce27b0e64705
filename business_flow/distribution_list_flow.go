package businessflow

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/plakatpro/plakatpro/app/dto"
	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/repository"
	"github.com/plakatpro/plakatpro/utils"
)

// Export formats supported by ExportList
const (
	ExportFormatPDF  = "pdf"
	ExportFormatHTML = "html"
	ExportFormatXLSX = "xlsx"
)

// DistributionListFlow handles the quote lifecycle: drafting, sending the
// quote to the client, recording the response, converting an accepted list
// into a campaign and dispatching permit applications to the municipalities.
type DistributionListFlow interface {
	CreateList(ctx context.Context, req *dto.CreateDistributionListRequest, metadata *ClientMetadata) (*dto.DistributionListDTO, error)
	GetList(ctx context.Context, uuid string) (*dto.DistributionListDTO, error)
	UpdateList(ctx context.Context, uuid string, req *dto.UpdateDistributionListRequest, metadata *ClientMetadata) (*dto.DistributionListDTO, error)
	ArchiveList(ctx context.Context, uuid string, metadata *ClientMetadata) error
	ListLists(ctx context.Context, req *dto.ListDistributionListsRequest) (*dto.ListDistributionListsResponse, error)
	SendToClient(ctx context.Context, uuid string, metadata *ClientMetadata) (*dto.SendToClientResponse, error)
	RecordClientResponse(ctx context.Context, uuid string, req *dto.RecordResponseRequest, metadata *ClientMetadata) (*dto.RecordResponseResponse, error)
	ConvertToCampaign(ctx context.Context, uuid string, metadata *ClientMetadata) (*dto.ConvertToCampaignResponse, error)
	SendPermitApplications(ctx context.Context, uuid string, metadata *ClientMetadata) (*dto.SendApplicationsResponse, error)
	ExportList(ctx context.Context, uuid string, format string) (data []byte, filename string, err error)
}

// DistributionListFlowImpl implements the distribution list business flow
type DistributionListFlowImpl struct {
	listRepo   repository.DistributionListRepository
	itemRepo   repository.DistributionListItemRepository
	clientRepo repository.ClientRepository
	cityRepo   repository.CityRepository
	campRepo   repository.CampaignRepository
	permitRepo repository.PermitRepository
	emailRepo  repository.PermitEmailRepository
	assetRepo  repository.FileAssetRepository
	dispatcher EmailDispatcher
	renderer   QuoteRenderer
	store      ObjectStore
	cache      DocumentCache
	vatRate    decimal.Decimal
	db         *gorm.DB
}

// NewDistributionListFlow creates a new distribution list flow instance
func NewDistributionListFlow(
	listRepo repository.DistributionListRepository,
	itemRepo repository.DistributionListItemRepository,
	clientRepo repository.ClientRepository,
	cityRepo repository.CityRepository,
	campRepo repository.CampaignRepository,
	permitRepo repository.PermitRepository,
	emailRepo repository.PermitEmailRepository,
	assetRepo repository.FileAssetRepository,
	dispatcher EmailDispatcher,
	renderer QuoteRenderer,
	store ObjectStore,
	cache DocumentCache,
	vatRate decimal.Decimal,
	db *gorm.DB,
) DistributionListFlow {
	if vatRate.IsZero() {
		vatRate = DefaultVATRate
	}
	return &DistributionListFlowImpl{
		listRepo:   listRepo,
		itemRepo:   itemRepo,
		clientRepo: clientRepo,
		cityRepo:   cityRepo,
		campRepo:   campRepo,
		permitRepo: permitRepo,
		emailRepo:  emailRepo,
		assetRepo:  assetRepo,
		dispatcher: dispatcher,
		renderer:   renderer,
		store:      store,
		cache:      cache,
		vatRate:    vatRate,
		db:         db,
	}
}

// CreateList creates a draft distribution list with its items
func (f *DistributionListFlowImpl) CreateList(ctx context.Context, req *dto.CreateDistributionListRequest, metadata *ClientMetadata) (*dto.DistributionListDTO, error) {
	if strings.TrimSpace(req.EventName) == "" {
		return nil, NewBusinessError(CodeValidation, "Event name is required", ErrListEventNameRequired)
	}

	client, err := f.clientRepo.ByUUID(ctx, req.ClientUUID)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Failed to lookup client", err)
	}
	if client == nil {
		return nil, NewBusinessError(CodeNotFound, "Client not found", ErrClientNotFound)
	}

	eventDate, err := parseDatePtr(req.EventDate)
	if err != nil {
		return nil, err
	}
	startDate, err := parseDatePtr(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDatePtr(req.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		return nil, NewBusinessError(CodeValidation, "Start date cannot be after end date", ErrStartDateAfterEndDate)
	}

	list := &models.DistributionList{
		ClientID:     client.ID,
		EventName:    strings.TrimSpace(req.EventName),
		EventAddress: strings.TrimSpace(req.EventAddress),
		EventDate:    eventDate,
		StartDate:    startDate,
		EndDate:      endDate,
		Notes:        req.Notes,
		Status:       models.DistributionListStatusDraft,
	}

	items, err := f.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.listRepo.Save(txCtx, list); err != nil {
			return err
		}
		for _, item := range items {
			item.DistributionListID = list.ID
		}
		if len(items) > 0 {
			return f.itemRepo.SaveBatch(txCtx, items)
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to create distribution list", err)
	}

	return f.GetList(ctx, list.UUID.String())
}

// GetList retrieves a list with its items and computed cost breakdown
func (f *DistributionListFlowImpl) GetList(ctx context.Context, uuid string) (*dto.DistributionListDTO, error) {
	list, err := f.loadList(ctx, uuid)
	if err != nil {
		return nil, err
	}

	d := ToDistributionListDTO(list, true)
	costs := ToQuoteCostsDTO(CalculateQuoteCosts(itemPtrs(list.Items), f.vatRate))
	d.Costs = &costs
	return &d, nil
}

// UpdateList applies the provided fields. A present Items slice replaces the
// item set wholesale. Archived lists are immutable.
func (f *DistributionListFlowImpl) UpdateList(ctx context.Context, uuid string, req *dto.UpdateDistributionListRequest, metadata *ClientMetadata) (*dto.DistributionListDTO, error) {
	list, err := f.loadList(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if list.IsArchived() {
		return nil, NewBusinessError(CodeConflict, "Distribution list is archived", ErrListArchived)
	}

	if req.EventName != nil {
		if strings.TrimSpace(*req.EventName) == "" {
			return nil, NewBusinessError(CodeValidation, "Event name is required", ErrListEventNameRequired)
		}
		list.EventName = strings.TrimSpace(*req.EventName)
	}
	if req.EventAddress != nil {
		list.EventAddress = strings.TrimSpace(*req.EventAddress)
	}
	if req.EventDate != nil {
		t, err := parseDate(*req.EventDate)
		if err != nil {
			return nil, err
		}
		list.EventDate = &t
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		list.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		list.EndDate = &t
	}
	if list.StartDate != nil && list.EndDate != nil && list.StartDate.After(*list.EndDate) {
		return nil, NewBusinessError(CodeValidation, "Start date cannot be after end date", ErrStartDateAfterEndDate)
	}
	if req.Notes != nil {
		list.Notes = *req.Notes
	}

	if req.Status != nil {
		newStatus := models.DistributionListStatus(*req.Status)
		if !list.CanTransitionTo(newStatus) {
			return nil, NewBusinessErrorf(CodeConflict,
				"Cannot change status from %s to %s", ErrListTransitionInvalid, list.Status, newStatus)
		}
		now := utils.UTCNow()
		if newStatus == models.DistributionListStatusSent && list.SentAt == nil {
			list.SentAt = &now
		}
		if newStatus == models.DistributionListStatusAccepted && list.AcceptedAt == nil {
			list.AcceptedAt = &now
		}
		list.Status = newStatus
	}

	if req.PosterImageAssetUUID != nil {
		assetID, err := f.resolvePosterImage(ctx, *req.PosterImageAssetUUID)
		if err != nil {
			return nil, err
		}
		list.PosterImageAssetID = assetID
	}

	var newItems []*models.DistributionListItem
	if req.Items != nil {
		newItems, err = f.buildItems(ctx, req.Items)
		if err != nil {
			return nil, err
		}
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if req.Items != nil {
			for i := range list.Items {
				if err := f.itemRepo.Delete(txCtx, list.Items[i].ID); err != nil {
					return err
				}
			}
			for _, item := range newItems {
				item.DistributionListID = list.ID
			}
			if len(newItems) > 0 {
				if err := f.itemRepo.SaveBatch(txCtx, newItems); err != nil {
					return err
				}
			}
			list.Items = nil
		}
		return f.listRepo.Update(txCtx, list)
	})
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to update distribution list", err)
	}

	return f.GetList(ctx, uuid)
}

// ArchiveList hides a list from the default views. Archiving is monotonic;
// re-archiving an archived list is a no-op.
func (f *DistributionListFlowImpl) ArchiveList(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	list, err := f.loadList(ctx, uuid)
	if err != nil {
		return err
	}
	if list.IsArchived() {
		return nil
	}

	if err := f.listRepo.Archive(ctx, list.ID); err != nil {
		return NewBusinessError(CodeInternal, "Failed to archive distribution list", err)
	}
	return nil
}

// ListLists returns a filtered page of distribution lists. The scope filter
// splits the default views: active (not archived, period not over), past
// (not archived, period over) and archived.
func (f *DistributionListFlowImpl) ListLists(ctx context.Context, req *dto.ListDistributionListsRequest) (*dto.ListDistributionListsResponse, error) {
	page, pageSize, err := normalizePaging(req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	filter := models.DistributionListFilter{}
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
		status := models.DistributionListStatus(*req.Status)
		filter.Status = &status
	}

	notArchived := false
	archived := true
	now := utils.UTCNow()
	if req.Scope != nil {
		switch *req.Scope {
		case "archived":
			filter.Archived = &archived
		case "past":
			filter.Archived = &notArchived
			filter.EndsBefore = &now
		case "active":
			filter.Archived = &notArchived
			filter.EndsAfter = &now
		}
	}

	lists, err := f.listRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to list distribution lists", err)
	}
	total, err := f.listRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to count distribution lists", err)
	}

	items := make([]dto.DistributionListDTO, 0, len(lists))
	for _, list := range lists {
		items = append(items, ToDistributionListDTO(list, false))
	}

	return &dto.ListDistributionListsResponse{
		Message:    "Distribution lists retrieved successfully",
		Items:      items,
		Pagination: buildPagination(page, pageSize, total),
	}, nil
}

// SendToClient renders the quote PDF and emails it to the list's client.
// The status only moves to sent after the email actually left.
func (f *DistributionListFlowImpl) SendToClient(ctx context.Context, uuid string, metadata *ClientMetadata) (*dto.SendToClientResponse, error) {
	list, err := f.loadList(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if list.IsArchived() {
		return nil, NewBusinessError(CodeConflict, "Distribution list is archived", ErrListArchived)
	}
	if len(list.Items) == 0 {
		return nil, NewBusinessError(CodeValidation, "Distribution list has no items", ErrListHasNoItems)
	}
	if !list.CanTransitionTo(models.DistributionListStatusSent) {
		return nil, NewBusinessErrorf(CodeConflict,
			"Cannot send a list in status %s", ErrListTransitionInvalid, list.Status)
	}
	if list.Client == nil || strings.TrimSpace(list.Client.Email) == "" {
		return nil, NewBusinessError(CodeValidation, "Client has no email address", ErrClientEmailMissing)
	}

	items := itemPtrs(list.Items)
	costs := CalculateQuoteCosts(items, f.vatRate)

	pdfData, err := f.renderer.BuildPDF(list, items, costs)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to render quote PDF", err)
	}

	email := &OutboundEmail{
		To:       []string{list.Client.Email},
		Subject:  fmt.Sprintf("Ihr Angebot: %s", list.EventName),
		BodyText: quoteEmailBody(list, costs),
		Attachments: []EmailAttachment{{
			Filename:    f.renderer.Filename(list, ExportFormatPDF),
			ContentType: "application/pdf",
			Data:        pdfData,
		}},
	}
	if _, err := f.dispatcher.Send(ctx, email); err != nil {
		if IsBusinessError(err) {
			return nil, err
		}
		return nil, NewBusinessErrorf(CodeDispatch,
			"Failed to send quote to %s", ErrDispatchFailed, list.Client.Email)
	}

	now := utils.UTCNow()
	if err := f.listRepo.UpdateStatus(ctx, list.ID, models.DistributionListStatusSent, &now, nil); err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to update list status", err)
	}

	return &dto.SendToClientResponse{
		Message:   "Quote sent to client",
		UUID:      list.UUID.String(),
		Status:    models.DistributionListStatusSent.String(),
		SentAt:    formatTime(now),
		Recipient: list.Client.Email,
		Costs:     ToQuoteCostsDTO(costs),
	}, nil
}

// RecordClientResponse records the client's decision on a sent quote.
// Recording the same decision twice is a no-op.
func (f *DistributionListFlowImpl) RecordClientResponse(ctx context.Context, uuid string, req *dto.RecordResponseRequest, metadata *ClientMetadata) (*dto.RecordResponseResponse, error) {
	list, err := f.loadList(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if list.IsArchived() {
		return nil, NewBusinessError(CodeConflict, "Distribution list is archived", ErrListArchived)
	}

	newStatus := models.DistributionListStatus(req.Response)
	if newStatus != models.DistributionListStatusAccepted && newStatus != models.DistributionListStatusRejected {
		return nil, NewBusinessError(CodeValidation, "Response type is invalid", ErrResponseTypeInvalid)
	}

	if list.Status == newStatus {
		return &dto.RecordResponseResponse{
			Message: "Response already recorded",
			UUID:    list.UUID.String(),
			Status:  list.Status.String(),
		}, nil
	}
	if !list.CanTransitionTo(newStatus) {
		return nil, NewBusinessErrorf(CodeConflict,
			"Cannot record a response on a list in status %s", ErrListTransitionInvalid, list.Status)
	}

	var acceptedAt *time.Time
	if newStatus == models.DistributionListStatusAccepted {
		now := utils.UTCNow()
		acceptedAt = &now
	}
	if err := f.listRepo.UpdateStatus(ctx, list.ID, newStatus, nil, acceptedAt); err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to update list status", err)
	}

	return &dto.RecordResponseResponse{
		Message: "Response recorded",
		UUID:    list.UUID.String(),
		Status:  newStatus.String(),
	}, nil
}

// ConvertToCampaign turns an accepted list into a campaign with one permit
// per item. A list converts at most once; the unique index on the campaign's
// source list backs the check against concurrent conversions.
func (f *DistributionListFlowImpl) ConvertToCampaign(ctx context.Context, uuid string, metadata *ClientMetadata) (*dto.ConvertToCampaignResponse, error) {
	list, err := f.loadList(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if list.IsArchived() {
		return nil, NewBusinessError(CodeConflict, "Distribution list is archived", ErrListArchived)
	}
	if list.Status != models.DistributionListStatusAccepted {
		return nil, NewBusinessErrorf(CodeConflict,
			"Only accepted lists can be converted; list is %s", ErrListNotAccepted, list.Status)
	}
	if len(list.Items) == 0 {
		return nil, NewBusinessError(CodeValidation, "Distribution list has no items", ErrListHasNoItems)
	}

	existing, err := f.campRepo.BySourceListID(ctx, list.ID)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to check for an existing campaign", err)
	}
	if existing != nil {
		return nil, NewBusinessErrorf(CodeConflict,
			"List is already converted to campaign %s", ErrListAlreadyConverted, existing.UUID)
	}

	campaign := &models.Campaign{
		ClientID:     list.ClientID,
		SourceListID: &list.ID,
		EventName:    list.EventName,
		EventAddress: list.EventAddress,
		EventDate:    list.EventDate,
		StartDate:    list.StartDate,
		EndDate:      list.EndDate,
		Notes:        list.Notes,
		Status:       models.CampaignStatusPermits,
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.campRepo.Save(txCtx, campaign); err != nil {
			return err
		}
		permits := make([]*models.Permit, 0, len(list.Items))
		for i := range list.Items {
			item := &list.Items[i]
			permits = append(permits, &models.Permit{
				CampaignID: campaign.ID,
				CityID:     item.CityID,
				Quantity:   item.Quantity,
				PosterSize: item.PosterSize,
				Fee:        item.EffectiveFee(),
				Status:     item.PermitStatus,
				SentAt:     item.RequestSentAt,
			})
		}
		return f.permitRepo.SaveBatch(txCtx, permits)
	})
	if err != nil {
		if isUniqueViolation(err) {
			// A concurrent conversion won the race.
			return nil, NewBusinessError(CodeConflict, "List is already converted", ErrListAlreadyConverted)
		}
		return nil, NewBusinessError(CodeInternal, "Failed to convert distribution list", err)
	}

	return &dto.ConvertToCampaignResponse{
		Message:      "Distribution list converted to campaign",
		ListUUID:     list.UUID.String(),
		CampaignUUID: campaign.UUID.String(),
		Status:       campaign.Status.String(),
		PermitCount:  len(list.Items),
	}, nil
}

// SendPermitApplications emails a permit application to every municipality on
// the list, in postal code order. Each item succeeds or fails on its own; one
// municipality's failure never blocks the rest. Every attempt leaves an audit
// row regardless of outcome.
func (f *DistributionListFlowImpl) SendPermitApplications(ctx context.Context, uuid string, metadata *ClientMetadata) (*dto.SendApplicationsResponse, error) {
	list, err := f.loadList(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if list.IsArchived() {
		return nil, NewBusinessError(CodeConflict, "Distribution list is archived", ErrListArchived)
	}

	items, err := f.itemRepo.ListByListID(ctx, list.ID)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to load list items", err)
	}
	if len(items) == 0 {
		return nil, NewBusinessError(CodeValidation, "Distribution list has no items", ErrListHasNoItems)
	}

	resp := &dto.SendApplicationsResponse{
		ListUUID: list.UUID.String(),
		Outcomes: make([]dto.PermitDispatchOutcome, 0, len(items)),
	}

	// Attachment bytes are loaded once per asset for the whole batch.
	assetCache := make(map[uint][]byte)

	for _, item := range items {
		outcome := dto.PermitDispatchOutcome{ItemUUID: item.UUID.String()}
		if item.City != nil {
			outcome.CityName = item.City.Name
			outcome.PostalCode = item.City.PostalCode
		}

		if item.City == nil || strings.TrimSpace(item.City.ContactEmail) == "" {
			reason := ErrRecipientMissing.Error()
			outcome.Status = string(models.EmailDeliverySkipped)
			outcome.Reason = &reason
			resp.Skipped++
			resp.Outcomes = append(resp.Outcomes, outcome)
			f.recordPermitEmail(ctx, item, "", "", "", nil, models.EmailDeliverySkipped, nil, &reason)
			continue
		}

		attachments, err := f.collectAttachments(ctx, list, item, assetCache)
		if err != nil {
			reason := err.Error()
			outcome.Status = string(models.EmailDeliveryFailed)
			outcome.Reason = &reason
			resp.Failed++
			resp.Outcomes = append(resp.Outcomes, outcome)
			f.recordPermitEmail(ctx, item, item.City.ContactEmail, "", "", nil, models.EmailDeliveryFailed, nil, &reason)
			continue
		}

		subject := fmt.Sprintf("Antrag auf Plakatierungsgenehmigung: %s", list.EventName)
		body := permitEmailBody(list, item)
		email := &OutboundEmail{
			To:          []string{item.City.ContactEmail},
			Subject:     subject,
			BodyText:    body,
			Attachments: attachments,
		}

		messageID, err := f.dispatcher.Send(ctx, email)
		if err != nil {
			reason := err.Error()
			outcome.Status = string(models.EmailDeliveryFailed)
			outcome.Reason = &reason
			resp.Failed++
			resp.Outcomes = append(resp.Outcomes, outcome)
			f.recordPermitEmail(ctx, item, item.City.ContactEmail, subject, body, attachments, models.EmailDeliveryFailed, nil, &reason)
			continue
		}

		outcome.Status = string(models.EmailDeliverySent)
		resp.Sent++
		resp.Outcomes = append(resp.Outcomes, outcome)
		f.recordPermitEmail(ctx, item, item.City.ContactEmail, subject, body, attachments, models.EmailDeliverySent, &messageID, nil)

		if err := f.itemRepo.MarkRequestSent(ctx, item.ID, utils.UTCNow()); err != nil {
			// The email left; a failed stamp must not flip the outcome.
			continue
		}
	}

	resp.Message = fmt.Sprintf("%d sent, %d skipped, %d failed", resp.Sent, resp.Skipped, resp.Failed)
	return resp, nil
}

// ExportList renders the list's quote in the requested format. Rendered
// documents are cached keyed by the list's revision; any edit moves the
// updated-at stamp and makes stale entries unreachable.
func (f *DistributionListFlowImpl) ExportList(ctx context.Context, uuid string, format string) ([]byte, string, error) {
	if format != ExportFormatPDF && format != ExportFormatHTML && format != ExportFormatXLSX {
		return nil, "", NewBusinessErrorf(CodeValidation,
			"Unsupported export format %q", ErrExportFormatInvalid, format)
	}

	list, err := f.loadList(ctx, uuid)
	if err != nil {
		return nil, "", err
	}

	filename := f.renderer.Filename(list, format)
	cacheKey := exportCacheKey(list, format)
	if f.cache != nil {
		if doc, ok, err := f.cache.Get(ctx, cacheKey); err == nil && ok {
			return doc, filename, nil
		}
	}

	items := itemPtrs(list.Items)
	costs := CalculateQuoteCosts(items, f.vatRate)

	var data []byte
	switch format {
	case ExportFormatPDF:
		data, err = f.renderer.BuildPDF(list, items, costs)
	case ExportFormatHTML:
		data, err = f.renderer.BuildHTML(list, items, costs)
	case ExportFormatXLSX:
		data, err = f.renderer.BuildXLSX(list, items, costs)
	}
	if err != nil {
		return nil, "", NewBusinessError(CodeInternal, "Failed to render export", err)
	}

	if f.cache != nil {
		_ = f.cache.Set(ctx, cacheKey, data)
	}

	return data, filename, nil
}

// exportCacheKey identifies one rendered document by list, revision and format
func exportCacheKey(list *models.DistributionList, format string) string {
	revision := "initial"
	if list.UpdatedAt != nil {
		revision = fmt.Sprintf("%d", list.UpdatedAt.UnixNano())
	}
	return fmt.Sprintf("export:%s:%s:%s", list.UUID, revision, format)
}

// loadList fetches a list by UUID with its relations or a not-found error
func (f *DistributionListFlowImpl) loadList(ctx context.Context, uuid string) (*models.DistributionList, error) {
	list, err := f.listRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Failed to lookup distribution list", err)
	}
	if list == nil {
		return nil, NewBusinessError(CodeNotFound, "Distribution list not found", ErrListNotFound)
	}
	return list, nil
}

// buildItems validates item inputs against their cities and materializes
// models. An unset fee copies the city's configured fee at this moment.
func (f *DistributionListFlowImpl) buildItems(ctx context.Context, inputs []dto.DistributionListItemInput) ([]*models.DistributionListItem, error) {
	items := make([]*models.DistributionListItem, 0, len(inputs))
	for _, input := range inputs {
		if input.Quantity < 1 {
			return nil, NewBusinessError(CodeValidation, "Item quantity must be positive", ErrItemQuantityInvalid)
		}
		size := models.PosterSize(input.PosterSize)
		if !size.Valid() {
			return nil, NewBusinessErrorf(CodeValidation,
				"Invalid poster size %q", ErrItemPosterSizeInvalid, input.PosterSize)
		}

		city, err := f.cityRepo.ByUUID(ctx, input.CityUUID)
		if err != nil {
			return nil, NewBusinessError(CodeValidation, "Failed to lookup city", err)
		}
		if city == nil {
			return nil, NewBusinessErrorf(CodeNotFound, "City %s not found", ErrCityNotFound, input.CityUUID)
		}
		if city.MaxQuantity != nil && input.Quantity > *city.MaxQuantity {
			return nil, NewBusinessErrorf(CodeValidation,
				"%s allows at most %d posters", ErrQuantityExceedsLimit, city.Name, *city.MaxQuantity)
		}
		if city.MaxPosterSize != nil && posterSizeRank(size) > posterSizeRank(*city.MaxPosterSize) {
			return nil, NewBusinessErrorf(CodeValidation,
				"%s allows at most size %s", ErrPosterSizeExceedsMax, city.Name, *city.MaxPosterSize)
		}

		fee := decimal.NewNullDecimal(city.Fee)
		if input.Fee != nil {
			parsed, err := decimal.NewFromString(*input.Fee)
			if err != nil {
				return nil, NewBusinessErrorf(CodeValidation, "Invalid fee %q", err, *input.Fee)
			}
			fee = decimal.NewNullDecimal(parsed)
		}

		items = append(items, &models.DistributionListItem{
			CityID:            city.ID,
			Quantity:          input.Quantity,
			PosterSize:        size,
			Fee:               fee,
			DistanceKm:        input.DistanceKm,
			AttachPosterImage: input.AttachPosterImage,
			AttachPermitForm:  input.AttachPermitForm,
			PermitStatus:      models.PermitStatusDraft,
		})
	}
	return items, nil
}

// collectAttachments gathers the poster image and permit form for one item.
// An attachment is included when the item asks for it or the city requires it.
func (f *DistributionListFlowImpl) collectAttachments(ctx context.Context, list *models.DistributionList, item *models.DistributionListItem, cache map[uint][]byte) ([]EmailAttachment, error) {
	var attachments []EmailAttachment

	if (item.AttachPosterImage || item.City.RequiresPosterIMG) && list.PosterImageAsset != nil {
		data, err := f.loadAsset(ctx, list.PosterImageAsset, cache)
		if err != nil {
			return nil, fmt.Errorf("loading poster image: %w", err)
		}
		attachments = append(attachments, EmailAttachment{
			Filename:    list.PosterImageAsset.OriginalFilename,
			ContentType: list.PosterImageAsset.ContentType,
			Data:        data,
		})
	}

	if (item.AttachPermitForm || item.City.RequiresPermitForm) && item.City.PermitFormAsset != nil {
		data, err := f.loadAsset(ctx, item.City.PermitFormAsset, cache)
		if err != nil {
			return nil, fmt.Errorf("loading permit form: %w", err)
		}
		attachments = append(attachments, EmailAttachment{
			Filename:    item.City.PermitFormAsset.OriginalFilename,
			ContentType: item.City.PermitFormAsset.ContentType,
			Data:        data,
		})
	}

	return attachments, nil
}

func (f *DistributionListFlowImpl) loadAsset(ctx context.Context, asset *models.FileAsset, cache map[uint][]byte) ([]byte, error) {
	if data, ok := cache[asset.ID]; ok {
		return data, nil
	}

	reader, err := f.store.Get(ctx, asset.StorageKey)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	cache[asset.ID] = data
	return data, nil
}

// recordPermitEmail appends one audit row. Audit failures are swallowed; the
// dispatch outcome already happened and must be reported as it was.
func (f *DistributionListFlowImpl) recordPermitEmail(ctx context.Context, item *models.DistributionListItem, recipient, subject, body string, attachments []EmailAttachment, status models.EmailDeliveryStatus, messageID, errorDetail *string) {
	meta := make(models.AttachmentMetaList, 0, len(attachments))
	for _, att := range attachments {
		meta = append(meta, models.AttachmentMeta{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			SizeBytes:   int64(len(att.Data)),
		})
	}

	_ = f.emailRepo.Save(ctx, &models.PermitEmail{
		ItemID:            item.ID,
		Direction:         models.EmailDirectionOutbound,
		DeliveryStatus:    status,
		Recipient:         recipient,
		Subject:           subject,
		Body:              body,
		Attachments:       meta,
		ProviderMessageID: messageID,
		ErrorDetail:       errorDetail,
	})
}

func (f *DistributionListFlowImpl) resolvePosterImage(ctx context.Context, assetUUID string) (*uint, error) {
	asset, err := f.assetRepo.ByUUID(ctx, assetUUID)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Failed to lookup file asset", err)
	}
	if asset == nil {
		return nil, NewBusinessError(CodeNotFound, "File asset not found", ErrAssetNotFound)
	}
	if asset.Kind != models.AssetKindPosterImage {
		return nil, NewBusinessErrorf(CodeValidation,
			"Asset %s is not a poster image", ErrAssetKindInvalid, assetUUID)
	}
	return &asset.ID, nil
}

// quoteEmailBody renders the plain text body for the client quote email
func quoteEmailBody(list *models.DistributionList, costs QuoteCosts) string {
	var b strings.Builder
	b.WriteString("Sehr geehrte Damen und Herren,\n\n")
	fmt.Fprintf(&b, "anbei erhalten Sie unser Angebot fuer die Plakatierung zu %q.\n\n", list.EventName)
	if list.StartDate != nil && list.EndDate != nil {
		fmt.Fprintf(&b, "Zeitraum: %s bis %s\n", list.StartDate.Format("02.01.2006"), list.EndDate.Format("02.01.2006"))
	}
	fmt.Fprintf(&b, "Gesamtbetrag: %s EUR (inkl. MwSt.)\n\n", costs.Total.StringFixed(2))
	b.WriteString("Die Einzelpositionen entnehmen Sie bitte dem beigefuegten Dokument.\n\n")
	b.WriteString("Mit freundlichen Gruessen\nIhr PlakatPro Team\n")
	return b.String()
}

// permitEmailBody renders the plain text body for one permit application
func permitEmailBody(list *models.DistributionList, item *models.DistributionListItem) string {
	var b strings.Builder
	b.WriteString("Sehr geehrte Damen und Herren,\n\n")
	fmt.Fprintf(&b, "hiermit beantragen wir die Genehmigung zur Plakatierung in %s (%s)\n", item.City.Name, item.City.PostalCode)
	fmt.Fprintf(&b, "fuer die Veranstaltung %q.\n\n", list.EventName)
	fmt.Fprintf(&b, "Anzahl der Plakate: %d\n", item.Quantity)
	fmt.Fprintf(&b, "Plakatformat: %s\n", item.PosterSize)
	if list.StartDate != nil && list.EndDate != nil {
		fmt.Fprintf(&b, "Aushangzeitraum: %s bis %s\n", list.StartDate.Format("02.01.2006"), list.EndDate.Format("02.01.2006"))
	}
	if list.EventDate != nil {
		fmt.Fprintf(&b, "Veranstaltungsdatum: %s\n", list.EventDate.Format("02.01.2006"))
	}
	b.WriteString("\nUeber eine zeitnahe Bearbeitung wuerden wir uns freuen.\n\n")
	b.WriteString("Mit freundlichen Gruessen\nIhr PlakatPro Team\n")
	return b.String()
}

// itemPtrs converts a preloaded item slice into the pointer form the
// pricing and rendering code works with
func itemPtrs(items []models.DistributionListItem) []*models.DistributionListItem {
	ptrs := make([]*models.DistributionListItem, 0, len(items))
	for i := range items {
		ptrs = append(ptrs, &items[i])
	}
	return ptrs
}

// posterSizeRank orders poster sizes by physical area for max-size checks
func posterSizeRank(s models.PosterSize) int {
	switch s {
	case models.PosterSizeA1:
		return 1
	case models.PosterSizeA0:
		return 2
	case models.PosterSize120x180:
		return 3
	default:
		return 0
	}
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, NewBusinessErrorf(CodeValidation, "Invalid date %q", ErrDateFormatInvalid, value)
}

func parseDatePtr(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// isUniqueViolation reports whether err is a Postgres unique violation
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
