package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/plakatpro/plakatpro/app/dto"
	businessflow "github.com/plakatpro/plakatpro/business_flow"
	"github.com/plakatpro/plakatpro/utils"
)

var exportContentTypes = map[string]string{
	businessflow.ExportFormatPDF:  "application/pdf",
	businessflow.ExportFormatHTML: "text/html; charset=utf-8",
	businessflow.ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// DistributionListHandlerInterface defines the contract for list handlers
type DistributionListHandlerInterface interface {
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Archive(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Send(c fiber.Ctx) error
	RecordResponse(c fiber.Ctx) error
	Convert(c fiber.Ctx) error
	SendApplications(c fiber.Ctx) error
	ExportPDF(c fiber.Ctx) error
	ExportXLSX(c fiber.Ctx) error
	Preview(c fiber.Ctx) error
}

// DistributionListHandler handles distribution list HTTP requests
type DistributionListHandler struct {
	flow      businessflow.DistributionListFlow
	validator *validator.Validate
}

// NewDistributionListHandler creates a new distribution list handler
func NewDistributionListHandler(flow businessflow.DistributionListFlow) *DistributionListHandler {
	return &DistributionListHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *DistributionListHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *DistributionListHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Create handles distribution list creation
// @Summary Create distribution list
// @Tags DistributionLists
// @Accept json
// @Produce json
// @Param request body dto.CreateDistributionListRequest true "List data"
// @Success 201 {object} dto.APIResponse{data=dto.DistributionListDTO} "List created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/distribution-lists [post]
func (h *DistributionListHandler) Create(c fiber.Ctx) error {
	var req dto.CreateDistributionListRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/distribution-lists")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.CreateList(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsClientNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Client not found", "CLIENT_NOT_FOUND", nil)
		}
		if businessflow.IsCityNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "City not found", "CITY_NOT_FOUND", nil)
		}
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("Create distribution list failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create distribution list", "LIST_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Distribution list created successfully", result)
}

// Get handles single list retrieval including items and costs
// @Summary Get distribution list
// @Tags DistributionLists
// @Produce json
// @Param uuid path string true "List UUID"
// @Success 200 {object} dto.APIResponse{data=dto.DistributionListDTO} "List retrieved"
// @Failure 404 {object} dto.APIResponse "List not found"
// @Router /api/v1/distribution-lists/{uuid} [get]
func (h *DistributionListHandler) Get(c fiber.Ctx) error {
	ctx := h.createRequestContext(c, "/api/v1/distribution-lists/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.GetList(ctx, c.Params("uuid"))
	if err != nil {
		if businessflow.IsListNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Distribution list not found", "LIST_NOT_FOUND", nil)
		}
		log.Println("Get distribution list failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get distribution list", "LIST_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Distribution list retrieved successfully", result)
}

// Update handles list updates including wholesale item replacement
// @Summary Update distribution list
// @Tags DistributionLists
// @Accept json
// @Produce json
// @Param uuid path string true "List UUID"
// @Param request body dto.UpdateDistributionListRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.DistributionListDTO} "List updated"
// @Failure 409 {object} dto.APIResponse "Invalid status transition or archived"
// @Router /api/v1/distribution-lists/{uuid} [put]
func (h *DistributionListHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateDistributionListRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/distribution-lists/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.UpdateList(ctx, c.Params("uuid"), &req, metadata)
	if err != nil {
		return h.listErrorResponse(c, err, "Failed to update distribution list", "LIST_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Distribution list updated successfully", result)
}

// Archive handles list archiving
// @Summary Archive distribution list
// @Tags DistributionLists
// @Produce json
// @Param uuid path string true "List UUID"
// @Success 200 {object} dto.APIResponse "List archived"
// @Failure 404 {object} dto.APIResponse "List not found"
// @Router /api/v1/distribution-lists/{uuid} [delete]
func (h *DistributionListHandler) Archive(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/distribution-lists/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	err := h.flow.ArchiveList(ctx, c.Params("uuid"), metadata)
	if err != nil {
		return h.listErrorResponse(c, err, "Failed to archive distribution list", "LIST_ARCHIVE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Distribution list archived successfully", nil)
}

// List handles list listing with scope, status and client filters
// @Summary List distribution lists
// @Tags DistributionLists
// @Produce json
// @Param scope query string false "View scope" Enums(active, past, archived)
// @Param status query string false "Lifecycle status"
// @Param client_uuid query string false "Filter by client"
// @Success 200 {object} dto.APIResponse{data=dto.ListDistributionListsResponse} "Lists retrieved"
// @Router /api/v1/distribution-lists [get]
func (h *DistributionListHandler) List(c fiber.Ctx) error {
	var req dto.ListDistributionListsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx := h.createRequestContext(c, "/api/v1/distribution-lists")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.ListLists(ctx, &req)
	if err != nil {
		return h.listErrorResponse(c, err, "Failed to list distribution lists", "LIST_LIST_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Distribution lists retrieved successfully", result)
}

// Send emails the rendered quote to the list's client
// @Summary Send quote to client
// @Tags DistributionLists
// @Produce json
// @Param uuid path string true "List UUID"
// @Success 200 {object} dto.APIResponse{data=dto.SendToClientResponse} "Quote sent"
// @Failure 409 {object} dto.APIResponse "Invalid status transition"
// @Failure 502 {object} dto.APIResponse "Email dispatch failed"
// @Router /api/v1/distribution-lists/{uuid}/send [post]
func (h *DistributionListHandler) Send(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/distribution-lists/:uuid/send")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.SendToClient(ctx, c.Params("uuid"), metadata)
	if err != nil {
		if businessflow.IsDispatchFailed(err) || businessflow.IsSenderNotConfigured(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Email dispatch failed", "DISPATCH_FAILED", err.Error())
		}
		return h.listErrorResponse(c, err, "Failed to send quote", "QUOTE_SEND_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quote sent successfully", result)
}

// RecordResponse records the client's accept/reject decision
// @Summary Record client response
// @Tags DistributionLists
// @Accept json
// @Produce json
// @Param uuid path string true "List UUID"
// @Param request body dto.RecordResponseRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.RecordResponseResponse} "Response recorded"
// @Failure 409 {object} dto.APIResponse "Invalid status transition"
// @Router /api/v1/distribution-lists/{uuid}/response [post]
func (h *DistributionListHandler) RecordResponse(c fiber.Ctx) error {
	var req dto.RecordResponseRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/distribution-lists/:uuid/response")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.RecordClientResponse(ctx, c.Params("uuid"), &req, metadata)
	if err != nil {
		return h.listErrorResponse(c, err, "Failed to record response", "RESPONSE_RECORD_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Response recorded successfully", result)
}

// Convert turns an accepted list into a campaign
// @Summary Convert list to campaign
// @Tags DistributionLists
// @Produce json
// @Param uuid path string true "List UUID"
// @Success 201 {object} dto.APIResponse{data=dto.ConvertToCampaignResponse} "Campaign created"
// @Failure 409 {object} dto.APIResponse "List not accepted or already converted"
// @Router /api/v1/distribution-lists/{uuid}/convert [post]
func (h *DistributionListHandler) Convert(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/distribution-lists/:uuid/convert")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.ConvertToCampaign(ctx, c.Params("uuid"), metadata)
	if err != nil {
		if businessflow.IsListNotAccepted(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Distribution list is not accepted", "LIST_NOT_ACCEPTED", err.Error())
		}
		if businessflow.IsListAlreadyConverted(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Distribution list is already converted", "LIST_ALREADY_CONVERTED", err.Error())
		}
		return h.listErrorResponse(c, err, "Failed to convert distribution list", "LIST_CONVERT_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Distribution list converted successfully", result)
}

// SendApplications dispatches permit applications to all municipalities on
// the list. The response aggregates per-item outcomes; partial failure is
// still a successful batch run.
// @Summary Send permit applications
// @Tags DistributionLists
// @Produce json
// @Param uuid path string true "List UUID"
// @Success 200 {object} dto.APIResponse{data=dto.SendApplicationsResponse} "Batch processed"
// @Failure 404 {object} dto.APIResponse "List not found"
// @Router /api/v1/distribution-lists/{uuid}/send-applications [post]
func (h *DistributionListHandler) SendApplications(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContextWithTimeout(c, "/api/v1/distribution-lists/:uuid/send-applications", 5*time.Minute)
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.SendPermitApplications(ctx, c.Params("uuid"), metadata)
	if err != nil {
		return h.listErrorResponse(c, err, "Failed to send permit applications", "APPLICATIONS_SEND_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Permit applications processed", result)
}

// ExportPDF downloads the quote as PDF
// @Summary Export list as PDF
// @Tags DistributionLists
// @Produce application/pdf
// @Param uuid path string true "List UUID"
// @Success 200 {file} binary "PDF document"
// @Router /api/v1/distribution-lists/{uuid}/export.pdf [get]
func (h *DistributionListHandler) ExportPDF(c fiber.Ctx) error {
	return h.export(c, businessflow.ExportFormatPDF, "attachment")
}

// ExportXLSX downloads the quote as a spreadsheet
// @Summary Export list as XLSX
// @Tags DistributionLists
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param uuid path string true "List UUID"
// @Success 200 {file} binary "XLSX document"
// @Router /api/v1/distribution-lists/{uuid}/export.xlsx [get]
func (h *DistributionListHandler) ExportXLSX(c fiber.Ctx) error {
	return h.export(c, businessflow.ExportFormatXLSX, "attachment")
}

// Preview renders the quote as an inline HTML page
// @Summary Preview list as HTML
// @Tags DistributionLists
// @Produce html
// @Param uuid path string true "List UUID"
// @Success 200 {string} string "HTML document"
// @Router /api/v1/distribution-lists/{uuid}/preview [get]
func (h *DistributionListHandler) Preview(c fiber.Ctx) error {
	return h.export(c, businessflow.ExportFormatHTML, "inline")
}

func (h *DistributionListHandler) export(c fiber.Ctx, format, disposition string) error {
	ctx := h.createRequestContext(c, "/api/v1/distribution-lists/:uuid/export")
	defer utils.ReleaseRequestContext(ctx)

	data, filename, err := h.flow.ExportList(ctx, c.Params("uuid"), format)
	if err != nil {
		return h.listErrorResponse(c, err, "Failed to export distribution list", "LIST_EXPORT_FAILED")
	}

	c.Set("Content-Type", exportContentTypes[format])
	c.Set("Content-Disposition", disposition+"; filename="+filename)
	return c.Send(data)
}

// listErrorResponse maps the list flow's recurring error cases
func (h *DistributionListHandler) listErrorResponse(c fiber.Ctx, err error, message, code string) error {
	if businessflow.IsListNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Distribution list not found", "LIST_NOT_FOUND", nil)
	}
	if businessflow.IsClientNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Client not found", "CLIENT_NOT_FOUND", nil)
	}
	if businessflow.IsCityNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "City not found", "CITY_NOT_FOUND", nil)
	}
	if businessflow.IsAssetNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "File asset not found", "ASSET_NOT_FOUND", nil)
	}
	if businessflow.IsListArchived(err) {
		return h.ErrorResponse(c, fiber.StatusConflict, "Distribution list is archived", "LIST_ARCHIVED", nil)
	}
	if businessflow.IsListTransitionInvalid(err) {
		return h.ErrorResponse(c, fiber.StatusConflict, "Status transition is not allowed", "INVALID_TRANSITION", err.Error())
	}
	if businessflow.IsConflictError(err) {
		return h.ErrorResponse(c, fiber.StatusConflict, message, code, err.Error())
	}
	if businessflow.IsValidationError(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
	}
	log.Println(message, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}

func (h *DistributionListHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *DistributionListHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
