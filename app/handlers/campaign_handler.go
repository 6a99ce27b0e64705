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

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
	UpdateStatus(c fiber.Ctx) error
	Archive(c fiber.Ctx) error
	UpdatePermitStatus(c fiber.Ctx) error
}

// CampaignHandler handles campaign board HTTP requests
type CampaignHandler struct {
	flow      businessflow.CampaignFlow
	validator *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(flow businessflow.CampaignFlow) *CampaignHandler {
	return &CampaignHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *CampaignHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CampaignHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Get handles single campaign retrieval including permits
// @Summary Get campaign
// @Tags Campaigns
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignDTO} "Campaign retrieved"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Router /api/v1/campaigns/{uuid} [get]
func (h *CampaignHandler) Get(c fiber.Ctx) error {
	ctx := h.createRequestContext(c, "/api/v1/campaigns/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.GetCampaign(ctx, c.Params("uuid"))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		log.Println("Get campaign failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get campaign", "CAMPAIGN_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign retrieved successfully", result)
}

// List handles campaign listing for the board view
// @Summary List campaigns
// @Tags Campaigns
// @Produce json
// @Param status query string false "Board column"
// @Param client_uuid query string false "Filter by client"
// @Param archived query bool false "Include archived campaigns"
// @Success 200 {object} dto.APIResponse{data=dto.ListCampaignsResponse} "Campaigns retrieved"
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) List(c fiber.Ctx) error {
	var req dto.ListCampaignsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx := h.createRequestContext(c, "/api/v1/campaigns")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.ListCampaigns(ctx, &req)
	if err != nil {
		if businessflow.IsClientNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Client not found", "CLIENT_NOT_FOUND", nil)
		}
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("List campaigns failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list campaigns", "CAMPAIGN_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaigns retrieved successfully", result)
}

// UpdateStatus moves a campaign to another board column
// @Summary Update campaign status
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Param request body dto.UpdateCampaignStatusRequest true "Target column"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignDTO} "Campaign moved"
// @Failure 409 {object} dto.APIResponse "Campaign archived"
// @Router /api/v1/campaigns/{uuid}/status [put]
func (h *CampaignHandler) UpdateStatus(c fiber.Ctx) error {
	var req dto.UpdateCampaignStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/campaigns/:uuid/status")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.UpdateCampaignStatus(ctx, c.Params("uuid"), &req, metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignArchived(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Campaign is archived", "CAMPAIGN_ARCHIVED", nil)
		}
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("Update campaign status failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update campaign status", "CAMPAIGN_STATUS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign status updated successfully", result)
}

// Archive handles campaign archiving
// @Summary Archive campaign
// @Tags Campaigns
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse "Campaign archived"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Router /api/v1/campaigns/{uuid} [delete]
func (h *CampaignHandler) Archive(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/campaigns/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	err := h.flow.ArchiveCampaign(ctx, c.Params("uuid"), metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		log.Println("Archive campaign failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to archive campaign", "CAMPAIGN_ARCHIVE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign archived successfully", nil)
}

// UpdatePermitStatus records a municipality's decision on one permit
// @Summary Update permit status
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Param permit_uuid path string true "Permit UUID"
// @Param request body dto.UpdatePermitStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.PermitDTO} "Permit updated"
// @Failure 404 {object} dto.APIResponse "Campaign or permit not found"
// @Router /api/v1/campaigns/{uuid}/permits/{permit_uuid} [put]
func (h *CampaignHandler) UpdatePermitStatus(c fiber.Ctx) error {
	var req dto.UpdatePermitStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/campaigns/:uuid/permits/:permit_uuid")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.UpdatePermitStatus(ctx, c.Params("uuid"), c.Params("permit_uuid"), &req, metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsPermitNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Permit not found", "PERMIT_NOT_FOUND", nil)
		}
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("Update permit status failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update permit status", "PERMIT_STATUS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Permit status updated successfully", result)
}

func (h *CampaignHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *CampaignHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
