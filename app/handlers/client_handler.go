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

// ClientHandlerInterface defines the contract for client handlers
type ClientHandlerInterface interface {
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// ClientHandler handles client management HTTP requests
type ClientHandler struct {
	flow      businessflow.ClientFlow
	validator *validator.Validate
}

// NewClientHandler creates a new client handler
func NewClientHandler(flow businessflow.ClientFlow) *ClientHandler {
	return &ClientHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *ClientHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ClientHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Create handles client creation
// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body dto.CreateClientRequest true "Client data"
// @Success 201 {object} dto.APIResponse{data=dto.ClientDTO} "Client created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/clients [post]
func (h *ClientHandler) Create(c fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/clients")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.CreateClient(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("Create client failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create client", "CLIENT_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Client created successfully", result)
}

// Get handles single client retrieval
// @Summary Get client
// @Tags Clients
// @Produce json
// @Param uuid path string true "Client UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ClientDTO} "Client retrieved"
// @Failure 404 {object} dto.APIResponse "Client not found"
// @Router /api/v1/clients/{uuid} [get]
func (h *ClientHandler) Get(c fiber.Ctx) error {
	ctx := h.createRequestContext(c, "/api/v1/clients/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.GetClient(ctx, c.Params("uuid"))
	if err != nil {
		if businessflow.IsClientNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Client not found", "CLIENT_NOT_FOUND", nil)
		}
		log.Println("Get client failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get client", "CLIENT_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Client retrieved successfully", result)
}

// Update handles client updates
// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Param uuid path string true "Client UUID"
// @Param request body dto.UpdateClientRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ClientDTO} "Client updated"
// @Failure 404 {object} dto.APIResponse "Client not found"
// @Router /api/v1/clients/{uuid} [put]
func (h *ClientHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateClientRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/clients/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.UpdateClient(ctx, c.Params("uuid"), &req, metadata)
	if err != nil {
		if businessflow.IsClientNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Client not found", "CLIENT_NOT_FOUND", nil)
		}
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("Update client failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update client", "CLIENT_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Client updated successfully", result)
}

// Delete handles client deletion
// @Summary Delete client
// @Tags Clients
// @Produce json
// @Param uuid path string true "Client UUID"
// @Success 200 {object} dto.APIResponse "Client deleted"
// @Failure 404 {object} dto.APIResponse "Client not found"
// @Failure 409 {object} dto.APIResponse "Client still referenced"
// @Router /api/v1/clients/{uuid} [delete]
func (h *ClientHandler) Delete(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/clients/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	err := h.flow.DeleteClient(ctx, c.Params("uuid"), metadata)
	if err != nil {
		if businessflow.IsClientNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Client not found", "CLIENT_NOT_FOUND", nil)
		}
		if businessflow.IsConflictError(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Client still has distribution lists or campaigns", "CLIENT_IN_USE", nil)
		}
		log.Println("Delete client failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete client", "CLIENT_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Client deleted successfully", nil)
}

// List handles client listing with pagination
// @Summary List clients
// @Tags Clients
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListClientsResponse} "Clients retrieved"
// @Router /api/v1/clients [get]
func (h *ClientHandler) List(c fiber.Ctx) error {
	var req dto.ListClientsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx := h.createRequestContext(c, "/api/v1/clients")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.ListClients(ctx, &req)
	if err != nil {
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("List clients failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list clients", "CLIENT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Clients retrieved successfully", result)
}

func (h *ClientHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *ClientHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
