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

// CityHandlerInterface defines the contract for city handlers
type CityHandlerInterface interface {
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// CityHandler handles municipality management HTTP requests
type CityHandler struct {
	flow      businessflow.CityFlow
	validator *validator.Validate
}

// NewCityHandler creates a new city handler
func NewCityHandler(flow businessflow.CityFlow) *CityHandler {
	return &CityHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *CityHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CityHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Create handles city registration
// @Summary Create city
// @Tags Cities
// @Accept json
// @Produce json
// @Param request body dto.CreateCityRequest true "City data"
// @Success 201 {object} dto.APIResponse{data=dto.CityDTO} "City created"
// @Failure 409 {object} dto.APIResponse "Postal code already exists"
// @Router /api/v1/cities [post]
func (h *CityHandler) Create(c fiber.Ctx) error {
	var req dto.CreateCityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/cities")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.CreateCity(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsPostalCodeAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Postal code already exists", "POSTAL_CODE_EXISTS", nil)
		}
		if businessflow.IsAssetNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Permit form asset not found", "ASSET_NOT_FOUND", nil)
		}
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("Create city failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create city", "CITY_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "City created successfully", result)
}

// Get handles single city retrieval
// @Summary Get city
// @Tags Cities
// @Produce json
// @Param uuid path string true "City UUID"
// @Success 200 {object} dto.APIResponse{data=dto.CityDTO} "City retrieved"
// @Failure 404 {object} dto.APIResponse "City not found"
// @Router /api/v1/cities/{uuid} [get]
func (h *CityHandler) Get(c fiber.Ctx) error {
	ctx := h.createRequestContext(c, "/api/v1/cities/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.GetCity(ctx, c.Params("uuid"))
	if err != nil {
		if businessflow.IsCityNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "City not found", "CITY_NOT_FOUND", nil)
		}
		log.Println("Get city failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get city", "CITY_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "City retrieved successfully", result)
}

// Update handles city updates. The postal code is immutable.
// @Summary Update city
// @Tags Cities
// @Accept json
// @Produce json
// @Param uuid path string true "City UUID"
// @Param request body dto.UpdateCityRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CityDTO} "City updated"
// @Failure 404 {object} dto.APIResponse "City not found"
// @Router /api/v1/cities/{uuid} [put]
func (h *CityHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateCityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/cities/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.UpdateCity(ctx, c.Params("uuid"), &req, metadata)
	if err != nil {
		if businessflow.IsCityNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "City not found", "CITY_NOT_FOUND", nil)
		}
		if businessflow.IsAssetNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Permit form asset not found", "ASSET_NOT_FOUND", nil)
		}
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("Update city failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update city", "CITY_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "City updated successfully", result)
}

// Delete handles city deletion
// @Summary Delete city
// @Tags Cities
// @Produce json
// @Param uuid path string true "City UUID"
// @Success 200 {object} dto.APIResponse "City deleted"
// @Failure 404 {object} dto.APIResponse "City not found"
// @Failure 409 {object} dto.APIResponse "City still referenced"
// @Router /api/v1/cities/{uuid} [delete]
func (h *CityHandler) Delete(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/cities/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	err := h.flow.DeleteCity(ctx, c.Params("uuid"), metadata)
	if err != nil {
		if businessflow.IsCityNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "City not found", "CITY_NOT_FOUND", nil)
		}
		if businessflow.IsConflictError(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "City is still referenced by distribution lists", "CITY_IN_USE", nil)
		}
		log.Println("Delete city failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete city", "CITY_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "City deleted successfully", nil)
}

// List handles city listing ordered by postal code
// @Summary List cities
// @Tags Cities
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListCitiesResponse} "Cities retrieved"
// @Router /api/v1/cities [get]
func (h *CityHandler) List(c fiber.Ctx) error {
	var req dto.ListCitiesRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx := h.createRequestContext(c, "/api/v1/cities")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.ListCities(ctx, &req)
	if err != nil {
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("List cities failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list cities", "CITY_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Cities retrieved successfully", result)
}

func (h *CityHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *CityHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
