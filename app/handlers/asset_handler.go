package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/plakatpro/plakatpro/app/dto"
	businessflow "github.com/plakatpro/plakatpro/business_flow"
	"github.com/plakatpro/plakatpro/utils"
)

// AssetHandlerInterface defines the contract for file asset handlers
type AssetHandlerInterface interface {
	Upload(c fiber.Ctx) error
	Download(c fiber.Ctx) error
	Preview(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// AssetHandler handles file asset HTTP requests
type AssetHandler struct {
	flow      businessflow.AssetFlow
	validator *validator.Validate
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(flow businessflow.AssetFlow) *AssetHandler {
	return &AssetHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *AssetHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AssetHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Upload handles multipart file uploads
// @Summary Upload file asset
// @Tags Assets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param kind formData string true "Asset kind" Enums(poster_image, permit_form)
// @Success 201 {object} dto.APIResponse{data=dto.UploadAssetResponse} "Asset uploaded"
// @Failure 400 {object} dto.APIResponse "Invalid file"
// @Router /api/v1/assets [post]
func (h *AssetHandler) Upload(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "No file provided", "NO_FILE", err.Error())
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file", "FILE_READ_FAILED", err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file", "FILE_READ_FAILED", err.Error())
	}

	kind := c.FormValue("kind")
	contentType := fileHeader.Header.Get("Content-Type")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/assets")
	defer utils.ReleaseRequestContext(ctx)

	result, err := h.flow.UploadAsset(ctx, kind, fileHeader.Filename, contentType, data, metadata)
	if err != nil {
		if businessflow.IsAssetTooLarge(err) {
			return h.ErrorResponse(c, fiber.StatusRequestEntityTooLarge, "Uploaded file is too large", "FILE_TOO_LARGE", nil)
		}
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		log.Println("Upload asset failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload file", "ASSET_UPLOAD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Asset uploaded successfully", result)
}

// Download streams a stored asset back to the caller
// @Summary Download file asset
// @Tags Assets
// @Produce octet-stream
// @Param uuid path string true "Asset UUID"
// @Success 200 {file} binary "Asset content"
// @Failure 404 {object} dto.APIResponse "Asset not found"
// @Router /api/v1/assets/{uuid} [get]
func (h *AssetHandler) Download(c fiber.Ctx) error {
	ctx := h.createRequestContext(c, "/api/v1/assets/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	asset, data, err := h.flow.GetAsset(ctx, c.Params("uuid"))
	if err != nil {
		if businessflow.IsAssetNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Asset not found", "ASSET_NOT_FOUND", nil)
		}
		log.Println("Download asset failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to download asset", "ASSET_DOWNLOAD_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, asset.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", asset.OriginalFilename))
	return c.Send(data)
}

// Preview returns a scaled-down rendition of a poster image
// @Summary Preview poster image
// @Tags Assets
// @Produce jpeg
// @Param uuid path string true "Asset UUID"
// @Success 200 {file} binary "Thumbnail"
// @Failure 404 {object} dto.APIResponse "Asset not found"
// @Router /api/v1/assets/{uuid}/preview [get]
func (h *AssetHandler) Preview(c fiber.Ctx) error {
	ctx := h.createRequestContext(c, "/api/v1/assets/:uuid/preview")
	defer utils.ReleaseRequestContext(ctx)

	data, err := h.flow.PreviewAsset(ctx, c.Params("uuid"))
	if err != nil {
		if businessflow.IsAssetNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Asset not found", "ASSET_NOT_FOUND", nil)
		}
		if businessflow.IsAssetNotAnImage(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Asset is not an image", "NOT_AN_IMAGE", nil)
		}
		log.Println("Preview asset failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to preview asset", "ASSET_PREVIEW_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderContentDisposition, "inline")
	return c.Send(data)
}

// Delete removes an asset and its stored blob
// @Summary Delete file asset
// @Tags Assets
// @Produce json
// @Param uuid path string true "Asset UUID"
// @Success 200 {object} dto.APIResponse "Asset deleted"
// @Failure 404 {object} dto.APIResponse "Asset not found"
// @Router /api/v1/assets/{uuid} [delete]
func (h *AssetHandler) Delete(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	ctx := h.createRequestContext(c, "/api/v1/assets/:uuid")
	defer utils.ReleaseRequestContext(ctx)

	err := h.flow.DeleteAsset(ctx, c.Params("uuid"), metadata)
	if err != nil {
		if businessflow.IsAssetNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Asset not found", "ASSET_NOT_FOUND", nil)
		}
		log.Println("Delete asset failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete asset", "ASSET_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Asset deleted successfully", nil)
}

func (h *AssetHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *AssetHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
