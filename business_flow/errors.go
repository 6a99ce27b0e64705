// Package businessflow contains the core business logic and use cases for campaign workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Client-related errors
	ErrClientNotFound       = errors.New("client not found")
	ErrClientNameRequired   = errors.New("client name is required")
	ErrClientHasActiveLists = errors.New("client still has distribution lists or campaigns")

	// City-related errors
	ErrCityNotFound            = errors.New("city not found")
	ErrCityNameRequired        = errors.New("city name is required")
	ErrPostalCodeRequired      = errors.New("postal code is required")
	ErrPostalCodeAlreadyExists = errors.New("postal code already exists")
	ErrCityFeeModelInvalid     = errors.New("city fee model is invalid")
	ErrCityInUse               = errors.New("city is still referenced by distribution lists")

	// Distribution list errors
	ErrListNotFound          = errors.New("distribution list not found")
	ErrListArchived          = errors.New("distribution list is archived")
	ErrListEventNameRequired = errors.New("event name is required")
	ErrListHasNoItems        = errors.New("distribution list has no items")
	ErrListNotAccepted       = errors.New("distribution list is not accepted")
	ErrListAlreadyConverted  = errors.New("distribution list is already converted")
	ErrListTransitionInvalid = errors.New("status transition is not allowed")
	ErrResponseTypeInvalid   = errors.New("response type is invalid")
	ErrClientEmailMissing    = errors.New("client has no email address")

	// Item errors
	ErrItemNotFound          = errors.New("distribution list item not found")
	ErrItemQuantityInvalid   = errors.New("item quantity must be positive")
	ErrItemPosterSizeInvalid = errors.New("item poster size is invalid")
	ErrQuantityExceedsLimit  = errors.New("quantity exceeds the city limit")
	ErrPosterSizeExceedsMax  = errors.New("poster size exceeds the city maximum")

	// Campaign errors
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrCampaignArchived      = errors.New("campaign is archived")
	ErrCampaignStatusInvalid = errors.New("campaign status is invalid")
	ErrPermitNotFound        = errors.New("permit not found")
	ErrPermitDecisionInvalid = errors.New("permit decision is invalid")

	// Dispatch errors
	ErrSenderNotConfigured = errors.New("sender address is not configured")
	ErrRecipientMissing    = errors.New("city has no contact email")
	ErrDispatchFailed      = errors.New("email dispatch failed")

	// Asset errors
	ErrAssetNotFound       = errors.New("file asset not found")
	ErrAssetTooLarge       = errors.New("uploaded file is too large")
	ErrAssetKindInvalid    = errors.New("asset kind is invalid")
	ErrAssetNotAnImage     = errors.New("asset is not an image")
	ErrAssetContentTypeBad = errors.New("asset content type is not allowed")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
	ErrDateFormatInvalid     = errors.New("date must be formatted as YYYY-MM-DD")
	ErrExportFormatInvalid   = errors.New("export format is not supported")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsBusinessError(err error) bool {
	var bizErr *BusinessError
	return errors.As(err, &bizErr)
}

func IsClientNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound)
}

func IsCityNotFound(err error) bool {
	return errors.Is(err, ErrCityNotFound)
}

func IsPostalCodeAlreadyExists(err error) bool {
	return errors.Is(err, ErrPostalCodeAlreadyExists)
}

func IsListNotFound(err error) bool {
	return errors.Is(err, ErrListNotFound)
}

func IsListArchived(err error) bool {
	return errors.Is(err, ErrListArchived)
}

func IsListNotAccepted(err error) bool {
	return errors.Is(err, ErrListNotAccepted)
}

func IsListAlreadyConverted(err error) bool {
	return errors.Is(err, ErrListAlreadyConverted)
}

func IsListTransitionInvalid(err error) bool {
	return errors.Is(err, ErrListTransitionInvalid)
}

func IsItemNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignArchived(err error) bool {
	return errors.Is(err, ErrCampaignArchived)
}

func IsPermitNotFound(err error) bool {
	return errors.Is(err, ErrPermitNotFound)
}

func IsSenderNotConfigured(err error) bool {
	return errors.Is(err, ErrSenderNotConfigured)
}

func IsDispatchFailed(err error) bool {
	return errors.Is(err, ErrDispatchFailed)
}

func IsAssetNotFound(err error) bool {
	return errors.Is(err, ErrAssetNotFound)
}

func IsAssetTooLarge(err error) bool {
	return errors.Is(err, ErrAssetTooLarge)
}

func IsAssetNotAnImage(err error) bool {
	return errors.Is(err, ErrAssetNotAnImage)
}

func IsValidationError(err error) bool {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code == CodeValidation
	}
	return false
}

func IsConflictError(err error) bool {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code == CodeConflict
	}
	return false
}

// Error codes carried on BusinessError. Handlers map them to HTTP statuses.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeDispatch      = "DISPATCH_ERROR"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeInternal      = "INTERNAL_ERROR"
)
