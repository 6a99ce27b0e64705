package businessflow

import (
	"bytes"
	"context"
	"io"

	"github.com/plakatpro/plakatpro/app/dto"
	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/repository"
)

// extensions per allowed content type, by asset kind
var assetContentTypes = map[string]map[string]string{
	models.AssetKindPosterImage: {
		"image/jpeg": "jpg",
		"image/png":  "png",
		"image/gif":  "gif",
	},
	models.AssetKindPermitForm: {
		"application/pdf": "pdf",
	},
}

// AssetFlow handles stored binaries: poster images and municipal permit forms
type AssetFlow interface {
	UploadAsset(ctx context.Context, kind, filename, contentType string, data []byte, metadata *ClientMetadata) (*dto.UploadAssetResponse, error)
	GetAsset(ctx context.Context, uuid string) (*dto.AssetDTO, []byte, error)
	DeleteAsset(ctx context.Context, uuid string, metadata *ClientMetadata) error
	PreviewAsset(ctx context.Context, uuid string) ([]byte, error)
}

// AssetFlowImpl implements the asset business flow
type AssetFlowImpl struct {
	assetRepo      repository.FileAssetRepository
	store          ObjectStore
	scaler         ImageScaler
	maxUploadBytes int64
	thumbnailWidth int
}

// NewAssetFlow creates a new asset flow instance
func NewAssetFlow(
	assetRepo repository.FileAssetRepository,
	store ObjectStore,
	scaler ImageScaler,
	maxUploadBytes int64,
	thumbnailWidth int,
) AssetFlow {
	return &AssetFlowImpl{
		assetRepo:      assetRepo,
		store:          store,
		scaler:         scaler,
		maxUploadBytes: maxUploadBytes,
		thumbnailWidth: thumbnailWidth,
	}
}

// UploadAsset validates and stores one uploaded file
func (f *AssetFlowImpl) UploadAsset(ctx context.Context, kind, filename, contentType string, data []byte, metadata *ClientMetadata) (*dto.UploadAssetResponse, error) {
	allowed, ok := assetContentTypes[kind]
	if !ok {
		return nil, NewBusinessErrorf(CodeValidation, "Invalid asset kind %q", ErrAssetKindInvalid, kind)
	}
	ext, ok := allowed[contentType]
	if !ok {
		return nil, NewBusinessErrorf(CodeValidation,
			"Content type %q is not allowed for %s", ErrAssetContentTypeBad, contentType, kind)
	}
	if f.maxUploadBytes > 0 && int64(len(data)) > f.maxUploadBytes {
		return nil, NewBusinessErrorf(CodeValidation,
			"File exceeds the upload limit of %d bytes", ErrAssetTooLarge, f.maxUploadBytes)
	}
	if len(data) == 0 {
		return nil, NewBusinessError(CodeValidation, "Uploaded file is empty", ErrAssetContentTypeBad)
	}

	key, size, err := f.store.Put(ctx, kind, ext, bytes.NewReader(data))
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to store file", err)
	}

	asset := &models.FileAsset{
		StorageKey:       key,
		OriginalFilename: filename,
		ContentType:      contentType,
		SizeBytes:        size,
		Kind:             kind,
	}
	if err := f.assetRepo.Save(ctx, asset); err != nil {
		// The blob is orphaned without its row; remove it again.
		_ = f.store.Delete(ctx, key)
		return nil, NewBusinessError(CodeInternal, "Failed to save file asset", err)
	}

	return &dto.UploadAssetResponse{
		Message: "File uploaded successfully",
		Asset:   ToAssetDTO(asset),
	}, nil
}

// GetAsset returns an asset's metadata together with its content
func (f *AssetFlowImpl) GetAsset(ctx context.Context, uuid string) (*dto.AssetDTO, []byte, error) {
	asset, err := f.loadAsset(ctx, uuid)
	if err != nil {
		return nil, nil, err
	}

	reader, err := f.store.Get(ctx, asset.StorageKey)
	if err != nil {
		return nil, nil, NewBusinessError(CodeInternal, "Failed to read stored file", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, NewBusinessError(CodeInternal, "Failed to read stored file", err)
	}

	d := ToAssetDTO(asset)
	return &d, data, nil
}

// DeleteAsset removes the asset row and its stored blob. References from
// lists and cities clear via ON DELETE SET NULL.
func (f *AssetFlowImpl) DeleteAsset(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	asset, err := f.loadAsset(ctx, uuid)
	if err != nil {
		return err
	}

	if err := f.assetRepo.Delete(ctx, asset.ID); err != nil {
		return NewBusinessError(CodeInternal, "Failed to delete file asset", err)
	}
	if err := f.store.Delete(ctx, asset.StorageKey); err != nil {
		return NewBusinessError(CodeInternal, "Failed to delete stored file", err)
	}
	return nil
}

// PreviewAsset returns a scaled JPEG preview of a poster image
func (f *AssetFlowImpl) PreviewAsset(ctx context.Context, uuid string) ([]byte, error) {
	asset, err := f.loadAsset(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if asset.Kind != models.AssetKindPosterImage {
		return nil, NewBusinessError(CodeValidation, "Only poster images have previews", ErrAssetNotAnImage)
	}

	reader, err := f.store.Get(ctx, asset.StorageKey)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to read stored file", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to read stored file", err)
	}

	preview, err := f.scaler.Thumbnail(data, f.thumbnailWidth)
	if err != nil {
		return nil, NewBusinessError(CodeInternal, "Failed to scale poster image", err)
	}
	return preview, nil
}

func (f *AssetFlowImpl) loadAsset(ctx context.Context, uuid string) (*models.FileAsset, error) {
	asset, err := f.assetRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError(CodeValidation, "Failed to lookup file asset", err)
	}
	if asset == nil {
		return nil, NewBusinessError(CodeNotFound, "File asset not found", ErrAssetNotFound)
	}
	return asset, nil
}
