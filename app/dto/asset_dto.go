package dto

// AssetDTO is the API representation of a stored file
type AssetDTO struct {
	ID               uint   `json:"id"`
	UUID             string `json:"uuid"`
	OriginalFilename string `json:"original_filename"`
	ContentType      string `json:"content_type"`
	SizeBytes        int64  `json:"size_bytes"`
	Kind             string `json:"kind"`
	CreatedAt        string `json:"created_at"`
}

// UploadAssetResponse confirms an upload
type UploadAssetResponse struct {
	Message string   `json:"message"`
	Asset   AssetDTO `json:"asset"`
}
