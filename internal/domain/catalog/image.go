package catalog

import (
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// AllowedImageTypes maps accepted image MIME types to file extensions
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ProductImage is an uploaded picture of a product held in object storage
type ProductImage struct {
	shared.BaseEntity
	ProductID   uuid.UUID
	StorageKey  string
	FileName    string
	ContentType string
	Size        int64
}

// NewProductImage validates the upload metadata and assigns a storage key
func NewProductImage(productID uuid.UUID, fileName, contentType string, size, maxSize int64) (*ProductImage, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_IMAGE_TYPE", "Only JPEG, PNG, GIF and WebP images are accepted")
	}
	if size <= 0 {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image file is empty")
	}
	if maxSize > 0 && size > maxSize {
		return nil, shared.NewDomainError("IMAGE_TOO_LARGE", "Image exceeds the maximum upload size")
	}

	img := &ProductImage{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		FileName:    path.Base(fileName),
		ContentType: contentType,
		Size:        size,
	}
	img.StorageKey = "products/" + productID.String() + "/" + img.ID.String() + ext
	return img, nil
}
