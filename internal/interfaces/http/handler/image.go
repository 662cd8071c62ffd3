package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// ImageHandler serves product image uploads
type ImageHandler struct {
	BaseHandler
	images *catalogapp.ImageService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(images *catalogapp.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// Upload godoc
// @Summary      Upload a product image
// @Description  Accepts jpeg, png, gif and webp up to the configured size
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        id   path     string true "Product ID" format(uuid)
// @Param        file formData file   true "Image"
// @Success      201 {object} dto.Response{data=catalogapp.ImageResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/images [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	productID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A multipart file field named 'file' is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Uploaded file could not be read")
		return
	}
	defer file.Close()

	contentType, body, err := sniffContentType(file)
	if err != nil {
		h.BadRequest(c, "Uploaded file could not be read")
		return
	}

	image, err := h.images.Upload(c.Request.Context(), productID, catalogapp.ImageUpload{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, image)
}

// List godoc
// @Summary      List the images of a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.ImageResponse}
// @Router       /products/{id}/images [get]
func (h *ImageHandler) List(c *gin.Context) {
	productID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	images, err := h.images.List(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, images)
}

// Delete godoc
// @Summary      Delete a product image
// @Tags         products
// @Param        id       path string true "Product ID" format(uuid)
// @Param        image_id path string true "Image ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /products/{id}/images/{image_id} [delete]
func (h *ImageHandler) Delete(c *gin.Context) {
	productID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	imageID, ok := h.ParamUUID(c, "image_id")
	if !ok {
		return
	}
	if err := h.images.Delete(c.Request.Context(), productID, imageID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// sniffContentType detects the type from the leading bytes; the client's
// part header is ignored. The returned reader replays the sniffed bytes.
func sniffContentType(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), r), nil
}
