package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samudata/samudata-api/internal/dto"
	"github.com/samudata/samudata-api/internal/middleware"
	"github.com/samudata/samudata-api/internal/service"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
	"github.com/samudata/samudata-api/pkg/response"
)

type ingestionService interface {
	Upload(ctx context.Context, meta dto.UploadFileRequest, payload service.UploadPayload) (int64, error)
}

// UploadHandler accepts multipart uploads.
type UploadHandler struct {
	service ingestionService
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(service ingestionService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload godoc
// @Summary Upload a document
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param category_id formData int true "Category ID"
// @Param region_id formData int true "Region ID"
// @Param uploader_name formData string true "Uploader name"
// @Param uploader_email formData string false "Uploader email"
// @Param upload_date formData string false "Upload date (YYYY-MM-DD)"
// @Param tags formData string false "Comma separated tags"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} response.Envelope
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Set(middleware.ActionKey, "upload")

	var payload service.UploadPayload
	fileHeader, fileErr := c.FormFile("file")
	switch {
	case errors.Is(fileErr, http.ErrMissingFile):
	case fileErr != nil:
		payload.TransportErr = fileErr
	default:
		payload.Filename = fileHeader.Filename
		payload.Size = fileHeader.Size
		payload.MimeType = fileHeader.Header.Get("Content-Type")
		src, err := fileHeader.Open()
		if err != nil {
			payload.TransportErr = err
		} else {
			defer src.Close()
			payload.Content = src
		}
	}

	var meta dto.UploadFileRequest
	if err := c.ShouldBind(&meta); err != nil && payload.TransportErr == nil && payload.Content != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid upload payload"))
		return
	}

	id, err := h.service.Upload(c.Request.Context(), meta, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, dto.UploadResponse{Success: true, FileID: id, Message: "File uploaded successfully"})
}
