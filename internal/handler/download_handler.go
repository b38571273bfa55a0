package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/samudata/samudata-api/internal/middleware"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
	"github.com/samudata/samudata-api/pkg/response"
)

type payloadOpener interface {
	Open(filename string) (*os.File, error)
}

// DownloadHandler streams stored payloads.
type DownloadHandler struct {
	files   fileService
	storage payloadOpener
}

// NewDownloadHandler constructs the handler.
func NewDownloadHandler(files fileService, storage payloadOpener) *DownloadHandler {
	return &DownloadHandler{files: files, storage: storage}
}

// Download godoc
// @Summary Download a document
// @Tags Files
// @Produce octet-stream
// @Param id query int true "File ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /download [get]
func (h *DownloadHandler) Download(c *gin.Context) {
	c.Set(middleware.ActionKey, "download")

	info, err := h.files.Download(c.Request.Context(), parseID(c.Query("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	f, err := h.storage.Open(info.Filename)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "Physical file not found"))
		return
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read file"))
		return
	}

	contentType := info.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, stat.Size(), contentType, f, map[string]string{
		"Content-Disposition": attachment(info.OriginalFilename),
		"Cache-Control":       "must-revalidate",
		"Pragma":              "public",
		"Expires":             "0",
	})
}
