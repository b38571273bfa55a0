package handler

import (
	"context"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/samudata/samudata-api/internal/dto"
	"github.com/samudata/samudata-api/internal/middleware"
	"github.com/samudata/samudata-api/internal/models"
	"github.com/samudata/samudata-api/internal/service"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
	"github.com/samudata/samudata-api/pkg/response"
)

type fileService interface {
	List(ctx context.Context, q dto.FileListQuery) ([]models.FileListItem, error)
	Stats(ctx context.Context) (*models.FileStats, error)
	Download(ctx context.Context, id int64) (*models.FileDownload, error)
	ToggleFavorite(ctx context.Context, id int64) error
	Archive(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Edit(ctx context.Context, req dto.EditFileRequest) error
}

type lookupService interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Regions(ctx context.Context) ([]models.Region, error)
}

type activityLogService interface {
	Query(ctx context.Context, q dto.AccessLogQuery) ([]models.AccessLogView, error)
	Statistics(ctx context.Context) (*models.AccessLogStats, error)
	Export(ctx context.Context, q dto.AccessLogQuery) (*service.ExportFile, error)
}

type requestService interface {
	Create(ctx context.Context, req dto.CreateFileRequestRequest) (*models.FileRequest, error)
	List(ctx context.Context, q dto.FileRequestQuery) ([]models.FileRequest, error)
	Statistics(ctx context.Context) (map[string]int, error)
	UpdateStatus(ctx context.Context, req dto.UpdateRequestStatusRequest) error
}

var errInvalidAction = appErrors.Clone(appErrors.ErrInvalidAction, "Invalid action")

// FileHandler dispatches the action-based /files endpoint.
type FileHandler struct {
	files    fileService
	lookups  lookupService
	logs     activityLogService
	requests requestService

	queries  map[string]gin.HandlerFunc
	commands map[string]gin.HandlerFunc
}

// NewFileHandler constructs the handler.
func NewFileHandler(files fileService, lookups lookupService, logs activityLogService, requests requestService) *FileHandler {
	h := &FileHandler{files: files, lookups: lookups, logs: logs, requests: requests}
	h.queries = map[string]gin.HandlerFunc{
		"list":          h.list,
		"categories":    h.categories,
		"regions":       h.regions,
		"stats":         h.stats,
		"download":      h.downloadInfo,
		"logs":          h.accessLogs,
		"log_stats":     h.accessLogStats,
		"requests":      h.fileRequests,
		"request_stats": h.fileRequestStats,
		"export_logs":   h.exportLogs,
	}
	h.commands = map[string]gin.HandlerFunc{
		"favorite":              h.toggleFavorite,
		"archive":               h.archive,
		"delete":                h.deleteFile,
		"edit":                  h.edit,
		"create_request":        h.createRequest,
		"update_request_status": h.updateRequestStatus,
	}
	return h
}

// Query godoc
// @Summary Read files, lookups, activity logs and request tickets
// @Tags Files
// @Produce json
// @Param action query string false "list|categories|regions|stats|download|logs|log_stats|requests|request_stats|export_logs"
// @Param category query string false "Category name"
// @Param region query int false "Region ID"
// @Param search query string false "Title or description search"
// @Param limit query int false "Maximum rows"
// @Param id query int false "File ID for action=download"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /files [get]
func (h *FileHandler) Query(c *gin.Context) {
	h.dispatch(c, h.queries, c.DefaultQuery("action", "list"))
}

// Command godoc
// @Summary Mutate files and request tickets
// @Tags Files
// @Accept x-www-form-urlencoded
// @Produce json
// @Param action formData string true "favorite|archive|delete|edit|create_request|update_request_status"
// @Param file_id formData int false "File ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /files [post]
func (h *FileHandler) Command(c *gin.Context) {
	h.dispatch(c, h.commands, c.PostForm("action"))
}

func (h *FileHandler) dispatch(c *gin.Context, routes map[string]gin.HandlerFunc, action string) {
	handle, ok := routes[strings.TrimSpace(action)]
	if !ok {
		response.Error(c, errInvalidAction)
		return
	}
	c.Set(middleware.ActionKey, action)
	handle(c)
}

func (h *FileHandler) list(c *gin.Context) {
	var q dto.FileListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid list filters"))
		return
	}
	rows, err := h.files.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.FileListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.NewFileListItem(row))
	}
	response.List(c, items, len(items))
}

func (h *FileHandler) categories(c *gin.Context) {
	categories, err := h.lookups.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories)
}

func (h *FileHandler) regions(c *gin.Context) {
	regions, err := h.lookups.Regions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, regions)
}

func (h *FileHandler) stats(c *gin.Context) {
	stats, err := h.files.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

func (h *FileHandler) downloadInfo(c *gin.Context) {
	info, err := h.files.Download(c.Request.Context(), parseID(c.Query("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, dto.DownloadInfoResponse{
		Success:          true,
		FilePath:         info.FilePath,
		OriginalFilename: info.OriginalFilename,
		MimeType:         info.MimeType,
		FileSize:         info.FileSize,
	})
}

func (h *FileHandler) accessLogs(c *gin.Context) {
	var q dto.AccessLogQuery
	_ = c.ShouldBindQuery(&q)
	rows, err := h.logs.Query(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, rows, len(rows))
}

func (h *FileHandler) accessLogStats(c *gin.Context) {
	stats, err := h.logs.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

func (h *FileHandler) exportLogs(c *gin.Context) {
	var q dto.AccessLogQuery
	_ = c.ShouldBindQuery(&q)
	file, err := h.logs.Export(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *FileHandler) fileRequests(c *gin.Context) {
	var q dto.FileRequestQuery
	_ = c.ShouldBindQuery(&q)
	rows, err := h.requests.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, rows, len(rows))
}

func (h *FileHandler) fileRequestStats(c *gin.Context) {
	stats, err := h.requests.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

func (h *FileHandler) toggleFavorite(c *gin.Context) {
	if err := h.files.ToggleFavorite(c.Request.Context(), parseID(c.PostForm("file_id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Favorite status updated")
}

func (h *FileHandler) archive(c *gin.Context) {
	if err := h.files.Archive(c.Request.Context(), parseID(c.PostForm("file_id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "File archived successfully")
}

func (h *FileHandler) deleteFile(c *gin.Context) {
	if err := h.files.Delete(c.Request.Context(), parseID(c.PostForm("file_id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "File deleted successfully")
}

func (h *FileHandler) edit(c *gin.Context) {
	var req dto.EditFileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid edit payload"))
		return
	}
	if err := h.files.Edit(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "File updated successfully")
}

func (h *FileHandler) createRequest(c *gin.Context) {
	var req dto.CreateFileRequestRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request payload"))
		return
	}
	ticket, err := h.requests.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Result(c, http.StatusOK, "Request created successfully", ticket)
}

func (h *FileHandler) updateRequestStatus(c *gin.Context) {
	var req dto.UpdateRequestStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid status payload"))
		return
	}
	if err := h.requests.UpdateStatus(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Request status updated successfully")
}

// parseID returns 0 for anything that is not a positive integer; services reject 0.
func parseID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return `attachment; filename="download"`
}
