package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/internal/service"
	"github.com/noah-isme/mun-club-api/pkg/response"
)

type attendanceService interface {
	GetAttendance(ctx context.Context, caller *models.Caller, lessonID string) (map[string]bool, error)
	SetAttendance(ctx context.Context, caller *models.Caller, lessonID, userID string, present bool) error
	SetBulkAttendance(ctx context.Context, caller *models.Caller, lessonID string, presentUserIDs []string) error
	GetReport(ctx context.Context, caller *models.Caller, start, end time.Time) (*models.AttendanceReport, error)
}

type reportRenderer interface {
	Render(report *models.AttendanceReport, format models.ReportFormat) (*service.RenderedReport, error)
}

type reportExports interface {
	CreateExport(ctx context.Context, caller *models.Caller, req service.CreateExportRequest) (*models.ReportExport, error)
	GetExport(ctx context.Context, caller *models.Caller, id string) (*models.ReportExport, error)
	List(ctx context.Context, caller *models.Caller) ([]models.ReportExport, error)
	ResolveDownload(ctx context.Context, caller *models.Caller, token string) (*service.ReportDownload, error)
}

// AttendanceHandler exposes lesson attendance and attendance report endpoints.
type AttendanceHandler struct {
	attendance attendanceService
	renderer   reportRenderer
	exports    reportExports
	loc        *time.Location
	logger     *zap.Logger
}

// NewAttendanceHandler constructs the handler. exports may be nil when background exports are disabled.
func NewAttendanceHandler(attendance attendanceService, renderer reportRenderer, exports reportExports, loc *time.Location, logger *zap.Logger) *AttendanceHandler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceHandler{attendance: attendance, renderer: renderer, exports: exports, loc: loc, logger: logger}
}

// Get godoc
// @Summary Attendance of a lesson
// @Description Map of tracked user id to presence.
// @Tags Attendance
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id}/attendance [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	marks, err := h.attendance.GetAttendance(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, marks)
}

// Set godoc
// @Summary Mark one user present or absent
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param userId path string true "User ID"
// @Param payload body service.SetAttendanceRequest true "Presence"
// @Success 204
// @Router /lessons/{id}/attendance/{userId} [put]
func (h *AttendanceHandler) Set(c *gin.Context) {
	var req service.SetAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Present == nil {
		response.Error(c, missingField("present"))
		return
	}
	if err := h.attendance.SetAttendance(c.Request.Context(), callerFromContext(c), c.Param("id"), c.Param("userId"), *req.Present); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetBulk godoc
// @Summary Replace the attendance of a lesson
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param payload body service.SetBulkAttendanceRequest true "Present users"
// @Success 204
// @Router /lessons/{id}/attendance [put]
func (h *AttendanceHandler) SetBulk(c *gin.Context) {
	var req service.SetBulkAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.attendance.SetBulkAttendance(c.Request.Context(), callerFromContext(c), c.Param("id"), req.PresentUserIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Report godoc
// @Summary Attendance report
// @Tags Attendance
// @Produce json
// @Param start_date query string true "Start day (YYYY-MM-DD)"
// @Param end_date query string true "End day (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/report [get]
func (h *AttendanceHandler) Report(c *gin.Context) {
	start, end, ok := dateRange(c, h.loc)
	if !ok {
		return
	}
	report, err := h.attendance.GetReport(c.Request.Context(), callerFromContext(c), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Export godoc
// @Summary Download an attendance report
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param start_date query string true "Start day (YYYY-MM-DD)"
// @Param end_date query string true "End day (YYYY-MM-DD)"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} file
// @Router /attendance/report/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	format, err := service.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	start, end, ok := dateRange(c, h.loc)
	if !ok {
		return
	}
	report, err := h.attendance.GetReport(c.Request.Context(), callerFromContext(c), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	rendered, err := h.renderer.Render(report, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, rendered.Filename, rendered.ContentType, rendered.Data)
}

// CreateExport godoc
// @Summary Queue an attendance report export
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.CreateExportRequest true "Export request"
// @Success 202 {object} response.Envelope
// @Router /attendance/report/exports [post]
func (h *AttendanceHandler) CreateExport(c *gin.Context) {
	if !h.exportsEnabled(c) {
		return
	}
	var req service.CreateExportRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.exports.CreateExport(c.Request.Context(), callerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, record)
}

// ListExports godoc
// @Summary List the caller's exports
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/report/exports [get]
func (h *AttendanceHandler) ListExports(c *gin.Context) {
	if !h.exportsEnabled(c) {
		return
	}
	records, err := h.exports.List(c.Request.Context(), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// GetExport godoc
// @Summary Export status
// @Tags Attendance
// @Produce json
// @Param id path string true "Export ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/report/exports/{id} [get]
func (h *AttendanceHandler) GetExport(c *gin.Context) {
	if !h.exportsEnabled(c) {
		return
	}
	record, err := h.exports.GetExport(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// Download godoc
// @Summary Download a finished export
// @Tags Attendance
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Router /exports/{token} [get]
func (h *AttendanceHandler) Download(c *gin.Context) {
	if !h.exportsEnabled(c) {
		return
	}
	download, err := h.exports.ResolveDownload(c.Request.Context(), callerFromContext(c), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	c.Header("Cache-Control", "no-store")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Header("Content-Type", formatContentType(download.Format))
	c.Header("X-Expires-At", download.ExpiresAt.UTC().Format(time.RFC3339))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, download.File); err != nil {
		h.logger.Warn("export download interrupted", zap.String("file", download.Filename), zap.Error(err))
	}
}

func (h *AttendanceHandler) exportsEnabled(c *gin.Context) bool {
	if h.exports != nil {
		return true
	}
	response.Error(c, exportsDisabled())
	return false
}

func formatContentType(format models.ReportFormat) string {
	if format == models.ReportFormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}
