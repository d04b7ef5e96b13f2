package handler

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/internal/service"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
)

func TestPublicTopicListCarriesCacheMeta(t *testing.T) {
	f := newFixture(t)
	f.topics.hit = true

	w := f.do(http.MethodGet, "/api/v1/topics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, true, env.Meta["cache_hit"])
	assert.Contains(t, env.Meta, "processing_time_ms")
}

func TestMutationsRejectedBeforeReachingService(t *testing.T) {
	f := newFixture(t)
	body := service.TopicRequest{Title: "Climate"}

	w := f.do(http.MethodPost, "/api/v1/topics", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, appErrors.ErrUnauthenticated.Code, decodeEnvelope(t, w).Error.Code)

	w = f.do(http.MethodPost, "/api/v1/topics", "student-token", body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, f.topics.calls)

	w = f.do(http.MethodPost, "/api/v1/topics", "teacher-token", body)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, f.topics.calls)
}

func TestInvalidBearerTokenIsRejected(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/topics", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, f.topics.calls)
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	f := newFixture(t)
	f.topics.err = appErrors.Clone(appErrors.ErrDuplicateTitle, "Topic Climate already exists")

	w := f.do(http.MethodPost, "/api/v1/topics", "teacher-token", service.TopicRequest{Title: "Climate"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_TITLE", decodeEnvelope(t, w).Error.Code)
}

func TestTopicByTitleRouteDoesNotShadowID(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/topics/by-title?title=Climate", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "Climate", env.Data.(map[string]interface{})["title"])
}

func TestLessonOrderQuery(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/lessons", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SortDesc, f.lessons.order)

	w = f.do(http.MethodGet, "/api/v1/lessons?order=asc", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SortAsc, f.lessons.order)

	w = f.do(http.MethodGet, "/api/v1/lessons?order=sideways", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetAttendanceRequiresPresentFlag(t *testing.T) {
	f := newFixture(t)
	path := "/api/v1/lessons/lesson-1/attendance/" + student.UserID

	w := f.do(http.MethodPut, path, "teacher-token", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, f.attendance.present)

	w = f.do(http.MethodPut, path, "teacher-token", map[string]interface{}{"present": false})
	require.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, f.attendance.present)
	assert.False(t, *f.attendance.present)
	assert.Equal(t, "lesson-1", f.attendance.lessonID)
	assert.Equal(t, student.UserID, f.attendance.userID)
}

func TestAttendanceIsTeacherOnly(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/lessons/lesson-1/attendance", "student-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodPut, "/api/v1/lessons/lesson-1/attendance", "teacher-token",
		service.SetBulkAttendanceRequest{PresentUserIDs: []string{student.UserID}})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{student.UserID}, f.attendance.bulk)
}

func TestReportParsesDayBounds(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/attendance/report?start_date=2024-03-01&end_date=2024-03-31", "teacher-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), f.attendance.start)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), f.attendance.end)

	w = f.do(http.MethodGet, "/api/v1/attendance/report?start_date=March&end_date=2024-03-31", "teacher-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportExportStreamsAttachment(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/attendance/report/export?start_date=2024-03-01&end_date=2024-03-31", "teacher-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance_20240301_20240331.csv")
	assert.Contains(t, w.Body.String(), "Student Name,Attendance Count")

	w = f.do(http.MethodGet, "/api/v1/attendance/report/export?start_date=2024-03-01&end_date=2024-03-31&format=xlsx", "teacher-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateExportIsAccepted(t *testing.T) {
	f := newFixture(t)
	req := service.CreateExportRequest{
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Format:    models.ReportFormatPDF,
	}

	w := f.do(http.MethodPost, "/api/v1/attendance/report/exports", "teacher-token", req)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.NotNil(t, f.exports.created)
	assert.Equal(t, models.ReportFormatPDF, f.exports.created.Format)
}

func TestDownloadStreamsStoredFile(t *testing.T) {
	f := newFixture(t)
	file, err := os.CreateTemp(t.TempDir(), "report*.csv")
	require.NoError(t, err)
	_, _ = file.WriteString("data")
	_, _ = file.Seek(0, 0)
	f.exports.download = &service.ReportDownload{
		File:      file,
		Filename:  "report.csv",
		Format:    models.ReportFormatCSV,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	w := f.do(http.MethodGet, "/api/v1/exports/signed-token", "teacher-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "data", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report.csv")

	f.exports.err = appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	w = f.do(http.MethodGet, "/api/v1/exports/signed-token", "teacher-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExportRoutesWithoutQueue(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendance{}, stubRenderer{}, nil, nil, nil)
	c, w := newGinContext(http.MethodGet, "/attendance/report/exports/exp-1", nil)

	h.GetExport(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCountryJoinNeedsIdentity(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/v1/countries/c-9/join", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, "/api/v1/countries/c-9/join", "student-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c-9", f.countries.joined)
}

func TestUserCountryMayBeNull(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/topics/t-1/countries/mine", "student-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeEnvelope(t, w).Data)
}

func TestDocumentCreateSurfacesMembershipError(t *testing.T) {
	f := newFixture(t)
	f.documents.err = appErrors.Clone(appErrors.ErrUnauthorized, "not a member of this delegation")

	w := f.do(http.MethodPost, "/api/v1/documents", "student-token", service.CreateDocumentRequest{
		CountryID: "33333333-3333-4333-8333-333333333333",
		URI:       "https://un.org/resolution.pdf",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeEnvelope(t, w).Error.Code)
}

func TestUserListParsesRoles(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/users?role=student&role=SECRETARY_GENERAL,", "teacher-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.UserRole{models.RoleStudent, models.RoleSecretaryGeneral}, f.users.filter.Roles)

	w = f.do(http.MethodGet, "/api/v1/users", "student-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateRolePassesRequestMeta(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPut, "/api/v1/users/"+student.UserID+"/role", "teacher-token", service.UpdateRoleRequest{Role: models.RoleTeacher})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, f.users.meta.IP)
}

func TestSystemMetricsIsTeacherOnly(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/v1/system/metrics", "student-token", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/system/metrics", "teacher-token", nil).Code)
}
