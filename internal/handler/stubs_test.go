package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mun-club-api/internal/middleware"
	"github.com/noah-isme/mun-club-api/internal/models"
	"github.com/noah-isme/mun-club-api/internal/service"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
	"github.com/noah-isme/mun-club-api/pkg/response"
)

var (
	teacher = &models.Caller{UserID: "11111111-1111-4111-8111-111111111111", Role: models.RoleTeacher}
	student = &models.Caller{UserID: "22222222-2222-4222-8222-222222222222", Role: models.RoleStudent}
)

// tokenAuth resolves bearer tokens from a fixed table.
type tokenAuth map[string]*models.Caller

func (a tokenAuth) Authenticate(_ context.Context, token string) (*models.Caller, error) {
	if caller, ok := a[token]; ok {
		return caller, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid token")
}

type stubTopics struct {
	calls  int
	topics []models.Topic
	hit    bool
	err    error
}

func (s *stubTopics) GetAll(context.Context, *models.Caller) ([]models.Topic, bool, error) {
	s.calls++
	return s.topics, s.hit, s.err
}

func (s *stubTopics) GetByID(_ context.Context, _ *models.Caller, id string) (*models.Topic, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Topic{ID: id}, nil
}

func (s *stubTopics) GetByTitle(_ context.Context, _ *models.Caller, title string) (*models.Topic, error) {
	s.calls++
	return &models.Topic{Title: title}, s.err
}

func (s *stubTopics) Create(_ context.Context, _ *models.Caller, req service.TopicRequest) (*models.Topic, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Topic{ID: "t-1", Title: req.Title}, nil
}

func (s *stubTopics) Edit(_ context.Context, _ *models.Caller, id string, req service.TopicRequest) (*models.Topic, error) {
	s.calls++
	return &models.Topic{ID: id, Title: req.Title}, s.err
}

func (s *stubTopics) Delete(_ context.Context, _ *models.Caller, id string) (*models.Topic, error) {
	s.calls++
	return &models.Topic{ID: id}, s.err
}

type stubLessons struct {
	order models.SortOrder
}

func (s *stubLessons) GetAll(_ context.Context, _ *models.Caller, order models.SortOrder) ([]models.Lesson, bool, error) {
	s.order = order
	return []models.Lesson{}, false, nil
}

func (s *stubLessons) GetByID(_ context.Context, _ *models.Caller, id string) (*models.LessonDetail, error) {
	return &models.LessonDetail{Lesson: models.Lesson{ID: id}}, nil
}

func (s *stubLessons) Create(_ context.Context, _ *models.Caller, req service.LessonRequest) (*models.Lesson, error) {
	return &models.Lesson{ID: "l-1", Date: req.Date, Location: req.Location}, nil
}

func (s *stubLessons) Edit(_ context.Context, _ *models.Caller, id string, req service.LessonRequest) (*models.Lesson, error) {
	return &models.Lesson{ID: id, Date: req.Date}, nil
}

func (s *stubLessons) Delete(_ context.Context, _ *models.Caller, id string) (*models.Lesson, error) {
	return &models.Lesson{ID: id}, nil
}

type stubAttendance struct {
	lessonID   string
	userID     string
	present    *bool
	bulk       []string
	start, end time.Time
}

func (s *stubAttendance) GetAttendance(_ context.Context, _ *models.Caller, lessonID string) (map[string]bool, error) {
	s.lessonID = lessonID
	return map[string]bool{student.UserID: true}, nil
}

func (s *stubAttendance) SetAttendance(_ context.Context, _ *models.Caller, lessonID, userID string, present bool) error {
	s.lessonID, s.userID, s.present = lessonID, userID, &present
	return nil
}

func (s *stubAttendance) SetBulkAttendance(_ context.Context, _ *models.Caller, lessonID string, ids []string) error {
	s.lessonID, s.bulk = lessonID, ids
	return nil
}

func (s *stubAttendance) GetReport(_ context.Context, _ *models.Caller, start, end time.Time) (*models.AttendanceReport, error) {
	s.start, s.end = start, end
	return &models.AttendanceReport{StartDate: start, EndDate: end}, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(_ *models.AttendanceReport, format models.ReportFormat) (*service.RenderedReport, error) {
	return &service.RenderedReport{
		Filename:    "attendance_20240301_20240331." + string(format),
		ContentType: formatContentType(format),
		Data:        []byte(",Date\nStudent Name,Attendance Count\n"),
	}, nil
}

type stubExports struct {
	created  *service.CreateExportRequest
	download *service.ReportDownload
	err      error
}

func (s *stubExports) CreateExport(_ context.Context, caller *models.Caller, req service.CreateExportRequest) (*models.ReportExport, error) {
	s.created = &req
	return &models.ReportExport{ID: "exp-1", Status: models.ReportStatusQueued, CreatedBy: caller.UserID}, nil
}

func (s *stubExports) GetExport(_ context.Context, _ *models.Caller, id string) (*models.ReportExport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.ReportExport{ID: id, Status: models.ReportStatusFinished}, nil
}

func (s *stubExports) List(context.Context, *models.Caller) ([]models.ReportExport, error) {
	return []models.ReportExport{}, nil
}

func (s *stubExports) ResolveDownload(context.Context, *models.Caller, string) (*service.ReportDownload, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.download, nil
}

type stubCountries struct {
	joined string
}

func (s *stubCountries) GetByTopic(context.Context, *models.Caller, string) ([]models.Country, error) {
	return []models.Country{}, nil
}

func (s *stubCountries) GetUserCountry(context.Context, *models.Caller, string) (*models.Country, error) {
	return nil, nil
}

func (s *stubCountries) GetByID(_ context.Context, _ *models.Caller, id string) (*models.Country, error) {
	return &models.Country{ID: id}, nil
}

func (s *stubCountries) Create(_ context.Context, _ *models.Caller, req service.CreateCountryRequest) (*models.Country, error) {
	return &models.Country{ID: "c-1", Name: req.Name}, nil
}

func (s *stubCountries) Update(_ context.Context, _ *models.Caller, id string, req service.UpdateCountryRequest) (*models.Country, error) {
	return &models.Country{ID: id, Name: req.Name}, nil
}

func (s *stubCountries) Delete(_ context.Context, _ *models.Caller, id string) (*models.Country, error) {
	return &models.Country{ID: id}, nil
}

func (s *stubCountries) Join(_ context.Context, caller *models.Caller, id string) (*models.Country, error) {
	s.joined = id
	return &models.Country{ID: id, StudentIDs: []string{caller.UserID}}, nil
}

func (s *stubCountries) Leave(_ context.Context, _ *models.Caller, id string) (*models.Country, error) {
	return &models.Country{ID: id}, nil
}

type stubDocuments struct {
	err error
}

func (s *stubDocuments) Create(_ context.Context, _ *models.Caller, req service.CreateDocumentRequest) (*models.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Document{ID: "d-1", URI: req.URI}, nil
}

func (s *stubDocuments) Delete(_ context.Context, _ *models.Caller, id string) (*models.Document, error) {
	return &models.Document{ID: id}, s.err
}

func (s *stubDocuments) GetByCountry(context.Context, *models.Caller, string) ([]models.Document, error) {
	return []models.Document{}, nil
}

func (s *stubDocuments) GetByTopic(context.Context, *models.Caller, string) ([]models.Document, error) {
	return []models.Document{}, nil
}

func (s *stubDocuments) GetByID(_ context.Context, _ *models.Caller, id string) (*models.Document, error) {
	return &models.Document{ID: id}, nil
}

type stubUsers struct {
	filter models.UserFilter
	meta   models.RequestMeta
}

func (s *stubUsers) GetAll(_ context.Context, _ *models.Caller, filter models.UserFilter) ([]models.User, error) {
	s.filter = filter
	return []models.User{}, nil
}

func (s *stubUsers) UpdateRole(_ context.Context, _ *models.Caller, id string, req service.UpdateRoleRequest, meta models.RequestMeta) (*models.User, error) {
	s.meta = meta
	return &models.User{ID: id, Role: req.Role}, nil
}

func (s *stubUsers) Delete(_ context.Context, _ *models.Caller, id string, meta models.RequestMeta) (*models.User, error) {
	s.meta = meta
	return &models.User{ID: id}, nil
}

type fixture struct {
	router     *gin.Engine
	topics     *stubTopics
	lessons    *stubLessons
	attendance *stubAttendance
	exports    *stubExports
	countries  *stubCountries
	documents  *stubDocuments
	users      *stubUsers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		topics:     &stubTopics{topics: []models.Topic{}},
		lessons:    &stubLessons{},
		attendance: &stubAttendance{},
		exports:    &stubExports{},
		countries:  &stubCountries{},
		documents:  &stubDocuments{},
		users:      &stubUsers{},
	}

	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.OptionalJWT(tokenAuth{"teacher-token": teacher, "student-token": student}))
	RegisterRoutes(r.Group("/api/v1"), Handlers{
		Topics:     NewTopicHandler(f.topics),
		Lessons:    NewLessonHandler(f.lessons),
		Attendance: NewAttendanceHandler(f.attendance, stubRenderer{}, f.exports, time.UTC, nil),
		Countries:  NewCountryHandler(f.countries),
		Documents:  NewDocumentHandler(f.documents),
		Users:      NewUserHandler(f.users),
		Metrics:    NewMetricsHandler(service.NewMetricsService(), nil),
	}, nil)
	f.router = r
	return f
}

func (f *fixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.NewDecoder(strings.NewReader(w.Body.String())).Decode(&env))
	return env
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}
