package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mun-club-api/internal/authz"
	"github.com/noah-isme/mun-club-api/internal/models"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
	"github.com/noah-isme/mun-club-api/pkg/export"
)

type attendanceLedger interface {
	Mark(ctx context.Context, lessonID, userID string, markedBy *string) error
	Unmark(ctx context.Context, lessonID, userID string) error
	Replace(ctx context.Context, lessonID string, userIDs []string, markedBy *string) error
}

type attendanceLessons interface {
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]models.Lesson, error)
}

type attendanceUsers interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

// SetAttendanceRequest marks one user present or absent.
type SetAttendanceRequest struct {
	Present *bool `json:"present" validate:"required"`
}

// SetBulkAttendanceRequest lists every user present at a lesson.
type SetBulkAttendanceRequest struct {
	PresentUserIDs []string `json:"present_user_ids"`
}

// AttendanceService records who attended which lesson and builds attendance reports.
type AttendanceService struct {
	ledger  attendanceLedger
	lessons attendanceLessons
	users   attendanceUsers
	metrics *MetricsService
	logger  *zap.Logger
	loc     *time.Location
}

// NewAttendanceService constructs an AttendanceService. Report ranges are resolved in loc.
func NewAttendanceService(ledger attendanceLedger, lessons attendanceLessons, users attendanceUsers, metrics *MetricsService, logger *zap.Logger, loc *time.Location) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceService{ledger: ledger, lessons: lessons, users: users, metrics: metrics, logger: logger, loc: loc}
}

// GetAttendance maps every tracked user to whether they attended the lesson.
func (s *AttendanceService) GetAttendance(ctx context.Context, caller *models.Caller, lessonID string) (map[string]bool, error) {
	if err := authz.Check(caller, authz.AttendanceGet); err != nil {
		return nil, err
	}
	lesson, err := s.loadLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, models.UserFilter{Roles: models.TrackedRoles})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list users")
	}
	result := make(map[string]bool, len(users))
	for _, user := range users {
		result[user.ID] = contains(lesson.Attendance, user.ID)
	}
	return result, nil
}

// SetAttendance marks one user present or absent. Both operations are idempotent.
func (s *AttendanceService) SetAttendance(ctx context.Context, caller *models.Caller, lessonID, userID string, present bool) error {
	if err := authz.Check(caller, authz.AttendanceSet); err != nil {
		return err
	}
	if _, err := s.loadLesson(ctx, lessonID); err != nil {
		return err
	}
	if err := requireID("user id", userID); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNoRows(err) {
			return appErrors.Clone(appErrors.ErrUserNotFound, "user not found")
		}
		return appErrors.Internal(err, "failed to load user")
	}

	if present {
		if !user.Role.Tracked() {
			return appErrors.Clone(appErrors.ErrValidation, "attendance is not recorded for role "+string(user.Role))
		}
		err = s.ledger.Mark(ctx, lessonID, userID, callerIDPtr(caller))
	} else {
		err = s.ledger.Unmark(ctx, lessonID, userID)
	}
	if err != nil {
		return appErrors.Internal(err, "failed to update attendance")
	}
	if present {
		s.metrics.RecordAttendance("mark")
	} else {
		s.metrics.RecordAttendance("unmark")
	}
	return nil
}

// SetBulkAttendance makes presentUserIDs the complete attendee set of the lesson.
func (s *AttendanceService) SetBulkAttendance(ctx context.Context, caller *models.Caller, lessonID string, presentUserIDs []string) error {
	if err := authz.Check(caller, authz.AttendanceSetBulk); err != nil {
		return err
	}
	if _, err := s.loadLesson(ctx, lessonID); err != nil {
		return err
	}
	ids := dedupe(presentUserIDs)
	for _, id := range ids {
		if err := requireID("present_user_ids", id); err != nil {
			return err
		}
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return appErrors.Internal(err, "failed to load users")
	}
	found := make(map[string]models.User, len(users))
	for _, user := range users {
		found[user.ID] = user
	}
	for _, id := range ids {
		user, ok := found[id]
		if !ok {
			return appErrors.Clone(appErrors.ErrUserNotFound, "user "+id+" not found")
		}
		if !user.Role.Tracked() {
			return appErrors.Clone(appErrors.ErrValidation, "attendance is not recorded for role "+string(user.Role))
		}
	}
	if err := s.ledger.Replace(ctx, lessonID, ids, callerIDPtr(caller)); err != nil {
		return appErrors.Internal(err, "failed to update attendance")
	}
	s.metrics.RecordAttendance("bulk")
	s.logger.Info("attendance replaced", zap.String("lesson_id", lessonID), zap.Int("present", len(ids)))
	return nil
}

// GetReport builds the attendance matrix for lessons between the calendar days of start and end, inclusive.
func (s *AttendanceService) GetReport(ctx context.Context, caller *models.Caller, start, end time.Time) (*models.AttendanceReport, error) {
	if err := authz.Check(caller, authz.AttendanceReport); err != nil {
		return nil, err
	}
	if start.IsZero() || end.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date and end_date are required")
	}
	if !start.Before(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must be before end date")
	}

	from := startOfDay(start, s.loc)
	to := startOfDay(end, s.loc).AddDate(0, 0, 1)
	lessons, err := s.lessons.ListInRange(ctx, from, to)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load lessons")
	}

	var attendeeIDs []string
	seen := make(map[string]struct{})
	for _, lesson := range lessons {
		for _, id := range lesson.Attendance {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			attendeeIDs = append(attendeeIDs, id)
		}
	}
	users, err := s.users.FindByIDs(ctx, attendeeIDs)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load users")
	}
	byID := make(map[string]models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	ordered := make([]models.User, 0, len(attendeeIDs))
	for _, id := range attendeeIDs {
		if user, ok := byID[id]; ok {
			ordered = append(ordered, user)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return lastNameKey(ordered[i].Name) < lastNameKey(ordered[j].Name)
	})

	report := &models.AttendanceReport{
		StartDate: start,
		EndDate:   end,
		Columns:   make([]models.ReportColumn, len(lessons)),
		Rows:      make([]models.ReportRow, len(ordered)),
	}
	for i, lesson := range lessons {
		report.Columns[i] = models.ReportColumn{
			LessonID: lesson.ID,
			Date:     lesson.Date,
			Label:    models.DateLabel(lesson.Date, s.loc),
		}
	}
	for r, user := range ordered {
		row := models.ReportRow{UserID: user.ID, Name: user.Name, Cells: make([]bool, len(lessons))}
		for c, lesson := range lessons {
			if contains(lesson.Attendance, user.ID) {
				row.Cells[c] = true
				row.Count++
				report.Columns[c].Attended++
			}
		}
		report.Rows[r] = row
	}
	s.metrics.RecordReport("json")
	return report, nil
}

// ReportTable lays the report out as the delimited export grid: a date header row, a per-lesson
// attendance count row, then one row per user.
func ReportTable(report *models.AttendanceReport) export.Table {
	width := 2 + len(report.Columns)
	header := make([]string, 0, width)
	header = append(header, "", "Date")
	counts := make([]string, 0, width)
	counts = append(counts, "Student Name", "Attendance Count")
	for _, column := range report.Columns {
		header = append(header, column.Label)
		counts = append(counts, strconv.Itoa(column.Attended))
	}

	rows := make([][]string, 0, len(report.Rows)+1)
	rows = append(rows, counts)
	for _, row := range report.Rows {
		line := make([]string, 0, width)
		line = append(line, row.Name, strconv.Itoa(row.Count))
		for _, cell := range row.Cells {
			if cell {
				line = append(line, "TRUE")
			} else {
				line = append(line, "FALSE")
			}
		}
		rows = append(rows, line)
	}
	return export.Table{Title: "Attendance Report", Header: header, Rows: rows}
}

func (s *AttendanceService) loadLesson(ctx context.Context, id string) (*models.Lesson, error) {
	if err := requireID("lesson id", id); err != nil {
		return nil, err
	}
	lesson, err := s.lessons.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrLessonNotFound, "lesson not found")
		}
		return nil, appErrors.Internal(err, "failed to load lesson")
	}
	return lesson, nil
}

func startOfDay(ts time.Time, loc *time.Location) time.Time {
	local := ts.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// lastNameKey is the second whitespace separated token of name, or the whole name, lower cased.
func lastNameKey(name string) string {
	fields := strings.Fields(name)
	if len(fields) >= 2 {
		return strings.ToLower(fields[1])
	}
	return strings.ToLower(strings.TrimSpace(name))
}
