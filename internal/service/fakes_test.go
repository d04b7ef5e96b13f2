package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/noah-isme/mun-club-api/internal/models"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
)

const (
	teacherID  = "11111111-1111-4111-8111-111111111111"
	secGenID   = "22222222-2222-4222-8222-222222222222"
	studentAID = "33333333-3333-4333-8333-333333333333"
	studentBID = "44444444-4444-4444-8444-444444444444"
	unknownID  = "99999999-9999-4999-8999-999999999999"
)

var (
	teacherCaller = &models.Caller{UserID: teacherID, Role: models.RoleTeacher}
	secGenCaller  = &models.Caller{UserID: secGenID, Role: models.RoleSecretaryGeneral}
	studentCaller = &models.Caller{UserID: studentAID, Role: models.RoleStudent}
)

// memStore keeps every table in memory. Attendance and rosters are stored once and projected
// onto lessons, users and countries on read.
type memStore struct {
	mu         sync.Mutex
	topics     map[string]*models.Topic
	lessons    map[string]*models.Lesson
	users      map[string]*models.User
	attendance map[string]map[string]bool
	countries  map[string]*models.Country
	members    map[string][]string
	documents  map[string]*models.Document
	audits     []*models.AuditLog

	lessonWriteErr  error
	countryWriteErr error
	listErr         error
}

func newMemStore() *memStore {
	return &memStore{
		topics:     map[string]*models.Topic{},
		lessons:    map[string]*models.Lesson{},
		users:      map[string]*models.User{},
		attendance: map[string]map[string]bool{},
		countries:  map[string]*models.Country{},
		members:    map[string][]string{},
		documents:  map[string]*models.Document{},
	}
}

func seededStore() *memStore {
	s := newMemStore()
	s.addUser(teacherID, "Grace Hopper", models.RoleTeacher)
	s.addUser(secGenID, "Kofi Annan", models.RoleSecretaryGeneral)
	s.addUser(studentAID, "Ada Lovelace", models.RoleStudent)
	s.addUser(studentBID, "Alan Turing", models.RoleStudent)
	return s
}

func (s *memStore) addUser(id, name string, role models.UserRole) {
	s.users[id] = &models.User{ID: id, Name: name, Role: role, CreatedAt: time.Now().UTC()}
}

func (s *memStore) addTopic(title string) *models.Topic {
	topic := &models.Topic{ID: uuid.NewString(), Title: title, CreatedAt: time.Now().UTC()}
	s.topics[topic.ID] = topic
	return topic
}

func (s *memStore) addLesson(topicID string, date time.Time, attendees ...string) *models.Lesson {
	lesson := &models.Lesson{ID: uuid.NewString(), Location: "Room 5", Date: date, DateKey: date.UTC().Format(models.CalendarKeyLayout), TopicID: topicID}
	s.lessons[lesson.ID] = lesson
	s.attendance[lesson.ID] = map[string]bool{}
	for _, id := range attendees {
		s.attendance[lesson.ID][id] = true
	}
	return lesson
}

func (s *memStore) lessonView(l *models.Lesson) models.Lesson {
	clone := *l
	ids := make([]string, 0)
	for id := range s.attendance[l.ID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	clone.Attendance = pq.StringArray(ids)
	return clone
}

func (s *memStore) userView(u *models.User) models.User {
	clone := *u
	ids := make([]string, 0)
	for lessonID, set := range s.attendance {
		if set[u.ID] {
			ids = append(ids, lessonID)
		}
	}
	sort.Strings(ids)
	clone.Attendance = pq.StringArray(ids)
	return clone
}

func (s *memStore) countryView(c *models.Country) models.Country {
	clone := *c
	clone.StudentIDs = append(pq.StringArray{}, s.members[c.ID]...)
	return clone
}

type memTopics struct{ *memStore }

func (r memTopics) List(ctx context.Context) ([]models.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Topic, 0, len(r.topics))
	for _, t := range r.topics {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (r memTopics) FindByID(ctx context.Context, id string) (*models.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.topics[id]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r memTopics) FindByTitle(ctx context.Context, title string) (*models.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.topics {
		if t.Title == title {
			clone := *t
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memTopics) Create(ctx context.Context, topic *models.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	topic.ID = uuid.NewString()
	topic.CreatedAt = time.Now().UTC()
	clone := *topic
	r.topics[topic.ID] = &clone
	return nil
}

func (r memTopics) Update(ctx context.Context, topic *models.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *topic
	r.topics[topic.ID] = &clone
	return nil
}

func (r memTopics) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.topics, id)
	return nil
}

func (r memTopics) CountDependents(ctx context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.lessons {
		if l.TopicID == id {
			n++
		}
	}
	for _, c := range r.countries {
		if c.TopicID == id {
			n++
		}
	}
	return n, nil
}

type memLessons struct{ *memStore }

func (r memLessons) List(ctx context.Context, order models.SortOrder) ([]models.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Lesson, 0, len(r.lessons))
	for _, l := range r.lessons {
		clone := *l
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if order == models.SortAsc {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r memLessons) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.lessons[id]; ok {
		view := r.lessonView(l)
		return &view, nil
	}
	return nil, sql.ErrNoRows
}

func (r memLessons) FindByDateKey(ctx context.Context, key string) (*models.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lessons {
		if l.DateKey == key {
			view := r.lessonView(l)
			return &view, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memLessons) ListInRange(ctx context.Context, from, to time.Time) ([]models.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Lesson, 0)
	for _, l := range r.lessons {
		if !l.Date.Before(from) && l.Date.Before(to) {
			out = append(out, r.lessonView(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r memLessons) Create(ctx context.Context, lesson *models.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lessonWriteErr != nil {
		return r.lessonWriteErr
	}
	lesson.ID = uuid.NewString()
	clone := *lesson
	clone.Attendance = nil
	r.lessons[lesson.ID] = &clone
	r.attendance[lesson.ID] = map[string]bool{}
	return nil
}

func (r memLessons) Update(ctx context.Context, lesson *models.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lessonWriteErr != nil {
		return r.lessonWriteErr
	}
	clone := *lesson
	clone.Attendance = nil
	r.lessons[lesson.ID] = &clone
	return nil
}

func (r memLessons) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attendance, id)
	delete(r.lessons, id)
	return nil
}

type memLedger struct{ *memStore }

func (r memLedger) Mark(ctx context.Context, lessonID, userID string, markedBy *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attendance[lessonID] == nil {
		r.attendance[lessonID] = map[string]bool{}
	}
	r.attendance[lessonID][userID] = true
	return nil
}

func (r memLedger) Unmark(ctx context.Context, lessonID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attendance[lessonID], userID)
	return nil
}

func (r memLedger) Replace(ctx context.Context, lessonID string, userIDs []string, markedBy *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		set[id] = true
	}
	r.attendance[lessonID] = set
	return nil
}

type memUsers struct{ *memStore }

func (r memUsers) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		if len(filter.Roles) > 0 && !roleIn(u.Role, filter.Roles) {
			continue
		}
		out = append(out, r.userView(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		view := r.userView(u)
		return &view, nil
	}
	return nil, sql.ErrNoRows
}

func (r memUsers) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(ids))
	// Reverse order so callers cannot depend on storage order.
	for i := len(ids) - 1; i >= 0; i-- {
		if u, ok := r.users[ids[i]]; ok {
			out = append(out, r.userView(u))
		}
	}
	return out, nil
}

func (r memUsers) UpdateRole(ctx context.Context, id string, role models.UserRole, clearAttendance bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Role = role
	if clearAttendance {
		for _, set := range r.attendance {
			delete(set, id)
		}
	}
	return nil
}

func (r memUsers) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, set := range r.attendance {
		delete(set, id)
	}
	for countryID, ids := range r.members {
		r.members[countryID] = without(ids, id)
	}
	delete(r.users, id)
	return nil
}

func (r memUsers) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, log)
	return nil
}

type memCountries struct{ *memStore }

func (r memCountries) ListByTopic(ctx context.Context, topicID string) ([]models.Country, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Country, 0)
	for _, c := range r.countries {
		if c.TopicID == topicID {
			out = append(out, r.countryView(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memCountries) FindByID(ctx context.Context, id string) (*models.Country, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.countries[id]; ok {
		view := r.countryView(c)
		return &view, nil
	}
	return nil, sql.ErrNoRows
}

func (r memCountries) FindByMember(ctx context.Context, topicID, userID string) (*models.Country, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.countries {
		if c.TopicID == topicID && contains(r.members[c.ID], userID) {
			view := r.countryView(c)
			return &view, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memCountries) Memberships(ctx context.Context, topicID string, userIDs []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]string{}
	for _, c := range r.countries {
		if c.TopicID != topicID {
			continue
		}
		for _, id := range r.members[c.ID] {
			if contains(userIDs, id) {
				out[id] = c.ID
			}
		}
	}
	return out, nil
}

func (r memCountries) Create(ctx context.Context, country *models.Country) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countryWriteErr != nil {
		return r.countryWriteErr
	}
	country.ID = uuid.NewString()
	clone := *country
	r.countries[country.ID] = &clone
	r.members[country.ID] = append([]string{}, country.StudentIDs...)
	return nil
}

func (r memCountries) Update(ctx context.Context, country *models.Country, replaceRoster bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countryWriteErr != nil {
		return r.countryWriteErr
	}
	clone := *country
	r.countries[country.ID] = &clone
	if replaceRoster {
		r.members[country.ID] = append([]string{}, country.StudentIDs...)
	}
	return nil
}

func (r memCountries) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.countries, id)
	delete(r.members, id)
	for docID, d := range r.documents {
		if d.CountryID == id {
			delete(r.documents, docID)
		}
	}
	return nil
}

func (r memCountries) AddMember(ctx context.Context, countryID, topicID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countryWriteErr != nil {
		return r.countryWriteErr
	}
	if !contains(r.members[countryID], userID) {
		r.members[countryID] = append(r.members[countryID], userID)
	}
	return nil
}

func (r memCountries) RemoveMember(ctx context.Context, countryID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[countryID] = without(r.members[countryID], userID)
	return nil
}

type memDocuments struct{ *memStore }

func (r memDocuments) FindByID(ctx context.Context, id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.documents[id]; ok {
		clone := *d
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r memDocuments) ListByCountry(ctx context.Context, countryID string) ([]models.Document, error) {
	return r.filter(func(d *models.Document) bool { return d.CountryID == countryID }), nil
}

func (r memDocuments) ListByTopic(ctx context.Context, topicID string) ([]models.Document, error) {
	return r.filter(func(d *models.Document) bool { return d.TopicID == topicID }), nil
}

func (r memDocuments) filter(keep func(*models.Document) bool) []models.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Document, 0)
	for _, d := range r.documents {
		if keep(d) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r memDocuments) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.ID = uuid.NewString()
	doc.CreatedAt = time.Now().UTC()
	clone := *doc
	r.documents[doc.ID] = &clone
	return nil
}

func (r memDocuments) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.documents, id)
	return nil
}

// memCache is an in-memory CacheRepository.
type memCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	patterns []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func roleIn(role models.UserRole, roles []models.UserRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
