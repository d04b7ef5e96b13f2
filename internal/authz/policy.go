// Package authz holds the per-operation role allow-lists and the single gate that enforces them.
package authz

import (
	"fmt"

	"github.com/noah-isme/mun-club-api/internal/models"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
)

// Operation names a guarded procedure.
type Operation string

const (
	TopicCreate    Operation = "topic.create"
	TopicEdit      Operation = "topic.edit"
	TopicDelete    Operation = "topic.delete"
	TopicGetAll    Operation = "topic.getAll"
	TopicGetByID   Operation = "topic.getById"
	TopicGetByName Operation = "topic.getByTitle"

	LessonCreate  Operation = "lesson.create"
	LessonEdit    Operation = "lesson.edit"
	LessonDelete  Operation = "lesson.delete"
	LessonGetAll  Operation = "lesson.getAll"
	LessonGetByID Operation = "lesson.getById"

	AttendanceGet     Operation = "attendance.get"
	AttendanceSet     Operation = "attendance.set"
	AttendanceSetBulk Operation = "attendance.setBulk"
	AttendanceReport  Operation = "attendance.report"
	ReportDownload    Operation = "export.download"

	CountryCreate         Operation = "country.create"
	CountryEdit           Operation = "country.edit"
	CountryDelete         Operation = "country.delete"
	CountryJoin           Operation = "country.join"
	CountryLeave          Operation = "country.leave"
	CountryGetByTopic     Operation = "country.getByTopic"
	CountryGetUserCountry Operation = "country.getUserCountry"
	CountryGetByID        Operation = "country.getById"

	DocumentCreate       Operation = "document.create"
	DocumentDelete       Operation = "document.delete"
	DocumentGetByCountry Operation = "document.getByCountry"
	DocumentGetByTopic   Operation = "document.getByTopic"
	DocumentGetByID      Operation = "document.getById"

	UserGetAll     Operation = "user.getAll"
	UserDelete     Operation = "user.delete"
	UserUpdateRole Operation = "user.updateRole"

	SystemMetrics Operation = "system.metrics"
)

// Access describes who may reach an operation before any role test.
type Access int

const (
	// Public operations accept anonymous callers.
	Public Access = iota
	// Authenticated operations accept any identified caller.
	Authenticated
	// Restricted operations accept identified callers holding one of Rule.Roles.
	Restricted
)

// Rule is the declarative policy attached to an operation.
type Rule struct {
	Access Access
	Roles  []models.UserRole
}

var (
	staff   = []models.UserRole{models.RoleSecretaryGeneral, models.RoleTeacher}
	teacher = []models.UserRole{models.RoleTeacher}
)

var rules = map[Operation]Rule{
	TopicCreate:    {Access: Restricted, Roles: staff},
	TopicEdit:      {Access: Restricted, Roles: staff},
	TopicDelete:    {Access: Restricted, Roles: staff},
	TopicGetAll:    {Access: Public},
	TopicGetByID:   {Access: Public},
	TopicGetByName: {Access: Public},

	LessonCreate:  {Access: Restricted, Roles: staff},
	LessonEdit:    {Access: Restricted, Roles: staff},
	LessonDelete:  {Access: Restricted, Roles: staff},
	LessonGetAll:  {Access: Public},
	LessonGetByID: {Access: Public},

	AttendanceGet:     {Access: Restricted, Roles: teacher},
	AttendanceSet:     {Access: Restricted, Roles: teacher},
	AttendanceSetBulk: {Access: Restricted, Roles: teacher},
	AttendanceReport:  {Access: Restricted, Roles: teacher},
	ReportDownload:    {Access: Restricted, Roles: teacher},

	CountryCreate:         {Access: Restricted, Roles: staff},
	CountryEdit:           {Access: Restricted, Roles: staff},
	CountryDelete:         {Access: Restricted, Roles: staff},
	CountryJoin:           {Access: Authenticated},
	CountryLeave:          {Access: Authenticated},
	CountryGetByTopic:     {Access: Authenticated},
	CountryGetUserCountry: {Access: Authenticated},
	CountryGetByID:        {Access: Authenticated},

	// Membership checks for documents happen in the document service.
	DocumentCreate:       {Access: Authenticated},
	DocumentDelete:       {Access: Authenticated},
	DocumentGetByCountry: {Access: Authenticated},
	DocumentGetByTopic:   {Access: Authenticated},
	DocumentGetByID:      {Access: Authenticated},

	UserGetAll:     {Access: Restricted, Roles: teacher},
	UserDelete:     {Access: Restricted, Roles: teacher},
	UserUpdateRole: {Access: Restricted, Roles: teacher},

	SystemMetrics: {Access: Restricted, Roles: teacher},
}

// IsAllowed reports whether role is a member of allowed. Roles do not imply one another.
func IsAllowed(role models.UserRole, allowed []models.UserRole) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}

// RuleFor returns the rule registered for op.
func RuleFor(op Operation) (Rule, bool) {
	rule, ok := rules[op]
	return rule, ok
}

// Operations lists every registered operation.
func Operations() []Operation {
	ops := make([]Operation, 0, len(rules))
	for op := range rules {
		ops = append(ops, op)
	}
	return ops
}

// Check gates op for caller. Unknown operations are denied.
func Check(caller *models.Caller, op Operation) error {
	rule, ok := rules[op]
	if !ok {
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("operation %s is not permitted", op))
	}
	if rule.Access == Public {
		return nil
	}
	if caller == nil || caller.UserID == "" {
		return appErrors.ErrUnauthenticated
	}
	if rule.Access == Authenticated {
		return nil
	}
	if !IsAllowed(caller.Role, rule.Roles) {
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("role %s may not perform %s", caller.Role, op))
	}
	return nil
}
