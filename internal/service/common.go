package service

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/noah-isme/mun-club-api/internal/models"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
	"github.com/noah-isme/mun-club-api/pkg/validation"
)

// Cache key namespaces for public listings.
const (
	cacheKeyTopics        = "topics:list"
	cacheKeyTopicsPattern = "topics:*"
	cacheKeyLessonsPrefix = "lessons:list:"
	cacheKeyLessonsAll    = "lessons:*"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// requireID rejects identifiers that are not UUIDs before they reach a UUID column.
func requireID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, field+" must be a valid UUID")
	}
	return nil
}

func validationError(v *validation.Validator, err error, message string) error {
	appErr := appErrors.Validation(err, message)
	if summary := v.Summary(err); summary != "" {
		appErr.Message = message + ": " + summary
	}
	return appErr
}

func callerIDPtr(caller *models.Caller) *string {
	if caller == nil || caller.UserID == "" {
		return nil
	}
	id := caller.UserID
	return &id
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
