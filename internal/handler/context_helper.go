package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mun-club-api/internal/middleware"
	"github.com/noah-isme/mun-club-api/internal/models"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
	"github.com/noah-isme/mun-club-api/pkg/response"
)

func callerFromContext(c *gin.Context) *models.Caller {
	return middleware.CallerFromContext(c)
}

func requestMeta(c *gin.Context) models.RequestMeta {
	return models.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

// bindJSON decodes the body into dest and writes a validation error on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// parseDay accepts an RFC 3339 timestamp or a bare YYYY-MM-DD day interpreted in loc.
func parseDay(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.ParseInLocation(models.CalendarKeyLayout, raw, loc)
}

// dateRange reads start_date and end_date from the query string.
func dateRange(c *gin.Context, loc *time.Location) (time.Time, time.Time, bool) {
	start, err := parseDay(c.Query("start_date"), loc)
	if err != nil {
		response.Error(c, appErrors.Validation(err, "start_date must be YYYY-MM-DD or RFC 3339"))
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDay(c.Query("end_date"), loc)
	if err != nil {
		response.Error(c, appErrors.Validation(err, "end_date must be YYYY-MM-DD or RFC 3339"))
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func missingField(name string) error {
	return appErrors.Clone(appErrors.ErrValidation, name+" is required")
}

func exportsDisabled() error {
	return appErrors.Clone(appErrors.ErrNotFound, "report exports are disabled")
}
