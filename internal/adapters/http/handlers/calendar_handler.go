package handlers

import (
	"net/url"
	"strings"
	"time"

	"room-scheduler/internal/core/domain"
	"room-scheduler/internal/core/services"
	"room-scheduler/internal/pkg/pagination"
	"room-scheduler/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

// CalendarHandler serves the schedule calendar feed
type CalendarHandler struct {
	calendar services.CalendarReader
	location *time.Location
	now      func() time.Time
}

// NewCalendarHandler creates a new calendar handler. Date-only query values
// are interpreted in loc.
func NewCalendarHandler(calendar services.CalendarReader, loc *time.Location, now func() time.Time) *CalendarHandler {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &CalendarHandler{calendar: calendar, location: loc, now: now}
}

// MajorsResponse lists the majors present in the schedule
type MajorsResponse struct {
	Majors []string `json:"majors"`
}

// OccurrencesResponse holds the recurring events of one major
type OccurrencesResponse struct {
	Major       string                      `json:"major"`
	Occurrences []domain.CalendarOccurrence `json:"occurrences"`
}

// InstancesResponse holds dated instances inside a window
type InstancesResponse struct {
	Major     string            `json:"major"`
	From      time.Time         `json:"from"`
	To        time.Time         `json:"to"`
	Instances []domain.Instance `json:"instances"`
	Meta      *pagination.Meta  `json:"meta"`
}

// RefreshResponse reports a forced reload
type RefreshResponse struct {
	Rows int `json:"rows"`
}

// Majors lists majors
// @Summary List majors
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Response{data=MajorsResponse}
// @Failure 503 {object} response.Response
// @Router /api/v1/schedule/majors [get]
// @Security BearerAuth
func (h *CalendarHandler) Majors(c *fiber.Ctx) error {
	majors, err := h.calendar.Majors(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	if majors == nil {
		majors = []string{}
	}
	return response.Success(c, "", MajorsResponse{Majors: majors})
}

// Occurrences returns the recurring events of a major
// @Summary Calendar occurrences of a major
// @Description Each occurrence carries a weekly rule a calendar widget can expand
// @Tags Calendar
// @Produce json
// @Param major path string true "Major, URL-encoded"
// @Success 200 {object} response.Response{data=OccurrencesResponse}
// @Failure 404 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /api/v1/schedule/calendar/{major} [get]
// @Security BearerAuth
func (h *CalendarHandler) Occurrences(c *fiber.Ctx) error {
	major, ok := h.major(c)
	if !ok {
		return response.BadRequest(c, "Invalid major")
	}

	occurrences, err := h.calendar.Occurrences(c.UserContext(), major)
	if err != nil {
		return response.FromError(c, err)
	}
	if occurrences == nil {
		occurrences = []domain.CalendarOccurrence{}
	}
	return response.Success(c, "", OccurrencesResponse{Major: major, Occurrences: occurrences})
}

// Instances returns dated instances of a major inside a window
// @Summary Calendar instances of a major
// @Tags Calendar
// @Produce json
// @Param major path string true "Major, URL-encoded"
// @Param from query string false "Window start, RFC3339 or YYYY-MM-DD (default now)"
// @Param to query string true "Window end, RFC3339 or YYYY-MM-DD (the whole day is included)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(100)
// @Success 200 {object} response.Response{data=InstancesResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/schedule/calendar/{major}/instances [get]
// @Security BearerAuth
func (h *CalendarHandler) Instances(c *fiber.Ctx) error {
	major, ok := h.major(c)
	if !ok {
		return response.BadRequest(c, "Invalid major")
	}

	from := h.now()
	if raw := c.Query("from"); raw != "" {
		t, err := h.parseBound(raw, false)
		if err != nil {
			return response.BadRequest(c, "from must be RFC3339 or YYYY-MM-DD")
		}
		from = t
	}

	raw := c.Query("to")
	if raw == "" {
		return response.FromError(c, domain.ErrInvalidWindow)
	}
	to, err := h.parseBound(raw, true)
	if err != nil {
		return response.BadRequest(c, "to must be RFC3339 or YYYY-MM-DD")
	}

	instances, err := h.calendar.Instances(c.UserContext(), major, from, to)
	if err != nil {
		return response.FromError(c, err)
	}
	page, meta := pagination.Slice(instances, pagination.GetParams(c))
	return response.Success(c, "", InstancesResponse{Major: major, From: from, To: to, Instances: page, Meta: meta})
}

// Refresh reloads schedule rows from the source
// @Summary Reload the schedule
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Response{data=RefreshResponse}
// @Failure 403 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /api/v1/schedule/refresh [post]
// @Security BearerAuth
func (h *CalendarHandler) Refresh(c *fiber.Ctx) error {
	n, err := h.calendar.Refresh(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Schedule reloaded", RefreshResponse{Rows: n})
}

func (h *CalendarHandler) major(c *fiber.Ctx) (string, bool) {
	major, err := url.PathUnescape(c.Params("major"))
	if err != nil {
		return "", false
	}
	major = strings.TrimSpace(major)
	return major, major != ""
}

// parseBound reads an RFC3339 instant or a date in the calendar location.
// A date used as the upper bound covers the whole day.
func (h *CalendarHandler) parseBound(raw string, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, h.location)
	if err != nil || !upper {
		return day, err
	}
	return endOfDay(day), nil
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
