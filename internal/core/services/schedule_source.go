package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"room-scheduler/internal/adapters/persistence/models"
	"room-scheduler/internal/adapters/persistence/repositories"
	"room-scheduler/internal/core/domain"
)

// APIScheduleSource fetches rows from the scheduling backend's HTTP API
type APIScheduleSource struct {
	baseURL string
	client  *http.Client
}

// NewAPIScheduleSource creates a source reading GET {baseURL}/schedule/calendar
func NewAPIScheduleSource(baseURL string, client *http.Client) *APIScheduleSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &APIScheduleSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// FetchRows downloads the full schedule
func (s *APIScheduleSource) FetchRows(ctx context.Context) ([]domain.ScheduleRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/schedule/calendar", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: schedule API returned %d: %s", domain.ErrSourceUnavailable, resp.StatusCode, string(body))
	}

	var rows []apiScheduleRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode schedule: %v", domain.ErrSourceUnavailable, err)
	}

	out := make([]domain.ScheduleRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// Ping reports whether the scheduling backend answers at all. Any response
// below 500 counts as reachable.
func (s *APIScheduleSource) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.baseURL+"/schedule/calendar", nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: schedule API returned %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}
	return nil
}

// apiScheduleRow tolerates numeric or string ids from the backend
type apiScheduleRow struct {
	ID       rowID  `json:"id"`
	Title    string `json:"title"`
	Major    string `json:"major"`
	Lecturer string `json:"lecturer"`
	Room     string `json:"room"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

type rowID string

func (id *rowID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = rowID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = rowID(n.String())
	return nil
}

func (r apiScheduleRow) toDomain() domain.ScheduleRow {
	return domain.ScheduleRow{
		ID:       string(r.ID),
		Title:    r.Title,
		Major:    r.Major,
		Lecturer: r.Lecturer,
		Room:     r.Room,
		Start:    r.Start,
		End:      r.End,
	}
}

// RepositoryScheduleSource reads rows straight from the schedule table
type RepositoryScheduleSource struct {
	repo repositories.ScheduleRepository
}

// NewRepositoryScheduleSource creates a database-backed source
func NewRepositoryScheduleSource(repo repositories.ScheduleRepository) *RepositoryScheduleSource {
	return &RepositoryScheduleSource{repo: repo}
}

// FetchRows lists the table and converts each class into a row
func (s *RepositoryScheduleSource) FetchRows(ctx context.Context) ([]domain.ScheduleRow, error) {
	schedules, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	rows := make([]domain.ScheduleRow, 0, len(schedules))
	for _, sc := range schedules {
		rows = append(rows, RowFromSchedule(sc))
	}
	return rows, nil
}

// Ping checks that the table is reachable
func (s *RepositoryScheduleSource) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// RowFromSchedule converts a table record. sched_time holds
// "Mon 08:00-Mon 10:00" or the short form "Mon 08:00-10:00"; anything else
// is passed through and rejected later by the projector.
func RowFromSchedule(sc *models.Schedule) domain.ScheduleRow {
	title := sc.Subject
	if sc.ClassName != "" {
		title += " (" + sc.ClassName + ")"
	}

	start, end := SplitSchedTime(sc.SchedTime)

	return domain.ScheduleRow{
		ID:       strconv.FormatUint(uint64(sc.ID), 10),
		Title:    title,
		Major:    sc.Major,
		Lecturer: sc.Lecturer,
		Room:     sc.Room,
		Start:    start,
		End:      end,
	}
}

// SplitSchedTime splits a "start-end" slot. A bare clock end inherits the
// start's weekday.
func SplitSchedTime(slot string) (start, end string) {
	start, end, found := strings.Cut(slot, "-")
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if !found {
		return start, ""
	}

	if !strings.Contains(end, " ") {
		if day, _, ok := strings.Cut(start, " "); ok && end != "" {
			end = day + " " + end
		}
	}
	return start, end
}
