package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"room-scheduler/internal/adapters/persistence/models"
	"room-scheduler/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockScheduleRepository struct {
	mock.Mock
}

func (m *mockScheduleRepository) List(ctx context.Context) ([]*models.Schedule, error) {
	args := m.Called(ctx)
	schedules, _ := args.Get(0).([]*models.Schedule)
	return schedules, args.Error(1)
}

func (m *mockScheduleRepository) ListByMajor(ctx context.Context, major string) ([]*models.Schedule, error) {
	args := m.Called(ctx, major)
	schedules, _ := args.Get(0).([]*models.Schedule)
	return schedules, args.Error(1)
}

func (m *mockScheduleRepository) Majors(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	majors, _ := args.Get(0).([]string)
	return majors, args.Error(1)
}

func (m *mockScheduleRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestAPIScheduleSource_FetchRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/schedule/calendar", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "title": "Algorithms", "major": "CS", "lecturer": "Dr. A", "room": "R1", "start": "Mon 10:00", "end": "Mon 11:00"},
			{"id": "ee-7", "title": "Circuits", "major": "EE", "lecturer": "Dr. B", "room": "R2", "start": "Tue 09:00", "end": "Tue 10:00"}
		]`))
	}))
	defer server.Close()

	rows, err := NewAPIScheduleSource(server.URL+"/", server.Client()).FetchRows(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.ScheduleRow{
		{ID: "1", Title: "Algorithms", Major: "CS", Lecturer: "Dr. A", Room: "R1", Start: "Mon 10:00", End: "Mon 11:00"},
		{ID: "ee-7", Title: "Circuits", Major: "EE", Lecturer: "Dr. B", Room: "R2", Start: "Tue 09:00", End: "Tue 10:00"},
	}, rows)
}

func TestAPIScheduleSource_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "server error", status: http.StatusInternalServerError, payload: `{"error":"boom"}`},
		{name: "unauthorized", status: http.StatusUnauthorized, payload: ``},
		{name: "not an array", status: http.StatusOK, payload: `{"rows":[]}`},
		{name: "not json", status: http.StatusOK, payload: `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			rows, err := NewAPIScheduleSource(server.URL, nil).FetchRows(context.Background())

			assert.Nil(t, rows)
			assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
		})
	}
}

func TestAPIScheduleSource_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewAPIScheduleSource(url, nil).FetchRows(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	err = NewAPIScheduleSource(url, nil).Ping(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestAPIScheduleSource_Ping(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusMethodNotAllowed)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(int(status.Load()))
	}))
	defer server.Close()

	source := NewAPIScheduleSource(server.URL, server.Client())
	assert.NoError(t, source.Ping(context.Background()))

	status.Store(http.StatusBadGateway)
	assert.ErrorIs(t, source.Ping(context.Background()), domain.ErrSourceUnavailable)
}

func TestRepositoryScheduleSource_FetchRows(t *testing.T) {
	repo := new(mockScheduleRepository)
	repo.On("List", mock.Anything).Return([]*models.Schedule{
		{ID: 3, Major: "CS", ClassName: "A", Subject: "Databases", Room: "Lab 1", SchedTime: "Mon 08:00-Mon 10:00", Lecturer: "Dr. C"},
		{ID: 4, Major: "EE", Subject: "Signals", Room: "R4", SchedTime: "Thu 13:00-15:30", Lecturer: "Dr. D"},
	}, nil)

	rows, err := NewRepositoryScheduleSource(repo).FetchRows(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.ScheduleRow{
		{ID: "3", Title: "Databases (A)", Major: "CS", Lecturer: "Dr. C", Room: "Lab 1", Start: "Mon 08:00", End: "Mon 10:00"},
		{ID: "4", Title: "Signals", Major: "EE", Lecturer: "Dr. D", Room: "R4", Start: "Thu 13:00", End: "Thu 15:30"},
	}, rows)
	repo.AssertExpectations(t)
}

func TestRepositoryScheduleSource_Error(t *testing.T) {
	repo := new(mockScheduleRepository)
	repo.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := NewRepositoryScheduleSource(repo).FetchRows(context.Background())

	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestSplitSchedTime(t *testing.T) {
	tests := []struct {
		slot      string
		wantStart string
		wantEnd   string
	}{
		{slot: "Mon 08:00-Mon 10:00", wantStart: "Mon 08:00", wantEnd: "Mon 10:00"},
		{slot: "Mon 08:00 - Mon 10:00", wantStart: "Mon 08:00", wantEnd: "Mon 10:00"},
		{slot: "Tue 9:30-11:00", wantStart: "Tue 9:30", wantEnd: "Tue 11:00"},
		{slot: "Wed 10:00", wantStart: "Wed 10:00", wantEnd: ""},
		{slot: "Wed 10:00-", wantStart: "Wed 10:00", wantEnd: ""},
		{slot: "", wantStart: "", wantEnd: ""},
	}
	for _, tt := range tests {
		t.Run(tt.slot, func(t *testing.T) {
			start, end := SplitSchedTime(tt.slot)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
