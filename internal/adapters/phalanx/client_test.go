package phalanx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

func twoTaskPlan() domain.MissionPlan {
	return domain.MissionPlan{
		MissionID: "mis_001",
		Priority:  3,
		Tasks: []domain.Task{
			{Type: domain.TaskMoveTo, Lat: 10, Lon: 20, AltAGLFt: 60, DurationS: 0, SpeedMPS: 3},
			{Type: domain.TaskLoiter, Lat: 10, Lon: 20, AltAGLFt: 80, DurationS: 90, SpeedMPS: 0},
		},
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"http://phalanx:9000", "http://phalanx:9000/api"},
		{"http://phalanx:9000/", "http://phalanx:9000/api"},
		{"http://phalanx:9000/api", "http://phalanx:9000/api"},
		{"http://phalanx:9000/api/", "http://phalanx:9000/api"},
		{"  http://phalanx:9000  ", "http://phalanx:9000/api"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeBaseURL(tc.in), "input %q", tc.in)
	}
}

func TestPublishSuccess(t *testing.T) {
	var got missionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/notifications/missions/available", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"data": "phx_123"})
	}))
	defer srv.Close()

	result := NewClient(srv.URL).Publish(context.Background(), twoTaskPlan())
	require.True(t, result.OK(), "detail: %s", result.Detail)
	assert.Equal(t, "phx_123", result.MissionID)

	assert.Equal(t, 3, got.Priority)
	assert.Equal(t, 3600, got.LeaseTTLS)
	require.Len(t, got.Tasks, 2)
	// MOVE_TO has no backend equivalent and maps onto LOITER.
	assert.Equal(t, domain.TaskLoiter, got.Tasks[0].Type)
	assert.Equal(t, domain.TaskLoiter, got.Tasks[1].Type)
	assert.Equal(t, 90, got.Tasks[1].DurationS)
}

func TestPublishClampsPriority(t *testing.T) {
	var got missionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]string{"data": "phx_1"})
	}))
	defer srv.Close()

	plan := twoTaskPlan()
	plan.Priority = 9
	result := NewClient(srv.URL).Publish(context.Background(), plan)
	require.True(t, result.OK())
	assert.Equal(t, 5, got.Priority)
}

func TestPublishDisabledWithoutBaseURL(t *testing.T) {
	result := NewClient("").Publish(context.Background(), twoTaskPlan())
	assert.False(t, result.OK())
	assert.Contains(t, result.Detail, "not configured")
}

func TestPublishSkipsEmptyTaskList(t *testing.T) {
	plan := twoTaskPlan()
	plan.Tasks = nil
	result := NewClient("http://phalanx:9000").Publish(context.Background(), plan)
	assert.False(t, result.OK())
	assert.Contains(t, result.Detail, "no valid tasks")
}

func TestPublishHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "scheduler unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	result := NewClient(srv.URL).Publish(context.Background(), twoTaskPlan())
	assert.False(t, result.OK())
	assert.Contains(t, result.Detail, "HTTP 503")
	assert.Contains(t, result.Detail, "scheduler unavailable")
}

func TestPublishConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing is listening anymore

	result := NewClient(srv.URL).Publish(context.Background(), twoTaskPlan())
	assert.False(t, result.OK())
	assert.Contains(t, result.Detail, "connection error")
	assert.Contains(t, result.Detail, "Check if the Phalanx API is running")
}

func TestPublishMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("created"))
	}))
	defer srv.Close()

	result := NewClient(srv.URL).Publish(context.Background(), twoTaskPlan())
	assert.False(t, result.OK())
	assert.Contains(t, result.Detail, "did not contain a mission id")
}
