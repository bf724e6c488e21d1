// Package phalanx posts mission plans to the Phalanx mission backend. The
// backend accepts a closed task vocabulary and schedules missions; this
// client translates, publishes, and reports failures without ever raising
// them past its boundary.
package phalanx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skysense-ai/sara-agent/internal/domain"
	"github.com/skysense-ai/sara-agent/internal/observability"
)

const (
	missionsPath    = "/notifications/missions/available"
	defaultLeaseS   = 3600
	publishTimeout  = 10 * time.Second
	maxErrorBodyLen = 512
)

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a publisher for the given backend base URL. An empty base
// URL yields a disabled client: publishes are skipped with a reason.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: normalizeBaseURL(baseURL),
		http:    &http.Client{Timeout: publishTimeout},
	}
}

// The backend serves every route under a global /api prefix; deployments
// configure the base URL with or without it.
func normalizeBaseURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		return ""
	}
	if !strings.HasSuffix(u, "/api") {
		u += "/api"
	}
	return u
}

type missionTask struct {
	Type      domain.TaskType `json:"type"`
	AltAGLFt  float64         `json:"alt_agl_ft"`
	DurationS int             `json:"duration_s"`
}

type missionRequest struct {
	Priority  int           `json:"priority"`
	LeaseTTLS int           `json:"lease_ttl_s"`
	Tasks     []missionTask `json:"tasks"`
}

type missionResponse struct {
	Data string `json:"data"`
}

// Publish translates the plan into the backend's vocabulary and performs one
// POST. All failure classes (HTTP error status, connection error, malformed
// response) come back as a descriptive PublishResult, never an error.
func (c *Client) Publish(ctx context.Context, plan domain.MissionPlan) domain.PublishResult {
	log := observability.FromContext(ctx)

	if c.baseURL == "" {
		observability.MissionsPublished.WithLabelValues("skipped").Inc()
		return domain.PublishResult{Detail: "mission backend URL not configured - skipping mission creation"}
	}

	tasks := translateTasks(plan.Tasks)
	if len(tasks) == 0 {
		observability.MissionsPublished.WithLabelValues("skipped").Inc()
		return domain.PublishResult{Detail: "no valid tasks found in planner output"}
	}

	body, err := json.Marshal(missionRequest{
		Priority:  clampPriority(plan.Priority),
		LeaseTTLS: defaultLeaseS,
		Tasks:     tasks,
	})
	if err != nil {
		observability.MissionsPublished.WithLabelValues("error").Inc()
		return domain.PublishResult{Detail: fmt.Sprintf("unexpected error: %v", err)}
	}

	url := c.baseURL + missionsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		observability.MissionsPublished.WithLabelValues("error").Inc()
		return domain.PublishResult{Detail: fmt.Sprintf("unexpected error: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	log.Info("creating mission in phalanx", zap.String("url", url), zap.Int("tasks", len(tasks)))

	res, err := c.http.Do(req)
	if err != nil {
		detail := fmt.Sprintf("connection error: %v. Check if the Phalanx API is running and accessible.", err)
		log.Error("phalanx publish failed", zap.String("detail", detail))
		observability.MissionsPublished.WithLabelValues("network_error").Inc()
		return domain.PublishResult{Detail: detail}
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyLen))
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail := fmt.Sprintf("HTTP %d: %s", res.StatusCode, strings.TrimSpace(string(raw)))
		log.Error("phalanx publish rejected", zap.String("detail", detail))
		observability.MissionsPublished.WithLabelValues("http_error").Inc()
		return domain.PublishResult{Detail: detail}
	}

	var parsed missionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Data == "" {
		detail := "unexpected error: backend response did not contain a mission id"
		log.Error("phalanx publish returned malformed response", zap.ByteString("body", raw))
		observability.MissionsPublished.WithLabelValues("error").Inc()
		return domain.PublishResult{Detail: detail}
	}

	log.Info("mission created in phalanx", zap.String("mission_id", parsed.Data))
	observability.MissionsPublished.WithLabelValues("ok").Inc()
	return domain.PublishResult{MissionID: parsed.Data}
}

// translateTasks maps plan tasks onto the closed vocabulary the backend
// accepts. Movement-style kinds have no equivalent and fall back to LOITER.
func translateTasks(tasks []domain.Task) []missionTask {
	out := make([]missionTask, 0, len(tasks))
	for _, t := range tasks {
		kind := domain.TaskType(strings.ToUpper(string(t.Type)))
		switch kind {
		case domain.TaskLoiter, domain.TaskPatrol, domain.TaskOrbit:
		default:
			kind = domain.TaskLoiter
		}
		out = append(out, missionTask{
			Type:      kind,
			AltAGLFt:  t.AltAGLFt,
			DurationS: int(t.DurationS),
		})
	}
	return out
}

func clampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 5 {
		return 5
	}
	return p
}
