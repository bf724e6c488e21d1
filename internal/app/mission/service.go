// Package mission sequences agent invocations into the vision-confirmation,
// chat, and direct-planning flows, and forwards finished plans to the
// mission backend.
package mission

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skysense-ai/sara-agent/internal/agents"
	"github.com/skysense-ai/sara-agent/internal/domain"
	"github.com/skysense-ai/sara-agent/internal/observability"
)

// Static trace tags, one per call-site.
var (
	traceChat    = domain.TraceMetadata{Source: "agent-builder", WorkflowID: "wf_sara_chat"}
	tracePlanner = domain.TraceMetadata{Source: "api", WorkflowID: "wf_planner_api"}
	traceVision  = domain.TraceMetadata{Source: "api", WorkflowID: "wf_vision_api"}
)

type Service struct {
	runner        domain.AgentRunner
	publisher     domain.MissionPublisher
	conversations domain.ConversationStore
	now           func() time.Time
}

// NewService wires the orchestrator. conversations may be nil; chat then
// works statelessly and resume-by-id is unavailable.
func NewService(
	runner domain.AgentRunner,
	publisher domain.MissionPublisher,
	conversations domain.ConversationStore,
) *Service {
	return &Service{
		runner:        runner,
		publisher:     publisher,
		conversations: conversations,
		now:           time.Now,
	}
}

// ─────────────────────────────────────────────
// Chat flow
// ─────────────────────────────────────────────

type ChatInput struct {
	Message        string
	ImageDataURL   string
	ConversationID domain.ConversationID
}

type ChatOutcome struct {
	Response       string
	ConsoleMessage string
	ConversationID domain.ConversationID
	Plan           *domain.MissionPlan
}

// RunChat executes the chat flow: classifier, then either planner + publish
// (MISSION_READY) or the formatter (anything else). An outcome is always
// produced when the required steps succeed; the publish step is best-effort.
func (s *Service) RunChat(ctx context.Context, in ChatInput) (*ChatOutcome, error) {
	log := observability.FromContext(ctx)

	transcript := &domain.Transcript{}
	if in.ConversationID != "" {
		if s.conversations == nil {
			return nil, domain.NewValidationError("conversation resume is not available")
		}
		conv, err := s.conversations.GetConversation(ctx, in.ConversationID)
		if err != nil {
			return nil, domain.NewValidationError("conversation %s not found", in.ConversationID)
		}
		transcript.AppendMessages(conv.Messages)
	}
	transcript.AppendUser(in.Message, in.ImageDataURL)

	saraRaw, err := s.runner.RunAgent(ctx, agents.Sara(), transcript, traceChat)
	if err != nil {
		return nil, err
	}
	saraRes, err := agents.ParseSara(saraRaw)
	if err != nil {
		logSchemaFailure(log, err)
		return nil, err
	}
	transcript.AppendAssistantRaw(saraRaw)

	console := ""
	if saraRes.MessageForConsole != nil {
		console = *saraRes.MessageForConsole
	}

	out := &ChatOutcome{ConsoleMessage: console}

	if saraRes.Status == agents.StatusMissionReady {
		plannerRaw, err := s.runner.RunAgent(ctx, agents.Planner(), transcript, traceChat)
		if err != nil {
			return nil, err
		}
		plannerRes, err := agents.ParsePlanner(plannerRaw)
		if err != nil {
			logSchemaFailure(log, err)
			return nil, err
		}
		transcript.AppendAssistantRaw(plannerRaw)

		plan := s.assemblePlan("", plannerRes, ClampPriority(int(float64(plannerRes.Priority)+0.5)))
		out.Plan = &plan
		out.Response = plannerRaw
		out.ConsoleMessage, _ = s.publishBestEffort(ctx, plan, console)
	} else {
		formatted, err := s.runner.RunAgent(ctx, agents.SaraFormatter(), transcript, traceChat)
		if err != nil {
			return nil, err
		}
		transcript.AppendAssistantRaw(formatted)
		out.Response = formatted
	}

	out.ConversationID = s.persistConversation(ctx, in.ConversationID, transcript)
	return out, nil
}

// ─────────────────────────────────────────────
// Direct planning flow
// ─────────────────────────────────────────────

// PlanRequest is the discriminated planning input. Priority accepts the
// int-or-string form the validator schema declares.
type PlanRequest struct {
	UseCase                 domain.UseCase         `json:"use_case"`
	MissionID               string                 `json:"mission_id"`
	Priority                any                    `json:"priority,omitempty"`
	DroneLocationAtSnapshot *domain.Location       `json:"drone_location_at_snapshot,omitempty"`
	DroneLocation           *domain.Location       `json:"drone_location,omitempty"`
	Waypoint                *domain.Waypoint       `json:"waypoint,omitempty"`
	AdditionalData          *domain.AdditionalData `json:"additionalData,omitempty"`
}

type PlanOutcome struct {
	Plan             domain.MissionPlan
	ConsoleMessage   string
	PhalanxMissionID string
}

// RunPlanner executes the direct planning flow: validator, then planner,
// then a best-effort publish. A validator ERROR terminates immediately with
// a user-facing validation failure.
func (s *Service) RunPlanner(ctx context.Context, req PlanRequest) (*PlanOutcome, error) {
	log := observability.FromContext(ctx)

	inputJSON, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding planning input: %w", err)
	}
	transcript := domain.NewTranscript(string(inputJSON), "")

	validatorRaw, err := s.runner.RunAgent(ctx, agents.DataValidator(), transcript, tracePlanner)
	if err != nil {
		return nil, err
	}
	validatorRes, err := agents.ParseValidator(validatorRaw)
	if err != nil {
		logSchemaFailure(log, err)
		return nil, err
	}
	transcript.AppendAssistantRaw(validatorRaw)

	if validatorRes.Status == agents.StatusError {
		reason := "Validation failed"
		if len(validatorRes.Errors) > 0 {
			reason = strings.Join(validatorRes.Errors, ". ")
		}
		return nil, domain.NewValidationError("Data validation failed: %s", reason)
	}

	priority := EffectivePriority(int(validatorRes.Priority), validatorRes.UseCase)

	plannerRaw, err := s.runner.RunAgent(ctx, agents.Planner(), transcript, tracePlanner)
	if err != nil {
		return nil, err
	}
	plannerRes, err := agents.ParsePlanner(plannerRaw)
	if err != nil {
		logSchemaFailure(log, err)
		return nil, err
	}
	transcript.AppendAssistantRaw(plannerRaw)

	var waypoint *domain.Waypoint
	if validatorRes.UseCase == domain.UseCaseAppendTask && validatorRes.Payload.Waypoint != nil {
		wp := validatorRes.Payload.Waypoint.Waypoint()
		waypoint = &wp
	}

	plan := s.assemblePlan(validatorRes.MissionID, plannerRes, priority)
	if err := guardTasks(plan.Tasks, waypoint); err != nil {
		schemaErr := &domain.SchemaError{Agent: "PLANNER", Raw: plannerRaw, Err: err}
		logSchemaFailure(log, schemaErr)
		return nil, schemaErr
	}

	console, publishedID := s.publishBestEffort(ctx, plan, "")
	return &PlanOutcome{Plan: plan, ConsoleMessage: console, PhalanxMissionID: publishedID}, nil
}

// ─────────────────────────────────────────────
// Vision flows
// ─────────────────────────────────────────────

type VisionInput struct {
	Prompt       string
	MissionID    string
	ImageDataURL string
	Location     *domain.Location
	Priority     any
}

// Analyze runs the vision classifier once and returns its validated result.
func (s *Service) Analyze(ctx context.Context, in VisionInput) (*agents.VisionResult, error) {
	log := observability.FromContext(ctx)

	transcript := domain.NewTranscript(visionPrompt(in), in.ImageDataURL)

	raw, err := s.runner.RunAgent(ctx, agents.VisionAnalyzer(), transcript, traceVision)
	if err != nil {
		return nil, err
	}
	res, err := agents.ParseVision(raw, in.MissionID)
	if err != nil {
		logSchemaFailure(log, err)
		return nil, err
	}
	return res, nil
}

type ConfirmOutcome struct {
	UseCase        domain.UseCase
	MissionID      string
	ConsoleMessage string
	Plan           *domain.MissionPlan
}

// ConfirmObject runs the vision confirmation flow: classifier, then (on a
// confirmed object) validation and planning via the direct planning flow.
func (s *Service) ConfirmObject(ctx context.Context, in VisionInput) (*ConfirmOutcome, error) {
	vision, err := s.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}

	if vision.UseCase != domain.UseCaseObjectConfirmed {
		return &ConfirmOutcome{
			UseCase:        vision.UseCase,
			MissionID:      vision.MissionID,
			ConsoleMessage: "Object not found in snapshot; no mission created.",
		}, nil
	}

	planOut, err := s.RunPlanner(ctx, PlanRequest{
		UseCase:                 domain.UseCaseObjectConfirmed,
		MissionID:               vision.MissionID,
		Priority:                int(vision.Priority),
		DroneLocationAtSnapshot: vision.DroneLocationAtSnapshot,
	})
	if err != nil {
		return nil, err
	}

	plan := planOut.Plan
	return &ConfirmOutcome{
		UseCase:        domain.UseCaseObjectConfirmed,
		MissionID:      vision.MissionID,
		ConsoleMessage: planOut.ConsoleMessage,
		Plan:           &plan,
	}, nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func visionPrompt(in VisionInput) string {
	parts := []string{
		"target_prompt: " + in.Prompt,
		"mission_id: " + in.MissionID,
	}
	if in.Location != nil {
		parts = append(parts, fmt.Sprintf("lat %v, lon %v, alt %v ft",
			in.Location.Lat, in.Location.Lon, in.Location.AltAGLFt))
	}
	if in.Priority != nil {
		parts = append(parts, fmt.Sprintf("priority: %v", in.Priority))
	}
	return strings.Join(parts, "\n")
}

func (s *Service) assemblePlan(
	missionID string,
	planner *agents.PlannerResult,
	priority int,
) domain.MissionPlan {
	tasks := make([]domain.Task, len(planner.Tasks))
	copy(tasks, planner.Tasks)
	for i := range tasks {
		tasks[i].AltAGLFt = ApplySafetyFloor(tasks[i].AltAGLFt)
	}
	return domain.MissionPlan{
		MissionID:      missionID,
		Priority:       priority,
		AdditionalData: planner.AdditionalData,
		Tasks:          tasks,
	}
}

// guardTasks checks planner output against the canonical task shape derived
// from the validated waypoint: same task count, same task types, and for
// nosafe a raised second task. A violating planner output is not repaired; it
// propagates as an error.
func guardTasks(tasks []domain.Task, waypoint *domain.Waypoint) error {
	if waypoint == nil {
		return nil
	}
	want := DeriveWaypointTasks(*waypoint)
	if len(tasks) != len(want) {
		return fmt.Errorf("waypoint plan must contain exactly %d tasks, got %d", len(want), len(tasks))
	}
	for i := range want {
		if tasks[i].Type != want[i].Type {
			return fmt.Errorf("fusion_status %s requires task %d to be %s, got %s",
				waypoint.FusionStatus, i+1, want[i].Type, tasks[i].Type)
		}
	}
	if waypoint.FusionStatus == domain.FusionNoSafe && tasks[1].AltAGLFt < tasks[0].AltAGLFt+altitudeMarginFt {
		return fmt.Errorf("nosafe LOITER must be %v ft above the approach altitude", altitudeMarginFt)
	}
	return nil
}

// publishBestEffort forwards the plan downstream. Any failure is folded into
// the console message; a usable plan is never discarded because the publish
// step failed.
func (s *Service) publishBestEffort(ctx context.Context, plan domain.MissionPlan, console string) (string, string) {
	log := observability.FromContext(ctx)

	if s.publisher == nil {
		return console, ""
	}

	result := s.publisher.Publish(ctx, plan)
	if result.OK() {
		return "Mission created successfully. Mission ID: " + result.MissionID, result.MissionID
	}

	log.Warn("mission publish did not complete", zap.String("detail", result.Detail))
	if console == "" {
		return "Mission plan generated, but failed to create in Phalanx: " + result.Detail, ""
	}
	return console, ""
}

func (s *Service) persistConversation(
	ctx context.Context,
	id domain.ConversationID,
	transcript *domain.Transcript,
) domain.ConversationID {
	if s.conversations == nil {
		return ""
	}

	log := observability.FromContext(ctx)
	now := s.now()

	conv := &domain.Conversation{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  transcript.Messages(),
	}
	if conv.ID == "" {
		conv.ID = domain.ConversationID(uuid.NewString())
	}

	if err := s.conversations.SaveConversation(ctx, conv); err != nil {
		// Persistence is an add-on; the chat answer still stands.
		log.Warn("failed to persist conversation", zap.Error(err))
		return ""
	}
	return conv.ID
}

func logSchemaFailure(log *zap.Logger, err error) {
	if se, ok := err.(*domain.SchemaError); ok {
		log.Error("agent output failed schema validation",
			zap.String("agent", se.Agent),
			zap.String("raw", se.Raw),
			zap.Error(se.Err),
		)
	}
}
