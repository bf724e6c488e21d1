package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skysense-ai/sara-agent/internal/app/mission"
	"github.com/skysense-ai/sara-agent/internal/domain"
	"github.com/skysense-ai/sara-agent/internal/imaging"
)

const maxUploadBytes = 10 << 20

type Server struct {
	svc *mission.Service
}

// NewServer builds the route table. allowedOrigin is the CORS origin granted
// to browser callers; empty means any.
func NewServer(svc *mission.Service, allowedOrigin string) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/analyze", post(s.handleAnalyze))
	mux.HandleFunc("/vision/confirm", post(s.handleConfirm))
	mux.HandleFunc("/chat", post(s.handleChat))
	mux.HandleFunc("/missions/plan", post(s.handlePlan))

	return chain(mux, withCORS(allowedOrigin), withRequestLogging)
}

func post(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h(w, r)
	}
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type confirmResponse struct {
	UseCase        string              `json:"use_case"`
	MissionID      string              `json:"mission_id"`
	ConsoleMessage string              `json:"console_message,omitempty"`
	Mission        *domain.MissionPlan `json:"mission,omitempty"`
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type chatResponse struct {
	Response       string `json:"response"`
	ConsoleMessage string `json:"console_message,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type planResponse struct {
	Mission          domain.MissionPlan `json:"mission"`
	ConsoleMessage   string             `json:"console_message,omitempty"`
	PhalanxMissionID string             `json:"phalanx_mission_id,omitempty"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /analyze: multipart prompt + image, single-shot vision analysis.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	form, err := parseVisionForm(r, false)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.svc.Analyze(r.Context(), form.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// POST /vision/confirm: multipart prompt + image (+ coordinates); runs the
// full confirmation pipeline when the object is detected.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	form, err := parseVisionForm(r, true)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := s.svc.ConfirmObject(r.Context(), form.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, confirmResponse{
		UseCase:        string(out.UseCase),
		MissionID:      out.MissionID,
		ConsoleMessage: out.ConsoleMessage,
		Mission:        out.Plan,
	})
}

// POST /chat: JSON body, or multipart when an image is attached.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	in, err := parseChatRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := s.svc.RunChat(r.Context(), *in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Response:       out.Response,
		ConsoleMessage: out.ConsoleMessage,
		ConversationID: string(out.ConversationID),
	})
}

// POST /missions/plan: JSON discriminated by use_case.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req mission.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	switch req.UseCase {
	case domain.UseCaseObjectConfirmed, domain.UseCaseAppendTask:
	default:
		badRequest(w, "use_case must be OBJECT_CONFIRMED or APPEND_TASK")
		return
	}
	if req.MissionID == "" {
		badRequest(w, "mission_id is required")
		return
	}

	out, err := s.svc.RunPlanner(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, planResponse{
		Mission:          out.Plan,
		ConsoleMessage:   out.ConsoleMessage,
		PhalanxMissionID: out.PhalanxMissionID,
	})
}

// ─────────────────────────────────────────────
// Request parsing
// ─────────────────────────────────────────────

type visionForm struct {
	prompt       string
	missionID    string
	imageDataURL string
	location     *domain.Location
	priority     any
}

func (f *visionForm) input() mission.VisionInput {
	return mission.VisionInput{
		Prompt:       f.prompt,
		MissionID:    f.missionID,
		ImageDataURL: f.imageDataURL,
		Location:     f.location,
		Priority:     f.priority,
	}
}

// parseVisionForm validates the multipart upload completely before any agent
// is invoked: prompt present, image decodes, coordinates in range.
func parseVisionForm(r *http.Request, requireMissionID bool) (*visionForm, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, domain.NewValidationError("multipart form expected")
	}

	form := &visionForm{
		prompt:    strings.TrimSpace(r.FormValue("prompt")),
		missionID: strings.TrimSpace(r.FormValue("mission_id")),
	}
	if form.prompt == "" {
		return nil, domain.NewValidationError("prompt is required")
	}
	if requireMissionID && form.missionID == "" {
		return nil, domain.NewValidationError("mission_id is required")
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, domain.NewValidationError("image file is required")
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, domain.NewValidationError("could not read image upload")
	}

	format, err := imaging.Validate(raw)
	if err != nil {
		return nil, err
	}
	mimeType := imaging.SniffMIME(header.Header.Get("Content-Type"), format, header.Filename)
	form.imageDataURL = imaging.ToDataURL(raw, mimeType)

	if p := strings.TrimSpace(r.FormValue("priority")); p != "" {
		if n, convErr := strconv.Atoi(p); convErr == nil {
			form.priority = n
		} else {
			form.priority = p
		}
	}

	latStr, lonStr, altStr := r.FormValue("lat"), r.FormValue("lon"), r.FormValue("alt_agl_ft")
	if latStr != "" || lonStr != "" || altStr != "" {
		loc, err := parseLocation(latStr, lonStr, altStr)
		if err != nil {
			return nil, err
		}
		form.location = loc
	}

	return form, nil
}

func parseLocation(latStr, lonStr, altStr string) (*domain.Location, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return nil, domain.NewValidationError("lat must be a number")
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return nil, domain.NewValidationError("lon must be a number")
	}
	alt, err := strconv.ParseFloat(strings.TrimSpace(altStr), 64)
	if err != nil {
		return nil, domain.NewValidationError("alt_agl_ft must be a number")
	}
	if err := mission.ValidateCoordinates(lat, lon, alt); err != nil {
		return nil, err
	}
	return &domain.Location{Lat: lat, Lon: lon, AltAGLFt: alt}, nil
}

func parseChatRequest(r *http.Request) (*mission.ChatInput, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, domain.NewValidationError("multipart form expected")
		}
		in := &mission.ChatInput{
			Message:        strings.TrimSpace(r.FormValue("message")),
			ConversationID: domain.ConversationID(strings.TrimSpace(r.FormValue("conversation_id"))),
		}
		if in.Message == "" {
			return nil, domain.NewValidationError("message is required")
		}

		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			raw, readErr := io.ReadAll(io.LimitReader(file, maxUploadBytes))
			if readErr != nil {
				return nil, domain.NewValidationError("could not read image upload")
			}
			format, imgErr := imaging.Validate(raw)
			if imgErr != nil {
				return nil, imgErr
			}
			mimeType := imaging.SniffMIME(header.Header.Get("Content-Type"), format, header.Filename)
			in.ImageDataURL = imaging.ToDataURL(raw, mimeType)
		}
		return in, nil
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, domain.NewValidationError("invalid JSON body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.NewValidationError("message is required")
	}
	return &mission.ChatInput{
		Message:        req.Message,
		ConversationID: domain.ConversationID(req.ConversationID),
	}, nil
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates the internal error taxonomy into status codes:
// input validation 400, credential problems 500 with a configuration
// message, everything else a generic 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		badRequest(w, err.Error())
	case domain.IsCredential(err):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrAgentResultMissing):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": domain.ErrAgentResultMissing.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
