package domain

type UseCase string

const (
	UseCaseObjectConfirmed UseCase = "OBJECT_CONFIRMED"
	UseCaseObjectNotFound  UseCase = "OBJECT_NOT_FOUND"
	UseCaseAppendTask      UseCase = "APPEND_TASK"
)

type FusionStatus string

const (
	FusionSafe   FusionStatus = "safe"
	FusionNoSafe FusionStatus = "nosafe"
)

type TaskType string

const (
	TaskMoveTo         TaskType = "MOVE_TO"
	TaskLoiter         TaskType = "LOITER"
	TaskVisionWaypoint TaskType = "VISION_WAYPOINT"
	TaskPatrol         TaskType = "PATROL"
	TaskOrbit          TaskType = "ORBIT"
)

// Location is a georeferenced point with altitude above ground level in feet.
type Location struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	AltAGLFt float64 `json:"alt_agl_ft"`
}

// Waypoint is a location plus the upstream sensor-confidence flag that drives
// task-type selection.
type Waypoint struct {
	Lat          float64      `json:"lat"`
	Lon          float64      `json:"lon"`
	AltAGLFt     float64      `json:"alt_agl_ft"`
	FusionStatus FusionStatus `json:"fusion_status"`
}

// Task is one typed waypoint/loiter action inside a mission plan.
type Task struct {
	Type      TaskType `json:"type"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	AltAGLFt  float64  `json:"alt_agl_ft"`
	DurationS float64  `json:"duration_s"`
	SpeedMPS  float64  `json:"speed_mps"`
}

// AdditionalData carries free-form descriptive attributes of the target
// object. All fields are optional and pass through the pipeline unmodified.
type AdditionalData struct {
	ObjectType        string `json:"objectType,omitempty"`
	VisualDescription string `json:"visualDescription,omitempty"`
	Color             string `json:"color,omitempty"`
	SizeLabel         string `json:"sizeLabel,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// MissionPlan is the normalized output of the planning step.
type MissionPlan struct {
	MissionID      string         `json:"mission_id,omitempty"`
	Priority       int            `json:"priority"`
	AdditionalData AdditionalData `json:"additionalData"`
	Tasks          []Task         `json:"tasks"`
}

// PublishResult is the outcome of a downstream mission publish attempt.
// MissionID is empty when the publish did not happen or failed; Detail then
// carries a human-readable reason. The publisher never fails the request.
type PublishResult struct {
	MissionID string
	Detail    string
}

func (r PublishResult) OK() bool {
	return r.MissionID != ""
}
