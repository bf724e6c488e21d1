package mission

import (
	"strings"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

const (
	// Minimum safe task altitude in feet; tasks computed below it are raised
	// by the safety margin.
	altitudeFloorFt  = 60.0
	altitudeMarginFt = 20.0

	moveToSpeedMPS    = 3.0
	scanSpeedMPS      = 0.5
	scanDurationS     = 60.0
	loiterDurationS   = 90.0
	defaultPriority   = 3
	confirmedPriority = 5
)

// NormalizePriority maps textual priorities to the 1-5 scale and clamps
// numeric ones: low->1, normal->3, high|immediate->5. Unrecognized strings
// fall back to the default (3); see DESIGN.md for the product decision.
func NormalizePriority(v any) int {
	switch p := v.(type) {
	case nil:
		return defaultPriority
	case string:
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "low":
			return 1
		case "normal":
			return defaultPriority
		case "high", "immediate":
			return confirmedPriority
		default:
			return defaultPriority
		}
	case int:
		return ClampPriority(p)
	case float64:
		return ClampPriority(int(p + 0.5))
	default:
		return defaultPriority
	}
}

// ClampPriority bounds a numeric priority to [1, 5].
func ClampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 5 {
		return 5
	}
	return p
}

// EffectivePriority applies the use-case rule on top of normalization: the
// object-confirmed path always runs at maximum priority.
func EffectivePriority(v any, useCase domain.UseCase) int {
	if useCase == domain.UseCaseObjectConfirmed {
		return confirmedPriority
	}
	return NormalizePriority(v)
}

// ApplySafetyFloor raises an altitude below the safety floor by the fixed
// margin. Altitudes at or above the floor are unchanged.
func ApplySafetyFloor(altFt float64) float64 {
	if altFt < altitudeFloorFt {
		return altFt + altitudeMarginFt
	}
	return altFt
}

// DeriveWaypointTasks produces the canonical two-task plan for a waypoint:
// a MOVE_TO approach, then either a scan (fusion safe) or a raised loiter
// (fusion nosafe).
func DeriveWaypointTasks(wp domain.Waypoint) []domain.Task {
	approachAlt := wp.AltAGLFt
	if approachAlt < altitudeFloorFt {
		approachAlt = altitudeFloorFt
	}

	moveTo := domain.Task{
		Type:     domain.TaskMoveTo,
		Lat:      wp.Lat,
		Lon:      wp.Lon,
		AltAGLFt: approachAlt,
		SpeedMPS: moveToSpeedMPS,
	}

	second := domain.Task{
		Lat: wp.Lat,
		Lon: wp.Lon,
	}
	if wp.FusionStatus == domain.FusionNoSafe {
		second.Type = domain.TaskLoiter
		second.AltAGLFt = approachAlt + altitudeMarginFt
		second.DurationS = loiterDurationS
		second.SpeedMPS = 0
	} else {
		second.Type = domain.TaskVisionWaypoint
		second.AltAGLFt = approachAlt
		second.DurationS = scanDurationS
		second.SpeedMPS = scanSpeedMPS
	}

	return []domain.Task{moveTo, second}
}

// ValidateCoordinates range-checks a location. Altitude zero is valid.
func ValidateCoordinates(lat, lon, altFt float64) error {
	if lat < -90 || lat > 90 {
		return domain.NewValidationError("latitude %v out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return domain.NewValidationError("longitude %v out of range [-180, 180]", lon)
	}
	if altFt < 0 {
		return domain.NewValidationError("alt_agl_ft %v must be >= 0", altFt)
	}
	return nil
}
