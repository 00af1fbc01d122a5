package shared

import "fmt"

// ActivityKind is the closed set of blueprint activities the planner handles.
// Branching code must switch exhaustively over these values so a new kind is
// a compile-visible change rather than a silent string mismatch.
type ActivityKind int

const (
	ActivityManufacturing ActivityKind = iota
	ActivityReaction
	ActivityCopying
)

// ParseActivityKind converts the persisted/wire representation back to the enum.
func ParseActivityKind(s string) (ActivityKind, error) {
	switch s {
	case "MANUFACTURING":
		return ActivityManufacturing, nil
	case "REACTION":
		return ActivityReaction, nil
	case "COPYING":
		return ActivityCopying, nil
	default:
		return 0, fmt.Errorf("unknown activity kind %q", s)
	}
}

func (k ActivityKind) String() string {
	switch k {
	case ActivityManufacturing:
		return "MANUFACTURING"
	case ActivityReaction:
		return "REACTION"
	case ActivityCopying:
		return "COPYING"
	default:
		return fmt.Sprintf("ActivityKind(%d)", int(k))
	}
}

// HasMaterials reports whether the activity consumes a bill of materials.
// Copying only consumes time.
func (k ActivityKind) HasMaterials() bool {
	switch k {
	case ActivityManufacturing, ActivityReaction:
		return true
	case ActivityCopying:
		return false
	default:
		return false
	}
}
