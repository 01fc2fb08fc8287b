package gate

import "time"

// ControlState is the state of one action control.
type ControlState int

const (
	DisabledOutOfTimeWindow ControlState = iota
	DisabledOutOfRange
	Enabled
)

func (s ControlState) String() string {
	switch s {
	case DisabledOutOfTimeWindow:
		return "disabled_out_of_time_window"
	case DisabledOutOfRange:
		return "disabled_out_of_range"
	case Enabled:
		return "enabled"
	}
	return "unknown"
}

// MarshalText renders the state name in JSON payloads.
func (s ControlState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ControlStateFor derives the state of the kind control. rng is nil while no
// location is known. The time window is checked first; both conditions must hold.
func ControlStateFor(kind Kind, now time.Time, rng *Decision) ControlState {
	if !EvaluateTimeWindow(now, kind) {
		return DisabledOutOfTimeWindow
	}
	if rng == nil || !rng.WithinRange {
		return DisabledOutOfRange
	}
	return Enabled
}
