package pipeline

import "fmt"

// State is a step of a single run. A run moves forward through
// Start, Fetched, Summarized, Formatted, Saved and Done, or ends in Failed.
type State int

const (
	StateStart State = iota
	StateFetched
	StateSummarized
	StateFormatted
	StateSaved
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateFetched:
		return "fetched"
	case StateSummarized:
		return "summarized"
	case StateFormatted:
		return "formatted"
	case StateSaved:
		return "saved"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
