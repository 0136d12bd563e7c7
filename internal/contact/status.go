package contact

// Status is the submission lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Terminal reports whether s reverts to idle after a delay.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// ButtonLabel is the submit button text for s.
func (s Status) ButtonLabel() string {
	switch s {
	case StatusSubmitting:
		return "Sending..."
	case StatusSuccess:
		return "Message Sent!"
	case StatusError:
		return "Error Sending"
	}
	return "Send Message"
}

// FailureMessage is shown for every submission failure.
const FailureMessage = "There was an error sending your message. Please try again later."

// Event drives a status transition.
type Event int

const (
	EventSubmit Event = iota
	EventSucceeded
	EventFailed
	EventRevert
)

func (e Event) String() string {
	switch e {
	case EventSubmit:
		return "submit"
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	case EventRevert:
		return "revert"
	}
	return "unknown"
}

// Next returns the status after e is applied to s. ok is false, and s is
// returned unchanged, when e is not allowed from s.
func Next(s Status, e Event) (next Status, ok bool) {
	switch {
	case s == StatusIdle && e == EventSubmit:
		return StatusSubmitting, true
	case s == StatusSubmitting && e == EventSucceeded:
		return StatusSuccess, true
	case s == StatusSubmitting && e == EventFailed:
		return StatusError, true
	case s.Terminal() && e == EventRevert:
		return StatusIdle, true
	}
	return s, false
}
