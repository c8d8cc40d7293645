package library

// State is one phase of the library's status machine.
type State string

const (
	StateIdle    State = "idle"
	StateWorking State = "working"
	StateSuccess State = "success"
	StateFailure State = "failure"
)

// Status is the library's externally visible state plus a
// human-readable message. Idle is the initial state and is only
// reached again through an explicit Reset; operations move any state
// to working and settle in success or failure.
type Status struct {
	State   State
	Message string
}

// Status returns the current status.
func (l *Library) Status() Status { return l.status }

// Reset returns the status machine to idle.
func (l *Library) Reset() {
	l.status = Status{State: StateIdle}
}

func (l *Library) setWorking(message string) {
	l.status = Status{State: StateWorking, Message: message}
}

func (l *Library) setSuccess(message string) {
	l.status = Status{State: StateSuccess, Message: message}
}

func (l *Library) setFailure(message string) {
	l.status = Status{State: StateFailure, Message: message}
}
