package domain

// Phase is the handshake state of the worker session
type Phase string

const (
	PhaseDisconnected       Phase = "disconnected"
	PhaseAwaitingHost       Phase = "awaiting_host"
	PhaseAwaitingUser       Phase = "awaiting_user"
	PhaseAwaitingCredential Phase = "awaiting_credential"
	PhaseReady              Phase = "ready"
	PhaseActive             Phase = "active"
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	return string(p)
}

// Connecting reports whether the phase belongs to an in-flight connection attempt
func (p Phase) Connecting() bool {
	switch p {
	case PhaseAwaitingHost, PhaseAwaitingUser, PhaseAwaitingCredential, PhaseReady:
		return true
	default:
		return false
	}
}

// ConnectionStatus is the host-facing view of the session phase
type ConnectionStatus struct {
	Connecting bool  `json:"connecting"`
	Phase      Phase `json:"phase"`
	Ready      bool  `json:"ready"`
}
