package sink

// Status is the outcome of a delivery attempt as far as it can be observed.
// Attempted does not mean the destination stored the record.
type Status int

const (
	StatusNotConfigured Status = iota
	StatusAttempted
	StatusTransportError
)

func (s Status) String() string {
	switch s {
	case StatusNotConfigured:
		return "not_configured"
	case StatusAttempted:
		return "attempted"
	case StatusTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Message is the text shown to the user after a delivery attempt.
func (s Status) Message() string {
	switch s {
	case StatusNotConfigured:
		return "Set a sync destination URL in settings to mirror expenses"
	case StatusAttempted:
		return "Sent to sync destination (not confirmed)"
	case StatusTransportError:
		return "Error syncing. Check your URL."
	default:
		return ""
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
