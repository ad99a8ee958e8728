package diag

// Level is the severity of a reported diagnostic, per spec §4.5 and §7.
type Level int

const (
	Info Level = iota
	Warning
	Error
	FatalError
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case FatalError:
		return "fatal error"
	default:
		return "unknown"
	}
}
