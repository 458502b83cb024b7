package player

import "fmt"

// CommandError is an mpv-reported failure for a command or property access.
type CommandError struct {
	Cmd    string
	Reason string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("mpv: %s: %s", e.Cmd, e.Reason)
}

// TimeoutError is returned when mpv does not reply within the call timeout.
type TimeoutError struct {
	Cmd string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("mpv: %s: call timed out", e.Cmd)
}

// ClosedError is returned for calls made after the IPC connection went away.
type ClosedError struct{}

func (e *ClosedError) Error() string { return "mpv: connection closed" }

// SocketError indicates the IPC socket could not be reached at startup.
type SocketError struct {
	Path   string
	Reason string
}

func (e *SocketError) Error() string {
	return fmt.Sprintf("mpv socket %s: %s", e.Path, e.Reason)
}
