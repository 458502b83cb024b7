package bridge

import "fmt"

// StartupError wraps a fatal failure while connecting, registering the
// object model, or requesting the service name.
type StartupError struct {
	Step string
	Err  error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("bridge startup: %s: %v", e.Step, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// TableError indicates a malformed descriptor table entry. Always fatal at
// startup; never produced at runtime.
type TableError struct {
	Interface string
	Member    string
	Reason    string
}

func (e *TableError) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("descriptor table %s: %s: %s", e.Interface, e.Member, e.Reason)
	}
	return fmt.Sprintf("descriptor table %s: %s", e.Interface, e.Reason)
}

// CallExpiredError is the reply for bus calls that sat in the dispatch
// queue past their deadline.
type CallExpiredError struct{}

func (e *CallExpiredError) Error() string { return "request expired before dispatch" }
