package simulator

import "fmt"

// ErrNetwork is a simulated transport failure. The call never reached the
// endpoint and nothing was written.
type ErrNetwork struct {
	Method string
	Path   string
}

func (e *ErrNetwork) Error() string {
	return fmt.Sprintf("simulated network failure: %s %s", e.Method, e.Path)
}

func (e *ErrNetwork) Timeout() bool {
	return false
}

func (e *ErrNetwork) Temporary() bool {
	return true
}
