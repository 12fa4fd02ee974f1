package engine

import "fmt"

// ErrorKind classifies pipeline failures.
type ErrorKind int

const (
	// KindCamera covers capture and permission failures. Non-recoverable:
	// the pipeline cannot start without frames.
	KindCamera ErrorKind = iota
	// KindDetector covers upstream landmark-model failures. Non-recoverable.
	KindDetector
	// KindDelivery covers failures handing a fired event to a downstream
	// sink. Recoverable: logged and absorbed, never alters trigger state.
	KindDelivery
)

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case KindCamera:
		return "camera"
	case KindDetector:
		return "detector"
	case KindDelivery:
		return "delivery"
	}
	return "unknown"
}

// Error is a pipeline failure tagged with its kind. It is carried as a
// value, not thrown; callers branch on Recoverable to decide whether to
// abort or absorb.
type Error struct {
	Kind ErrorKind
	Err  error
}

// E wraps err with the given kind.
func E(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Recoverable reports whether the pipeline may continue after this error.
// A skipped frame needs no retry: the temporal histories simply do not
// advance for that tick and recover on the next successful frame.
func (e *Error) Recoverable() bool {
	return e.Kind == KindDelivery
}
