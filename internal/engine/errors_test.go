package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Recoverable(t *testing.T) {
	cause := errors.New("boom")

	if E(KindCamera, cause).Recoverable() {
		t.Error("camera errors must not be recoverable")
	}
	if E(KindDetector, cause).Recoverable() {
		t.Error("detector errors must not be recoverable")
	}
	if !E(KindDelivery, cause).Recoverable() {
		t.Error("delivery errors must be recoverable")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("device busy")
	err := E(KindCamera, cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is does not reach the wrapped cause")
	}

	var perr *Error
	wrapped := fmt.Errorf("start pipeline: %w", err)
	if !errors.As(wrapped, &perr) {
		t.Fatal("errors.As does not find *Error through wrapping")
	}
	if perr.Kind != KindCamera {
		t.Errorf("Kind = %v, want %v", perr.Kind, KindCamera)
	}
}

func TestError_Message(t *testing.T) {
	err := E(KindDelivery, errors.New("broker unreachable"))
	want := "delivery: broker unreachable"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
