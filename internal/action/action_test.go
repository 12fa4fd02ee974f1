package action

import (
	"errors"
	"testing"

	"github.com/coder-dipesh/zentrol/internal/pose"
)

// recordingSender captures sent keys instead of injecting keystrokes.
type recordingSender struct {
	keys []string
	err  error
}

func (s *recordingSender) SendKey(key string) error {
	if s.err != nil {
		return s.err
	}
	s.keys = append(s.keys, key)
	return nil
}

func TestController_DefaultBindings(t *testing.T) {
	tests := []struct {
		pose pose.Label
		key  string
	}{
		{pose.PointUp, "right"},
		{pose.Victory, "left"},
		{pose.ThumbsUp, "f5"},
		{pose.OK, "esc"},
		{pose.OpenPalm, "f"},
		{pose.Fist, "b"},
	}

	for _, tt := range tests {
		t.Run(string(tt.pose), func(t *testing.T) {
			sender := &recordingSender{}
			c := NewController(sender)

			if err := c.Execute(tt.pose); err != nil {
				t.Fatalf("Execute(%q) error = %v", tt.pose, err)
			}
			if len(sender.keys) != 1 || sender.keys[0] != tt.key {
				t.Errorf("sent keys = %v, want [%s]", sender.keys, tt.key)
			}
		})
	}
}

func TestController_UnboundPoseIsNoop(t *testing.T) {
	sender := &recordingSender{}
	c := NewController(sender)

	if err := c.Execute(pose.Unknown); err != nil {
		t.Fatalf("Execute(unknown) error = %v", err)
	}
	if len(sender.keys) != 0 {
		t.Errorf("unknown pose sent keys: %v", sender.keys)
	}
}

func TestController_Bind(t *testing.T) {
	sender := &recordingSender{}
	c := NewController(sender)

	c.Bind(pose.Fist, NextSlide)

	if err := c.Execute(pose.Fist); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(sender.keys) != 1 || sender.keys[0] != "right" {
		t.Errorf("sent keys = %v, want [right]", sender.keys)
	}

	a, ok := c.ActionFor(pose.Fist)
	if !ok || a != NextSlide {
		t.Errorf("ActionFor(fist) = %q, %v; want %q, true", a, ok, NextSlide)
	}
}

func TestController_Unbind(t *testing.T) {
	sender := &recordingSender{}
	c := NewController(sender)

	c.Bind(pose.Fist, "")

	if _, ok := c.ActionFor(pose.Fist); ok {
		t.Error("ActionFor(fist) still bound after unbind")
	}
	if err := c.Execute(pose.Fist); err != nil {
		t.Fatalf("Execute() after unbind error = %v", err)
	}
	if len(sender.keys) != 0 {
		t.Errorf("unbound pose sent keys: %v", sender.keys)
	}
}

func TestController_SenderError(t *testing.T) {
	cause := errors.New("display unavailable")
	c := NewController(&recordingSender{err: cause})

	if err := c.Execute(pose.PointUp); !errors.Is(err, cause) {
		t.Errorf("Execute() error = %v, want %v", err, cause)
	}
}
