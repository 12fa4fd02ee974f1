package action

import "github.com/go-vgo/robotgo"

// RobotgoSender sends keystrokes to the focused application via robotgo.
type RobotgoSender struct{}

// NewRobotgoSender creates a keystroke sender backed by robotgo.
func NewRobotgoSender() *RobotgoSender {
	return &RobotgoSender{}
}

// SendKey taps the named key.
func (s *RobotgoSender) SendKey(key string) error {
	return robotgo.KeyTap(key)
}
