package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// HookSink runs an external command for every record, passing the record
// as JSON on stdin. It lets users script arbitrary reactions to gestures
// without linking into the daemon; a hook that hangs is killed at the
// timeout.
type HookSink struct {
	command string
	args    []string
	timeout time.Duration
}

// NewHookSink creates a sink executing command for each record.
func NewHookSink(command string, args []string, timeout time.Duration) *HookSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HookSink{
		command: command,
		args:    args,
		timeout: timeout,
	}
}

func (s *HookSink) Name() string { return "hook" }

func (s *HookSink) Deliver(rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.command, s.args...)
	cmd.Stdin = bytes.NewReader(payload)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("hook timeout after %s", s.timeout)
	}
	if err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("hook failed: %w, stderr: %s", err, stderr.String())
		}
		return fmt.Errorf("hook failed: %w", err)
	}

	return nil
}

func (s *HookSink) Close() error { return nil }
