// Package action maps fired poses to presentation-control actions.
//
// The mapping is static: pose labels are a closed set, and each maps to one
// abstract action executed through a KeySender. The gesture pipeline knows
// nothing about actions; it hands a pose over and moves on.
package action

import (
	"fmt"
	"log"
	"sync"

	"github.com/coder-dipesh/zentrol/internal/pose"
)

// Action is an abstract presentation-control action.
type Action string

const (
	NextSlide         Action = "next_slide"
	PrevSlide         Action = "prev_slide"
	StartPresentation Action = "start_presentation"
	EndPresentation   Action = "end_presentation"
	ToggleFullscreen  Action = "toggle_fullscreen"
	BlankScreen       Action = "blank_screen"
)

// KeySender injects a keystroke into the focused application.
type KeySender interface {
	SendKey(key string) error
}

// defaultBindings maps each pose to its action.
var defaultBindings = map[pose.Label]Action{
	pose.PointUp:  NextSlide,
	pose.Victory:  PrevSlide,
	pose.ThumbsUp: StartPresentation,
	pose.OK:       EndPresentation,
	pose.OpenPalm: ToggleFullscreen,
	pose.Fist:     BlankScreen,
}

// actionKeys maps each action to the keystroke understood by common
// presentation tools (PowerPoint, Keynote, reveal.js all honor these).
var actionKeys = map[Action]string{
	NextSlide:         "right",
	PrevSlide:         "left",
	StartPresentation: "f5",
	EndPresentation:   "esc",
	ToggleFullscreen:  "f",
	BlankScreen:       "b",
}

// Controller executes the action bound to a pose.
type Controller struct {
	sender   KeySender
	mu       sync.RWMutex
	bindings map[pose.Label]Action
}

// NewController creates a controller with the default bindings.
func NewController(sender KeySender) *Controller {
	bindings := make(map[pose.Label]Action, len(defaultBindings))
	for p, a := range defaultBindings {
		bindings[p] = a
	}
	return &Controller{
		sender:   sender,
		bindings: bindings,
	}
}

// Bind overrides the action for a pose. Binding to "" removes the pose.
func (c *Controller) Bind(p pose.Label, a Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a == "" {
		delete(c.bindings, p)
		return
	}
	c.bindings[p] = a
}

// ActionFor returns the action bound to a pose, if any.
func (c *Controller) ActionFor(p pose.Label) (Action, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.bindings[p]
	return a, ok
}

// Execute runs the action bound to the pose. Unbound poses are a no-op.
func (c *Controller) Execute(p pose.Label) error {
	a, ok := c.ActionFor(p)
	if !ok {
		return nil
	}

	key, ok := actionKeys[a]
	if !ok {
		return fmt.Errorf("action %q has no keystroke", a)
	}

	log.Printf("gesture %s -> %s (%s)", p, a, key)
	return c.sender.SendKey(key)
}
