// Package script replays a recorded editing session against an editor.
//
// A script is a YAML document listing steps. Each step is one of a caret
// move, a key press, typed text, a paste, a pause, or a programmatic
// command:
//
//	select: [0, 0]
//	steps:
//	  - type: "- [ ] first"
//	  - key: Enter
//	  - key: b
//	    mod: true
//	  - pause: 1s
//	  - command: toggle-task
//	    index: 0
//
// Steps drive a Surface, which behaves like the browser text area the
// editor was built for: key presses reach the editor first and fall back to
// the native edit when the editor leaves them alone.
package script

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/sokki/pkg/editor"
)

// ErrInvalidStep is returned for a step that names no action or more than one.
var ErrInvalidStep = errors.New("invalid step")

// Script is a parsed editing session.
type Script struct {
	// Select is the initial selection as [start] or [start, end].
	// Empty places the caret at the start of the document.
	Select []int `yaml:"select,omitempty"`

	// Pace is the simulated time between two key presses.
	// Zero uses DefaultPace.
	Pace time.Duration `yaml:"pace,omitempty"`

	Steps []Step `yaml:"steps"`
}

// Step is one scripted action. Exactly one of Select, Key, Type, Paste,
// Pause, or Command is set.
type Step struct {
	Select []int `yaml:"select,omitempty"`

	// Key is the key value, e.g. "Enter", "Tab" or "b".
	Key   string `yaml:"key,omitempty"`
	Code  string `yaml:"code,omitempty"`
	Mod   bool   `yaml:"mod,omitempty"`
	Shift bool   `yaml:"shift,omitempty"`
	Alt   bool   `yaml:"alt,omitempty"`
	// Repeat presses Key this many times. Zero means once.
	Repeat int `yaml:"repeat,omitempty"`

	// Type enters text one key press at a time. A newline presses Enter
	// and a tab presses Tab.
	Type string `yaml:"type,omitempty"`

	// Paste inserts text as a single native paste.
	Paste string `yaml:"paste,omitempty"`

	// Pause advances the clock without input.
	Pause time.Duration `yaml:"pause,omitempty"`

	// Command runs a programmatic editor command such as "undo" or
	// "toggle-task".
	Command editor.CommandName `yaml:"command,omitempty"`
	Text    string             `yaml:"text,omitempty"`
	Index   int                `yaml:"index,omitempty"`
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	script, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return script, nil
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

// Validate checks every step.
func (s *Script) Validate() error {
	if err := validateSelection(s.Select); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	if s.Pace < 0 {
		return fmt.Errorf("pace must not be negative: %s", s.Pace)
	}

	var errs []error
	for idx, step := range s.Steps {
		if err := step.validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", idx+1, err))
		}
	}
	return errors.Join(errs...)
}

func (st Step) validate() error {
	actions := 0
	for _, set := range []bool{
		st.Select != nil, st.Key != "", st.Type != "", st.Paste != "",
		st.Pause != 0, st.Command != "",
	} {
		if set {
			actions++
		}
	}

	switch {
	case actions == 0:
		return fmt.Errorf("%w: no action", ErrInvalidStep)
	case actions > 1:
		return fmt.Errorf("%w: more than one action", ErrInvalidStep)
	case st.Select != nil:
		return validateSelection(st.Select)
	case st.Pause < 0:
		return fmt.Errorf("%w: negative pause %s", ErrInvalidStep, st.Pause)
	case st.Repeat < 0:
		return fmt.Errorf("%w: negative repeat %d", ErrInvalidStep, st.Repeat)
	case st.Command != "":
		return validateCommand(st.Command)
	}
	return nil
}

func validateSelection(sel []int) error {
	switch {
	case sel == nil:
		return nil
	case len(sel) == 0 || len(sel) > 2:
		return fmt.Errorf("%w: selection needs one or two offsets", ErrInvalidStep)
	}
	for _, offset := range sel {
		if offset < 0 {
			return fmt.Errorf("%w: negative offset %d", ErrInvalidStep, offset)
		}
	}
	return nil
}

func validateCommand(name editor.CommandName) error {
	switch name {
	case editor.CommandUndo, editor.CommandRedo, editor.CommandInsertText, editor.CommandToggleTask:
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", ErrInvalidStep, name)
}

// selection converts a validated [start] or [start, end] pair.
func selection(sel []int) (int, int) {
	if len(sel) == 1 {
		return sel[0], sel[0]
	}
	return sel[0], sel[1]
}
