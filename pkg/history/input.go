// Package history implements the editor's undo and redo stacks and the
// grouping of rapid native edits into single undo steps.
package history

import "time"

// InputType names the kind of a native input event.
type InputType string

// Input types reported by the native text surface.
const (
	InputInsertText            InputType = "insertText"
	InputDeleteBackward        InputType = "deleteContentBackward"
	InputDeleteForward         InputType = "deleteContentForward"
	InputInsertFromPaste       InputType = "insertFromPaste"
	InputInsertFromDrop        InputType = "insertFromDrop"
	InputInsertReplacementText InputType = "insertReplacementText"
	InputInsertFromYank        InputType = "insertFromYank"
	InputDeleteByCut           InputType = "deleteByCut"
	InputHistoryUndo           InputType = "historyUndo"
	InputHistoryRedo           InputType = "historyRedo"
	InputUnknown               InputType = "unknown"
)

const (
	// DefaultLimit is the maximum depth of each history stack.
	DefaultLimit = 200

	// DefaultCoalesceWindow is the longest pause between two native edits
	// that still merges them into one undo step.
	DefaultCoalesceWindow = 600 * time.Millisecond
)

// IsCoalescible reports whether edits of type t may merge into a running
// group. Only plain typing and single-character deletion qualify.
func IsCoalescible(t InputType) bool {
	switch t {
	case InputInsertText, InputDeleteBackward, InputDeleteForward:
		return true
	case InputInsertFromPaste, InputInsertFromDrop, InputInsertReplacementText,
		InputInsertFromYank, InputDeleteByCut, InputHistoryUndo, InputHistoryRedo, InputUnknown:
	}
	return false
}

// IsHistory reports whether t is a native undo or redo.
func IsHistory(t InputType) bool {
	return t == InputHistoryUndo || t == InputHistoryRedo
}

// Group is a run of native edits that undo treats as one step.
type Group struct {
	InputType InputType
	LastAt    time.Time
}

// ShouldCoalesce reports whether an edit of type t arriving delta after the
// group's last edit joins the group.
func ShouldCoalesce(group *Group, t InputType, delta, window time.Duration) bool {
	return group != nil &&
		group.InputType == t &&
		IsCoalescible(t) &&
		delta <= window
}

// ShouldCoalesceNativeEdit is ShouldCoalesce with the default window.
func ShouldCoalesceNativeEdit(group *Group, t InputType, delta time.Duration) bool {
	return ShouldCoalesce(group, t, delta, DefaultCoalesceWindow)
}
