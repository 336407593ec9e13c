// Package editor routes keyboard and input events from a plain-text
// surface into the structural mutators and the undo history.
//
// An Editor owns the document buffer, its selection and its history. The
// UI adapter feeds every native event to ApplyEvent and, whenever the
// returned Outcome is Handled, suppresses the native default and copies
// Outcome.Buffer back into the surface. Events that are not handled are
// left to the surface; the resulting change comes back as an InputChange
// event so it is recorded in the history.
package editor
