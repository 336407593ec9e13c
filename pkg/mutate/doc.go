// Package mutate holds the structural editing operations of the editor.
//
// Every operation is a pure function from a textbuf.Buffer to a new
// textbuf.Buffer. The boolean result reports whether the operation applied
// to the buffer at all; when it is false the returned buffer is the input,
// unchanged, and the caller should fall back to the default behavior of the
// key. An operation may apply without changing the text, for example when it
// only moves the cursor.
package mutate
