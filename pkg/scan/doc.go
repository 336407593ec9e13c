// Package scan recognizes the line-level Markdown structure the editor acts
// on: list items, table rows and plain text.
//
// Every function is pure and total. Input that does not match a structure
// yields a false flag or an empty result; nothing here panics or returns an
// error.
package scan
