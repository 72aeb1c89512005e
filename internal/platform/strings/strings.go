// Package strings holds the small string helpers modules share
package strings

import std "strings"

// MustString returns s, or panics naming what was missing when s is blank
func MustString(s, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a mount prefix to one leading slash and no trailing one
// it panics on a blank or root prefix, modules never mount at /
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), "/")
	if s == "/" {
		panic("mount prefix is required")
	}
	return s
}

// Ptr returns &s, or nil for the empty string so optional columns stay NULL
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
