// internal/app/system/normalize/normalize.go

// Package normalize provides canonical forms for user-supplied identity
// fields so that lookups and uniqueness checks behave consistently.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}
