// Package signup holds the account credential rules shared by the API's
// register endpoint and the create-user CLI.
package signup

import (
	"net/mail"
	"strings"
)

// MinPasswordLen is the shortest password either path accepts.
const MinPasswordLen = 8

// NormalizeEmail trims and lowercases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email is a bare address. Display-name forms
// such as "Bob <bob@example.com>" are rejected.
func ValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// ValidPassword reports whether password is long enough.
func ValidPassword(password string) bool {
	return len(password) >= MinPasswordLen
}
