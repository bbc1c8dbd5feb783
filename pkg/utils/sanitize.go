package utils

import (
	"net/mail"
	"strings"
)

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail checks basic syntactic validity of an email address.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// CleanContent trims surrounding whitespace and strips NUL bytes from
// user-provided message content.
func CleanContent(content string) string {
	content = strings.ReplaceAll(content, "\x00", "")
	return strings.TrimSpace(content)
}
