// Package validation holds the pure input checks shared by the auth and task
// services. Every validator returns (ok, reason) and performs no I/O.
package validation

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	digitRe  = regexp.MustCompile(`\d`)
	symbolRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// Email checks basic address shape; deliverability is not our problem.
func Email(email string) bool {
	return emailRe.MatchString(email)
}

// PasswordStrength enforces the five-rule policy: length, upper, lower,
// digit, symbol. The first failing rule names itself in the reason.
func PasswordStrength(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	if !upperRe.MatchString(password) {
		return false, "Password must contain at least one uppercase letter"
	}
	if !lowerRe.MatchString(password) {
		return false, "Password must contain at least one lowercase letter"
	}
	if !digitRe.MatchString(password) {
		return false, "Password must contain at least one digit"
	}
	if !symbolRe.MatchString(password) {
		return false, "Password must contain at least one special character"
	}
	return true, ""
}

// Title requires non-blank content within 255 characters.
func Title(title string) (bool, string) {
	if strings.TrimSpace(title) == "" {
		return false, "Title cannot be empty"
	}
	if len(title) > 255 {
		return false, "Title cannot exceed 255 characters"
	}
	return true, ""
}

// Description allows empty but caps length at 1000.
func Description(description string) (bool, string) {
	if len(description) > 1000 {
		return false, "Description cannot exceed 1000 characters"
	}
	return true, ""
}

// Tags caps the comma-encoded form at 500 characters.
func Tags(tags []string) (bool, string) {
	if len(strings.Join(tags, ",")) > 500 {
		return false, "Tags cannot exceed 500 characters"
	}
	return true, ""
}

// SanitizeText HTML-escapes free text before it is persisted. Escaping
// happens once, at write time; the escaped form is what gets stored and
// served.
func SanitizeText(input string) string {
	return html.EscapeString(input)
}

// SanitizeTags escapes each tag and drops blanks.
func SanitizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		out = append(out, SanitizeText(trimmed))
	}
	return out
}

// FieldError carries a validator reason to the transport layer, which maps
// it to a 400.
type FieldError struct {
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}
