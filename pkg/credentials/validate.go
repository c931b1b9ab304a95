// pkg/credentials/validate.go

// Package credentials enforces the grammar of acceptable admin credentials
// before they are persisted into the service environment file. Validation
// performs no I/O and no retry; re-prompting is the caller's responsibility.
package credentials

import (
	"regexp"
	"strings"
	"unicode"
)

// ViolationKind identifies one broken rule. All rules are checked
// independently and every violation is reported.
type ViolationKind int

const (
	UsernameTooShort ViolationKind = iota
	PasswordTooShort
	UsernameInvalidChars
	UsernameWhitespace
	PasswordWhitespace
)

const (
	MinUsernameLen = 3
	MinPasswordLen = 8
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Credentials holds an admin username/password pair. Held only in memory
// and in the generated environment file; never logged.
type Credentials struct {
	Username string
	Password string
}

// Result is the outcome of validating one credential pair.
type Result struct {
	OK         bool
	Violations []ViolationKind
}

// Has reports whether the result contains the given violation.
func (r Result) Has(kind ViolationKind) bool {
	for _, v := range r.Violations {
		if v == kind {
			return true
		}
	}
	return false
}

// Validate checks every rule and collects all violations; it never
// short-circuits on the first failure.
func Validate(username, password string) Result {
	var violations []ViolationKind

	if len(username) < MinUsernameLen {
		violations = append(violations, UsernameTooShort)
	}
	if len(password) < MinPasswordLen {
		violations = append(violations, PasswordTooShort)
	}
	if !usernamePattern.MatchString(username) {
		violations = append(violations, UsernameInvalidChars)
	}
	if containsWhitespace(username) {
		violations = append(violations, UsernameWhitespace)
	}
	if containsWhitespace(password) {
		violations = append(violations, PasswordWhitespace)
	}

	return Result{OK: len(violations) == 0, Violations: violations}
}

// Describe renders a violation as an operator-facing message.
func Describe(kind ViolationKind) string {
	switch kind {
	case UsernameTooShort:
		return "username must be at least 3 characters"
	case PasswordTooShort:
		return "password must be at least 8 characters"
	case UsernameInvalidChars:
		return "username may only contain letters, digits, underscore and dash"
	case UsernameWhitespace:
		return "username must not contain whitespace"
	case PasswordWhitespace:
		return "password must not contain whitespace"
	default:
		return "invalid credentials"
	}
}

// Messages renders all violations in a result.
func (r Result) Messages() []string {
	msgs := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		msgs = append(msgs, Describe(v))
	}
	return msgs
}

func containsWhitespace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
