// pkg/credentials/validate_test.go

package credentials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		username   string
		password   string
		wantOK     bool
		violations []ViolationKind
	}{
		{
			name:     "valid pair",
			username: "admin",
			password: "longenough1",
			wantOK:   true,
		},
		{
			name:     "valid with dash underscore and digits",
			username: "minio_admin-01",
			password: "s3cretPassw0rd",
			wantOK:   true,
		},
		{
			name:       "username too short only",
			username:   "ad",
			password:   "longenough1",
			wantOK:     false,
			violations: []ViolationKind{UsernameTooShort},
		},
		{
			name:       "password too short only",
			username:   "admin",
			password:   "short",
			wantOK:     false,
			violations: []ViolationKind{PasswordTooShort},
		},
		{
			name:       "username with illegal characters",
			username:   "adm!n",
			password:   "longenough1",
			wantOK:     false,
			violations: []ViolationKind{UsernameInvalidChars},
		},
		{
			name:       "username with whitespace reports charset and whitespace",
			username:   "ad min",
			password:   "longenough1",
			wantOK:     false,
			violations: []ViolationKind{UsernameInvalidChars, UsernameWhitespace},
		},
		{
			name:       "password with whitespace",
			username:   "admin",
			password:   "long enough 1",
			wantOK:     false,
			violations: []ViolationKind{PasswordWhitespace},
		},
		{
			name:     "everything wrong at once is fully collected",
			username: "a ",
			password: "x y",
			wantOK:   false,
			violations: []ViolationKind{
				UsernameTooShort, PasswordTooShort,
				UsernameInvalidChars, UsernameWhitespace, PasswordWhitespace,
			},
		},
		{
			name:       "empty username",
			username:   "",
			password:   "longenough1",
			wantOK:     false,
			violations: []ViolationKind{UsernameTooShort, UsernameInvalidChars},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Validate(tt.username, tt.password)
			assert.Equal(t, tt.wantOK, result.OK)
			assert.ElementsMatch(t, tt.violations, result.Violations)
		})
	}
}

func TestValidateShortUsernamesAlwaysReportLength(t *testing.T) {
	t.Parallel()

	for _, username := range []string{"", "a", "ab", "x_", "9"} {
		result := Validate(username, "longenough1")
		assert.False(t, result.OK, "username %q", username)
		assert.True(t, result.Has(UsernameTooShort), "username %q", username)
	}
}

func TestValidateNeverLeaksValuesInMessages(t *testing.T) {
	t.Parallel()

	result := Validate("ab", "hunter2 woo")
	for _, msg := range result.Messages() {
		assert.NotContains(t, msg, "hunter2")
		assert.NotContains(t, msg, "ab ")
	}
}

func TestDescribeCoversAllKinds(t *testing.T) {
	t.Parallel()

	kinds := []ViolationKind{
		UsernameTooShort, PasswordTooShort,
		UsernameInvalidChars, UsernameWhitespace, PasswordWhitespace,
	}
	seen := make(map[string]bool)
	for _, kind := range kinds {
		msg := Describe(kind)
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "duplicate message %q", msg)
		assert.False(t, strings.Contains(msg, "invalid credentials"))
		seen[msg] = true
	}
}
