package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordStrength(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		ok       bool
		reason   string
	}{
		{"valid", "Str0ng!Pw", true, ""},
		{"too short", "S0r!t", false, "Password must be at least 8 characters long"},
		{"no uppercase", "weak0!pass", false, "Password must contain at least one uppercase letter"},
		{"no lowercase", "WEAK0!PASS", false, "Password must contain at least one lowercase letter"},
		{"no digit", "Weakpass!", false, "Password must contain at least one digit"},
		{"no symbol", "Weakpass0", false, "Password must contain at least one special character"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := PasswordStrength(tc.password)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func TestTitle(t *testing.T) {
	testCases := []struct {
		name  string
		title string
		ok    bool
	}{
		{"valid", "Buy milk", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"max length", strings.Repeat("a", 255), true},
		{"too long", strings.Repeat("a", 256), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok, _ := Title(tc.title)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestDescription(t *testing.T) {
	ok, _ := Description("")
	assert.True(t, ok)

	ok, _ = Description(strings.Repeat("a", 1000))
	assert.True(t, ok)

	ok, reason := Description(strings.Repeat("a", 1001))
	assert.False(t, ok)
	assert.Equal(t, "Description cannot exceed 1000 characters", reason)
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("alice@x.com"))
	assert.True(t, Email("a.b+c@example.co.uk"))
	assert.False(t, Email("not-an-email"))
	assert.False(t, Email("missing@tld"))
	assert.False(t, Email("@example.com"))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", SanitizeText("<script>alert(1)</script>"))
	assert.Equal(t, "plain text", SanitizeText("plain text"))
	assert.Equal(t, "a &amp; b", SanitizeText("a & b"))
}

func TestSanitizeTags(t *testing.T) {
	tags := SanitizeTags([]string{" home ", "", "<b>work</b>"})
	assert.Equal(t, []string{"home", "&lt;b&gt;work&lt;/b&gt;"}, tags)
}
