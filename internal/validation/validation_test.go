package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	valid := []string{"bob", "alice_99", "some-user", "ABC"}
	for _, username := range valid {
		assert.NoError(t, ValidateUsername(username), username)
	}

	invalid := []string{
		"",
		"ab",
		strings.Repeat("x", 31),
		"has space",
		"weird!chars",
		"_leading",
		"trailing-",
	}
	for _, username := range invalid {
		assert.Error(t, ValidateUsername(username), username)
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.example.org"))

	invalid := []string{"", "plain", "missing@tld", "@example.com", "user@.com"}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}

	long := strings.Repeat("a", 250) + "@example.com"
	assert.Error(t, ValidateEmail(long))
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePassword("password123"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}

func TestValidateMessageText(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateMessageText("Hello"))
	assert.NoError(t, ValidateMessageText(strings.Repeat("a", 140)))

	assert.Error(t, ValidateMessageText(""))
	assert.Error(t, ValidateMessageText("   "))
	assert.Error(t, ValidateMessageText(strings.Repeat("a", 141)))
}

func TestValidateMessageTextCountsRunes(t *testing.T) {
	t.Parallel()

	// 140 multi-byte runes are within the bound even though the byte
	// length exceeds it.
	assert.NoError(t, ValidateMessageText(strings.Repeat("é", 140)))
	assert.Error(t, ValidateMessageText(strings.Repeat("é", 141)))
}
