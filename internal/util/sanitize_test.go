package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForLog(t *testing.T) {
	assert.Equal(t, "", SanitizeForLog(""))
	assert.Equal(t, "plain key", SanitizeForLog("plain key"))
	assert.Equal(t, "a b", SanitizeForLog("a\nb"))
	assert.Equal(t, "a b", SanitizeForLog("a\r\nb"))
	assert.Equal(t, "k v", SanitizeForLog("k\x00\x01\x1Fv"))
	assert.Equal(t, "k v", SanitizeForLog("k\x7Fv"))
	assert.Equal(t, " ", SanitizeForLog("\x00\x1F"))
}
