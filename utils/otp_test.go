package utils

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP()
	assert.NoError(t, err)
	assert.Len(t, code, OTPLength)

	for _, r := range code {
		assert.True(t, unicode.IsDigit(r), "OTP must be all digits, got %q", code)
	}
}

func TestGenerateOTP_Varies(t *testing.T) {
	// Not a randomness proof, just a guard against a constant generator
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		assert.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}
