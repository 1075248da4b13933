package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateNumericOTP(4)
		require.NoError(t, err)
		require.Len(t, code, 4)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "unexpected character %q in %s", r, code)
		}
	}
}

func TestGenerateNumericOTPWidth(t *testing.T) {
	code, err := GenerateNumericOTP(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jane@example.com", "ja**@example.com"},
		{"jonathan@example.com", "jo******@example.com"},
		{"ab@example.com", "a***@example.com"},
		{"x@example.com", "x***@example.com"},
		{"not-an-email", "not-an-email"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskEmail(tt.in))
	}
}
