package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestGenerateRandByteArray_Length(t *testing.T) {
	buf := GenerateRandByteArray(24)
	require.Len(t, buf, 24)
}

func TestGenerateDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := GenerateDigits(OTPLength)
		require.Len(t, s, OTPLength)
		assert.Equal(t, s, OnlyDigits(s, OTPLength))
	}
}

func TestOnlyDigits(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"plain digits", "123456", 6, "123456"},
		{"strips letters and spaces", "12a 3-4b56", 6, "123456"},
		{"truncates pasted code", "1234567890", 6, "123456"},
		{"non ascii digits dropped", "١٢٣123", 6, "123"},
		{"empty", "", 6, ""},
		{"nothing numeric", "abc-def", 6, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OnlyDigits(tt.in, tt.limit))
		})
	}
}
