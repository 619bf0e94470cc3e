package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"refresh token size", 32},
		{"short", 4},
		{"empty", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := MakeRandHexString(tt.size)
			require.NoError(t, err)
			assert.Len(t, s, tt.size*2)

			raw, err := hex.DecodeString(s)
			require.NoError(t, err)
			assert.Len(t, raw, tt.size)
		})
	}
}

func TestMakeRandHexString_Distinct(t *testing.T) {
	a, err := MakeRandHexString(32)
	require.NoError(t, err)
	b, err := MakeRandHexString(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(16)
	b := GenerateRandByteArray(16)
	assert.Len(t, a, 16)
	assert.Len(t, b, 16)
	assert.NotEqual(t, a, b)
	assert.Empty(t, GenerateRandByteArray(0))
}

func TestWipeByteArray(t *testing.T) {
	pw := []byte("correct horse")
	WipeByteArray(pw)
	assert.Equal(t, make([]byte, len("correct horse")), pw)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}
