package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	require.NoError(t, err)
	require.Len(t, s, n*2)
	_, err = hex.DecodeString(s)
	require.NoError(t, err)
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	require.NoError(t, err)
	require.Empty(t, s)
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("secret")
	WipeByteArray(buf)
	require.Equal(t, make([]byte, 6), buf)
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"plain", "Bearer abc.def", "abc.def"},
		{"case insensitive scheme", "bearer xyz", "xyz"},
		{"extra spaces", "  Bearer   tok  ", "tok"},
		{"basic scheme", "Basic dXNlcg==", ""},
		{"no token", "Bearer", ""},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, BearerToken(tc.header))
		})
	}
}

func TestBearerValue_RoundTrip(t *testing.T) {
	require.Equal(t, "Bearer T1", BearerValue("T1"))
	require.Equal(t, "T1", BearerToken(BearerValue("T1")))
}
