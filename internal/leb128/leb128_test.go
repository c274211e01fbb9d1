package leb128

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeUint32(t *testing.T) {
	tests := []struct {
		name string
		in   uint32
	}{
		{"zero", 0},
		{"one byte", 63},
		{"boundary", 127},
		{"two bytes", 128},
		{"large", 0xffffffff},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded := EncodeUint32(tc.in)
			got, n, err := LoadUint32(encoded)
			require.NoError(t, err)
			require.Equal(t, tc.in, got)
			require.Equal(t, uint64(len(encoded)), n)
		})
	}
}

func TestEncodeDecodeInt32(t *testing.T) {
	tests := []struct {
		name string
		in   int32
	}{
		{"zero", 0},
		{"positive", 63},
		{"negative", -1},
		{"negative large", -128},
		{"positive large", 0x3fffffff},
		{"min", -2147483648},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded := EncodeInt32(tc.in)
			got, n, err := LoadInt32(encoded)
			require.NoError(t, err)
			require.Equal(t, tc.in, got)
			require.Equal(t, uint64(len(encoded)), n)
		})
	}
}

func TestLoadUint32RejectsOverflow(t *testing.T) {
	// The maximum 32-bit value round-trips fine.
	_, _, err := LoadUint32(EncodeUint64(0xffffffff))
	require.NoError(t, err)

	// Setting bit 32 requires more than 32 bits to represent.
	_, _, err = LoadUint32(EncodeUint64(uint64(1) << 32))
	require.Error(t, err)
}

func TestLoadUint32UnexpectedEOF(t *testing.T) {
	_, _, err := LoadUint32([]byte{0x80})
	require.Error(t, err)
}

func TestDecodeInt33AsInt64(t *testing.T) {
	encoded := EncodeInt64(-5)
	r := NewReader("test", encoded)
	got, n, err := DecodeInt33AsInt64(r)
	require.NoError(t, err)
	require.Equal(t, int64(-5), got)
	require.Equal(t, uint64(len(encoded)), n)
}
