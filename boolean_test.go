package copperwire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooleanEncoding(t *testing.T) {
	b := NewBoolean(false)
	cases := []struct {
		value    any
		expected byte
	}{
		{true, 0x01},
		{false, 0x00},
		{0, 0x00},
		{1, 0x01},
		{255, 0x01},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		n, err := b.WriteTo(tc.value, &buf)
		require.NoError(t, err, "value %v", tc.value)
		assert.Equal(t, 1, n)
		assert.Equal(t, []byte{tc.expected}, buf.Bytes(), "value %v", tc.value)
	}

	var valErr *ValidationError
	_, err := b.WriteTo("yes", &bytes.Buffer{})
	require.ErrorAs(t, err, &valErr)
}

func TestBooleanDecoding(t *testing.T) {
	b := NewBoolean(false)
	cases := []struct {
		encoded  []byte
		expected bool
	}{
		{[]byte{0x01, 0xff, 0xff}, true},
		{[]byte{0x00, 0xff, 0xff}, false},
		{[]byte{0x7a}, true}, // any non-zero byte is true
	}
	for _, tc := range cases {
		src := bytes.NewReader(tc.encoded)
		decoded, err := b.ReadFrom(src)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, decoded)
		// Only one byte belongs to the boolean.
		assert.Equal(t, len(tc.encoded)-1, src.Len())
	}

	var decErr *DecodeError
	_, err := b.ReadFrom(bytes.NewReader(nil))
	require.ErrorAs(t, err, &decErr)
}

func TestBooleanDefault(t *testing.T) {
	assert.Equal(t, false, NewBoolean(false).DefaultValue())
	assert.Equal(t, true, NewBoolean(true).DefaultValue())
}
