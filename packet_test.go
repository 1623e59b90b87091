package copperwire

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The end-to-end shape most device protocols reduce to: a fixed
// header, a tagged payload, a trailing checksum.
func buildPacketSchema(t *testing.T) (packet, header *Record, payload *Choice) {
	t.Helper()

	header, err := NewRecord(
		Member{Name: "barker", Coder: mustUint(t, UintConfig{Width: 4, Default: 0xcafebeef})},
		Member{Name: "size", Coder: mustUint(t, UintConfig{Width: 2})},
	)
	require.NoError(t, err)

	ping, err := NewRecord(
		Member{Name: "token", Coder: mustUint(t, UintConfig{Width: 1})},
	)
	require.NoError(t, err)
	pong, err := NewRecord(
		Member{Name: "token", Coder: mustUint(t, UintConfig{Width: 1})},
	)
	require.NoError(t, err)

	payload, err = NewChoice(map[uint64]Coder{
		0x10: ping,
		0x11: pong,
	}, ChoiceConfig{})
	require.NoError(t, err)

	packet, err = NewRecord(
		Member{Name: "header", Coder: header},
		Member{Name: "payload", Coder: payload},
		Member{Name: "crc", Coder: mustUint(t, UintConfig{Width: 4})},
	)
	require.NoError(t, err)
	return packet, header, payload
}

func TestPacketRoundTrip(t *testing.T) {
	packet, header, payload := buildPacketSchema(t)

	head, err := header.NewValue(map[string]any{"size": uint64(2)})
	require.NoError(t, err)
	assert.Equal(t, uint64(0xcafebeef), head["barker"])

	body, err := payload.NewValue(0x11, RecordValue{"token": uint64(0x7c)})
	require.NoError(t, err)

	value, err := packet.NewValue(map[string]any{
		"header":  head,
		"payload": body,
		"crc":     uint64(0x1234abcd),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := packet.WriteTo(value, &buf)
	require.NoError(t, err)

	// 4 (barker) + 2 (size) + 1 (tag) + 1 (token) + 4 (crc).
	size, fixed := SizeOf(packet)
	require.True(t, fixed)
	assert.Equal(t, 12, size)
	assert.Equal(t, size, n)
	assert.Equal(t, []byte{
		0xca, 0xfe, 0xbe, 0xef,
		0x00, 0x02,
		0x11,
		0x7c,
		0x12, 0x34, 0xab, 0xcd,
	}, buf.Bytes())

	decoded, err := packet.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	if diff := cmp.Diff(value, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSizeOf(t *testing.T) {
	u := mustUint(t, UintConfig{Width: 8})
	size, ok := SizeOf(u)
	require.True(t, ok)
	assert.Equal(t, 8, size)

	arr, err := NewArray(u, 4)
	require.NoError(t, err)
	size, ok = SizeOf(arr)
	require.True(t, ok)
	assert.Equal(t, 32, size)

	varying, err := NewSequence(u, SequenceConfig{
		MaxLength:     ptr(uint64(4)),
		IncludeLength: true,
	})
	require.NoError(t, err)
	_, ok = SizeOf(varying)
	assert.False(t, ok)

	fixedStr := mustString(t, SequenceConfig{MinLength: 3, MaxLength: ptr(uint64(3))})
	size, ok = SizeOf(fixedStr)
	require.True(t, ok)
	assert.Equal(t, 3, size)

	// A choice is fixed only when all variants share one size.
	even, err := NewChoice(map[uint64]Coder{
		0x01: mustUint(t, UintConfig{Width: 2}),
		0x02: mustUint(t, UintConfig{Width: 2, ByteOrder: LSBFirst}),
	}, ChoiceConfig{})
	require.NoError(t, err)
	size, ok = SizeOf(even)
	require.True(t, ok)
	assert.Equal(t, 3, size)

	uneven, err := NewChoice(map[uint64]Coder{
		0x01: mustUint(t, UintConfig{Width: 2}),
		0x02: mustUint(t, UintConfig{Width: 4}),
	}, ChoiceConfig{})
	require.NoError(t, err)
	_, ok = SizeOf(uneven)
	assert.False(t, ok)
}
