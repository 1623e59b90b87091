package schemafile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/copperwire"
)

const packetDoc = `
types:
  status:
    enum:
      members:
        idle: 0x00
        active: 0x05
      default: active
  reading:
    record:
      - name: sensor
        type: {uint: {width: 1}}
      - name: value
        type: {int: {width: 2, byte_order: lsb}}
  header:
    record:
      - name: barker
        type: {uint: {width: 4, default: 0xcafebeef}}
      - name: size
        type: {uint: {width: 2}}
  payload:
    choice:
      tag_width: 1
      variants:
        0x10: {ref: reading}
        0x20: {bool: {default: true}}
  packet:
    record:
      - name: header
        type: {ref: header}
      - name: status
        type: {ref: status}
      - name: ok
        type: {bool: {}}
      - name: name
        type:
          string: {max_length: 255, include_length: true}
      - name: readings
        type:
          sequence:
            of: {ref: reading}
            min_length: 0
            max_length: 8
            include_length: true
      - name: checksum
        type:
          array:
            of: {uint: {width: 1}}
            size: 4
`

func loadPacketSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := Load(strings.NewReader(packetDoc))
	require.NoError(t, err)
	return s
}

func TestLoadDeclarationOrder(t *testing.T) {
	s := loadPacketSchema(t)
	assert.Equal(t,
		[]string{"status", "reading", "header", "payload", "packet"},
		s.Types())
}

func TestLoadCompiledTypes(t *testing.T) {
	s := loadPacketSchema(t)

	status, ok := s.Type("status")
	require.True(t, ok)
	enum, ok := status.(*copperwire.Enum)
	require.True(t, ok)
	assert.Equal(t, uint64(0x05), enum.DefaultValue())

	header, ok := s.Type("header")
	require.True(t, ok)
	size, fixed := copperwire.SizeOf(header)
	require.True(t, fixed)
	assert.Equal(t, 6, size)

	payload, ok := s.Type("payload")
	require.True(t, ok)
	choice, ok := payload.(*copperwire.Choice)
	require.True(t, ok)
	assert.Equal(t, []uint64{0x10, 0x20}, choice.Tags())
	assert.Equal(t, 1, choice.TagWidth())

	_, ok = s.Type("missing")
	assert.False(t, ok)
}

func TestLoadedSchemaRoundTrip(t *testing.T) {
	s := loadPacketSchema(t)
	coder, ok := s.Type("packet")
	require.True(t, ok)
	packet := coder.(*copperwire.Record)

	value, err := packet.NewValue(map[string]any{
		"status": uint64(0x00),
		"ok":     true,
		"name":   []byte("unit-7"),
		"readings": []any{
			copperwire.RecordValue{"sensor": uint64(2), "value": int64(-40)},
		},
		"checksum": []any{uint64(1), uint64(2), uint64(3), uint64(4)},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = packet.WriteTo(value, &buf)
	require.NoError(t, err)

	decoded, err := packet.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	got := decoded.(copperwire.RecordValue)
	assert.Equal(t, uint64(0xcafebeef), got["header"].(copperwire.RecordValue)["barker"])
	assert.Equal(t, []byte("unit-7"), got["name"])
	assert.Equal(t, value["readings"], got["readings"])
}

func TestLoadRefOrder(t *testing.T) {
	_, err := Load(strings.NewReader(`
types:
  packet:
    record:
      - name: head
        type: {ref: header}
  header:
    record:
      - name: size
        type: {uint: {width: 2}}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ref header")
}

func TestLoadBadKinds(t *testing.T) {
	_, err := Load(strings.NewReader(`
types:
  both:
    uint: {width: 1}
    bool: {}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one kind")

	_, err = Load(strings.NewReader(`
types:
  neither: {}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one kind")
}

func TestLoadBadByteOrder(t *testing.T) {
	_, err := Load(strings.NewReader(`
types:
  x:
    uint: {width: 2, byte_order: middle}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "byte order")
}

func TestLoadDefinitionErrorsSurface(t *testing.T) {
	_, err := Load(strings.NewReader(`
types:
  x:
    uint: {width: 3}
`))
	require.Error(t, err)
	var defErr *copperwire.DefinitionError
	require.ErrorAs(t, err, &defErr)

	_, err = Load(strings.NewReader(`
types:
  e:
    enum:
      members: {big: 300}
      width: 1
`))
	require.Error(t, err)
	require.ErrorAs(t, err, &defErr)
}

func TestLoadEnumDefaultMustBeMember(t *testing.T) {
	_, err := Load(strings.NewReader(`
types:
  e:
    enum:
      members: {idle: 0}
      default: warp
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a member")
}
