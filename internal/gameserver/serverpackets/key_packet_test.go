package serverpackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPacket_Write(t *testing.T) {
	key := []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10,
	}

	data, err := NewKeyPacket(key).Write()
	require.NoError(t, err)

	require.Len(t, data, 19)
	assert.Equal(t, uint16(OpcodeKeyPacket), opcodeOf(t, data))
	assert.Equal(t, byte(ProtocolVersion), data[2])
	assert.Equal(t, key, data[3:])
}

func TestKeyPacket_RejectsBadKey(t *testing.T) {
	for _, n := range []int{0, 8, 32} {
		_, err := NewKeyPacket(make([]byte, n)).Write()
		assert.Error(t, err, "key of %d bytes", n)
	}
}
