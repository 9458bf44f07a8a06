package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skyroute/internal/constants"
	"github.com/udisondev/skyroute/internal/crypto"
)

var sessionKey = []byte{
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
}

func newCipher(t *testing.T) *crypto.SessionCipher {
	t.Helper()
	c, err := crypto.NewSessionCipher(sessionKey)
	require.NoError(t, err)
	return c
}

func TestWriteReadPacket(t *testing.T) {
	enc := newCipher(t)
	dec := newCipher(t)

	payload := []byte{0x23, 0x20, 0x42}
	buf := make([]byte, 64)
	copy(buf[constants.PacketHeaderSize:], payload)

	var wire bytes.Buffer
	require.NoError(t, WritePacket(&wire, enc, buf, len(payload)))
	assert.Equal(t, constants.PacketHeaderSize+8, wire.Len())

	got, err := ReadPacket(&wire, dec, make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, payload, got[:len(payload)])
}

func TestEncryptInPlace_MatchesWritePacket(t *testing.T) {
	payload := []byte{0xAA, 0xBB, 0xCC, 0xDD}

	buf1 := make([]byte, 64)
	copy(buf1[constants.PacketHeaderSize:], payload)
	n, err := EncryptInPlace(newCipher(t), buf1, len(payload))
	require.NoError(t, err)

	buf2 := make([]byte, 64)
	copy(buf2[constants.PacketHeaderSize:], payload)
	var out bytes.Buffer
	require.NoError(t, WritePacket(&out, newCipher(t), buf2, len(payload)))

	assert.Equal(t, buf1[:n], out.Bytes())
}

func TestEncryptInPlace_BufferTooSmall(t *testing.T) {
	_, err := EncryptInPlace(newCipher(t), make([]byte, 10), 100)
	assert.Error(t, err)
}

func TestPlainPacket(t *testing.T) {
	buf := make([]byte, 32)
	copy(buf[constants.PacketHeaderSize:], []byte{0x00, 0x01, 9, 9})

	var wire bytes.Buffer
	require.NoError(t, WritePlainPacket(&wire, buf, 4))
	assert.Equal(t, []byte{6, 0, 0x00, 0x01, 9, 9}, wire.Bytes())

	got, err := ReadPacket(&wire, nil, make([]byte, 32))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 9, 9}, got)
}

func TestReadPacket_Errors(t *testing.T) {
	tests := []struct {
		name string
		wire []byte
		buf  int
	}{
		{"short header", []byte{5}, 16},
		{"length below header", []byte{1, 0}, 16},
		{"empty payload", []byte{2, 0}, 16},
		{"payload exceeds buffer", []byte{20, 0}, 4},
		{"truncated payload", []byte{10, 0, 1, 2}, 16},
		{"bad checksum", append([]byte{10, 0}, make([]byte, 8)...), 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPacket(bytes.NewReader(tt.wire), newCipher(t), make([]byte, tt.buf))
			assert.Error(t, err)
		})
	}
}
