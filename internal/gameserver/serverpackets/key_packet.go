package serverpackets

import (
	"fmt"

	"github.com/udisondev/skyroute/internal/constants"
	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

// OpcodeKeyPacket is the opcode for KeyPacket (S2C 0x0100).
const OpcodeKeyPacket = 0x0100

// ProtocolVersion is sent in the KeyPacket; clients with another version disconnect.
const ProtocolVersion = 0x01

// KeyPacket opens every session. It is the only packet sent in plaintext;
// everything after it is encrypted with Key.
//
// Packet structure:
//   - opcode (uint16) = 0x0100
//   - protocol version (byte)
//   - session key (16 bytes)
type KeyPacket struct {
	Key []byte
}

// NewKeyPacket creates a KeyPacket for the session key.
func NewKeyPacket(key []byte) KeyPacket {
	return KeyPacket{Key: key}
}

// Write serializes KeyPacket to bytes.
func (p KeyPacket) Write() ([]byte, error) {
	if len(p.Key) != constants.BlowfishKeySize {
		return nil, fmt.Errorf("key packet: session key is %d bytes, want %d", len(p.Key), constants.BlowfishKeySize)
	}
	w := packet.NewWriter(constants.PacketOpcodeSize + 1 + constants.BlowfishKeySize)

	w.WriteUInt16(OpcodeKeyPacket)
	_ = w.WriteByte(ProtocolVersion)
	w.WriteBytes(p.Key)

	return w.Bytes(), nil
}
