package serverpackets

import (
	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

// OpcodeNewWorld is the opcode for NewWorld packet (S2C 0x0101).
// Tells the client to load a map and place the character. When the load
// completes the client answers with ZoneArrived.
const OpcodeNewWorld = 0x0101

// NewWorld relocates the character, possibly to another map.
//
// Packet structure:
//   - opcode (uint16) = 0x0101
//   - map (uint32)
//   - x, y, z (float32)
type NewWorld struct {
	Destination taxi.Point
}

// Write serializes NewWorld packet to bytes.
func (p NewWorld) Write() ([]byte, error) {
	// 2 opcode + 4 map + 3*4 coordinates = 18 bytes
	w := packet.NewWriter(18)

	w.WriteUInt16(OpcodeNewWorld)
	w.WriteUInt32(p.Destination.MapID)
	w.WriteFloat32(p.Destination.X)
	w.WriteFloat32(p.Destination.Y)
	w.WriteFloat32(p.Destination.Z)

	return w.Bytes(), nil
}
