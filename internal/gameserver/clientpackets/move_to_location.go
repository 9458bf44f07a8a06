package clientpackets

import (
	"fmt"

	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

// OpcodeMoveToLocation is the opcode for MoveToLocation packet (C2S 0x0002)
const OpcodeMoveToLocation = 0x0002

// moveToLocationSize: map(4) + x, y, z (3*4).
const moveToLocationSize = 16

// MoveToLocation reports the client's position on foot.
// Сервер доверяет позиции только для проверок дистанции до NPC.
type MoveToLocation struct {
	Destination taxi.Point
}

// ParseMoveToLocation parses MoveToLocation packet from raw bytes (without opcode).
func ParseMoveToLocation(data []byte) (*MoveToLocation, error) {
	if len(data) < moveToLocationSize {
		return nil, fmt.Errorf("move to location: %d bytes, need %d: %w", len(data), moveToLocationSize, packet.ErrMalformed)
	}
	r := packet.NewReader(data)

	var pt taxi.Point
	var err error
	if pt.MapID, err = r.ReadUInt32(); err != nil {
		return nil, err
	}
	for _, c := range []*float32{&pt.X, &pt.Y, &pt.Z} {
		if *c, err = r.ReadFloat32(); err != nil {
			return nil, err
		}
	}
	return &MoveToLocation{Destination: pt}, nil
}
