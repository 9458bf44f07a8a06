package clientpackets

import (
	"fmt"

	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

const (
	// OpcodeActivateTaxi is the opcode for ActivateTaxi packet (C2S 0x1023)
	OpcodeActivateTaxi = 0x1023
)

// ActivateTaxiLayout is the guid layout of ActivateTaxi.
var ActivateTaxiLayout = packet.GuidLayout{
	Mask:  []uint8{4, 0, 1, 2, 5, 6, 7, 3},
	Bytes: []uint8{1, 0, 6, 5, 2, 4, 3, 7},
}

// ActivateTaxi requests a direct flight between two stations.
// Packet structure: [to:4] [from:4] [guid mask] [guid bytes]
type ActivateTaxi struct {
	To       uint32
	From     uint32
	UnitGUID packet.Guid
}

// ParseActivateTaxi parses ActivateTaxi packet from raw bytes (without opcode).
func ParseActivateTaxi(data []byte) (*ActivateTaxi, error) {
	r := packet.NewReader(data)

	to, err := r.ReadUInt32()
	if err != nil {
		return nil, fmt.Errorf("reading destination node: %w", err)
	}

	from, err := r.ReadUInt32()
	if err != nil {
		return nil, fmt.Errorf("reading origin node: %w", err)
	}

	guid, err := ActivateTaxiLayout.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading unit guid: %w", err)
	}

	return &ActivateTaxi{To: to, From: from, UnitGUID: guid}, nil
}
