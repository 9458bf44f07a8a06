package clientpackets

import (
	"fmt"

	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

const (
	// OpcodeTaxiNodeStatusQuery is the opcode for TaxiNodeStatusQuery packet (C2S 0x1020)
	OpcodeTaxiNodeStatusQuery = 0x1020
)

// TaxiNodeStatusQueryLayout is the guid layout of TaxiNodeStatusQuery.
var TaxiNodeStatusQueryLayout = packet.GuidLayout{
	Mask:  []uint8{7, 4, 1, 3, 0, 5, 2, 6},
	Bytes: []uint8{7, 1, 5, 2, 4, 0, 6, 3},
}

// TaxiNodeStatusQuery asks whether the NPC's station is known.
// The client sends it for every flight master in view to color the map icon.
type TaxiNodeStatusQuery struct {
	UnitGUID packet.Guid
}

// ParseTaxiNodeStatusQuery parses TaxiNodeStatusQuery packet from raw bytes (without opcode).
func ParseTaxiNodeStatusQuery(data []byte) (*TaxiNodeStatusQuery, error) {
	r := packet.NewReader(data)

	guid, err := TaxiNodeStatusQueryLayout.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading unit guid: %w", err)
	}

	return &TaxiNodeStatusQuery{UnitGUID: guid}, nil
}
