package clientpackets

import (
	"fmt"

	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

const (
	// OpcodeTaxiQueryAvailableNodes is the opcode for TaxiQueryAvailableNodes packet (C2S 0x1021)
	OpcodeTaxiQueryAvailableNodes = 0x1021
)

// TaxiQueryAvailableNodesLayout is the guid layout of TaxiQueryAvailableNodes.
var TaxiQueryAvailableNodesLayout = packet.GuidLayout{
	Mask:  []uint8{7, 1, 0, 4, 2, 5, 6, 3},
	Bytes: []uint8{0, 3, 7, 5, 2, 6, 4, 1},
}

// TaxiQueryAvailableNodes is sent when the player talks to a flight master.
type TaxiQueryAvailableNodes struct {
	UnitGUID packet.Guid
}

// ParseTaxiQueryAvailableNodes parses TaxiQueryAvailableNodes packet from raw bytes (without opcode).
func ParseTaxiQueryAvailableNodes(data []byte) (*TaxiQueryAvailableNodes, error) {
	r := packet.NewReader(data)

	guid, err := TaxiQueryAvailableNodesLayout.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading unit guid: %w", err)
	}

	return &TaxiQueryAvailableNodes{UnitGUID: guid}, nil
}
