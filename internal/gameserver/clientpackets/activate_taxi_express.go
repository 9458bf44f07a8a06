package clientpackets

import (
	"fmt"

	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

const (
	// OpcodeActivateTaxiExpress is the opcode for ActivateTaxiExpress packet (C2S 0x1022)
	OpcodeActivateTaxiExpress = 0x1022

	expressCountBits = 22
)

// ActivateTaxiExpressLayout: the count sits between the mask runs,
// the node list between the byte runs.
var ActivateTaxiExpressLayout = packet.GuidLayout{
	Mask:     []uint8{6, 7, 2, 0, 4, 3, 1, 5},
	MaskRuns: []int{2, 6},
	Bytes:    []uint8{2, 7, 1, 0, 5, 3, 6, 4},
	ByteRuns: []int{3, 5},
}

// ActivateTaxiExpress requests a multi-hop flight. Nodes[0] is the origin.
//
// Layout: mask 6,7; bits(count,22); mask 2,0,4,3,1,5; bytes 2,7,1;
// count×uint32 node; bytes 0,5,3,6,4.
type ActivateTaxiExpress struct {
	UnitGUID packet.Guid
	Nodes    []uint32
}

// ParseActivateTaxiExpress parses ActivateTaxiExpress packet from raw bytes (without opcode).
// The node count is not range checked here beyond the message length.
func ParseActivateTaxiExpress(data []byte) (*ActivateTaxiExpress, error) {
	r := packet.NewReader(data)
	var guid packet.Guid

	if err := r.ReadGuidMask(&guid, ActivateTaxiExpressLayout.MaskRun(0)...); err != nil {
		return nil, err
	}
	count, err := r.ReadBits(expressCountBits)
	if err != nil {
		return nil, fmt.Errorf("reading node count: %w", err)
	}
	if err := r.ReadGuidMask(&guid, ActivateTaxiExpressLayout.MaskRun(1)...); err != nil {
		return nil, err
	}
	if err := r.ReadGuidBytes(&guid, ActivateTaxiExpressLayout.ByteRun(0)...); err != nil {
		return nil, err
	}

	// Guard the allocation: every node needs 4 more bytes.
	if int(count) > r.Remaining()/4 {
		return nil, fmt.Errorf("node count %d with %d bytes left: %w", count, r.Remaining(), packet.ErrMalformed)
	}
	nodes := make([]uint32, count)
	for i := range nodes {
		nodes[i], err = r.ReadUInt32()
		if err != nil {
			return nil, fmt.Errorf("reading node %d: %w", i, err)
		}
	}

	if err := r.ReadGuidBytes(&guid, ActivateTaxiExpressLayout.ByteRun(1)...); err != nil {
		return nil, err
	}

	return &ActivateTaxiExpress{UnitGUID: guid, Nodes: nodes}, nil
}
