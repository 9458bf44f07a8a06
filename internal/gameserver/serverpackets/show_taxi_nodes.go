package serverpackets

import (
	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

// OpcodeShowTaxiNodes is the opcode for ShowTaxiNodes packet (S2C 0x2021).
const OpcodeShowTaxiNodes = 0x2021

const taxiMaskSizeBits = 24

// ShowTaxiNodesLayout: the current node splits the byte order in two runs.
var ShowTaxiNodesLayout = packet.GuidLayout{
	Mask:     []uint8{3, 0, 4, 2, 1, 7, 6, 5},
	Bytes:    []uint8{0, 3, 5, 2, 6, 1, 7, 4},
	ByteRuns: []int{2, 6},
}

// ShowTaxiNodes opens the flight map.
//
// Layout: bit(show); if show: mask 3,0,4,2,1,7,6,5; bits(MaskSize,24);
// if show: bytes 0,3; uint32 current node; bytes 5,2,6,1,7,4;
// then MaskSize mask bytes.
//
// Show=false sends the mask alone (no window, no dispatcher).
type ShowTaxiNodes struct {
	Show        bool
	UnitGUID    packet.Guid
	CurrentNode taxi.DestinationID
	Mask        [taxi.MaskSize]byte
}

// NewShowTaxiNodes creates the menu for a dispatcher standing at current.
func NewShowTaxiNodes(unit uint64, current taxi.DestinationID, mask [taxi.MaskSize]byte) ShowTaxiNodes {
	return ShowTaxiNodes{
		Show:        true,
		UnitGUID:    packet.GuidFromUint64(unit),
		CurrentNode: current,
		Mask:        mask,
	}
}

// Write serializes ShowTaxiNodes packet to bytes.
func (p ShowTaxiNodes) Write() ([]byte, error) {
	// opcode + bits + guid + node + mask
	w := packet.NewWriter(2 + 4 + 8 + 4 + taxi.MaskSize)

	w.WriteUInt16(OpcodeShowTaxiNodes)
	w.WriteBit(p.Show)
	if p.Show {
		w.WriteGuidMask(p.UnitGUID, ShowTaxiNodesLayout.MaskRun(0)...)
	}
	w.WriteBits(taxi.MaskSize, taxiMaskSizeBits)
	w.FlushBits()

	if p.Show {
		w.WriteGuidBytes(p.UnitGUID, ShowTaxiNodesLayout.ByteRun(0)...)
		w.WriteUInt32(uint32(p.CurrentNode))
		w.WriteGuidBytes(p.UnitGUID, ShowTaxiNodesLayout.ByteRun(1)...)
	}
	w.WriteBytes(p.Mask[:])

	return w.Bytes(), nil
}
