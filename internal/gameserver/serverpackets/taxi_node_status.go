package serverpackets

import (
	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

// OpcodeTaxiNodeStatus is the opcode for TaxiNodeStatus packet (S2C 0x2020).
const OpcodeTaxiNodeStatus = 0x2020

// TaxiNodeStatusLayout: the status bits sit between the two mask runs.
var TaxiNodeStatusLayout = packet.GuidLayout{
	Mask:     []uint8{6, 2, 7, 5, 4, 1, 3, 0},
	MaskRuns: []int{6, 2},
	Bytes:    []uint8{0, 5, 2, 1, 4, 6, 7, 3},
}

// TaxiNodeStatus answers a status query for one flight master.
//
// Layout: mask 6,2,7,5,4,1; bits(status,2); mask 3,0; flush; bytes 0,5,2,1,4,6,7,3.
type TaxiNodeStatus struct {
	UnitGUID packet.Guid
	Status   taxi.NodeStatus
}

// NewTaxiNodeStatus creates TaxiNodeStatus for the given NPC.
func NewTaxiNodeStatus(unit uint64, status taxi.NodeStatus) TaxiNodeStatus {
	return TaxiNodeStatus{UnitGUID: packet.GuidFromUint64(unit), Status: status}
}

// Write serializes TaxiNodeStatus packet to bytes.
func (p TaxiNodeStatus) Write() ([]byte, error) {
	w := packet.NewWriter(16)

	w.WriteUInt16(OpcodeTaxiNodeStatus)
	w.WriteGuidMask(p.UnitGUID, TaxiNodeStatusLayout.MaskRun(0)...)
	w.WriteBits(uint32(p.Status), 2)
	w.WriteGuidMask(p.UnitGUID, TaxiNodeStatusLayout.MaskRun(1)...)
	w.FlushBits()
	w.WriteGuidBytes(p.UnitGUID, TaxiNodeStatusLayout.ByteRun(0)...)

	return w.Bytes(), nil
}
