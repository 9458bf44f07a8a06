package serverpackets

import (
	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

// OpcodeActivateTaxiReply is the opcode for ActivateTaxiReply packet (S2C 0x2023).
const OpcodeActivateTaxiReply = 0x2023

// ActivateTaxiReply carries the 4-bit reject code of a failed activation.
type ActivateTaxiReply struct {
	Result taxi.ActivateResult
}

// Write serializes ActivateTaxiReply packet to bytes.
func (p ActivateTaxiReply) Write() ([]byte, error) {
	w := packet.NewWriter(3)

	w.WriteUInt16(OpcodeActivateTaxiReply)
	w.WriteBits(uint32(p.Result), 4)
	w.FlushBits()

	return w.Bytes(), nil
}
