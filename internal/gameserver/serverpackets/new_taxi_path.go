package serverpackets

import (
	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

// OpcodeNewTaxiPath is the opcode for NewTaxiPath packet (S2C 0x2022).
// Tells the client a new station was discovered. No payload.
const OpcodeNewTaxiPath = 0x2022

// NewTaxiPath is the discovery notification.
type NewTaxiPath struct{}

// Write serializes NewTaxiPath packet to bytes.
func (NewTaxiPath) Write() ([]byte, error) {
	w := packet.NewWriter(2)
	w.WriteUInt16(OpcodeNewTaxiPath)
	return w.Bytes(), nil
}
