package clientpackets

const (
	// OpcodeZoneArrived is the opcode for ZoneArrived packet (C2S 0x0003)
	OpcodeZoneArrived = 0x0003
)

// ZoneArrived is sent when the client finished loading a new map after a
// relocation. Packet has no payload.
type ZoneArrived struct{}

// ParseZoneArrived parses ZoneArrived packet from raw bytes (without opcode).
func ParseZoneArrived(data []byte) (*ZoneArrived, error) {
	return &ZoneArrived{}, nil
}
