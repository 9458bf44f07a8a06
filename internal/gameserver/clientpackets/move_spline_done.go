package clientpackets

const (
	// OpcodeMoveSplineDone is the opcode for MoveSplineDone packet (C2S 0x1024)
	OpcodeMoveSplineDone = 0x1024
)

// MoveSplineDone reports that the client finished animating the current path.
// Packet has no payload.
type MoveSplineDone struct{}

// ParseMoveSplineDone parses MoveSplineDone packet from raw bytes (without opcode).
func ParseMoveSplineDone(data []byte) (*MoveSplineDone, error) {
	return &MoveSplineDone{}, nil
}
