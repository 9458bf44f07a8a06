package clientpackets

import (
	"fmt"

	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

const (
	// OpcodeSetTaxiBenchmarkMode is the opcode for SetTaxiBenchmarkMode packet (C2S 0x1025)
	OpcodeSetTaxiBenchmarkMode = 0x1025
)

// SetTaxiBenchmarkMode toggles benchmark mode. Any non-zero byte means on.
type SetTaxiBenchmarkMode struct {
	Enabled bool
}

// ParseSetTaxiBenchmarkMode parses SetTaxiBenchmarkMode packet from raw bytes (without opcode).
func ParseSetTaxiBenchmarkMode(data []byte) (*SetTaxiBenchmarkMode, error) {
	r := packet.NewReader(data)

	mode, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading mode: %w", err)
	}

	return &SetTaxiBenchmarkMode{Enabled: mode != 0}, nil
}
