package clientpackets

import (
	"fmt"

	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

const (
	// OpcodeEnterWorld is the opcode for EnterWorld packet (C2S 0x0001)
	OpcodeEnterWorld = 0x0001
)

// EnterWorld represents the EnterWorld packet sent by client.
// Client sends this once per connection to spawn its character.
type EnterWorld struct {
	CharacterID int64
	Name        string
	Team        byte // 0=alliance, 1=horde
}

// ParseEnterWorld parses EnterWorld packet from raw bytes (without opcode).
// Packet structure: [characterID:8] [name:utf16z] [team:1]
func ParseEnterWorld(data []byte) (*EnterWorld, error) {
	r := packet.NewReader(data)

	characterID, err := r.ReadLong()
	if err != nil {
		return nil, fmt.Errorf("reading characterID: %w", err)
	}

	name, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading name: %w", err)
	}

	team, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading team: %w", err)
	}

	return &EnterWorld{
		CharacterID: characterID,
		Name:        name,
		Team:        team,
	}, nil
}
