package testutil

import (
	"encoding/binary"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/udisondev/skyroute/internal/constants"
	"github.com/udisondev/skyroute/internal/crypto"
	"github.com/udisondev/skyroute/internal/gameserver/clientpackets"
	"github.com/udisondev/skyroute/internal/gameserver/packet"
	"github.com/udisondev/skyroute/internal/protocol"
)

// keyPacketSize: opcode(2) + protocol version(1) + Blowfish key(16).
const keyPacketSize = constants.PacketOpcodeSize + 1 + constants.BlowfishKeySize

// GameClient is a test helper for connecting to the skyroute server.
// Handles session encryption and packet framing.
type GameClient struct {
	t      testing.TB
	conn   net.Conn
	cipher *crypto.SessionCipher
	key    []byte
}

// NewGameClient connects to the server and reads the KeyPacket.
func NewGameClient(t testing.TB, addr string) (*GameClient, error) {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}

	client := &GameClient{
		t:    t,
		conn: NewConnWithDeadline(conn, 5*time.Second),
	}

	// KeyPacket приходит в открытом виде
	if err := client.readKeyPacket(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("reading KeyPacket: %w", err)
	}

	return client, nil
}

// readKeyPacket reads and parses the plaintext KeyPacket (opcode 0x0100).
func (c *GameClient) readKeyPacket() error {
	buf := make([]byte, constants.DefaultReadBufSize)
	payload, err := protocol.ReadPacket(c.conn, nil, buf)
	if err != nil {
		return err
	}
	if len(payload) != keyPacketSize {
		return fmt.Errorf("KeyPacket size %d, want %d", len(payload), keyPacketSize)
	}
	if op := binary.LittleEndian.Uint16(payload); op != 0x0100 {
		return fmt.Errorf("invalid KeyPacket opcode: 0x%04X", op)
	}
	if payload[2] != 0x01 {
		return fmt.Errorf("invalid protocol version: 0x%02X", payload[2])
	}

	c.key = append([]byte(nil), payload[3:]...)
	c.cipher, err = crypto.NewSessionCipher(c.key)
	if err != nil {
		return fmt.Errorf("creating session cipher: %w", err)
	}
	return nil
}

// Send encrypts and writes one payload (opcode included).
func (c *GameClient) Send(payload []byte) error {
	buf := make([]byte, constants.PacketHeaderSize+len(payload)+constants.PacketBufferPadding)
	copy(buf[constants.PacketHeaderSize:], payload)
	if err := protocol.WritePacket(c.conn, c.cipher, buf, len(payload)); err != nil {
		return fmt.Errorf("writing packet 0x%04X: %w", binary.LittleEndian.Uint16(payload), err)
	}
	return nil
}

// ReadPacket reads and decrypts a packet from the server.
// The payload keeps its block padding and checksum at the tail.
func (c *GameClient) ReadPacket() ([]byte, error) {
	buf := make([]byte, constants.DefaultReadBufSize)
	payload, err := protocol.ReadPacket(c.conn, c.cipher, buf)
	if err != nil {
		return nil, fmt.Errorf("reading packet: %w", err)
	}
	return payload, nil
}

// ReadPacketWithOpcode reads a packet, verifies the opcode and returns the body.
func (c *GameClient) ReadPacketWithOpcode(expected uint16) ([]byte, error) {
	payload, err := c.ReadPacket()
	if err != nil {
		return nil, err
	}
	if len(payload) < constants.PacketOpcodeSize {
		return nil, fmt.Errorf("packet too short: %d bytes", len(payload))
	}
	if op := binary.LittleEndian.Uint16(payload); op != expected {
		return nil, fmt.Errorf("unexpected opcode: expected 0x%04X, got 0x%04X", expected, op)
	}
	return payload[constants.PacketOpcodeSize:], nil
}

// Key returns the session key received in the KeyPacket.
func (c *GameClient) Key() []byte {
	return c.key
}

// Close closes the connection.
func (c *GameClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func newPayload(opcode uint16) *packet.Writer {
	w := packet.NewWriter(64)
	w.WriteUInt16(opcode)
	return w
}

// EncodeEnterWorld builds an EnterWorld payload.
func EncodeEnterWorld(characterID int64, name string, team byte) []byte {
	w := newPayload(clientpackets.OpcodeEnterWorld)
	w.WriteLong(characterID)
	w.WriteString(name)
	_ = w.WriteByte(team)
	return w.Bytes()
}

// EncodeMoveToLocation builds a MoveToLocation payload.
func EncodeMoveToLocation(mapID uint32, x, y, z float32) []byte {
	w := newPayload(clientpackets.OpcodeMoveToLocation)
	w.WriteUInt32(mapID)
	w.WriteFloat32(x)
	w.WriteFloat32(y)
	w.WriteFloat32(z)
	return w.Bytes()
}

// EncodeZoneArrived builds a ZoneArrived payload.
func EncodeZoneArrived() []byte {
	return newPayload(clientpackets.OpcodeZoneArrived).Bytes()
}

// EncodeTaxiNodeStatusQuery builds a TaxiNodeStatusQuery payload.
func EncodeTaxiNodeStatusQuery(unit uint64) []byte {
	w := newPayload(clientpackets.OpcodeTaxiNodeStatusQuery)
	clientpackets.TaxiNodeStatusQueryLayout.Write(w, packet.GuidFromUint64(unit))
	return w.Bytes()
}

// EncodeTaxiQueryAvailableNodes builds a TaxiQueryAvailableNodes payload.
func EncodeTaxiQueryAvailableNodes(unit uint64) []byte {
	w := newPayload(clientpackets.OpcodeTaxiQueryAvailableNodes)
	clientpackets.TaxiQueryAvailableNodesLayout.Write(w, packet.GuidFromUint64(unit))
	return w.Bytes()
}

// EncodeActivateTaxi builds an ActivateTaxi payload.
func EncodeActivateTaxi(unit uint64, from, to uint32) []byte {
	w := newPayload(clientpackets.OpcodeActivateTaxi)
	w.WriteUInt32(to)
	w.WriteUInt32(from)
	clientpackets.ActivateTaxiLayout.Write(w, packet.GuidFromUint64(unit))
	return w.Bytes()
}

// EncodeActivateTaxiExpress builds an ActivateTaxiExpress payload.
func EncodeActivateTaxiExpress(unit uint64, nodes []uint32) []byte {
	g := packet.GuidFromUint64(unit)
	w := newPayload(clientpackets.OpcodeActivateTaxiExpress)
	layout := clientpackets.ActivateTaxiExpressLayout
	w.WriteGuidMask(g, layout.MaskRun(0)...)
	w.WriteBits(uint32(len(nodes)), 22)
	w.WriteGuidMask(g, layout.MaskRun(1)...)
	w.FlushBits()
	w.WriteGuidBytes(g, layout.ByteRun(0)...)
	for _, n := range nodes {
		w.WriteUInt32(n)
	}
	w.WriteGuidBytes(g, layout.ByteRun(1)...)
	return w.Bytes()
}

// EncodeMoveSplineDone builds a MoveSplineDone payload.
func EncodeMoveSplineDone() []byte {
	return newPayload(clientpackets.OpcodeMoveSplineDone).Bytes()
}

// EncodeSetTaxiBenchmarkMode builds a SetTaxiBenchmarkMode payload.
func EncodeSetTaxiBenchmarkMode(on bool) []byte {
	w := newPayload(clientpackets.OpcodeSetTaxiBenchmarkMode)
	var b byte
	if on {
		b = 1
	}
	_ = w.WriteByte(b)
	return w.Bytes()
}
