package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/udisondev/skyroute/internal/constants"
	"github.com/udisondev/skyroute/internal/crypto"
)

// EncryptInPlace encrypts the payload at buf[PacketHeaderSize:] and fills in the
// length header. Returns the full frame length.
func EncryptInPlace(enc *crypto.SessionCipher, buf []byte, payloadLen int) (int, error) {
	needed := constants.PacketHeaderSize + payloadLen + constants.PacketBufferPadding
	if len(buf) < needed {
		return 0, fmt.Errorf("encrypt packet: buffer too small (need %d, have %d)", needed, len(buf))
	}

	encSize, err := enc.Encrypt(buf, constants.PacketHeaderSize, payloadLen)
	if err != nil {
		return 0, err
	}

	totalLen := constants.PacketHeaderSize + encSize
	if totalLen > constants.MaxPacketSize {
		return 0, fmt.Errorf("encrypt packet: frame %d exceeds %d", totalLen, constants.MaxPacketSize)
	}
	binary.LittleEndian.PutUint16(buf[:constants.PacketHeaderSize], uint16(totalLen))
	return totalLen, nil
}

// WritePacket encrypts payload in-place and writes the frame to w.
// Precondition: payload lives at buf[constants.PacketHeaderSize : constants.PacketHeaderSize+payloadLen].
func WritePacket(w io.Writer, enc *crypto.SessionCipher, buf []byte, payloadLen int) error {
	totalLen, err := EncryptInPlace(enc, buf, payloadLen)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf[:totalLen]); err != nil {
		return fmt.Errorf("writing packet: %w", err)
	}
	return nil
}

// WritePlainPacket writes an unencrypted frame (KeyPacket only).
func WritePlainPacket(w io.Writer, buf []byte, payloadLen int) error {
	totalLen := constants.PacketHeaderSize + payloadLen
	if len(buf) < totalLen {
		return fmt.Errorf("write packet: buffer too small (need %d, have %d)", totalLen, len(buf))
	}
	if totalLen > constants.MaxPacketSize {
		return fmt.Errorf("write packet: frame %d exceeds %d", totalLen, constants.MaxPacketSize)
	}
	binary.LittleEndian.PutUint16(buf[:constants.PacketHeaderSize], uint16(totalLen))
	if _, err := w.Write(buf[:totalLen]); err != nil {
		return fmt.Errorf("writing packet: %w", err)
	}
	return nil
}

// ReadPacket reads one frame from r into buf.
// Returns a subslice of buf with the payload (without the length header).
// A nil enc reads a plaintext frame. An encrypted payload keeps its padding
// and checksum at the tail; opcodes parse from the front.
func ReadPacket(r io.Reader, enc *crypto.SessionCipher, buf []byte) ([]byte, error) {
	var header [constants.PacketHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading packet header: %w", err)
	}

	totalLen := int(binary.LittleEndian.Uint16(header[:]))
	if totalLen < constants.PacketHeaderSize {
		return nil, fmt.Errorf("invalid packet length: %d", totalLen)
	}

	payloadLen := totalLen - constants.PacketHeaderSize
	if payloadLen == 0 {
		return nil, fmt.Errorf("empty packet")
	}
	if payloadLen > len(buf) {
		return nil, fmt.Errorf("packet payload %d exceeds buffer size %d", payloadLen, len(buf))
	}

	payload := buf[:payloadLen]
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("reading packet payload: %w", err)
	}
	if enc == nil {
		return payload, nil
	}

	ok, err := enc.Decrypt(payload, 0, payloadLen)
	if err != nil {
		return nil, fmt.Errorf("decrypting packet: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("packet checksum verification failed")
	}
	return payload, nil
}
