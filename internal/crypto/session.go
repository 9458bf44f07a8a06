package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blowfish"

	"github.com/udisondev/skyroute/internal/constants"
)

// SessionCipher шифрует кадры сессии после KeyPacket.
// Обе стороны используют один ключ: checksum + паддинг до 8 байт + Blowfish ECB.
type SessionCipher struct {
	block *blowfish.Cipher
}

// NewSessionKey returns a random 16-byte session key.
func NewSessionKey() ([]byte, error) {
	key := make([]byte, constants.BlowfishKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating session key: %w", err)
	}
	return key, nil
}

// NewSessionCipher creates a cipher for the given session key.
func NewSessionCipher(key []byte) (*SessionCipher, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating blowfish cipher: %w", err)
	}
	return &SessionCipher{block: block}, nil
}

// EncryptedSize returns the on-wire size of a payload of n bytes.
func EncryptedSize(n int) int {
	size := n + constants.PacketChecksumSize
	if rem := size % constants.BlowfishBlockSize; rem != 0 {
		size += constants.BlowfishBlockSize - rem
	}
	return size
}

// Encrypt appends the checksum, pads and encrypts data[offset:offset+size] in-place.
// Returns the encrypted size; data must have room for it.
func (s *SessionCipher) Encrypt(data []byte, offset, size int) (int, error) {
	encSize := EncryptedSize(size)
	if offset < 0 || offset+encSize > len(data) {
		return 0, fmt.Errorf("encrypt packet: buffer too small (need %d, have %d)", offset+encSize, len(data))
	}
	frame := data[offset : offset+encSize]
	clear(frame[size:])
	AppendChecksum(frame, 0, encSize)
	for i := 0; i < encSize; i += constants.BlowfishBlockSize {
		s.block.Encrypt(frame[i:], frame[i:])
	}
	return encSize, nil
}

// Decrypt decrypts data[offset:offset+size] in-place.
// Returns false when the checksum does not match.
func (s *SessionCipher) Decrypt(data []byte, offset, size int) (bool, error) {
	if size%constants.BlowfishBlockSize != 0 {
		return false, fmt.Errorf("decrypt packet: size %d is not a multiple of %d", size, constants.BlowfishBlockSize)
	}
	if offset < 0 || offset+size > len(data) {
		return false, fmt.Errorf("decrypt packet: range %d+%d exceeds buffer %d", offset, size, len(data))
	}
	frame := data[offset : offset+size]
	for i := 0; i < size; i += constants.BlowfishBlockSize {
		s.block.Decrypt(frame[i:], frame[i:])
	}
	return VerifyChecksum(frame, 0, size), nil
}

// AppendChecksum stores the XOR of the preceding 32-bit words in the last
// word of data[offset:offset+size]. size must be a multiple of 4.
func AppendChecksum(data []byte, offset, size int) {
	last := offset + size - constants.PacketChecksumSize
	var sum uint32
	for i := offset; i < last; i += 4 {
		sum ^= binary.LittleEndian.Uint32(data[i:])
	}
	binary.LittleEndian.PutUint32(data[last:], sum)
}

// VerifyChecksum reports whether the words of the range XOR to zero.
func VerifyChecksum(data []byte, offset, size int) bool {
	if size%4 != 0 || size <= constants.PacketChecksumSize {
		return false
	}
	var sum uint32
	for i := offset; i < offset+size; i += 4 {
		sum ^= binary.LittleEndian.Uint32(data[i:])
	}
	return sum == 0
}
