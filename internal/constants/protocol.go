package constants

// Константы транспортного уровня skyroute.

// Blowfish Cipher Constants
const (
	// BlowfishKeySize is the session key size in bytes (128-bit)
	BlowfishKeySize = 16

	// BlowfishBlockSize is the Blowfish block size in bytes (64-bit)
	BlowfishBlockSize = 8
)

// Packet Structure Constants
const (
	// PacketHeaderSize is the frame length header size (2 bytes, little-endian uint16).
	// The length includes the header itself.
	PacketHeaderSize = 2

	// PacketOpcodeSize is the opcode prefix of every payload (2 bytes LE)
	PacketOpcodeSize = 2

	// PacketChecksumSize is the XOR checksum size in bytes (32-bit)
	PacketChecksumSize = 4

	// PacketBufferPadding is the extra buffer space for checksum and block padding
	PacketBufferPadding = 16

	// MaxPacketSize is the largest frame the uint16 header can describe
	MaxPacketSize = 0xFFFF
)

// Buffer Pool Size Constants
const (
	// DefaultSendBufSize is the send buffer size per client connection.
	// ShowTaxiNodes is the largest message: ~12 bytes of header fields + the mask.
	DefaultSendBufSize = 1024

	// DefaultReadBufSize is the read buffer size per client connection
	DefaultReadBufSize = 4096
)
