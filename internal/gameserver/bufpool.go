package gameserver

import (
	"fmt"
	"sync"

	"github.com/udisondev/skyroute/internal/constants"
	"github.com/udisondev/skyroute/internal/crypto"
	"github.com/udisondev/skyroute/internal/protocol"
)

// BytePool is a pool of reusable []byte buffers.
// Reduces GC pressure by reusing allocations.
type BytePool struct {
	pool sync.Pool
}

// NewBytePool creates a buffer pool with the specified default capacity for new slices.
func NewBytePool(defaultCap int) *BytePool {
	p := &BytePool{}
	p.pool.New = func() any {
		return make([]byte, 0, defaultCap)
	}
	return p
}

// Get returns a slice of length size, preferably from the pool.
func (p *BytePool) Get(size int) []byte {
	b := p.pool.Get().([]byte)
	if cap(b) < size {
		p.pool.Put(b)
		return make([]byte, size)
	}
	b = b[:size]
	clear(b)
	return b
}

// Put returns the slice to the pool for reuse.
func (p *BytePool) Put(b []byte) {
	if b == nil {
		return
	}
	p.pool.Put(b[:0])
}

// EncryptToPooled copies payload[:n] into a pooled buffer, encrypts it and
// returns the framed packet. OWNERSHIP: the caller must hand the result to
// GameClient.Send/SendSync (which returns it to the pool) or Put it back.
func (p *BytePool) EncryptToPooled(enc *crypto.SessionCipher, payload []byte, n int) ([]byte, error) {
	if n > len(payload) {
		return nil, fmt.Errorf("payload length %d exceeds buffer %d", n, len(payload))
	}
	size := constants.PacketHeaderSize + crypto.EncryptedSize(n) + constants.PacketBufferPadding
	buf := p.Get(size)
	copy(buf[constants.PacketHeaderSize:], payload[:n])

	total, err := protocol.EncryptInPlace(enc, buf, n)
	if err != nil {
		p.Put(buf)
		return nil, fmt.Errorf("encrypting packet: %w", err)
	}
	return buf[:total], nil
}
