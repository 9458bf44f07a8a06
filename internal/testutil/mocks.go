package testutil

import (
	"bytes"
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/udisondev/skyroute/internal/db"
)

// MemoryTaxiRepository: in-memory имплементация db.TaxiRepository для unit тестов.
// Не требует реального PostgreSQL или SQLite.
type MemoryTaxiRepository struct {
	mu      sync.RWMutex
	records map[int64]db.TaxiRecord
	saves   int

	// FailSave, если задан, возвращается из SaveTaxi.
	FailSave error
}

var _ db.TaxiRepository = (*MemoryTaxiRepository)(nil)

// NewMemoryTaxiRepository создаёт пустой репозиторий.
func NewMemoryTaxiRepository() *MemoryTaxiRepository {
	return &MemoryTaxiRepository{
		records: make(map[int64]db.TaxiRecord),
	}
}

// LoadTaxi returns a copy of the stored record, nil if there is none.
func (m *MemoryTaxiRepository) LoadTaxi(_ context.Context, characterID int64) (*db.TaxiRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[characterID]
	if !ok {
		return nil, nil
	}
	rec.KnownMask = bytes.Clone(rec.KnownMask)
	return &rec, nil
}

// SaveTaxi stores a copy of rec.
func (m *MemoryTaxiRepository) SaveTaxi(_ context.Context, characterID int64, rec db.TaxiRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSave != nil {
		return m.FailSave
	}
	rec.KnownMask = bytes.Clone(rec.KnownMask)
	m.records[characterID] = rec
	m.saves++
	return nil
}

// Put seeds a record directly.
func (m *MemoryTaxiRepository) Put(characterID int64, rec db.TaxiRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[characterID] = rec
}

// Record returns the stored record and whether it exists.
func (m *MemoryTaxiRepository) Record(characterID int64) (db.TaxiRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[characterID]
	return rec, ok
}

// SaveCount returns the number of successful SaveTaxi calls.
func (m *MemoryTaxiRepository) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// MockConn is an in-memory net.Conn: writes are counted, reads see EOF.
// After Close both directions fail with net.ErrClosed.
type MockConn struct {
	mu         sync.Mutex
	written    int
	writeCount int
	closed     bool
}

// NewMockConn creates an open MockConn.
func NewMockConn() *MockConn {
	return &MockConn{}
}

func (m *MockConn) Read([]byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, net.ErrClosed
	}
	return 0, io.EOF
}

func (m *MockConn) Write(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, net.ErrClosed
	}
	m.written += len(b)
	m.writeCount++
	return len(b), nil
}

// WriteCount returns the number of successful Write calls.
func (m *MockConn) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeCount
}

// Closed reports whether Close was called.
func (m *MockConn) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockConn) LocalAddr() net.Addr  { return TCPAddr("127.0.0.1:8085") }
func (m *MockConn) RemoteAddr() net.Addr { return TCPAddr("192.168.1.100:12345") }

func (m *MockConn) SetDeadline(time.Time) error      { return nil }
func (m *MockConn) SetReadDeadline(time.Time) error  { return nil }
func (m *MockConn) SetWriteDeadline(time.Time) error { return nil }
