package gameserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/skyroute/internal/crypto"
	"github.com/udisondev/skyroute/internal/game/motion"
	"github.com/udisondev/skyroute/internal/model"
)

// Fallbacks for zero config values.
const (
	defaultSendQueueSize = 256
	defaultWriteTimeout  = 5 * time.Second
	defaultReadTimeout   = 120 * time.Second
)

var (
	errSendQueueFull = errors.New("send queue full")
	errClientClosed  = errors.New("client closed")
)

// ServerPacket is anything that serializes into one outgoing payload.
type ServerPacket interface {
	Write() ([]byte, error)
}

// GameClient represents a single game client connection.
type GameClient struct {
	conn   net.Conn
	ip     string
	cipher *crypto.SessionCipher

	// state использует atomic.Int32 для lock-free reads в hot path
	state atomic.Int32

	// turn сериализует обработку пакетов и тики полёта одного игрока.
	// Контроллер маршрутов требует, чтобы сигналы приходили по одному.
	turn sync.Mutex

	// mu защищает activePlayer и flight (редкие операции)
	mu           sync.Mutex
	activePlayer *model.Player
	flight       *motion.Flight

	// Исходящая очередь: зашифрованные кадры из writePool
	sendCh    chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once

	writePool    *BytePool
	writeTimeout time.Duration
}

// NewGameClient wraps conn with a session cipher keyed by sessionKey.
// Zero queue size or timeout fall back to the defaults.
func NewGameClient(conn net.Conn, sessionKey []byte, writePool *BytePool, sendQueueSize int, writeTimeout time.Duration) (*GameClient, error) {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return nil, fmt.Errorf("splitting host port: %w", err)
	}

	cipher, err := crypto.NewSessionCipher(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("creating session cipher: %w", err)
	}

	if sendQueueSize <= 0 {
		sendQueueSize = defaultSendQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	client := &GameClient{
		conn:         conn,
		ip:           host,
		cipher:       cipher,
		sendCh:       make(chan []byte, sendQueueSize),
		closeCh:      make(chan struct{}),
		writePool:    writePool,
		writeTimeout: writeTimeout,
	}
	client.state.Store(int32(ClientStateConnected))
	return client, nil
}

// Conn returns the underlying network connection.
func (c *GameClient) Conn() net.Conn {
	return c.conn
}

// IP returns the client's remote IP address.
func (c *GameClient) IP() string {
	return c.ip
}

// Cipher returns the session cipher for this client.
func (c *GameClient) Cipher() *crypto.SessionCipher {
	return c.cipher
}

// State returns the current connection state.
func (c *GameClient) State() ClientConnectionState {
	return ClientConnectionState(c.state.Load())
}

// SetState sets the connection state.
func (c *GameClient) SetState(s ClientConnectionState) {
	c.state.Store(int32(s))
}

// ActivePlayer returns the active player (nil if not in game).
func (c *GameClient) ActivePlayer() *model.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activePlayer
}

// SetActivePlayer sets the active player and its flight motion (called after EnterWorld).
func (c *GameClient) SetActivePlayer(player *model.Player, flight *motion.Flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activePlayer = player
	c.flight = flight
}

// Flight returns the flight motion of the active player.
func (c *GameClient) Flight() *motion.Flight {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flight
}

// Turn runs fn while holding the player's turn.
func (c *GameClient) Turn(fn func()) {
	c.turn.Lock()
	defer c.turn.Unlock()
	fn()
}

// writePump owns all writes to conn. Queued frames are coalesced into one
// writev; every frame goes back to the pool whether the write succeeded or not.
func (c *GameClient) writePump() {
	batch := make([][]byte, 0, 64)
	scratch := make(net.Buffers, 0, 64)
	defer c.drainQueue()

	for {
		// Закрытие важнее недописанных пакетов
		select {
		case <-c.closeCh:
			return
		default:
		}

		select {
		case <-c.closeCh:
			return
		case pkt, ok := <-c.sendCh:
			if !ok {
				return
			}
			batch = append(batch[:0], pkt)
			for n := len(c.sendCh); n > 0; n-- {
				batch = append(batch, <-c.sendCh)
			}

			err := c.flush(batch, scratch[:0])
			c.release(batch...)
			if err != nil {
				slog.Warn("client write failed", "client", c.ip, "packets", len(batch), "error", err)
				return
			}
		}
	}
}

// flush writes batch under the write deadline.
// WriteTo consumes scratch, batch itself stays intact for release.
func (c *GameClient) flush(batch [][]byte, scratch net.Buffers) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if len(batch) == 1 {
		_, err := c.conn.Write(batch[0])
		return err
	}
	scratch = append(scratch, batch...)
	_, err := scratch.WriteTo(c.conn)
	return err
}

// release returns frames to the shared pool.
func (c *GameClient) release(frames ...[]byte) {
	if c.writePool == nil {
		return
	}
	for _, f := range frames {
		c.writePool.Put(f)
	}
}

// drainQueue drops whatever is still queued after the pump stops.
func (c *GameClient) drainQueue() {
	for {
		select {
		case pkt := <-c.sendCh:
			c.release(pkt)
		default:
			return
		}
	}
}

// Send queues an encrypted frame without blocking.
// A full queue means the client cannot keep up: the frame is dropped and the client closed.
// Send owns encryptedPkt from here on.
func (c *GameClient) Send(encryptedPkt []byte) error {
	select {
	case c.sendCh <- encryptedPkt:
		return nil
	default:
		c.release(encryptedPkt)
		slog.Warn("send queue full, dropping slow client", "client", c.ip, "queue", cap(c.sendCh))
		c.CloseAsync()
		return errSendQueueFull
	}
}

// SendSync waits up to timeout for queue space. Owns encryptedPkt like Send.
func (c *GameClient) SendSync(encryptedPkt []byte, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case c.sendCh <- encryptedPkt:
		return nil
	case <-timer.C:
		c.release(encryptedPkt)
		return fmt.Errorf("send timeout after %v", timeout)
	case <-c.closeCh:
		c.release(encryptedPkt)
		return errClientClosed
	}
}

// SendPacket serializes, encrypts and queues pkt.
// Used outside the request/response path: extra replies, flight ticks, relocations.
func (c *GameClient) SendPacket(pkt ServerPacket) error {
	data, err := pkt.Write()
	if err != nil {
		return fmt.Errorf("serializing %T: %w", pkt, err)
	}
	pool := c.writePool
	if pool == nil {
		pool = NewBytePool(len(data) + 32)
	}
	enc, err := pool.EncryptToPooled(c.cipher, data, len(data))
	if err != nil {
		return fmt.Errorf("encrypting %T: %w", pkt, err)
	}
	return c.Send(enc)
}

// CloseAsync marks the client disconnected and stops the writePump. Idempotent.
func (c *GameClient) CloseAsync() {
	c.closeOnce.Do(func() {
		c.state.Store(int32(ClientStateDisconnected))
		close(c.closeCh)
	})
}

// Close stops the writePump and closes conn.
func (c *GameClient) Close() error {
	c.CloseAsync()
	return c.conn.Close()
}

// Done is closed when the client shuts down.
func (c *GameClient) Done() <-chan struct{} {
	return c.closeCh
}
