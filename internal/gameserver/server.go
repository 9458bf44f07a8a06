package gameserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/udisondev/skyroute/internal/config"
	"github.com/udisondev/skyroute/internal/constants"
	"github.com/udisondev/skyroute/internal/crypto"
	"github.com/udisondev/skyroute/internal/gameserver/serverpackets"
	"github.com/udisondev/skyroute/internal/protocol"
)

const keepAlivePeriod = 30 * time.Second

var errCloseRequested = errors.New("handler requested connection close")

// Server accepts game client connections and runs one session per connection.
type Server struct {
	cfg     config.Server
	handler *Handler

	readPool  *BytePool
	replyPool *BytePool
	writePool *BytePool // зашифрованные кадры, возвращаются writePump'ом
}

// NewServer creates a game server. Timeouts and queue size come from cfg.
func NewServer(cfg config.Server, handler *Handler) *Server {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	return &Server{
		cfg:       cfg,
		handler:   handler,
		readPool:  NewBytePool(constants.DefaultReadBufSize),
		replyPool: NewBytePool(constants.DefaultSendBufSize),
		writePool: NewBytePool(constants.DefaultSendBufSize),
	}
}

// ClientManager returns the registry of in-world clients.
func (s *Server) ClientManager() *ClientManager {
	return s.handler.ClientManager()
}

// Run listens on cfg.BindAddress:cfg.Port and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is done.
// On shutdown every in-world player is saved, then Serve waits for all
// sessions to finish their disconnect handling.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		if saved := s.handler.SaveAll(ctx); saved > 0 {
			slog.Info("saved players on shutdown", "count", saved)
		}
		_ = ln.Close()
	}()

	slog.Info("game server started", "address", ln.Addr())

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("accept failed", "error", err)
			continue
		}
		enableKeepAlive(conn)

		wg.Go(func() {
			sess := &session{srv: s, conn: conn}
			sess.run(ctx)
		})
	}
}

func enableKeepAlive(conn net.Conn) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	if err := tcpConn.SetKeepAliveConfig(net.KeepAliveConfig{Enable: true, Idle: keepAlivePeriod, Interval: keepAlivePeriod}); err != nil {
		slog.Warn("set keepalive failed", "remote", conn.RemoteAddr(), "error", err)
	}
}

// session is one connection from KeyPacket to disconnect.
type session struct {
	srv    *Server
	conn   net.Conn
	client *GameClient
}

func (s *session) run(ctx context.Context) {
	defer s.conn.Close()

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Отмена контекста рвёт блокирующий Read
	stop := context.AfterFunc(connCtx, func() { _ = s.conn.Close() })
	defer stop()

	slog.Info("new game client connection", "remote", s.conn.RemoteAddr())

	if err := s.handshake(); err != nil {
		slog.Error("handshake failed", "remote", s.conn.RemoteAddr(), "error", err)
		return
	}
	// Сохранение и выход из мира идут после остановки чтения, до закрытия соединения
	defer s.srv.handler.OnDisconnection(ctx, s.client)

	go s.client.writePump()
	defer s.client.Close()

	for {
		if err := s.serveOne(connCtx); err != nil {
			if errors.Is(err, io.EOF) || connCtx.Err() != nil {
				slog.Info("client disconnected", "client", s.client.IP())
			} else {
				slog.Warn("closing client", "client", s.client.IP(), "error", err)
			}
			return
		}
	}
}

// handshake creates the session cipher and sends the plaintext KeyPacket.
// Nothing else may be written before it.
func (s *session) handshake() error {
	key, err := crypto.NewSessionKey()
	if err != nil {
		return fmt.Errorf("generating session key: %w", err)
	}

	s.client, err = NewGameClient(s.conn, key, s.srv.writePool, s.srv.cfg.SendQueueSize, s.srv.cfg.WriteTimeout)
	if err != nil {
		return err
	}

	body, err := serverpackets.NewKeyPacket(key).Write()
	if err != nil {
		return fmt.Errorf("serializing KeyPacket: %w", err)
	}
	frame := make([]byte, constants.PacketHeaderSize+len(body))
	copy(frame[constants.PacketHeaderSize:], body)
	if err := protocol.WritePlainPacket(s.conn, frame, len(body)); err != nil {
		return fmt.Errorf("sending KeyPacket: %w", err)
	}

	slog.Debug("sent KeyPacket", "client", s.client.IP())
	return nil
}

// serveOne reads one packet, dispatches it and queues the direct reply.
func (s *session) serveOne(ctx context.Context) error {
	readBuf := s.srv.readPool.Get(constants.DefaultReadBufSize)
	defer s.srv.readPool.Put(readBuf)

	if err := s.conn.SetReadDeadline(time.Now().Add(s.srv.cfg.ReadTimeout)); err != nil {
		return fmt.Errorf("setting read deadline: %w", err)
	}
	payload, err := protocol.ReadPacket(s.conn, s.client.Cipher(), readBuf)
	if err != nil {
		return fmt.Errorf("reading packet: %w", err)
	}

	reply := s.srv.replyPool.Get(constants.DefaultSendBufSize)
	defer s.srv.replyPool.Put(reply)

	n, keepOpen, err := s.srv.handler.HandlePacket(ctx, s.client, payload, reply)
	if err != nil {
		return fmt.Errorf("handling packet: %w", err)
	}

	if n > 0 {
		frame, err := s.srv.writePool.EncryptToPooled(s.client.Cipher(), reply, n)
		if err != nil {
			return fmt.Errorf("encrypting reply: %w", err)
		}
		if err := s.client.SendSync(frame, s.srv.cfg.WriteTimeout); err != nil {
			return fmt.Errorf("queueing reply: %w", err)
		}
	}

	if !keepOpen {
		return errCloseRequested
	}
	return nil
}
