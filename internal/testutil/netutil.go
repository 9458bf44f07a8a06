package testutil

import (
	"context"
	"net"
	"testing"
	"time"
)

// FakeAddr is a static net.Addr for mock connections.
type FakeAddr struct {
	NetworkName string
	AddrString  string
}

func (f FakeAddr) Network() string { return f.NetworkName }
func (f FakeAddr) String() string  { return f.AddrString }

// TCPAddr returns a tcp FakeAddr.
func TCPAddr(addr string) FakeAddr {
	return FakeAddr{NetworkName: "tcp", AddrString: addr}
}

// ConnWithDeadline refreshes the deadline before each Read and Write,
// so a silent server fails the test instead of hanging it.
type ConnWithDeadline struct {
	net.Conn
	timeout time.Duration
}

// NewConnWithDeadline wraps conn with a per-call timeout.
func NewConnWithDeadline(conn net.Conn, timeout time.Duration) *ConnWithDeadline {
	return &ConnWithDeadline{Conn: conn, timeout: timeout}
}

func (c *ConnWithDeadline) Read(b []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}

func (c *ConnWithDeadline) Write(b []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}

// ListenTCP opens a loopback listener on a free port, closed on cleanup.
func ListenTCP(t testing.TB) (net.Listener, string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	return ln, ln.Addr().String()
}

// ContextWithCancel returns a context cancelled at the latest on cleanup.
// Unlike t.Context it can be cancelled earlier by the test.
func ContextWithCancel(t testing.TB) (context.Context, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx, cancel
}
