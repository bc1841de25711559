package listener

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/pixil98/go-roads/internal/logging"
)

// lineSessions owns the connections accepted by one line protocol listener.
// Every connection runs under a shared context that shutdown cancels, and
// shutdown returns once all of them have detached from the engine.
type lineSessions struct {
	cm *ConnectionManager

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// newLineSessions derives the session context from ctx without its
// cancellation, so connections outlive the accept loop until shutdown.
func newLineSessions(ctx context.Context, transport string, cm *ConnectionManager) *lineSessions {
	ctx = logging.With(context.WithoutCancel(ctx), "listener", transport)
	ctx, cancel := context.WithCancel(ctx)

	return &lineSessions{
		cm:     cm,
		ctx:    ctx,
		cancel: cancel,
	}
}

// run calls fn with a per-connection context and blocks until it returns.
// It reports false without calling fn once shutdown has started.
func (s *lineSessions) run(remote string, fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx := s.ctx
	if remote != "" {
		ctx = logging.With(ctx, "remote", remote)
	}
	fn(ctx)
	return true
}

// serve runs the line protocol on conn with CRLF normalisation and closes
// conn afterwards.
func (s *lineSessions) serve(ctx context.Context, conn io.ReadWriteCloser) {
	logger := logging.FromContext(ctx)
	opened := time.Now()
	logger.Infow("connection opened")

	s.cm.AcceptConnection(ctx, newCRLFReadWriter(conn))

	if err := conn.Close(); err != nil {
		logger.Debugw("closing connection", "error", err)
	}
	logger.Infow("connection closed", "duration", time.Since(opened))
}

// shutdown cancels every connection and waits for them to finish. It is
// safe to call more than once.
func (s *lineSessions) shutdown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// remoteAddr returns the peer address of conn when it exposes one.
func remoteAddr(conn any) string {
	if a, ok := conn.(interface{ RemoteAddr() net.Addr }); ok && a.RemoteAddr() != nil {
		return a.RemoteAddr().String()
	}
	return ""
}
