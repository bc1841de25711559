package listener

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pixil98/go-roads/internal/commands"
	"github.com/pixil98/go-roads/internal/logging"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type WebsocketListener struct {
	port uint16
	cm   *ConnectionManager
}

func NewWebsocketListener(port uint16, cm *ConnectionManager) *WebsocketListener {
	return &WebsocketListener{
		port: port,
		cm:   cm,
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", l.cm.ServeWebsocket)

	return serveHTTP(ctx, "websocket", l.port, mux)
}

// serveHTTP runs handler on port until ctx is done.
func serveHTTP(ctx context.Context, name string, port uint16, handler http.Handler) error {
	logger := logging.FromContext(ctx).With("listener", name)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return logging.WithLogger(context.Background(), logger)
		},
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		case <-done:
		}
	}()

	logger.Infow("listening for http", "port", port)

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving %s on port %d: %w", name, port, err)
	}
	return nil
}

// ServeWebsocket upgrades the request and runs a JSON frame session. The
// first frame must authenticate; anything else closes the socket.
func (m *ConnectionManager) ServeWebsocket(w http.ResponseWriter, r *http.Request) {
	ctx := logging.With(r.Context(), "session", uuid.NewString(), "remote", r.RemoteAddr)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.FromContext(ctx).Warnw("upgrading websocket", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	id, err := readAuth(conn)
	if err != nil {
		logging.FromContext(ctx).Debugw("handshake failed", "error", err)
		closeWebsocket(conn, websocket.ClosePolicyViolation, "auth required")
		return
	}
	ctx = logging.With(ctx, "identifier", id)

	out := newOutbox()
	defer out.close()

	sess, err := m.attach(ctx, id, out)
	if err != nil {
		logging.FromContext(ctx).Infow("connection rejected", "error", err)
		closeWebsocket(conn, websocket.ClosePolicyViolation, rejection(err))
		return
	}
	defer m.detach(ctx, id, sess)

	go writePump(ctx, conn, out)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.FromContext(ctx).Debugw("reading websocket", "error", err)
			}
			return
		}

		frame, err := commands.DecodeFrame(data)
		if err != nil {
			logging.FromContext(ctx).Debugw("ignoring frame", "error", err)
			continue
		}
		if frame.Type == commands.FrameAuth {
			continue
		}

		cmd, err := frame.Command()
		if err != nil {
			logging.FromContext(ctx).Debugw("ignoring frame", "error", err)
			continue
		}

		if err := m.engine.Exec(ctx, id, cmd); err != nil {
			logging.FromContext(ctx).Errorw("executing command", "command", cmd.String(), "error", err)
			closeWebsocket(conn, websocket.CloseInternalServerErr, "internal error")
			return
		}
	}
}

func readAuth(conn *websocket.Conn) (string, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return "", err
	}

	frame, err := commands.DecodeFrame(data)
	if err != nil {
		return "", err
	}
	if frame.Type != commands.FrameAuth {
		return "", fmt.Errorf("expected %s frame, got %q", commands.FrameAuth, frame.Type)
	}

	return frame.Id, nil
}

// writePump is the only writer once the session is attached.
func writePump(ctx context.Context, conn *websocket.Conn, out *outbox) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-out.done:
			return
		case data := <-out.ch:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logging.FromContext(ctx).Debugw("writing websocket", "error", err)
				conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}

func closeWebsocket(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
