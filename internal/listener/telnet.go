package listener

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/iammegalith/telnet"
	"github.com/pixil98/go-roads/internal/logging"
)

type TelnetListener struct {
	port uint16
	cm   *ConnectionManager
}

func NewTelnetListener(port uint16, cm *ConnectionManager) *TelnetListener {
	return &TelnetListener{
		port: port,
		cm:   cm,
	}
}

func (l *TelnetListener) Start(ctx context.Context) error {
	sessions := newLineSessions(ctx, "telnet", l.cm)
	defer sessions.shutdown()

	svr := telnet.NewServer(fmt.Sprintf(":%d", l.port), telnetHandler{sessions: sessions})
	stop := context.AfterFunc(ctx, func() { svr.Stop() })
	defer stop()

	logging.FromContext(ctx).Infow("listening for telnet", "port", l.port)

	err := svr.ListenAndServe()
	if err != nil && ctx.Err() == nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use", l.port)
		}
		return fmt.Errorf("serving telnet on port %d: %w", l.port, err)
	}
	return nil
}

type telnetHandler struct {
	sessions *lineSessions
}

func (h telnetHandler) HandleTelnet(conn *telnet.Connection) {
	served := h.sessions.run(remoteAddr(conn), func(ctx context.Context) {
		h.sessions.serve(ctx, conn)
	})
	if !served {
		_ = conn.Close()
	}
}
