package listener

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/pixil98/go-roads/internal/logging"
	"golang.org/x/crypto/ssh"
)

type SshListener struct {
	port    uint16
	cm      *ConnectionManager
	hostKey ssh.Signer
}

func NewSshListener(port uint16, cm *ConnectionManager, hostKey ssh.Signer) *SshListener {
	return &SshListener{
		port:    port,
		cm:      cm,
		hostKey: hostKey,
	}
}

// Start accepts ssh connections until ctx is done. Clients authenticate
// with the identifier prompt, not with ssh credentials.
func (l *SshListener) Start(ctx context.Context) error {
	config := &ssh.ServerConfig{NoClientAuth: true}
	config.AddHostKey(l.hostKey)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	sessions := newLineSessions(ctx, "ssh", l.cm)
	defer sessions.shutdown()

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	logger := logging.FromContext(ctx).With("listener", "ssh")
	logger.Infow("listening for ssh", "port", l.port)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("accepting on port %d: %w", l.port, err)
			}
			logger.Errorw("accepting ssh connection", "error", err)
			continue
		}

		go func() {
			served := sessions.run(remoteAddr(conn), func(ctx context.Context) {
				serveSsh(ctx, sessions, conn, config)
			})
			if !served {
				_ = conn.Close()
			}
		}()
	}
}

// serveSsh completes the ssh handshake and runs one line session per
// session channel once the client asks for a shell.
func serveSsh(ctx context.Context, sessions *lineSessions, conn net.Conn, config *ssh.ServerConfig) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		logging.FromContext(ctx).Warnw("ssh handshake", "error", err)
		return
	}
	defer sshConn.Close()

	stop := context.AfterFunc(ctx, func() { _ = sshConn.Close() })
	defer stop()

	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			_ = newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}

		ch, requests, err := newChan.Accept()
		if err != nil {
			logging.FromContext(ctx).Errorw("accepting ssh channel", "error", err)
			continue
		}

		select {
		case <-awaitShell(requests):
			sessions.serve(ctx, ch)
		case <-ctx.Done():
			_ = ch.Close()
		}
	}
}

// awaitShell answers channel requests and closes the returned channel when
// the client asks for a shell. PTYs are refused so the client keeps local
// echo and line editing.
func awaitShell(requests <-chan *ssh.Request) <-chan struct{} {
	ready := make(chan struct{})
	go func() {
		shell := false
		for req := range requests {
			ok := req.Type == "shell" && !shell
			_ = req.Reply(ok, nil)
			if ok {
				shell = true
				close(ready)
			}
		}
	}()
	return ready
}
