package listener

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-roads/internal/commands"
	"github.com/pixil98/go-roads/internal/logging"
)

// AcceptConnection runs a line protocol session: the first line is the
// client identifier, every following line one command. It returns when the
// connection closes, ctx is done or the engine reports an inconsistency.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	ctx, cancel := context.WithCancel(logging.With(ctx, "session", uuid.NewString()))
	defer cancel()

	if c, ok := conn.(io.Closer); ok {
		done := ctx.Done()
		go func() {
			<-done
			_ = c.Close()
		}()
	}

	br := bufio.NewReader(conn)
	w := &lockedWriter{w: conn}

	id, err := prompt(br, w, "identifier: ", withMaxTries(1), withValidator(func(s string) (bool, string) {
		return s != "", "identifier required\n"
	}))
	if err != nil {
		logging.FromContext(ctx).Debugw("handshake failed", "error", err)
		return
	}
	ctx = logging.With(ctx, "identifier", id)

	out := newOutbox()
	defer out.close()

	sess, err := m.attach(ctx, id, out)
	if err != nil {
		logging.FromContext(ctx).Infow("connection rejected", "error", err)
		_, _ = fmt.Fprintln(w, rejection(err))
		return
	}
	defer m.detach(ctx, id, sess)

	go m.writeLines(ctx, id, w, out)

	for {
		line, err := readLine(br)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				logging.FromContext(ctx).Debugw("reading line", "error", err)
			}
			return
		}
		if line == "" {
			continue
		}

		cmd, err := commands.ParseLine(line)
		if err != nil {
			_, _ = fmt.Fprintln(w, err)
			continue
		}

		if err := m.engine.Exec(ctx, id, cmd); err != nil {
			logging.FromContext(ctx).Errorw("executing command", "command", cmd.String(), "error", err)
			return
		}
	}
}

func (m *ConnectionManager) writeLines(ctx context.Context, id string, w io.Writer, out *outbox) {
	for {
		select {
		case <-out.done:
			return
		case data := <-out.ch:
			text, err := m.render(id, data)
			if err != nil {
				logging.FromContext(ctx).Errorw("rendering state", "error", err)
				continue
			}
			if _, err := io.WriteString(w, text); err != nil {
				logging.FromContext(ctx).Debugw("writing state", "error", err)
				return
			}
		}
	}
}

// lockedWriter serializes writes from the reader and writer goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.w.Write(p)
}
