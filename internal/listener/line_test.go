package listener

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type lineClient struct {
	conn  net.Conn
	lines chan string
	done  chan struct{}
}

// startLineSession runs AcceptConnection on one end of a pipe and returns a
// client on the other end.
func startLineSession(t *testing.T, cm *ConnectionManager) *lineClient {
	t.Helper()

	server, client := net.Pipe()
	c := &lineClient{
		conn:  client,
		lines: make(chan string, 64),
		done:  make(chan struct{}),
	}

	go func() {
		defer close(c.done)
		cm.AcceptConnection(context.Background(), server)
		server.Close()
	}()

	go func() {
		defer close(c.lines)
		br := bufio.NewReader(client)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				c.lines <- strings.TrimRight(line, "\n")
			}
			if err != nil {
				return
			}
		}
	}()

	t.Cleanup(func() { client.Close() })
	return c
}

func (c *lineClient) send(t *testing.T, line string) {
	t.Helper()

	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

// expect reads lines until one contains want.
func (c *lineClient) expect(t *testing.T, want string) {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case line, ok := <-c.lines:
			if !ok {
				t.Fatalf("connection closed before %q", want)
			}
			if strings.Contains(line, want) {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func (c *lineClient) expectClosed(t *testing.T) {
	t.Helper()

	select {
	case <-c.done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end")
	}
}

func TestLineSession_Commands(t *testing.T) {
	cm, _ := newTestManager(t)
	c := startLineSession(t, cm)

	c.send(t, "alice")
	c.expect(t, "You are in Village.")
	c.expect(t, "You are alone.")

	c.send(t, "fly away")
	c.expect(t, "unknown command")

	c.send(t, "ENTERROAD village-forest")
	c.expect(t, "You are on Road from village to forest, 0% of the way to Forest.")

	c.send(t, "move 150")
	c.expect(t, "You are in Forest.")
}

func TestLineSession_SeesOthers(t *testing.T) {
	cm, _ := newTestManager(t)

	alice := startLineSession(t, cm)
	alice.send(t, "alice")
	alice.expect(t, "You are alone.")

	bob := startLineSession(t, cm)
	bob.send(t, "bob")
	bob.expect(t, "Also here: alice.")
	alice.expect(t, "Also here: bob.")
}

func TestLineSession_EmptyIdentifier(t *testing.T) {
	cm, conns := newTestManager(t)
	c := startLineSession(t, cm)

	c.send(t, "")
	c.expect(t, "identifier required")
	c.expectClosed(t)
	testutil.AssertEqual(t, "nobody registered", conns.Len(), 0)
}

func TestLineSession_Duplicate(t *testing.T) {
	cm, conns := newTestManager(t)

	first := startLineSession(t, cm)
	first.send(t, "alice")
	first.expect(t, "You are in Village.")

	second := startLineSession(t, cm)
	second.send(t, "alice")
	second.expect(t, "already connected")
	second.expectClosed(t)

	testutil.AssertEqual(t, "first still registered", conns.Has("alice"), true)
	first.send(t, "enterLocation house")
	first.expect(t, "You are in House.")
}

func TestLineSession_DisconnectUnregisters(t *testing.T) {
	cm, conns := newTestManager(t)

	alice := startLineSession(t, cm)
	alice.send(t, "alice")
	alice.expect(t, "You are alone.")

	bob := startLineSession(t, cm)
	bob.send(t, "bob")
	alice.expect(t, "Also here: bob.")

	bob.conn.Close()
	bob.expectClosed(t)

	alice.expect(t, "You are alone.")
	testutil.AssertEqual(t, "bob unregistered", conns.Has("bob"), false)
}
