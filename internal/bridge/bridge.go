package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Commands understood by the fingerprint hardware bridge.
const (
	CommandIdentify      = "identify"
	CommandCapture       = "capture"
	CommandIdentifyStaff = "identify_staff"
)

// Reply statuses reported by the bridge.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

const (
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 8 * time.Second
	replyTimeout   = 30 * time.Second
)

// Response is a bridge reply. The payload fields are populated depending on
// the command: identify variants carry Resident, capture carries FMD and the
// preview Image.
type Response struct {
	Status   string          `json:"status"`
	Message  string          `json:"message,omitempty"`
	Resident json.RawMessage `json:"resident,omitempty"`
	FMD      string          `json:"fmd,omitempty"`
	Image    string          `json:"image,omitempty"`
}

// Client talks to the fingerprint bridge over a WebSocket. Connections are
// established lazily and re-established with growing backoff after a failure.
// Only one command is in flight at a time; the bridge pairs one reply to one
// command, so concurrent callers are serialized.
type Client struct {
	url    string
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient constructs a bridge client for the given WebSocket URL. No
// connection is made until the first command.
func NewClient(url string) *Client {
	return &Client{
		url:    url,
		dialer: &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
	}
}

// Command sends a single command and waits for the bridge's reply. The
// context bounds both connection attempts and the wait for the reply.
func (c *Client) Command(ctx context.Context, command string) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := c.connect(ctx)
	if err != nil {
		return Response{}, err
	}

	// The hardware bridge takes bare command strings, not JSON envelopes.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(command)); err != nil {
		c.reset()
		return Response{}, fmt.Errorf("bridge write: %w", err)
	}

	deadline := time.Now().Add(replyTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		c.reset()
		return Response{}, err
	}

	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		c.reset()
		return Response{}, fmt.Errorf("bridge read: %w", err)
	}
	if resp.Status == "" {
		c.reset()
		return Response{}, errors.New("bridge reply missing status")
	}
	return resp, nil
}

// Close tears down the current connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// connect returns the live connection or dials a new one, retrying with
// growing backoff until the context is cancelled. Callers hold c.mu.
func (c *Client) connect(ctx context.Context) (*websocket.Conn, error) {
	if c.conn != nil {
		return c.conn, nil
	}

	backoff := initialBackoff
	for {
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err == nil {
			c.conn = conn
			return conn, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("bridge dial %s: %w", c.url, errors.Join(err, ctx.Err()))
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// reset drops the connection so the next command redials. Callers hold c.mu.
func (c *Client) reset() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
