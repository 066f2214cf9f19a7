package remotepolicy

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// request is sent once per state the policy cache has not yet memoised.
type request struct {
	Values []int `json:"values"`
}

// response is the server's verdict for the state in the matching request.
type response struct {
	// NoOp, if true, means the remote policy surrenders on this state
	// (mirrors policy.ActionNoOp).
	NoOp bool `json:"no_op"`
	// Op is the chosen operator id; meaningless when NoOp is true.
	Op int `json:"op"`
}

// Client is a policy.Implementation that forwards every Apply call to a
// remote policy server over a single long-lived WebSocket connection.
//
// Apply is only ever called by policy.Cache from the single-threaded core
// loop, but the mutex also guards concurrent Ping calls issued by the
// CLI's watchdog goroutine (SPEC_FULL.md §A6), so the connection is safe
// to share between the two.
type Client struct {
	conn     *websocket.Conn
	registry *task.StateRegistry

	mu          sync.Mutex
	readTimeout time.Duration
}

// Dial opens a WebSocket connection to url and wraps it as a Client.
// registry is used to translate a task.StateID into the value vector the
// remote server expects; handshakeTimeout bounds the initial dial only.
func Dial(url string, registry *task.StateRegistry, handshakeTimeout time.Duration) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, perr.Wrap(perr.PolicyTransport, "dialing remote policy", err)
	}
	return &Client{conn: conn, registry: registry, readTimeout: handshakeTimeout}, nil
}

// Apply implements policy.Implementation.
func (c *Client) Apply(ctx context.Context, state task.StateID) (policy.CachedAction, error) {
	if err := ctx.Err(); err != nil {
		return policy.CachedAction{}, perr.Wrap(perr.ResourceExhausted, "remote policy apply", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		_ = c.conn.SetReadDeadline(deadline)
	}

	req := request{Values: c.registry.Lookup(state)}
	if err := c.conn.WriteJSON(req); err != nil {
		return policy.CachedAction{}, perr.Wrap(perr.PolicyTransport, "writing remote policy request", err)
	}

	var resp response
	if err := c.conn.ReadJSON(&resp); err != nil {
		return policy.CachedAction{}, perr.Wrap(perr.PolicyTransport, "reading remote policy response", err)
	}

	if resp.NoOp {
		return policy.CachedAction{Kind: policy.ActionNoOp}, nil
	}
	return policy.CachedAction{Kind: policy.ActionOp, Op: resp.Op}, nil
}

// Ping sends a WebSocket control-frame ping, for use by the CLI's
// connection-health watchdog (SPEC_FULL.md §A6); the matching pong is
// handled by gorilla's default pong handler on the next read. It takes
// the same mutex as Apply so a heartbeat never interleaves with an
// in-flight request/response pair.
func (c *Client) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(5 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
		return perr.Wrap(perr.PolicyTransport, "pinging remote policy", err)
	}
	return nil
}

// Close closes the underlying connection after sending a close frame.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(time.Second)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	if err := c.conn.Close(); err != nil {
		return perr.Wrap(perr.PolicyTransport, "closing remote policy connection", err)
	}
	return nil
}
