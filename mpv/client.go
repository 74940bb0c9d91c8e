// Package mpv drives an mpv process over its JSON IPC socket and adapts it to
// the trimmer's Player contract.
package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// commandTimeout bounds a single request/response round trip.
const commandTimeout = 2 * time.Second

var (
	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("mpv: not connected")
	// ErrSocketNotFound is returned when the socket cannot be dialled.
	ErrSocketNotFound = errors.New("mpv: socket not found - is mpv running with --input-ipc-server?")
	// ErrPropertyUnavailable is returned for properties mpv cannot report yet,
	// e.g. duration before a file finished loading.
	ErrPropertyUnavailable = errors.New("mpv: property unavailable")

	requestID uint64
)

type ipcRequest struct {
	Command   []any  `json:"command"`
	RequestID uint64 `json:"request_id"`
}

type ipcResponse struct {
	Data      any    `json:"data"`
	RequestID uint64 `json:"request_id"`
	Error     string `json:"error"`
	Event     string `json:"event"`
}

// Client is an mpv IPC client that communicates via Unix socket. Requests are
// serialised; events interleaved with responses are skipped.
type Client struct {
	socketPath string
	conn       net.Conn
	reader     *bufio.Reader
	mu         sync.Mutex
}

// NewClient creates a client for socketPath.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// SocketPath returns the socket path this client is configured to use.
func (c *Client) SocketPath() string { return c.socketPath }

// Connect dials the IPC socket once.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSocketNotFound, err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// ConnectWait retries Connect every interval until it succeeds or ctx ends.
// mpv creates the socket a moment after it starts.
func (c *Client) ConnectWait(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		err := c.Connect()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("connecting to %s: %w", c.socketPath, err)
		case <-ticker.C:
		}
	}
}

// Close closes the connection to mpv.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	return err
}

// IsConnected returns true if the client is connected to mpv.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// GetProperty retrieves the value of an mpv property.
func (c *Client) GetProperty(name string) (any, error) {
	return c.Command("get_property", name)
}

// SetProperty sets the value of an mpv property.
func (c *Client) SetProperty(name string, value any) error {
	_, err := c.Command("set_property", name, value)
	return err
}

// GetFloat reads a numeric property.
func (c *Client) GetFloat(name string) (float64, error) {
	v, err := c.GetProperty(name)
	if err != nil {
		return 0, err
	}
	return toFloat64(v)
}

// GetBool reads a flag property.
func (c *Client) GetBool(name string) (bool, error) {
	v, err := c.GetProperty(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("mpv: unexpected %s value type: %T", name, v)
	}
	return b, nil
}

// LoadFile replaces the current playlist with path.
func (c *Client) LoadFile(path string) error {
	_, err := c.Command("loadfile", path, "replace")
	return err
}

// Seek jumps to an absolute position in seconds, frame exact.
func (c *Client) Seek(seconds float64) error {
	_, err := c.Command("seek", seconds, "absolute+exact")
	return err
}

// SetPause pauses or resumes playback.
func (c *Client) SetPause(paused bool) error {
	return c.SetProperty("pause", paused)
}

// Stop stops playback and clears the playlist. mpv keeps running with --idle.
func (c *Client) Stop() error {
	_, err := c.Command("stop")
	return err
}

// Quit asks mpv to exit.
func (c *Client) Quit() error {
	_, err := c.Command("quit")
	return err
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("mpv: unexpected numeric value type: %T", v)
	}
}

// Command sends {"command": [name, args...], "request_id": id} and waits for
// the response carrying the same id.
func (c *Client) Command(name string, args ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	req := ipcRequest{
		Command:   append([]any{name}, args...),
		RequestID: atomic.AddUint64(&requestID, 1),
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("mpv: failed to marshal %s: %w", name, err)
	}

	if err := c.conn.SetDeadline(time.Now().Add(commandTimeout)); err != nil {
		return nil, fmt.Errorf("mpv: setting deadline: %w", err)
	}
	if _, err := c.conn.Write(append(data, '\n')); err != nil {
		return nil, fmt.Errorf("mpv: failed to send %s: %w", name, err)
	}

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("mpv: failed to read %s response: %w", name, err)
		}
		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil || resp.Event != "" {
			continue
		}
		if resp.RequestID != req.RequestID {
			continue
		}
		switch resp.Error {
		case "", "success":
			return resp.Data, nil
		case "property unavailable":
			return nil, fmt.Errorf("%w: %v", ErrPropertyUnavailable, args)
		default:
			return nil, fmt.Errorf("mpv: %s: %s", name, resp.Error)
		}
	}
}
