package room

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/dice-arena/internal/logger"
)

// Handler handles one incoming message type.
type Handler func(env Envelope) error

// Client is the room connection. Incoming lines are read by a background
// reader; dispatch happens on the caller's loop via Process, so handlers
// run cooperatively with the rest of the tray.
type Client struct {
	mu        sync.Mutex
	conn      net.Conn
	connected bool
	handlers  map[MsgType]Handler

	inbox chan Envelope
	done  chan struct{}
}

// NewClient creates an unconnected room client.
func NewClient() *Client {
	return &Client{
		handlers: make(map[MsgType]Handler),
		inbox:    make(chan Envelope, 64),
	}
}

// RegisterHandler registers the handler for a message type. Register all
// handlers before Connect.
func (c *Client) RegisterHandler(t MsgType, h Handler) {
	c.handlers[t] = h
}

// Connect dials the room server.
func (c *Client) Connect(addr string, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return fmt.Errorf("already connected")
	}

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}

	c.conn = conn
	c.connected = true
	c.done = make(chan struct{})
	go c.readLoop(conn)

	return nil
}

// Disconnect closes the connection.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		close(c.done)
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false
}

// IsConnected returns connection status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Send frames and writes one message.
func (c *Client) Send(t MsgType, payload any) error {
	line, err := Encode(t, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return fmt.Errorf("not connected")
	}
	_, err = c.conn.Write(line)
	return err
}

// Process dispatches buffered incoming messages to their handlers.
// Call regularly from the main loop; it never blocks.
func (c *Client) Process() error {
	for {
		select {
		case env := <-c.inbox:
			h, ok := c.handlers[env.Type]
			if !ok {
				logger.Debug("unhandled room message", zap.String("type", string(env.Type)))
				continue
			}
			if err := h(env); err != nil {
				return fmt.Errorf("handling %s: %w", env.Type, err)
			}
		default:
			return nil
		}
	}
}

func (c *Client) readLoop(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		env, err := Decode(scanner.Bytes())
		if err != nil {
			logger.Warn("dropping malformed room message", zap.Error(err))
			continue
		}
		select {
		case c.inbox <- env:
		case <-c.done:
			return
		}
	}

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
}
