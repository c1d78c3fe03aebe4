// Package channel implements the websocket transport to the sync server.
//
// A Client keeps one connection alive, re-dialing after drops and failed handshakes, and
// reports every transition to lifecycle observers. Messages are protocol envelopes; inbound
// envelopes are dispatched to handlers registered per event name.
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/syncwatch-cli/syncwatch/constant"
	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/protocol"
)

// ErrNotConnected is returned by Emit while no connection is established.
var ErrNotConnected = errors.New("not connected")

// Lifecycle is a connection state transition.
type Lifecycle int

const (
	// Connected is reported once, for the first successful handshake.
	Connected Lifecycle = iota + 1
	// Disconnected is reported when an established connection drops.
	Disconnected
	// Reconnected is reported for every later successful handshake, instead of Connected.
	Reconnected
	// ConnectFailed is reported for every failed dial.
	ConnectFailed
)

func (l Lifecycle) String() string {
	switch l {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case Reconnected:
		return "reconnected"
	case ConnectFailed:
		return "connect failed"
	default:
		return fmt.Sprintf("lifecycle(%d)", int(l))
	}
}

// Handler receives the raw payload of an inbound event.
type Handler func(data json.RawMessage)

// LifecycleHandler receives connection transitions. err is set for Disconnected and ConnectFailed.
type LifecycleHandler func(state Lifecycle, err error)

const (
	writeWait        = 5 * time.Second
	maxMessageSize   = 1 << 20
	maxBackoffFactor = 5
)

// Options configures a Client.
type Options struct {
	// URL is the websocket endpoint, ws:// or wss://.
	URL string
	// Token, when set, is sent as the access_token query parameter.
	Token string
	// ClientID identifies this process to the server. A random UUID is used when empty.
	ClientID string
	// ReconnectDelay is the base delay between dial attempts.
	ReconnectDelay time.Duration
	// Timeout bounds the websocket handshake.
	Timeout time.Duration
	// PingEvery is the keepalive interval. The read deadline is twice this value.
	PingEvery time.Duration
}

// Client is a reconnecting websocket client.
type Client struct {
	opts   Options
	dialer *websocket.Dialer

	mu        sync.RWMutex
	handlers  map[string][]Handler
	observers []LifecycleHandler

	// sendMu serializes writes and guards conn.
	sendMu sync.Mutex
	conn   *websocket.Conn
}

// New returns a Client that is not yet connected. Call Run to connect.
func New(opts Options) *Client {
	if opts.ClientID == "" {
		opts.ClientID = uuid.NewString()
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.PingEvery <= 0 {
		opts.PingEvery = 15 * time.Second
	}

	return &Client{
		opts: opts,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: opts.Timeout,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
		handlers: make(map[string][]Handler),
	}
}

// ID returns the client identifier sent with every handshake.
func (c *Client) ID() string {
	return c.opts.ClientID
}

// On registers h for the named inbound event. Handlers run on the read goroutine, in
// registration order.
func (c *Client) On(event string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], h)
}

// OnLifecycle registers an observer for connection transitions.
func (c *Client) OnLifecycle(h LifecycleHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, h)
}

// Emit sends a named event. A nil payload sends the event without data.
func (c *Client) Emit(event string, payload any) error {
	env, err := protocol.NewEnvelope(event, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("send %s: %w", event, err)
	}

	log.Debugf("channel: sent %s", event)
	return nil
}

// Connected reports whether a connection is currently established.
func (c *Client) Connected() bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.conn != nil
}

// Run dials the server and keeps the connection alive until ctx is cancelled.
// It always returns the context error.
func (c *Client) Run(ctx context.Context) error {
	var (
		attempts  int
		connected bool
	)

	for {
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			attempts++
			log.With(log.Fields{"attempt": attempts, "url": c.opts.URL}).Warnf("channel: dial failed: %v", err)
			c.notify(ConnectFailed, err)

			if !sleep(ctx, c.backoff(attempts)) {
				return ctx.Err()
			}
			continue
		}

		attempts = 0
		c.setConn(conn)
		if connected {
			c.notify(Reconnected, nil)
		} else {
			connected = true
			c.notify(Connected, nil)
		}

		err = c.serve(ctx, conn)
		c.setConn(nil)
		_ = conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Warnf("channel: connection lost: %v", err)
		c.notify(Disconnected, err)

		if !sleep(ctx, c.opts.ReconnectDelay) {
			return ctx.Err()
		}
	}
}

// backoff grows linearly with consecutive failures, capped at maxBackoffFactor times the base delay.
func (c *Client) backoff(attempts int) time.Duration {
	if attempts > maxBackoffFactor {
		attempts = maxBackoffFactor
	}
	return time.Duration(attempts) * c.opts.ReconnectDelay
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	endpoint, err := url.Parse(c.opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	q := endpoint.Query()
	q.Set("client_id", c.opts.ClientID)
	if c.opts.Token != "" {
		q.Set("access_token", c.opts.Token)
	}
	endpoint.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("User-Agent", constant.UserAgent)

	conn, resp, err := c.dialer.DialContext(ctx, endpoint.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("handshake: %s: %w", resp.Status, err)
		}
		return nil, err
	}

	return conn, nil
}

// serve reads until the connection fails or ctx is cancelled.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)

	go c.keepalive(ctx, conn, done)

	readWait := 2 * c.opts.PingEvery
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		_ = conn.SetReadDeadline(time.Now().Add(readWait))

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			log.Warnf("channel: discarding undecodable frame (%d bytes)", len(data))
			continue
		}

		c.dispatch(env)
	}
}

// keepalive pings the server and closes conn when ctx is cancelled.
func (c *Client) keepalive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(c.opts.PingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sendMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.sendMu.Unlock()
			if err != nil {
				log.Debugf("channel: ping failed: %v", err)
			}
		case <-ctx.Done():
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)
			_ = conn.Close()
			return
		case <-done:
			return
		}
	}
}

func (c *Client) dispatch(env protocol.Envelope) {
	if !protocol.Inbound(env.Event) {
		log.Warnf("channel: discarding unexpected event %q", env.Event)
		return
	}

	c.mu.RLock()
	handlers := c.handlers[env.Event]
	c.mu.RUnlock()

	if len(handlers) == 0 {
		log.Debugf("channel: no handler for %s", env.Event)
		return
	}

	for _, h := range handlers {
		h(env.Data)
	}
}

func (c *Client) notify(state Lifecycle, err error) {
	c.mu.RLock()
	observers := c.observers
	c.mu.RUnlock()

	for _, o := range observers {
		o(state, err)
	}
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	c.conn = conn
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
