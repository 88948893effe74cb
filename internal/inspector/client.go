package inspector

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/earthview/internal/logger"
	"github.com/Faultbox/earthview/internal/telemetry"
)

// Client subscribes to a telemetry hub and records lighting frames,
// reconnecting until its context ends.
type Client struct {
	url     string
	history *History
	dialer  *websocket.Dialer
	backoff time.Duration
	log     *zap.Logger

	mu        sync.RWMutex
	connected bool
	paused    bool
	received  int
	lastErr   error
}

// Status is a point-in-time view of the connection.
type Status struct {
	URL       string
	Connected bool
	Paused    bool
	Received  int
	Err       error
}

// NewClient creates a client for a hub address such as
// "localhost:8090" or a full ws:// URL.
func NewClient(addr string, history *History) (*Client, error) {
	u, err := hubURL(addr)
	if err != nil {
		return nil, err
	}
	return &Client{
		url:     u,
		history: history,
		dialer:  websocket.DefaultDialer,
		backoff: time.Second,
		log:     logger.Named("inspector"),
	}, nil
}

// hubURL normalises addr to the hub's websocket endpoint.
func hubURL(addr string) (string, error) {
	if addr == "" {
		return "", errors.New("empty telemetry address")
	}
	u, err := url.Parse(addr)
	if err != nil || u.Scheme == "" || u.Host == "" {
		u, err = url.Parse("ws://" + addr)
		if err != nil {
			return "", fmt.Errorf("bad telemetry address %q: %w", addr, err)
		}
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("bad telemetry address %q: scheme %q", addr, u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// URL returns the websocket endpoint.
func (c *Client) URL() string { return c.url }

// SetPaused stops or resumes recording. Frames still arrive while paused.
func (c *Client) SetPaused(p bool) {
	c.mu.Lock()
	c.paused = p
	c.mu.Unlock()
}

// Status returns the connection state.
func (c *Client) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{
		URL:       c.url,
		Connected: c.connected,
		Paused:    c.paused,
		Received:  c.received,
		Err:       c.lastErr,
	}
}

// Run connects and reads frames until ctx is done, redialing after a
// backoff whenever the connection drops.
func (c *Client) Run(ctx context.Context) {
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return
		}
		c.setState(false, err)
		c.log.Debug("telemetry disconnected", zap.String("url", c.url), zap.Error(err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.backoff):
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.setState(true, nil)
	c.log.Info("telemetry connected", zap.String("url", c.url))

	// Unblock ReadJSON when the context ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var f telemetry.Frame
		if err := conn.ReadJSON(&f); err != nil {
			return err
		}
		if f.Type != "lighting" {
			continue
		}
		c.record(f)
	}
}

func (c *Client) record(f telemetry.Frame) {
	c.mu.Lock()
	c.received++
	paused := c.paused
	c.mu.Unlock()
	if !paused {
		c.history.Add(f)
	}
}

func (c *Client) setState(connected bool, err error) {
	c.mu.Lock()
	c.connected = connected
	c.lastErr = err
	c.mu.Unlock()
}
