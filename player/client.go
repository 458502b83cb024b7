package player

import (
	"encoding/json"
	"net"
	"time"

	"github.com/lbonnet/mpvris/config"
	"github.com/lbonnet/mpvris/logger"
)

// Connect dials the mpv IPC socket and starts the reader. When the socket
// does not exist yet and cfg.WaitSocket is set, it waits for mpv to create
// it, bounded by cfg.WaitTimeout.
func Connect(cfg *config.PlayerConfig) (*Client, error) {
	if cfg.WaitSocket {
		if err := waitForSocket(cfg.Socket, cfg.WaitTimeout); err != nil {
			return nil, err
		}
	}

	conn, err := net.DialTimeout("unix", cfg.Socket, cfg.CallTimeout)
	if err != nil {
		return nil, &SocketError{Path: cfg.Socket, Reason: err.Error()}
	}

	c := &Client{
		cfg:       cfg,
		conn:      conn,
		running:   true,
		pending:   make(map[int64]chan ipcMessage),
		observers: make(map[int64]observer),
		events:    make(map[string][]func()),
		wakeup:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	if cfg.PingInterval > 0 {
		c.nextPing = time.Now().Add(cfg.PingInterval)
	}

	go c.read()

	logger.Info("[player] connected to mpv at %s", cfg.Socket)
	return c, nil
}

// call issues a single command and waits for the matching reply.
func (c *Client) call(args ...interface{}) (json.RawMessage, error) {
	name, _ := args[0].(string)

	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil, &ClosedError{}
	}
	c.nextID++
	id := c.nextID
	ch := make(chan ipcMessage, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.write(ipcRequest{Command: args, RequestID: id}); err != nil {
		return nil, err
	}

	select {
	case reply, ok := <-ch:
		if !ok {
			return nil, &ClosedError{}
		}
		if reply.Error != statusSuccess {
			return nil, &CommandError{Cmd: name, Reason: reply.Error}
		}
		return reply.Data, nil
	case <-time.After(c.cfg.CallTimeout):
		return nil, &TimeoutError{Cmd: name}
	}
}

func (c *Client) write(req ipcRequest) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if _, err := c.conn.Write(append(payload, '\n')); err != nil {
		return &ClosedError{}
	}
	return nil
}

// Command issues a named mpv command, e.g. Command("seek", 5.0).
func (c *Client) Command(args ...interface{}) error {
	_, err := c.call(args...)
	return err
}

func (c *Client) getProperty(name string, out interface{}) error {
	data, err := c.call(cmdGetProperty, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &CommandError{Cmd: cmdGetProperty + " " + name, Reason: err.Error()}
	}
	return nil
}

func (c *Client) setProperty(name string, value interface{}) error {
	_, err := c.call(cmdSetProperty, name, value)
	return err
}

// GetBool reads a boolean property.
func (c *Client) GetBool(name string) (bool, error) {
	var v bool
	err := c.getProperty(name, &v)
	return v, err
}

// GetBoolOr reads a boolean property, returning def when unavailable.
func (c *Client) GetBoolOr(name string, def bool) bool {
	if v, err := c.GetBool(name); err == nil {
		return v
	}
	return def
}

// GetInt reads an integer property.
func (c *Client) GetInt(name string) (int64, error) {
	var v int64
	err := c.getProperty(name, &v)
	return v, err
}

// GetIntOr reads an integer property, returning def when unavailable.
func (c *Client) GetIntOr(name string, def int64) int64 {
	if v, err := c.GetInt(name); err == nil {
		return v
	}
	return def
}

// GetFloat reads a numeric property.
func (c *Client) GetFloat(name string) (float64, error) {
	var v float64
	err := c.getProperty(name, &v)
	return v, err
}

// GetFloatOr reads a numeric property, returning def when unavailable.
func (c *Client) GetFloatOr(name string, def float64) float64 {
	if v, err := c.GetFloat(name); err == nil {
		return v
	}
	return def
}

// GetString reads a string property.
func (c *Client) GetString(name string) (string, error) {
	var v string
	err := c.getProperty(name, &v)
	return v, err
}

// GetStringOr reads a string property, returning def when unavailable.
func (c *Client) GetStringOr(name, def string) string {
	if v, err := c.GetString(name); err == nil {
		return v
	}
	return def
}

// SetBool writes a boolean property.
func (c *Client) SetBool(name string, v bool) error {
	return c.setProperty(name, v)
}

// SetFloat writes a numeric property.
func (c *Client) SetFloat(name string, v float64) error {
	return c.setProperty(name, v)
}

// SetString writes a string property.
func (c *Client) SetString(name, v string) error {
	return c.setProperty(name, v)
}

// Observe registers fn to run (from Dispatch) whenever the named mpv
// property changes. Must be called before the event loop starts.
func (c *Client) Observe(name string, fn func()) error {
	c.obsID++
	id := c.obsID
	c.observers[id] = observer{name: name, fn: fn}
	return c.Command(cmdObserveProperty, id, name)
}

// OnEvent registers fn to run (from Dispatch) for a named lifecycle event,
// e.g. EventSeek or EventPlaybackRestart. Must be called before the event
// loop starts.
func (c *Client) OnEvent(name string, fn func()) {
	c.events[name] = append(c.events[name], fn)
}
