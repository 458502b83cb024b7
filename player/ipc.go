package player

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/lbonnet/mpvris/logger"
)

// read is the socket reader goroutine: replies complete pending calls,
// events are queued for Dispatch and the wakeup channel is poked.
func (c *Client) read() {
	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var msg ipcMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			logger.Warn("[player] malformed IPC frame: %v", err)
			continue
		}

		if msg.Event == "" {
			c.mu.Lock()
			ch, ok := c.pending[msg.RequestID]
			c.mu.Unlock()
			if ok {
				ch <- msg
			}
			continue
		}

		c.mu.Lock()
		c.queue = append(c.queue, msg)
		c.mu.Unlock()
		c.poke()
	}

	c.shutdown()
}

// poke unblocks a waiter without accumulating stale wakeups.
func (c *Client) poke() {
	select {
	case c.wakeup <- struct{}{}:
	default:
	}
}

// shutdown marks the client stopped and fails every in-flight call.
func (c *Client) shutdown() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()

	close(c.done)
	c.poke()
	logger.Info("[player] mpv connection closed")
}

// Running reports whether the player is still reachable. It turns false
// once mpv announces shutdown or the socket goes away.
func (c *Client) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Wakeup returns the channel poked whenever events are pending.
func (c *Client) Wakeup() <-chan struct{} {
	return c.wakeup
}

// Done returns a channel closed when the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// NextTimeout returns the time until the client's next scheduled liveness
// ping, or -1 when no deadline is pending.
func (c *Client) NextTimeout() time.Duration {
	if c.cfg.PingInterval <= 0 {
		return -1
	}
	until := time.Until(c.nextPing)
	if until < 0 {
		return 0
	}
	return until
}

// Dispatch drains pending events and invokes observer and event callbacks
// on the calling goroutine. Non-blocking with respect to the socket: it
// only processes what the reader already queued.
func (c *Client) Dispatch() error {
	c.mu.Lock()
	batch := c.queue
	c.queue = nil
	c.mu.Unlock()

	for _, msg := range batch {
		switch msg.Event {
		case "property-change":
			obs, ok := c.observers[msg.ID]
			if !ok {
				logger.Debug("[player] property-change for unknown observer id %d", msg.ID)
				continue
			}
			logger.Debug("[player] property %s changed", obs.name)
			obs.fn()
		case EventShutdown:
			logger.Info("[player] mpv is shutting down")
			c.conn.Close()
			c.shutdown()
		default:
			for _, fn := range c.events[msg.Event] {
				fn()
			}
		}
	}

	return c.pingIfDue()
}

// pingIfDue performs the scheduled liveness round trip. A dead socket is
// detected here even when mpv is otherwise silent.
func (c *Client) pingIfDue() error {
	if c.cfg.PingInterval <= 0 || time.Now().Before(c.nextPing) {
		return nil
	}
	c.nextPing = time.Now().Add(c.cfg.PingInterval)

	if _, err := c.GetInt("pid"); err != nil {
		if _, closed := err.(*ClosedError); closed {
			return nil // Running() already false, loop exits on its own
		}
		logger.Warn("[player] liveness ping failed: %v", err)
	}
	return nil
}

// Close tears the connection down.
func (c *Client) Close() {
	c.conn.Close()
}
