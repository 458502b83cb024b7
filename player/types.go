package player

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/lbonnet/mpvris/config"
)

// Client talks to a running mpv instance over its JSON IPC socket.
//
// Synchronous accessors (Get*/Set*/Command) may be called from any
// goroutine; replies are matched by request id. Observer and event
// callbacks are only ever invoked from Dispatch, on the caller's
// goroutine, run-to-completion.
type Client struct {
	cfg  *config.PlayerConfig
	conn net.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	running bool
	nextID  int64
	pending map[int64]chan ipcMessage
	queue   []ipcMessage

	// registered before the event loop starts, read-only afterwards
	observers map[int64]observer
	events    map[string][]func()
	obsID     int64

	wakeup   chan struct{}
	done     chan struct{}
	nextPing time.Time
}

type observer struct {
	name string
	fn   func()
}

// ipcMessage is the union of mpv reply and event frames.
type ipcMessage struct {
	Event     string          `json:"event,omitempty"`
	Name      string          `json:"name,omitempty"`
	ID        int64           `json:"id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	RequestID int64           `json:"request_id,omitempty"`
}

type ipcRequest struct {
	Command   []interface{} `json:"command"`
	RequestID int64         `json:"request_id"`
}
