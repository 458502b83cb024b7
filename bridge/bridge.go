package bridge

import (
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/lbonnet/mpvris/config"
	"github.com/lbonnet/mpvris/logger"
)

// defaultCallTimeout bounds how long an inbound bus request may sit in the
// dispatch queue before it is answered with a failure.
const defaultCallTimeout = 5 * time.Second

// New assembles the descriptor tables. A nil gain control selects the
// default mpv ao-volume backend. Malformed tables fail here, before any
// bus traffic.
func New(cfg *config.BridgeConfig, p Player, gain GainControl) (*Bridge, error) {
	b := &Bridge{
		cfg:         cfg,
		player:      p,
		gain:        gain,
		calls:       make(chan *busCall, 16),
		callTimeout: defaultCallTimeout,
		stopped:     make(chan struct{}),
	}
	if b.gain == nil {
		b.gain = &aoGain{player: p}
	}

	var err error
	if b.root, err = buildInterface(ifaceRoot, b.rootEntries()); err != nil {
		return nil, err
	}
	if b.ctrl, err = buildInterface(ifacePlayer, b.playerEntries()); err != nil {
		return nil, err
	}
	if b.props, err = buildInterface(ifaceProperties, b.propertiesEntries()); err != nil {
		return nil, err
	}

	return b, nil
}

// Start connects to the session bus, registers the object model at the
// MPRIS path, requests the well-known name and binds the player observers.
// Any failure is fatal and carries the transport's error.
func (b *Bridge) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return &StartupError{Step: "connect session bus", Err: err}
	}
	b.conn = conn
	b.emit = conn

	for _, t := range []*interfaceTable{b.root, b.ctrl, b.props} {
		if err := conn.ExportMethodTable(t.methods, pathMPRIS, t.name); err != nil {
			conn.Close()
			return &StartupError{Step: "export " + t.name, Err: err}
		}
	}

	node := &introspect.Node{
		Name: string(pathMPRIS),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			b.props.intro,
			b.root.intro,
			b.ctrl.intro,
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), pathMPRIS, ifaceIntrospectable); err != nil {
		conn.Close()
		return &StartupError{Step: "export introspection", Err: err}
	}

	// Non-exclusive request, no special flags.
	reply, err := conn.RequestName(b.cfg.BusName, 0)
	if err != nil {
		conn.Close()
		return &StartupError{Step: "request name " + b.cfg.BusName, Err: err}
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		logger.Warn("[bridge] %s already has an owner, waiting in queue", b.cfg.BusName)
	}

	if err := b.bindObservers(); err != nil {
		conn.Close()
		return &StartupError{Step: "bind observers", Err: err}
	}

	logger.Info("[bridge] serving %s at %s", b.cfg.BusName, pathMPRIS)
	return nil
}

// Close releases the service name and the connection. Best-effort:
// failures are logged, never escalated.
func (b *Bridge) Close() {
	if b.conn == nil {
		return
	}
	if _, err := b.conn.ReleaseName(b.cfg.BusName); err != nil {
		logger.Warn("[bridge] release %s: %v", b.cfg.BusName, err)
	}
	if err := b.conn.Close(); err != nil {
		logger.Warn("[bridge] close connection: %v", err)
	}
	b.conn = nil
	logger.Info("[bridge] stopped")
}
