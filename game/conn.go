package game

// Conn is the live channel through which the server pushes events to one
// client. The socket package provides the real implementation; tests use
// fakes. Send must never block game logic.
type Conn interface {
	// ID identifies the underlying connection (for the durable queue mirror
	// and for telling a reconnect apart from the original connection).
	ID() string
	// Send queues an outbound event for delivery; delivery is best-effort.
	Send(event string, payload interface{})
	// IsLive reports whether the connection is still usable.
	IsLive() bool
}
