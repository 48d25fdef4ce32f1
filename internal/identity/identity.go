package identity

import "context"

// Storage keys. The device key lives in a durable store and survives
// restarts; the session key lives in an ephemeral store scoped to one run.
const (
	DeviceKey  = "device-identifier"
	SessionKey = "session-identifier"
)

// Identity carries the device and session identifiers assigned during
// registration. Both stay empty until the handshake succeeds.
type Identity struct {
	DeviceUUID  string
	SessionUUID string
}

// Store is a key-value identity store. SetIfAbsent is write-once: a key
// that already holds a non-empty value keeps it, and the call returns
// whatever value ended up stored. Empty values are never stored.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	SetIfAbsent(ctx context.Context, key, value string) (string, error)
	Close() error
}
