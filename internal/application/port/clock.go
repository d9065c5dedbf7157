package port

import "time"

// Clock returns the current time. Injected so tests can pin time.
type Clock func() time.Time

// IDGenerator returns a fresh globally unique identifier.
type IDGenerator func() string
