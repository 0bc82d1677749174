package domain

import "time"

// User represents a registered user. The ledger itself only consumes the
// identifier; credentials are handled by the user service.
type User struct {
	ID             int64
	Username       string
	HashedPassword string
	CreatedAt      time.Time
}
