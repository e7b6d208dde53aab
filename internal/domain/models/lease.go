// internal/domain/models/lease.go
package models

import "time"

// Lease is an advisory lock document used to serialize background runs
// (one active digest run at a time). Name is unique; a lease held past
// ExpiresAt is considered abandoned and may be taken over.
type Lease struct {
	Name       string    `bson:"_id" json:"name"`
	Owner      string    `bson:"owner" json:"owner"` // uuid of the holder
	AcquiredAt time.Time `bson:"acquired_at" json:"acquired_at"`
	ExpiresAt  time.Time `bson:"expires_at" json:"expires_at"`
}
