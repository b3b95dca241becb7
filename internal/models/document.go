package models

import (
	"strings"
	"time"
)

// Document is implemented by pointers to every stored entity. Repositories use it
// to assign identities and timestamps without knowing the concrete type.
type Document[T any] interface {
	*T
	GetID() string
	SetID(id string)
	GetCreatedAt() time.Time
	SetTimestamps(createdAt, updatedAt time.Time)
}

// Now returns the current UTC time truncated to the millisecond precision that
// every supported store can round-trip.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Float returns a pointer to v, for optional and zero-valid numeric fields.
func Float(v float64) *float64 {
	return &v
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
