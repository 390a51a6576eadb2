// Package idgen provides session ID generators.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/artpar/judegen/ports"
	"github.com/google/uuid"
)

// UUID generates random (v4) UUIDs.
type UUID struct{}

// New returns a new UUID.
func (UUID) New() string {
	return uuid.New().String()
}

var _ ports.IDGenerator = UUID{}

// Sequential generates predictable ids such as "session-1" for tests.
type Sequential struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a sequential generator.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New returns the next id.
func (s *Sequential) New() string {
	return s.prefix + strconv.FormatUint(s.counter.Add(1), 10)
}

var _ ports.IDGenerator = (*Sequential)(nil)
