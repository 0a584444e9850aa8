// Package keypool manages a pool of interchangeable YouTube API keys.
//
// The pool is shared by every request a client issues: the current key is
// attached to each call, and the cursor only advances when the API reports
// a quota or permission problem with that key. Rotation is reactive, never
// round-robin.
package keypool

import (
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// ErrNoCredentials is returned when the pool holds no API keys.
var ErrNoCredentials = errors.New("no API keys configured")

// Pool holds an ordered set of API keys and a rotation cursor.
// The cursor is advanced atomically so concurrent pipelines sharing one
// pool cannot race a read-modify-write.
type Pool struct {
	keys   []string
	cursor atomic.Int64
}

// New creates a pool over the given keys. The first key is current.
func New(keys []string) *Pool {
	return &Pool{keys: keys}
}

// Size returns the number of keys in the pool.
func (p *Pool) Size() int {
	return len(p.keys)
}

// Current returns the key the cursor points at.
func (p *Pool) Current() (string, error) {
	if len(p.keys) == 0 {
		return "", ErrNoCredentials
	}
	idx := int(p.cursor.Load()) % len(p.keys)
	return p.keys[idx], nil
}

// Rotate advances the cursor to the next key in the pool.
func (p *Pool) Rotate() {
	if len(p.keys) == 0 {
		return
	}
	next := p.cursor.Add(1)
	log.Debug().
		Int64("cursor", next).
		Int("pool_size", len(p.keys)).
		Msg("rotated API key")
}
