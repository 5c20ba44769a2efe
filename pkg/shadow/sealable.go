package shadow

import (
	"sync/atomic"

	"github.com/vango-dev/shadowtree/internal/errors"
)

// Sealable is embedded by props implementations to get a monotonic,
// race-free sealed flag.
type Sealable struct {
	sealed atomic.Bool
}

// Seal freezes the value. It is idempotent.
func (s *Sealable) Seal() {
	s.sealed.Store(true)
}

// Sealed reports whether Seal has been called.
func (s *Sealable) Sealed() bool {
	return s.sealed.Load()
}

// EnsureUnsealed panics with E101 if the value is sealed. Mutators call it
// before changing any field.
func (s *Sealable) EnsureUnsealed(op string) {
	if s.sealed.Load() {
		panic(errors.Invariant(errors.CodeMutationSealed, op))
	}
}
