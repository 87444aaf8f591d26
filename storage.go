package stagehand

import (
	"fmt"

	"github.com/google/uuid"
)

// Loader produces a resource of type R from load arguments A (usually a path).
type Loader[R, A any] interface {
	Load(args A) (R, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc[R, A any] func(args A) (R, error)

// Load calls f(args).
func (f LoaderFunc[R, A]) Load(args A) (R, error) { return f(args) }

// ResourceStorage is an append-only keyed collection of resources that hands
// out generation-checked Tickets.
//
// Resources are never removed, so a slot index is stable for the storage's
// lifetime. Unlock signals that resource identities are about to change and
// invalidates every outstanding ticket by bumping the epoch; Lock marks the
// storage stable again. Tickets can be taken at any time but only resolve
// while locked.
//
// The storage owns each resource. Callers receive the stored value itself,
// so R is normally a pointer or another reference type that consumers treat
// as read-only.
type ResourceStorage[K comparable, R, A any] struct {
	loader Loader[R, A]
	store  []R
	index  map[K]int

	id     uuid.UUID
	epoch  uint32
	locked bool
}

// NewResourceStorage creates an empty, unlocked storage with a fresh identity.
func NewResourceStorage[K comparable, R, A any](loader Loader[R, A]) *ResourceStorage[K, R, A] {
	return &ResourceStorage[K, R, A]{
		loader: loader,
		index:  make(map[K]int),
		id:     uuid.New(),
	}
}

// ID returns the storage identity stamped on every ticket it issues.
func (s *ResourceStorage[K, R, A]) ID() uuid.UUID { return s.id }

// Epoch returns the current epoch. It increases by one on every Unlock.
func (s *ResourceStorage[K, R, A]) Epoch() uint32 { return s.epoch }

// Locked reports whether tickets can currently be dereferenced.
func (s *ResourceStorage[K, R, A]) Locked() bool { return s.locked }

// Len returns the number of stored resources.
func (s *ResourceStorage[K, R, A]) Len() int { return len(s.store) }

// Lock marks the storage stable. The epoch is unchanged.
func (s *ResourceStorage[K, R, A]) Lock() {
	s.locked = true
}

// Unlock clears the locked flag and advances the epoch, making every ticket
// issued before this call stale.
func (s *ResourceStorage[K, R, A]) Unlock() {
	s.locked = false
	s.epoch++
}

// Load runs the loader with args and stores the result under key. It never
// replaces an existing key.
func (s *ResourceStorage[K, R, A]) Load(key K, args A) error {
	if _, ok := s.index[key]; ok {
		return &AlreadyExistsError{Key: keyString(key)}
	}
	if s.loader == nil {
		return &LoadFailureError{Key: keyString(key), Err: fmt.Errorf("no loader configured")}
	}
	r, err := s.loader.Load(args)
	if err != nil {
		return &LoadFailureError{Key: keyString(key), Err: err}
	}
	return s.Insert(key, r)
}

// Insert stores an already constructed resource under key, bypassing the
// loader. Useful for generated resources such as the default font.
func (s *ResourceStorage[K, R, A]) Insert(key K, r R) error {
	if _, ok := s.index[key]; ok {
		return &AlreadyExistsError{Key: keyString(key)}
	}
	s.store = append(s.store, r)
	s.index[key] = len(s.store) - 1
	return nil
}

// Contains reports whether key is stored.
func (s *ResourceStorage[K, R, A]) Contains(key K) bool {
	_, ok := s.index[key]
	return ok
}

// GetByKey looks a resource up directly, without a ticket.
func (s *ResourceStorage[K, R, A]) GetByKey(key K) (R, error) {
	i, ok := s.index[key]
	if !ok {
		var zero R
		return zero, &NotStoredError{Key: keyString(key)}
	}
	return s.store[i], nil
}

// TakeTicket issues a ticket for key under the current epoch. The storage
// does not have to be locked.
func (s *ResourceStorage[K, R, A]) TakeTicket(key K) (Ticket, error) {
	i, ok := s.index[key]
	if !ok {
		return Ticket{}, &NotStoredError{Key: keyString(key)}
	}
	return Ticket{index: i, storage: s.id, epoch: s.epoch}, nil
}

// GetByTicket resolves a ticket. It fails with ErrStorageUnlocked,
// ErrWrongStorage or ErrTicketOutdated, checked in that order.
func (s *ResourceStorage[K, R, A]) GetByTicket(t Ticket) (R, error) {
	var zero R
	if !s.locked {
		return zero, ErrStorageUnlocked
	}
	if t.storage != s.id {
		return zero, ErrWrongStorage
	}
	if t.epoch != s.epoch {
		return zero, ErrTicketOutdated
	}
	return s.store[t.index], nil
}

// GetByTicketUnchecked resolves a ticket without any validation. It panics
// if the index is out of range. Callers take responsibility for the ticket
// coming from this storage.
func (s *ResourceStorage[K, R, A]) GetByTicketUnchecked(t Ticket) R {
	return s.store[t.index]
}

func keyString[K comparable](key K) string {
	if s, ok := any(key).(string); ok {
		return s
	}
	return fmt.Sprint(key)
}
