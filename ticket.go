package stagehand

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Ticket is a generational handle to a resource held by a ResourceStorage.
// Value type; copy it freely and cache it across frames. A ticket resolves
// only while its storage is locked and the storage epoch still matches the
// one recorded at issue time.
type Ticket struct {
	index   int
	storage uuid.UUID
	epoch   uint32
}

// Index returns the slot index the ticket points at.
func (t Ticket) Index() int { return t.index }

// Epoch returns the storage epoch the ticket was issued under.
func (t Ticket) Epoch() uint32 { return t.epoch }

// IsZero reports whether t was never issued by a storage.
func (t Ticket) IsZero() bool { return t.storage == uuid.Nil }

func (t Ticket) String() string {
	return fmt.Sprintf("ticket(%d@%s#%d)", t.index, t.storage, t.epoch)
}

// TicketManager resolves a (storage category, resource key) pair into a
// Ticket. Implemented by aggregates owning several typed storages.
type TicketManager[S any] interface {
	GetTicketWithKey(storage S, key string) (Ticket, error)
}

// Resource errors returned when dereferencing tickets.
var (
	ErrStorageUnlocked = errors.New("stagehand: storage is unlocked")
	ErrTicketOutdated  = errors.New("stagehand: ticket is outdated")
	ErrWrongStorage    = errors.New("stagehand: ticket belongs to a different storage")
)

// NotStoredError reports a lookup for a key the storage does not hold.
type NotStoredError struct {
	Key string
}

func (e *NotStoredError) Error() string {
	return fmt.Sprintf("stagehand: missing resource with key %q", e.Key)
}

// UnknownStorageError reports a TicketManager lookup against a storage
// category the aggregate does not hold.
type UnknownStorageError struct {
	Storage string
}

func (e *UnknownStorageError) Error() string {
	return fmt.Sprintf("stagehand: unknown storage %q", e.Storage)
}

// AlreadyExistsError is returned by Load when the key is already stored.
type AlreadyExistsError struct {
	Key string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("stagehand: resource %q already exists", e.Key)
}

// LoadFailureError wraps an error returned by a Loader.
type LoadFailureError struct {
	Key string
	Err error
}

func (e *LoadFailureError) Error() string {
	return fmt.Sprintf("stagehand: load %q: %v", e.Key, e.Err)
}

func (e *LoadFailureError) Unwrap() error { return e.Err }

// LogResourceError logs a ticket or lookup failure at warn level with a
// message describing which kind of failure occurred.
func LogResourceError(err error) {
	var notStored *NotStoredError
	var unknown *UnknownStorageError
	switch {
	case errors.As(err, &notStored):
		logger().Warn("missing resource", "key", notStored.Key)
	case errors.As(err, &unknown):
		logger().Warn("access to unknown storage", "storage", unknown.Storage)
	case errors.Is(err, ErrStorageUnlocked):
		logger().Warn("access to unlocked storage")
	case errors.Is(err, ErrTicketOutdated):
		logger().Warn("access with outdated ticket")
	case errors.Is(err, ErrWrongStorage):
		logger().Warn("access with ticket from the wrong storage")
	default:
		logger().Warn("resource access failed", "err", err)
	}
}
