package stagehand

import (
	"errors"
	"fmt"
	"testing"
)

// stringStorage loads "loaded:" + args so tests can tell loads from
// inserts. The argument "bad" fails.
func stringStorage() *ResourceStorage[string, string, string] {
	return NewResourceStorage[string, string, string](LoaderFunc[string, string](func(args string) (string, error) {
		if args == "bad" {
			return "", errors.New("boom")
		}
		return "loaded:" + args, nil
	}))
}

func TestResourceStorage_LoadAndGetByKey(t *testing.T) {
	s := stringStorage()
	if err := s.Load("a", "a.txt"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := s.GetByKey("a")
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if got != "loaded:a.txt" {
		t.Errorf("GetByKey = %q, want %q", got, "loaded:a.txt")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestResourceStorage_LoadErrors(t *testing.T) {
	s := stringStorage()
	if err := s.Load("a", "a.txt"); err != nil {
		t.Fatal(err)
	}

	err := s.Load("a", "other.txt")
	var exists *AlreadyExistsError
	if !errors.As(err, &exists) || exists.Key != "a" {
		t.Errorf("duplicate Load err = %v, want AlreadyExistsError{a}", err)
	}
	if got, _ := s.GetByKey("a"); got != "loaded:a.txt" {
		t.Errorf("duplicate Load replaced value: %q", got)
	}

	err = s.Load("b", "bad")
	var failure *LoadFailureError
	if !errors.As(err, &failure) || failure.Key != "b" {
		t.Fatalf("failing Load err = %v, want LoadFailureError{b}", err)
	}
	if failure.Unwrap() == nil || failure.Unwrap().Error() != "boom" {
		t.Errorf("LoadFailureError wraps %v, want boom", failure.Unwrap())
	}
	if s.Contains("b") {
		t.Error("failed load stored a resource")
	}

	nilLoader := NewResourceStorage[string, string, string](nil)
	if err := nilLoader.Load("x", "x"); !errors.As(err, &failure) {
		t.Errorf("nil loader err = %v, want LoadFailureError", err)
	}
}

func TestResourceStorage_NotStored(t *testing.T) {
	s := stringStorage()
	var missing *NotStoredError
	if _, err := s.GetByKey("nope"); !errors.As(err, &missing) || missing.Key != "nope" {
		t.Errorf("GetByKey err = %v, want NotStoredError{nope}", err)
	}
	if _, err := s.TakeTicket("nope"); !errors.As(err, &missing) {
		t.Errorf("TakeTicket err = %v, want NotStoredError", err)
	}
}

func TestResourceStorage_TicketLifecycle(t *testing.T) {
	s := stringStorage()
	if err := s.Load("a", "a"); err != nil {
		t.Fatal(err)
	}

	// Tickets can be taken while unlocked but do not resolve.
	tk, err := s.TakeTicket("a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetByTicket(tk); !errors.Is(err, ErrStorageUnlocked) {
		t.Errorf("unlocked GetByTicket err = %v, want ErrStorageUnlocked", err)
	}

	s.Lock()
	got, err := s.GetByTicket(tk)
	if err != nil || got != "loaded:a" {
		t.Errorf("GetByTicket = %q, %v; want loaded:a, nil", got, err)
	}

	// Unlock + Lock bumps the epoch and strands the old ticket.
	s.Unlock()
	s.Lock()
	if _, err := s.GetByTicket(tk); !errors.Is(err, ErrTicketOutdated) {
		t.Errorf("stale GetByTicket err = %v, want ErrTicketOutdated", err)
	}
	fresh, err := s.TakeTicket("a")
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Epoch() != tk.Epoch()+1 {
		t.Errorf("fresh epoch = %d, want %d", fresh.Epoch(), tk.Epoch()+1)
	}
	if _, err := s.GetByTicket(fresh); err != nil {
		t.Errorf("fresh GetByTicket: %v", err)
	}
}

func TestResourceStorage_WrongStorage(t *testing.T) {
	a, b := stringStorage(), stringStorage()
	for _, s := range []*ResourceStorage[string, string, string]{a, b} {
		if err := s.Load("k", "k"); err != nil {
			t.Fatal(err)
		}
		s.Lock()
	}
	tk, _ := a.TakeTicket("k")
	if _, err := b.GetByTicket(tk); !errors.Is(err, ErrWrongStorage) {
		t.Errorf("GetByTicket err = %v, want ErrWrongStorage", err)
	}
	if a.ID() == b.ID() {
		t.Error("storages share an identity")
	}
}

func TestResourceStorage_CheckOrder(t *testing.T) {
	a, b := stringStorage(), stringStorage()
	_ = a.Load("k", "k")
	_ = b.Load("k", "k")
	tk, _ := a.TakeTicket("k")

	// Unlocked wins over wrong storage.
	if _, err := b.GetByTicket(tk); !errors.Is(err, ErrStorageUnlocked) {
		t.Errorf("err = %v, want ErrStorageUnlocked", err)
	}
	// Wrong storage wins over outdated epoch.
	b.Unlock()
	b.Lock()
	if _, err := b.GetByTicket(tk); !errors.Is(err, ErrWrongStorage) {
		t.Errorf("err = %v, want ErrWrongStorage", err)
	}
}

func TestResourceStorage_StableIndexes(t *testing.T) {
	s := stringStorage()
	for i := range 5 {
		if err := s.Load(fmt.Sprint(i), fmt.Sprint(i)); err != nil {
			t.Fatal(err)
		}
	}
	first, _ := s.TakeTicket("0")
	for i := 5; i < 10; i++ {
		_ = s.Insert(fmt.Sprint(i), "inserted")
	}
	s.Lock()
	again, _ := s.TakeTicket("0")
	if first.Index() != again.Index() {
		t.Errorf("index moved from %d to %d", first.Index(), again.Index())
	}
	if got := s.GetByTicketUnchecked(again); got != "loaded:0" {
		t.Errorf("GetByTicketUnchecked = %q, want loaded:0", got)
	}
	last, _ := s.TakeTicket("9")
	if last.Index() != 9 {
		t.Errorf("last index = %d, want 9", last.Index())
	}
}

func TestResourceStorage_LockKeepsEpoch(t *testing.T) {
	s := stringStorage()
	e := s.Epoch()
	s.Lock()
	s.Lock()
	if s.Epoch() != e {
		t.Errorf("Lock changed epoch %d -> %d", e, s.Epoch())
	}
	if !s.Locked() {
		t.Error("Locked = false after Lock")
	}
	s.Unlock()
	if s.Locked() || s.Epoch() != e+1 {
		t.Errorf("after Unlock: locked=%v epoch=%d, want false %d", s.Locked(), s.Epoch(), e+1)
	}
}

func TestTicket_Zero(t *testing.T) {
	var zero Ticket
	if !zero.IsZero() {
		t.Error("zero ticket IsZero = false")
	}
	s := stringStorage()
	_ = s.Insert("k", "v")
	tk, _ := s.TakeTicket("k")
	if tk.IsZero() {
		t.Error("issued ticket IsZero = true")
	}
	s.Lock()
	if _, err := s.GetByTicket(zero); !errors.Is(err, ErrWrongStorage) {
		t.Errorf("zero ticket err = %v, want ErrWrongStorage", err)
	}
}

func TestLogResourceError(t *testing.T) {
	// Every branch must log without panicking.
	for _, err := range []error{
		&NotStoredError{Key: "k"},
		&UnknownStorageError{Storage: "Music"},
		ErrStorageUnlocked,
		fmt.Errorf("wrapped: %w", ErrTicketOutdated),
		ErrWrongStorage,
		errors.New("other"),
	} {
		LogResourceError(err)
	}
}
