package store

import (
	"fmt"
	"time"

	"github.com/planforge/planforge/internal/plan"
)

// Lock handling shared by both backends. The lock is a plain JSON document
// at the .lock key; mutual exclusion is advisory and checked against the
// wall clock, so the logic is identical regardless of storage.

// lockBackend is the slice of Store the lock helpers need.
type lockBackend interface {
	ReadJSON(key string, out any) (bool, error)
	WriteJSON(key string, data any) error
	Delete(key string) error
}

// readLock returns the stored lock record, or nil if none exists.
func readLock(b lockBackend) (*plan.Lock, error) {
	var lock plan.Lock
	found, err := b.ReadJSON(KeyLock, &lock)
	if err != nil {
		return nil, fmt.Errorf("reading lock: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &lock, nil
}

// lockHeld reports whether the record represents a still-live lock at the
// given instant. A record with an unparseable timeout is treated as expired
// rather than wedging the tree forever.
func lockHeld(lock *plan.Lock, now time.Time) bool {
	if lock == nil {
		return false
	}
	expiry, err := time.Parse(time.RFC3339, lock.Timeout)
	if err != nil {
		return false
	}
	return expiry.After(now)
}

// acquireLock takes the lock iff no unexpired lock exists. There is no
// lease renewal: holders that outlive the timeout lose the lock.
func acquireLock(b lockBackend, holder plan.LockHolder, task string, timeout time.Duration) (bool, error) {
	if err := plan.ValidateHolder(holder); err != nil {
		return false, err
	}

	existing, err := readLock(b)
	if err != nil {
		return false, err
	}
	now := timeNow().UTC()
	if lockHeld(existing, now) {
		return false, nil
	}

	lock := plan.Lock{
		Holder:  holder,
		Task:    task,
		Started: now.Format(time.RFC3339),
		Timeout: now.Add(timeout).Format(time.RFC3339),
	}
	if err := b.WriteJSON(KeyLock, lock); err != nil {
		return false, fmt.Errorf("writing lock: %w", err)
	}
	return true, nil
}

// releaseLock drops the lock record. Absent locks release cleanly.
func releaseLock(b lockBackend) error {
	if err := b.Delete(KeyLock); err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}
