package store

import (
	"testing"
	"time"

	"github.com/planforge/planforge/internal/plan"
)

// freezeTime pins timeNow to a fixed instant and restores it on cleanup.
func freezeTime(t *testing.T, at time.Time) func(time.Time) {
	t.Helper()
	orig := timeNow
	t.Cleanup(func() { timeNow = orig })
	current := at
	timeNow = func() time.Time { return current }
	return func(to time.Time) { current = to }
}

func TestAcquireLock_MutualExclusion(t *testing.T) {
	s := newTestFileStore(t)
	freezeTime(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	ok, err := s.AcquireLock(plan.HolderWorker, "implement E1.S1")
	if err != nil || !ok {
		t.Fatalf("first AcquireLock: ok=%v err=%v", ok, err)
	}

	ok, err = s.AcquireLock(plan.HolderUser, "")
	if err != nil {
		t.Fatalf("second AcquireLock: %v", err)
	}
	if ok {
		t.Error("second AcquireLock should fail while the first is unexpired")
	}
}

func TestAcquireLock_ExpiredLockIsReplaced(t *testing.T) {
	s := newTestFileStore(t)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	advance := freezeTime(t, start)

	if ok, _ := s.AcquireLock(plan.HolderWorker, "long task"); !ok {
		t.Fatal("first AcquireLock should succeed")
	}

	// Just before expiry: still held.
	advance(start.Add(DefaultLockTimeout - time.Second))
	if ok, _ := s.AcquireLock(plan.HolderUser, ""); ok {
		t.Error("lock should still be held just before its timeout")
	}

	// Past expiry: a crashed holder's lock self-expires.
	advance(start.Add(DefaultLockTimeout + time.Second))
	ok, err := s.AcquireLock(plan.HolderUser, "")
	if err != nil || !ok {
		t.Fatalf("AcquireLock after expiry: ok=%v err=%v", ok, err)
	}

	lock, err := s.ReadLock()
	if err != nil || lock == nil {
		t.Fatalf("ReadLock: %v, %v", lock, err)
	}
	if lock.Holder != plan.HolderUser {
		t.Errorf("lock holder = %q, want user", lock.Holder)
	}
}

func TestReleaseLock(t *testing.T) {
	s := newTestFileStore(t)
	freezeTime(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	if ok, _ := s.AcquireLock(plan.HolderSystem, "validation"); !ok {
		t.Fatal("AcquireLock should succeed")
	}
	if err := s.ReleaseLock(); err != nil {
		t.Fatalf("ReleaseLock: %v", err)
	}

	lock, err := s.ReadLock()
	if err != nil {
		t.Fatalf("ReadLock: %v", err)
	}
	if lock != nil {
		t.Errorf("lock should be gone after release, got %+v", lock)
	}

	// Releasing an absent lock is fine.
	if err := s.ReleaseLock(); err != nil {
		t.Errorf("ReleaseLock of absent lock: %v", err)
	}

	if ok, _ := s.AcquireLock(plan.HolderWorker, ""); !ok {
		t.Error("AcquireLock after release should succeed")
	}
}

func TestAcquireLock_RejectsUnknownHolder(t *testing.T) {
	s := newTestFileStore(t)
	if _, err := s.AcquireLock("pid-1234", ""); err == nil {
		t.Error("AcquireLock should reject non-role holder labels")
	}
}

func TestReadLock_NoLock(t *testing.T) {
	s := newTestFileStore(t)
	lock, err := s.ReadLock()
	if err != nil {
		t.Fatalf("ReadLock: %v", err)
	}
	if lock != nil {
		t.Errorf("ReadLock on fresh store = %+v, want nil", lock)
	}
}

func TestLockHeld_MalformedTimeoutTreatedAsExpired(t *testing.T) {
	lock := &plan.Lock{Holder: plan.HolderWorker, Timeout: "garbage"}
	if lockHeld(lock, time.Now()) {
		t.Error("a lock with an unparseable timeout must not wedge the tree")
	}
}
