package presence

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestConnectDisconnect(t *testing.T) {
	tr := NewTracker()
	user := uuid.New()

	if tr.IsOnline(user) {
		t.Fatal("user should start offline")
	}

	tr.Connect(user)
	if !tr.IsOnline(user) {
		t.Fatal("user should be online after connect")
	}

	// Second tab.
	tr.Connect(user)
	tr.Disconnect(user)
	if !tr.IsOnline(user) {
		t.Fatal("user should stay online while one connection remains")
	}

	tr.Disconnect(user)
	if tr.IsOnline(user) {
		t.Fatal("user should be offline after last disconnect")
	}
	if tr.OnlineCount() != 0 {
		t.Fatalf("expected empty tracker, got %d entries", tr.OnlineCount())
	}
}

func TestDisconnectUnknownUserIsNoop(t *testing.T) {
	tr := NewTracker()
	user := uuid.New()

	tr.Disconnect(user)
	tr.Disconnect(user)

	if tr.IsOnline(user) {
		t.Fatal("unknown user must stay offline")
	}

	// The count must not have gone negative: one connect makes the user
	// online again.
	tr.Connect(user)
	if !tr.IsOnline(user) {
		t.Fatal("user should be online after a single connect")
	}
}

func TestConcurrentConnectDisconnect(t *testing.T) {
	tr := NewTracker()
	user := uuid.New()
	other := uuid.New()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			tr.Connect(user)
		}()
		go func() {
			defer wg.Done()
			tr.Connect(other)
		}()
	}
	wg.Wait()

	if !tr.IsOnline(user) || !tr.IsOnline(other) {
		t.Fatal("both users should be online")
	}

	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			tr.Disconnect(user)
		}()
		go func() {
			defer wg.Done()
			tr.Disconnect(other)
		}()
	}
	wg.Wait()

	if tr.IsOnline(user) || tr.IsOnline(other) {
		t.Fatal("no connections remain, both users should be offline")
	}
}
