package presence

import (
	"sync"

	"github.com/google/uuid"
)

// Tracker counts live websocket connections per user. A user is online while
// at least one connection is open; entries are removed once the count drops
// back to zero. State is process-local and lost on restart, which is fine:
// presence is a liveness hint, not a durability guarantee.
type Tracker struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int
}

func NewTracker() *Tracker {
	return &Tracker{counts: make(map[uuid.UUID]int)}
}

// Connect records one more live connection for the user.
func (t *Tracker) Connect(userID uuid.UUID) {
	t.mu.Lock()
	t.counts[userID]++
	t.mu.Unlock()
}

// Disconnect records a closed connection. Disconnecting a user with no
// recorded connections is a no-op; the count never goes negative.
func (t *Tracker) Disconnect(userID uuid.UUID) {
	t.mu.Lock()
	if n, ok := t.counts[userID]; ok {
		if n <= 1 {
			delete(t.counts, userID)
		} else {
			t.counts[userID] = n - 1
		}
	}
	t.mu.Unlock()
}

// IsOnline reports whether the user has at least one live connection.
func (t *Tracker) IsOnline(userID uuid.UUID) bool {
	t.mu.Lock()
	n := t.counts[userID]
	t.mu.Unlock()
	return n > 0
}

// OnlineCount returns the number of distinct online users.
func (t *Tracker) OnlineCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.counts)
}
