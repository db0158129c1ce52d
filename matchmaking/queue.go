package matchmaking

import (
	"sync"
)

// QueueEntry is one waiting join request
type QueueEntry struct {
	PlayerID string
	Payload  interface{}
}

// IntakeQueue buffers join requests until a cycle drains them
//
// Enqueueing is idempotent per player id, a player spamming join requests
// holds exactly one spot. Entries never expire on their own, only a drain
// removes them.
type IntakeQueue struct {
	sync.Mutex

	entries []QueueEntry
	queued  map[string]bool
}

func NewIntakeQueue() (q *IntakeQueue) {
	q = &IntakeQueue{
		queued: make(map[string]bool),
	}
	return
}

// Enqueue adds a join request unless the player is already queued,
// returning whether a new entry was added
func (q *IntakeQueue) Enqueue(playerID string, payload interface{}) (added bool) {
	q.Lock()
	if !q.queued[playerID] {
		q.queued[playerID] = true
		q.entries = append(q.entries, QueueEntry{
			PlayerID: playerID,
			Payload:  payload,
		})
		added = true
	}
	q.Unlock()
	return
}

func (q *IntakeQueue) Len() (n int) {
	q.Lock()
	n = len(q.entries)
	q.Unlock()
	return
}

// DrainAll atomically empties the queue and returns the entries in
// insertion order
func (q *IntakeQueue) DrainAll() (entries []QueueEntry) {
	q.Lock()
	entries = q.entries
	q.entries = nil
	q.queued = make(map[string]bool)
	q.Unlock()
	return
}
