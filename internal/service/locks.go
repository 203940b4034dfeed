package service

import (
	"sync"

	"github.com/google/uuid"
)

// auctionLocks hands out one mutex per auction. Bid admission and the
// sweep's finalization serialize on the same lock, so a bid is never
// validated against a status a racing sweep is about to close.
type auctionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newAuctionLocks() *auctionLocks {
	return &auctionLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// lock returns the auction's mutex already held; the caller unlocks it.
func (l *auctionLocks) lock(auctionId uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	lock, ok := l.locks[auctionId]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[auctionId] = lock
	}
	l.mu.Unlock()

	lock.Lock()

	return lock
}
