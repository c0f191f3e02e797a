package session

import (
	"context"
	"sync"

	"serenity/models"
)

// Repository abstracts session storage so the state machine never touches
// the backing store directly. Get creates and stores a fresh session for
// unknown senders.
type Repository interface {
	Get(ctx context.Context, waID string) (*models.Session, error)
	Save(ctx context.Context, sess *models.Session) error
	Reset(ctx context.Context, sess *models.Session) error
	// Lock acquires the per-sender mutex and returns the release func.
	// Concurrent inbound messages from one sender serialize on it.
	Lock(waID string) func()
}

// keyedMutex hands out one mutex per sender ID.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(id string) func() {
	k.mu.Lock()
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
