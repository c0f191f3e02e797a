package session

import (
	"context"
	"sync"

	"serenity/models"
)

// MemoryRepo is the default in-process session store. Sessions live for the
// process lifetime, matching the single-instance deployment model.
type MemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	locks    *keyedMutex
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		sessions: make(map[string]*models.Session),
		locks:    newKeyedMutex(),
	}
}

func (r *MemoryRepo) Get(_ context.Context, waID string) (*models.Session, error) {
	r.mu.RLock()
	sess, ok := r.sessions[waID]
	r.mu.RUnlock()
	if ok {
		return sess, nil
	}

	sess = models.NewSession(waID)
	r.mu.Lock()
	// Another goroutine may have stored one since the read lock dropped.
	if existing, ok := r.sessions[waID]; ok {
		sess = existing
	} else {
		r.sessions[waID] = sess
	}
	r.mu.Unlock()
	return sess, nil
}

func (r *MemoryRepo) Save(_ context.Context, sess *models.Session) error {
	r.mu.Lock()
	r.sessions[sess.WaID] = sess
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepo) Reset(ctx context.Context, sess *models.Session) error {
	sess.Reset()
	return r.Save(ctx, sess)
}

func (r *MemoryRepo) Lock(waID string) func() {
	return r.locks.lock(waID)
}
