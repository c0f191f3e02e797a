package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serenity/models"
)

func TestMemoryRepoCreatesFreshSession(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	sess, err := repo.Get(ctx, "whatsapp:+254700000001")
	require.NoError(t, err)
	assert.Equal(t, models.StepMainMenu, sess.Step)
	assert.Equal(t, models.SessionData{}, sess.Data)

	// Second Get returns the same record.
	again, err := repo.Get(ctx, "whatsapp:+254700000001")
	require.NoError(t, err)
	assert.Same(t, sess, again)
}

func TestMemoryRepoSaveAndReset(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	sess, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	sess.Step = models.StepBookAskMpesa
	sess.Data.RoomCategory = "penthouse"
	require.NoError(t, repo.Save(ctx, sess))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StepBookAskMpesa, got.Step)
	assert.Equal(t, "penthouse", got.Data.RoomCategory)

	require.NoError(t, repo.Reset(ctx, got))
	got, err = repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StepMainMenu, got.Step)
	assert.Equal(t, models.SessionData{}, got.Data)
}

func TestMemoryRepoIsolatesSenders(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	a, _ := repo.Get(ctx, "a")
	b, _ := repo.Get(ctx, "b")
	a.Step = models.StepCorpAskDate
	require.NoError(t, repo.Save(ctx, a))

	assert.Equal(t, models.StepMainMenu, b.Step)
}

func TestKeyedLockSerializesPerSender(t *testing.T) {
	repo := NewMemoryRepo()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := repo.Lock("same-sender")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, counter)
}

func TestConcurrentGetSingleSession(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	sessions := make([]*models.Session, 50)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := repo.Get(ctx, "same-sender")
			require.NoError(t, err)
			sessions[i] = sess
		}(i)
	}
	wg.Wait()

	for _, sess := range sessions[1:] {
		assert.Same(t, sessions[0], sess)
	}
}
