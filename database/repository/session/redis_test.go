package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serenity/models"
)

func newRedisRepo(t *testing.T) (*RedisRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepo(client, 24*time.Hour), mr
}

func TestRedisRepoCreatesFreshSession(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	sess, err := repo.Get(ctx, "whatsapp:+254700000001")
	require.NoError(t, err)
	assert.Equal(t, models.StepMainMenu, sess.Step)

	// The fresh session is stored with a TTL.
	assert.True(t, mr.Exists("wa:sess:whatsapp:+254700000001"))
	assert.Greater(t, mr.TTL("wa:sess:whatsapp:+254700000001"), time.Duration(0))
}

func TestRedisRepoRoundTrip(t *testing.T) {
	repo, _ := newRedisRepo(t)
	ctx := context.Background()

	sess, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	sess.Step = models.StepOutdoorAskPeople
	sess.Data.Date = "2024-02-02"
	sess.Data.OutdoorType = "pool party"
	require.NoError(t, repo.Save(ctx, sess))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StepOutdoorAskPeople, got.Step)
	assert.Equal(t, "2024-02-02", got.Data.Date)
	assert.Equal(t, "pool party", got.Data.OutdoorType)
}

func TestRedisRepoReset(t *testing.T) {
	repo, _ := newRedisRepo(t)
	ctx := context.Background()

	sess, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	sess.Step = models.StepCorpPaymentPrompt
	sess.Data.Amount = 35000
	require.NoError(t, repo.Save(ctx, sess))

	require.NoError(t, repo.Reset(ctx, sess))
	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StepMainMenu, got.Step)
	assert.Equal(t, models.SessionData{}, got.Data)
}

func TestRedisRepoExpiredSessionStartsOver(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	sess, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	sess.Step = models.StepBookConfirmProceed
	require.NoError(t, repo.Save(ctx, sess))

	mr.FastForward(25 * time.Hour)

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StepMainMenu, got.Step)
}
