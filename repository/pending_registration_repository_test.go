package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/haliguyr1-cmyk/RRTournament/repository/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingRegistrationRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPendingRegistrationRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	pending := testutil.CreateTestPendingRegistration(4001)
	require.NoError(t, repo.Create(ctx, pending))
	assert.False(t, pending.CreatedAt.IsZero())

	stored, err := repo.GetByToken(ctx, pending.Token)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.IsPending())
	assert.Equal(t, models.SourceBrowser, stored.Source)
	require.NotNil(t, stored.Record)
	assert.Equal(t, "Player1", *stored.Record.GameUsername)
	assert.Equal(t, []models.Card{{Name: "Twins", Level: 12}}, stored.Record.Cards)
	assert.Nil(t, stored.MessageID)

	require.NoError(t, repo.SetMessage(ctx, pending.Token, 77, 88))
	stored, err = repo.GetByToken(ctx, pending.Token)
	require.NoError(t, err)
	require.NotNil(t, stored.ChannelID)
	assert.Equal(t, int64(77), *stored.ChannelID)
	assert.Equal(t, int64(88), *stored.MessageID)

	missing, err := repo.GetByToken(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, repo.SetMessage(ctx, uuid.New(), 1, 2))
}

func TestPendingRegistrationRepository_MarkDecided(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPendingRegistrationRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	t.Run("approve keeps record", func(t *testing.T) {
		pending := testutil.CreateTestPendingRegistration(5001)
		require.NoError(t, repo.Create(ctx, pending))

		won, err := repo.MarkDecided(ctx, pending.Token, models.PendingStatusApproved, 42)
		require.NoError(t, err)
		assert.True(t, won)

		stored, err := repo.GetByToken(ctx, pending.Token)
		require.NoError(t, err)
		assert.Equal(t, models.PendingStatusApproved, stored.Status)
		assert.NotNil(t, stored.Record)
		require.NotNil(t, stored.DecidedBy)
		assert.Equal(t, int64(42), *stored.DecidedBy)
		assert.NotNil(t, stored.DecidedAt)
	})

	t.Run("reject clears record", func(t *testing.T) {
		pending := testutil.CreateTestPendingRegistration(5002)
		require.NoError(t, repo.Create(ctx, pending))

		won, err := repo.MarkDecided(ctx, pending.Token, models.PendingStatusRejected, 42)
		require.NoError(t, err)
		assert.True(t, won)

		stored, err := repo.GetByToken(ctx, pending.Token)
		require.NoError(t, err)
		assert.Equal(t, models.PendingStatusRejected, stored.Status)
		assert.Nil(t, stored.Record)
	})

	t.Run("second decision loses", func(t *testing.T) {
		pending := testutil.CreateTestPendingRegistration(5003)
		require.NoError(t, repo.Create(ctx, pending))

		won, err := repo.MarkDecided(ctx, pending.Token, models.PendingStatusApproved, 1)
		require.NoError(t, err)
		assert.True(t, won)

		won, err = repo.MarkDecided(ctx, pending.Token, models.PendingStatusRejected, 2)
		require.NoError(t, err)
		assert.False(t, won)

		stored, err := repo.GetByToken(ctx, pending.Token)
		require.NoError(t, err)
		assert.Equal(t, models.PendingStatusApproved, stored.Status)
	})

	t.Run("concurrent decisions have one winner", func(t *testing.T) {
		pending := testutil.CreateTestPendingRegistration(5004)
		require.NoError(t, repo.Create(ctx, pending))

		const moderators = 5
		var wg sync.WaitGroup
		results := make(chan bool, moderators)
		for i := 0; i < moderators; i++ {
			wg.Add(1)
			go func(moderatorID int64) {
				defer wg.Done()
				won, err := repo.MarkDecided(ctx, pending.Token, models.PendingStatusApproved, moderatorID)
				assert.NoError(t, err)
				results <- won
			}(int64(i + 1))
		}
		wg.Wait()
		close(results)

		winners := 0
		for won := range results {
			if won {
				winners++
			}
		}
		assert.Equal(t, 1, winners)
	})

	t.Run("abandoned keeps payload without moderator", func(t *testing.T) {
		pending := testutil.CreateTestPendingRegistration(5005)
		require.NoError(t, repo.Create(ctx, pending))

		won, err := repo.MarkDecided(ctx, pending.Token, models.PendingStatusAbandoned, 0)
		require.NoError(t, err)
		assert.True(t, won)

		stored, err := repo.GetByToken(ctx, pending.Token)
		require.NoError(t, err)
		assert.Equal(t, models.PendingStatusAbandoned, stored.Status)
		assert.Nil(t, stored.DecidedBy)
		assert.NotNil(t, stored.DecidedAt)
		assert.NotNil(t, stored.Record)

		stale, err := repo.ListStale(ctx, time.Now().Add(time.Minute))
		require.NoError(t, err)
		for _, p := range stale {
			assert.NotEqual(t, pending.Token, p.Token)
		}
	})

	t.Run("pending is not a decision", func(t *testing.T) {
		_, err := repo.MarkDecided(ctx, uuid.New(), models.PendingStatusPending, 1)
		assert.Error(t, err)
	})
}

func TestPendingRegistrationRepository_Stale(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	repo := NewPendingRegistrationRepository(testDB.DB, testGuildID)
	other := NewPendingRegistrationRepository(testDB.DB, testGuildID+7)

	old := testutil.CreateTestPendingRegistration(6001)
	require.NoError(t, repo.Create(ctx, old))
	decided := testutil.CreateTestPendingRegistration(6002)
	require.NoError(t, repo.Create(ctx, decided))
	_, err := repo.MarkDecided(ctx, decided.Token, models.PendingStatusRejected, 1)
	require.NoError(t, err)
	require.NoError(t, other.Create(ctx, testutil.CreateTestPendingRegistration(6003)))

	stale, err := repo.ListStale(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, old.Token, stale[0].Token)

	none, err := repo.ListStale(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, none)

	guilds, err := repo.GetGuildsWithPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{testGuildID, testGuildID + 7}, guilds)
}
