package repository

import (
	"context"
	"testing"

	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/haliguyr1-cmyk/RRTournament/repository/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildSettingsRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildSettingsRepository(testDB.DB)
	ctx := context.Background()

	settings, err := repo.GetOrCreateGuildSettings(ctx, testGuildID)
	require.NoError(t, err)
	assert.Equal(t, testGuildID, settings.GuildID)
	assert.Nil(t, settings.ParticipantRoleID)
	assert.Empty(t, settings.Communities)
	assert.Equal(t, models.DefaultCommunities, settings.CommunityList())

	roleID := int64(555)
	settings.ParticipantRoleID = &roleID
	settings.Communities = []string{"Alpha Clan", "Beta Clan"}
	require.NoError(t, repo.UpdateGuildSettings(ctx, settings))

	reloaded, err := repo.GetOrCreateGuildSettings(ctx, testGuildID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ParticipantRoleID)
	assert.Equal(t, roleID, *reloaded.ParticipantRoleID)
	assert.Equal(t, []string{"Alpha Clan", "Beta Clan"}, reloaded.CommunityList())

	err = repo.UpdateGuildSettings(ctx, &models.GuildSettings{GuildID: 1})
	assert.Error(t, err)
}
