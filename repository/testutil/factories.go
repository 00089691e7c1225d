package testutil

import (
	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/models"
)

// CreateTestParticipant creates a pending participant with a full deck
func CreateTestParticipant(discordID int64, gameUsername string) *models.Participant {
	return &models.Participant{
		DiscordID:    discordID,
		Username:     gameUsername + "#discord",
		GameUsername: gameUsername,
		GameID:       "GID-" + gameUsername,
		CritLevel:    50,
		Legendarity:  1000,
		PerksLevel:   300,
		Division:     "Middleweight",
		Timezone:     "UTC",
		Community:    models.DefaultCommunities[0],
		Hero:         "Sea Spirit",
		HeroLevel:    10,
		Cards: []models.Card{
			{Name: "Twins", Level: 12},
			{Name: "Harlequin", Level: 11},
			{Name: "Engineer", Level: 10},
			{Name: "Hunter", Level: 9},
			{Name: "Knight Statue", Level: 8},
		},
		Status: models.ParticipantStatusPending,
	}
}

// CreateTestPendingRegistration creates a pending registration with a stored record
func CreateTestPendingRegistration(discordID int64) *models.PendingRegistration {
	return &models.PendingRegistration{
		Token:     uuid.New(),
		DiscordID: discordID,
		Username:  "registrant",
		Source:    models.SourceBrowser,
		Record: &models.RegistrationRecord{
			DiscordID:    discordID,
			GameUsername: models.StringPtr("Player1"),
			Hero:         models.StringPtr("Sea Spirit"),
			HeroLevel:    models.IntPtr(10),
			CritLevel:    models.IntPtr(50),
			Cards:        []models.Card{{Name: "Twins", Level: 12}},
		},
		Status: models.PendingStatusPending,
	}
}
