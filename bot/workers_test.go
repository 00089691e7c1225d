package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/haliguyr1-cmyk/RRTournament/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStaleService struct {
	reports []service.StaleGuildReport
	err     error
}

func (f *fakeStaleService) FindStale(context.Context, time.Time) ([]service.StaleGuildReport, error) {
	return f.reports, f.err
}

type recordingSender struct {
	sent map[string][]string
}

func (r *recordingSender) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if r.sent == nil {
		r.sent = map[string][]string{}
	}
	r.sent[channelID] = append(r.sent[channelID], data.Content)
	return &discordgo.Message{ID: "1", ChannelID: channelID}, nil
}

func TestStaleReminderRemindsOnce(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	withTicket := &models.PendingRegistration{
		Token:     uuid.New(),
		DiscordID: 7,
		ChannelID: models.Int64Ptr(55),
		MessageID: models.Int64Ptr(66),
		CreatedAt: now.Add(-26 * time.Hour),
	}
	withoutTicket := &models.PendingRegistration{
		Token:     uuid.New(),
		DiscordID: 8,
		CreatedAt: now.Add(-30 * time.Hour),
	}

	stale := &fakeStaleService{reports: []service.StaleGuildReport{
		{GuildID: 1, Registrations: []*models.PendingRegistration{withTicket, withoutTicket}},
	}}
	sender := &recordingSender{}
	reminder := NewStaleReminder(stale, sender)
	reminder.now = func() time.Time { return now }

	assert.Equal(t, 1, reminder.Run(context.Background()))
	require.Len(t, sender.sent["55"], 1)
	assert.Contains(t, sender.sent["55"][0], "1d 2h")
	assert.Contains(t, sender.sent["55"][0], "https://discord.com/channels/1/55/66")

	assert.Equal(t, 0, reminder.Run(context.Background()))
	assert.Len(t, sender.sent["55"], 1)
}

func TestStaleReminderServiceError(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	reminder := NewStaleReminder(&fakeStaleService{err: errors.New("down")}, sender)

	assert.Equal(t, 0, reminder.Run(context.Background()))
	assert.Empty(t, sender.sent)
}
