package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/bot/common"
	"github.com/haliguyr1-cmyk/RRTournament/service"
	log "github.com/sirupsen/logrus"
)

// channelSender posts plain messages; satisfied by *discordgo.Session
type channelSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// StaleReminder logs registrations waiting for review and pings their
// ticket channel once per registration
type StaleReminder struct {
	stale  service.StaleRegistrationService
	sender channelSender
	now    func() time.Time

	mu       sync.Mutex
	reminded map[uuid.UUID]bool
}

// NewStaleReminder creates a reminder over the bot's Discord session
func NewStaleReminder(stale service.StaleRegistrationService, sender channelSender) *StaleReminder {
	return &StaleReminder{
		stale:    stale,
		sender:   sender,
		now:      time.Now,
		reminded: make(map[uuid.UUID]bool),
	}
}

// Schedule registers the reminder on the scheduler
func (r *StaleReminder) Schedule(scheduler gocron.Scheduler, interval time.Duration) error {
	_, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			r.Run(ctx)
		}),
		gocron.WithName("stale-registrations"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

// Run checks every guild once and returns the number of reminders sent
func (r *StaleReminder) Run(ctx context.Context) int {
	now := r.now()
	reports, err := r.stale.FindStale(ctx, now)
	if err != nil {
		log.Errorf("Error finding stale registrations: %v", err)
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sent := 0
	for _, report := range reports {
		for _, pending := range report.Registrations {
			waiting := now.Sub(pending.CreatedAt)
			log.WithFields(log.Fields{
				"guild":   report.GuildID,
				"user":    pending.DiscordID,
				"token":   pending.Token,
				"waiting": common.FormatDuration(waiting),
			}).Warn("Registration is still awaiting review")

			if r.reminded[pending.Token] || pending.ChannelID == nil {
				continue
			}

			content := fmt.Sprintf("⏰ This registration has been waiting for review for %s.", common.FormatDuration(waiting))
			if pending.MessageID != nil {
				content += " " + common.FormatDiscordMessageLink(report.GuildID, *pending.ChannelID, *pending.MessageID)
			}
			if _, err := r.sender.ChannelMessageSendComplex(common.FormatUserID(*pending.ChannelID), &discordgo.MessageSend{
				Content: content,
			}, discordgo.WithContext(ctx)); err != nil {
				log.WithError(err).Warn("Failed to post stale registration reminder")
				continue
			}
			r.reminded[pending.Token] = true
			sent++
		}
	}

	return sent
}
