package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/haliguyr1-cmyk/RRTournament/bot/common"
	"github.com/haliguyr1-cmyk/RRTournament/service"
	log "github.com/sirupsen/logrus"
)

// handleReviewButton answers Approve, Deny and Copy Export Code presses
func (f *Feature) handleReviewButton(s *discordgo.Session, i *discordgo.InteractionCreate, action service.ButtonAction) {
	ctx := context.Background()

	summary, ok := SummaryFromMessage(i.Message)
	if !ok {
		common.RespondWithError(s, i, "This message has no registration attached.")
		return
	}

	guildID, err := common.ParseUserID(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Registrations can only be reviewed in a server.")
		return
	}

	requester := common.InteractionUser(i)
	if requester == nil {
		common.RespondWithError(s, i, "Registrations can only be reviewed in a server.")
		return
	}
	requesterID, err := common.ParseUserID(requester.ID)
	if err != nil {
		common.HandleError(s, i, fmt.Errorf("failed to parse requester id: %w", err), false)
		return
	}

	if action != service.ActionCopyExport {
		allowed, err := f.gateway.CanReview(ctx, guildID, i.Member)
		if err != nil {
			common.HandleError(s, i, err, false)
			return
		}
		if !allowed {
			common.RespondWithError(s, i, "Only moderators can review registrations.")
			return
		}

		if err := common.DeferResponse(s, i, true); err != nil {
			log.WithError(err).Error("Failed to defer review interaction")
			return
		}
	}

	event := service.ButtonPressed{
		Action:        action,
		Summary:       summary,
		RequesterID:   requesterID,
		RequesterName: common.DisplayName(i.Member, requester),
		GuildID:       guildID,
		GuildName:     guildName(s, i.GuildID),
	}

	result, err := f.workflow.Handle(ctx, event)
	deferred := action != service.ActionCopyExport

	if err != nil {
		log.WithFields(log.Fields{
			"action":      action.String(),
			"guildID":     guildID,
			"requesterID": requesterID,
			"error":       err,
		}).Warn("Registration review failed")

		if deferred {
			common.FollowUpWithError(s, i, ReviewErrorMessage(err))
		} else {
			common.RespondWithError(s, i, ReviewErrorMessage(err))
		}
		return
	}

	if result.NoOp {
		const processed = "This registration has already been processed."
		if deferred {
			common.FollowUpWithMessage(s, i, processed, true)
		} else if err := common.RespondWithMessage(s, i, processed, true); err != nil {
			log.WithError(err).Error("Failed to answer review interaction")
		}
		return
	}

	if result.Summary != nil {
		content := result.Summary.Content
		embeds := []*discordgo.MessageEmbed{SummaryToEmbed(*result.Summary)}
		components := []discordgo.MessageComponent{}
		_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			ID:         i.Message.ID,
			Channel:    i.ChannelID,
			Content:    &content,
			Embeds:     &embeds,
			Components: &components,
		})
		if err != nil {
			log.WithFields(log.Fields{
				"messageID": i.Message.ID,
				"error":     err,
			}).Error("Failed to update registration summary")
		}
	}

	if deferred {
		common.FollowUpWithMessage(s, i, result.Ephemeral, true)
		return
	}

	if err := common.RespondWithMessage(s, i, result.Ephemeral, true); err != nil {
		log.WithError(err).Error("Failed to send export code")
	}
}

// ReviewErrorMessage maps workflow errors to what the moderator is shown
func ReviewErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingIdentifier):
		return "Could not find user ID in registration!"
	case errors.Is(err, service.ErrUserNotFound):
		return "Could not find the registering user on Discord."
	case errors.Is(err, service.ErrAlreadyDecided):
		return "This registration has already been processed."
	case errors.Is(err, service.ErrInvalidRegistration):
		return fmt.Sprintf("Registration cannot be approved: %v", err)
	case errors.Is(err, service.ErrStorage):
		return "Error saving registration to database."
	case errors.Is(err, service.ErrFieldNotFound):
		return "Could not find export code in this registration."
	}
	return "An error occurred while processing this registration."
}

func guildName(s *discordgo.Session, guildID string) string {
	if guild, err := s.State.Guild(guildID); err == nil && guild.Name != "" {
		return guild.Name
	}
	if guild, err := s.Guild(guildID); err == nil {
		return guild.Name
	}
	return "the tournament"
}
