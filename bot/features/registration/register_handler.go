package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/haliguyr1-cmyk/RRTournament/bot/common"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/haliguyr1-cmyk/RRTournament/service"
	log "github.com/sirupsen/logrus"
)

// handleStart opens the profile modal for a new draft
func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, ok := f.interactionUserID(s, i)
	if !ok {
		return
	}

	var record models.RegistrationRecord
	if draft, found := f.drafts.Get(userID); found {
		record = draft.Record
	}

	communityHint := "Optional"
	if guildID, err := common.ParseUserID(i.GuildID); err == nil {
		if settings, err := f.settings.GetOrCreateSettings(context.Background(), guildID); err == nil && len(settings.CommunityList()) > 0 {
			communityHint = common.TruncateText(strings.Join(settings.CommunityList(), ", "), 100)
		}
	}

	err := common.RespondWithModal(s, i, modalProfile, "Tournament Registration",
		textInput(inputGameUsername, "Game Username", derefOr(record.GameUsername), "Your in-game name", true, 64),
		textInput(inputGameID, "Game ID", derefOr(record.GameID), "", false, 64),
		textInput(inputCommunity, "Community", derefOr(record.Community), communityHint, false, 64),
		textInput(inputTimezone, "Timezone", derefOr(record.Timezone), "e.g. UTC+2", false, 32),
		textInput(inputHero, "Hero", leveledString(record.Hero, record.HeroLevel), "e.g. Sea Spirit (Lv 10)", true, 64),
	)
	if err != nil {
		log.WithError(err).Error("Failed to open registration modal")
	}
}

// handleImport opens the export code modal
func (f *Feature) handleImport(s *discordgo.Session, i *discordgo.InteractionCreate) {
	input := textInput(inputExportCode, "Export Code", "", "Paste the code you received when registering", true, 1000)
	input.Style = discordgo.TextInputParagraph

	if err := common.RespondWithModal(s, i, modalImport, "Import Registration", input); err != nil {
		log.WithError(err).Error("Failed to open import modal")
	}
}

func (f *Feature) handleProfileModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, ok := f.interactionUserID(s, i)
	if !ok {
		return
	}
	guildID, err := common.ParseUserID(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Please register from inside the tournament server.")
		return
	}

	settings, err := f.settings.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load guild settings"), false)
		return
	}

	draft, found := f.drafts.Get(userID)
	if !found {
		user := common.InteractionUser(i)
		draft = Draft{
			GuildID:  guildID,
			Username: user.Username,
			Source:   models.SourceDiscord,
			Record:   models.RegistrationRecord{DiscordID: userID},
		}
	}

	if err := applyProfile(&draft, common.ModalValues(i.ModalSubmitData()), settings.CommunityList()); err != nil {
		common.RespondWithError(s, i, err.Error())
		return
	}
	f.drafts.Put(userID, draft)

	if err := common.RespondWithEmbed(s, i, draftEmbed(draft), draftComponents(draft), true); err != nil {
		log.WithError(err).Error("Failed to show registration draft")
	}
}

func (f *Feature) handleImportModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, ok := f.interactionUserID(s, i)
	if !ok {
		return
	}
	guildID, err := common.ParseUserID(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Please import from inside the tournament server.")
		return
	}

	values := common.ModalValues(i.ModalSubmitData())
	record, err := service.ParseExportCode(values[inputExportCode])
	if err != nil {
		common.RespondWithError(s, i, "That export code could not be read. Please check it and try again.")
		return
	}
	record.DiscordID = userID

	draft := Draft{
		GuildID:  guildID,
		Username: common.InteractionUser(i).Username,
		Source:   models.SourceImport,
		Record:   record,
	}
	f.drafts.Put(userID, draft)

	if err := common.RespondWithEmbed(s, i, draftEmbed(draft), draftComponents(draft), true); err != nil {
		log.WithError(err).Error("Failed to show imported registration")
	}
}

func (f *Feature) handleStatsButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	draft, ok := f.requireDraft(s, i)
	if !ok {
		return
	}
	record := draft.Record

	err := common.RespondWithModal(s, i, modalStats, "Stats",
		textInput(inputCrit, "Base Crit %", intString(record.CritLevel), "0-100", true, 3),
		textInput(inputLegendarity, "Legendarity", intString(record.Legendarity), "", true, 7),
		textInput(inputPerks, "Perks Level", intString(record.PerksLevel), "", true, 7),
		textInput(inputHeroItem, "Hero Item", leveledString(record.HeroItem, record.HeroItemLevel), "Optional, e.g. Trident (Lv 5)", false, 64),
	)
	if err != nil {
		log.WithError(err).Error("Failed to open stats modal")
	}
}

func (f *Feature) handleAddCardButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	draft, ok := f.requireDraft(s, i)
	if !ok {
		return
	}
	if len(draft.Record.Cards) >= models.MaxDeckSize {
		common.RespondWithError(s, i, "Deck is full (5 cards max)!")
		return
	}

	err := common.RespondWithModal(s, i, modalCard, fmt.Sprintf("Add Card %d/%d", len(draft.Record.Cards)+1, models.MaxDeckSize),
		textInput(inputCardName, "Card", "", "e.g. Twins", true, 32),
		textInput(inputCardLevel, "Level", "", fmt.Sprintf("%d-%d", models.MinCardLevel, models.MaxLegendaryCardLevel), true, 2),
	)
	if err != nil {
		log.WithError(err).Error("Failed to open card modal")
	}
}

func (f *Feature) handleStatsModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.updateDraft(s, i, func(draft *Draft) error {
		return applyStats(draft, common.ModalValues(i.ModalSubmitData()))
	})
}

func (f *Feature) handleCardModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.updateDraft(s, i, func(draft *Draft) error {
		err := applyCard(draft, common.ModalValues(i.ModalSubmitData()))
		switch {
		case errors.Is(err, service.ErrUnknownCard):
			return errors.New("unknown card, check the spelling")
		case errors.Is(err, service.ErrDuplicateCard):
			return errors.New("that card is already in your deck")
		case errors.Is(err, service.ErrDeckFull):
			return errors.New("deck is full (5 cards max)")
		}
		return err
	})
}

func (f *Feature) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, ok := f.interactionUserID(s, i)
	if !ok {
		return
	}
	f.drafts.Delete(userID)

	if err := common.UpdateComponentMessage(s, i, "Registration cancelled.", nil, []discordgo.MessageComponent{}); err != nil {
		log.WithError(err).Error("Failed to cancel registration draft")
	}
}

// handleSubmit sends the draft for review
func (f *Feature) handleSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	draft, ok := f.requireDraft(s, i)
	if !ok {
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.WithError(err).Error("Failed to defer registration submit")
		return
	}

	result, err := f.submissions.Submit(context.Background(), service.SubmitRequest{
		GuildID:  draft.GuildID,
		Username: draft.Username,
		Source:   draft.Source,
		Record:   draft.Record,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRegistration) {
			common.FollowUpWithError(s, i, fmt.Sprintf("Your registration is not complete: %v", err))
			return
		}
		if errors.Is(err, ErrReviewCategoryNotFound) {
			common.FollowUpWithError(s, i, "Registration category not found. Please contact an administrator.")
			return
		}
		common.HandleError(s, i, common.NewSystemError(err, "failed to submit registration"), true)
		return
	}

	f.drafts.Delete(draft.Record.DiscordID)

	content := fmt.Sprintf("✅ Registration submitted for review! Division: **%s**\n📋 Your export code:\n```%s```",
		result.Strength.Division, result.ExportCode)
	if result.ChannelID != 0 {
		content += fmt.Sprintf("\nYour ticket: <#%d>", result.ChannelID)
	}

	embeds := []*discordgo.MessageEmbed{}
	components := []discordgo.MessageComponent{}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}); err != nil {
		log.WithError(err).Error("Failed to confirm registration submit")
	}
}

// updateDraft applies a modal to the live draft and refreshes the draft message
func (f *Feature) updateDraft(s *discordgo.Session, i *discordgo.InteractionCreate, apply func(*Draft) error) {
	userID, ok := f.interactionUserID(s, i)
	if !ok {
		return
	}

	var applyErr error
	updated := f.drafts.Update(userID, func(draft Draft) Draft {
		next := draft
		next.Record.Cards = append([]models.Card(nil), draft.Record.Cards...)
		if applyErr = apply(&next); applyErr != nil {
			return draft
		}
		return next
	})
	if !updated {
		common.RespondWithError(s, i, expiredMessage)
		return
	}
	if applyErr != nil {
		common.RespondWithError(s, i, applyErr.Error())
		return
	}

	draft, _ := f.drafts.Get(userID)
	if err := common.UpdateComponentMessage(s, i, "", draftEmbed(draft), draftComponents(draft)); err != nil {
		log.WithError(err).Error("Failed to refresh registration draft")
	}
}

func (f *Feature) requireDraft(s *discordgo.Session, i *discordgo.InteractionCreate) (Draft, bool) {
	userID, ok := f.interactionUserID(s, i)
	if !ok {
		return Draft{}, false
	}
	draft, found := f.drafts.Get(userID)
	if !found {
		common.RespondWithError(s, i, expiredMessage)
		return Draft{}, false
	}
	return draft, true
}

func (f *Feature) interactionUserID(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	user := common.InteractionUser(i)
	if user == nil {
		common.RespondWithError(s, i, "Unable to identify you. Please try again.")
		return 0, false
	}
	id, err := common.ParseUserID(user.ID)
	if err != nil {
		common.HandleError(s, i, fmt.Errorf("failed to parse user id %q: %w", user.ID, err), false)
		return 0, false
	}
	return id, true
}

func derefOr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
