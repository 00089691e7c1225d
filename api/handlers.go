package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/haliguyr1-cmyk/RRTournament/service"
	log "github.com/sirupsen/logrus"
)

// registerRequest is the browser form payload. discordId is a string since
// snowflakes do not fit in a JavaScript number.
type registerRequest struct {
	DiscordID     string        `json:"discordId"`
	Username      string        `json:"username"`
	GameUsername  string        `json:"gameUsername"`
	GameID        string        `json:"gameId"`
	Community     string        `json:"community"`
	Timezone      string        `json:"timezone"`
	Hero          string        `json:"hero"`
	HeroLevel     *int          `json:"heroLevel"`
	HeroItem      string        `json:"heroItem"`
	HeroItemLevel *int          `json:"heroItemLevel"`
	CritLevel     *int          `json:"critLevel"`
	Legendarity   *int          `json:"legendarity"`
	PerksLevel    *int          `json:"perksLevel"`
	Cards         []models.Card `json:"cards"`
}

type registerResponse struct {
	Token      string `json:"token"`
	ExportCode string `json:"exportCode"`
	Division   string `json:"division"`
}

func (r registerRequest) toRecord() (models.RegistrationRecord, error) {
	discordID, err := strconv.ParseInt(strings.TrimSpace(r.DiscordID), 10, 64)
	if err != nil || discordID <= 0 {
		return models.RegistrationRecord{}, errors.New("discordId must be a Discord user id")
	}

	record := models.RegistrationRecord{
		DiscordID:     discordID,
		GameUsername:  optionalString(r.GameUsername),
		GameID:        optionalString(r.GameID),
		Community:     optionalString(r.Community),
		Timezone:      optionalString(r.Timezone),
		Hero:          optionalString(r.Hero),
		HeroLevel:     r.HeroLevel,
		HeroItem:      optionalString(r.HeroItem),
		HeroItemLevel: r.HeroItemLevel,
		CritLevel:     r.CritLevel,
		Legendarity:   r.Legendarity,
		PerksLevel:    r.PerksLevel,
		Cards:         r.Cards,
	}
	if record.HeroItem == nil {
		record.HeroItemLevel = nil
	}
	return record, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	record, err := req.toRecord()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = strconv.FormatInt(record.DiscordID, 10)
	}

	result, err := s.submissions.Submit(c.UserContext(), service.SubmitRequest{
		GuildID:  s.guildID,
		Username: username,
		Source:   models.SourceBrowser,
		Record:   record,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRegistration) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		log.WithFields(log.Fields{
			"discordID": record.DiscordID,
			"error":     err,
		}).Error("Failed to submit browser registration")
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(registerResponse{
		Token:      result.Token.String(),
		ExportCode: result.ExportCode,
		Division:   result.Strength.Division,
	})
}

func (s *Server) handleCommunities(c *fiber.Ctx) error {
	settings, err := s.settings.GetOrCreateSettings(c.UserContext(), s.guildID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"communities": settings.CommunityList()})
}
