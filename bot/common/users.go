package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// ParseUserID converts a Discord snowflake string to int64
func ParseUserID(userID string) (int64, error) {
	return strconv.ParseInt(userID, 10, 64)
}

// FormatUserID converts an int64 snowflake to string
func FormatUserID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// GetUserMention returns a Discord mention string for a user
func GetUserMention(userID int64) string {
	return "<@" + FormatUserID(userID) + ">"
}

// GetRoleMention returns a Discord mention string for a role
func GetRoleMention(roleID int64) string {
	return "<@&" + FormatUserID(roleID) + ">"
}

// InteractionUser returns the user behind an interaction in a guild or a DM
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// InteractionUserID returns the interaction user's id or an empty string
func InteractionUserID(i *discordgo.InteractionCreate) string {
	if user := InteractionUser(i); user != nil {
		return user.ID
	}
	return ""
}

// DisplayName prefers the guild nickname, then the global name, then the username
func DisplayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user == nil {
		return "Unknown"
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// IsUserAdmin checks if a member has administrator or manage-guild permissions
func IsUserAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	if i.Member.Permissions&(discordgo.PermissionAdministrator|discordgo.PermissionManageGuild) != 0 {
		return true
	}

	for _, roleID := range i.Member.Roles {
		role, err := s.State.Role(i.GuildID, roleID)
		if err != nil {
			continue
		}
		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	log.WithFields(log.Fields{
		"user_id":  InteractionUserID(i),
		"guild_id": i.GuildID,
	}).Debug("Member lacks administrator permissions")
	return false
}
