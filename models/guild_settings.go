package models

// GuildSettings represents per-guild configuration settings
type GuildSettings struct {
	GuildID           int64    `db:"guild_id"`
	ParticipantRoleID *int64   `db:"participant_role_id"` // Nullable - falls back to the role named "Participant"
	ModeratorRoleID   *int64   `db:"moderator_role_id"`   // Nullable - falls back to the role named "Moderator"
	ReviewCategoryID  *int64   `db:"review_category_id"`  // Nullable - falls back to the REGISTRATIONS category
	Communities       []string `db:"communities"`
}

// CommunityList returns the configured communities or the defaults
func (g *GuildSettings) CommunityList() []string {
	if g == nil || len(g.Communities) == 0 {
		return DefaultCommunities
	}
	return g.Communities
}
