package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/haliguyr1-cmyk/RRTournament/models"
)

// RosterDivision is one division's approved participants
type RosterDivision struct {
	Name         string
	Participants []*models.Participant
}

// Roster is the approved field for a guild, divisions in ascending order
type Roster struct {
	Divisions []RosterDivision
	Total     int
}

// rosterService implements the RosterService interface
type rosterService struct {
	uowFactory UnitOfWorkFactory
}

// NewRosterService creates a new roster service
func NewRosterService(uowFactory UnitOfWorkFactory) RosterService {
	return &rosterService{uowFactory: uowFactory}
}

func (s *rosterService) GetRoster(ctx context.Context, guildID int64) (*Roster, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	participants, err := uow.ParticipantRepository().ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved participants: %w", err)
	}

	byDivision := make(map[string][]*models.Participant)
	for _, p := range participants {
		byDivision[p.Division] = append(byDivision[p.Division], p)
	}

	roster := &Roster{Total: len(participants)}
	for _, name := range DivisionNames() {
		if members, ok := byDivision[name]; ok {
			roster.Divisions = append(roster.Divisions, RosterDivision{Name: name, Participants: members})
			delete(byDivision, name)
		}
	}
	// Divisions assigned outside the strength table, e.g. Unknown
	for _, p := range participants {
		if members, ok := byDivision[p.Division]; ok {
			roster.Divisions = append(roster.Divisions, RosterDivision{Name: p.Division, Participants: members})
			delete(byDivision, p.Division)
		}
	}

	return roster, nil
}

func (s *rosterService) GetDivisionCounts(ctx context.Context, guildID int64) ([]models.DivisionCount, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	counts, err := uow.ParticipantRepository().CountByDivision(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}

	order := DivisionNames()
	rank := func(name string) int {
		if i := slices.Index(order, name); i >= 0 {
			return i
		}
		return len(order)
	}
	slices.SortStableFunc(counts, func(a, b models.DivisionCount) int {
		return rank(a.Division) - rank(b.Division)
	})

	return counts, nil
}

func (s *rosterService) GetDecisionHistory(ctx context.Context, guildID, discordID int64) ([]*models.ApprovalDecision, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	decisions, err := uow.ApprovalDecisionRepository().ListByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions for %d: %w", discordID, err)
	}
	return decisions, nil
}
