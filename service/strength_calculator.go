package service

import (
	"github.com/haliguyr1-cmyk/RRTournament/models"
)

// Pantheon cards raise base crit by a percentage when present in the deck
var pantheonBonuses = map[string]int{
	"Twins":           20,
	"Valkerie":        40,
	"Phoenix":         20,
	"Twilight Ranger": 20,
	"Franky & Stein":  20,
}

// Strength weights in percent
const (
	critWeight        = 40
	legendarityWeight = 40
	perksWeight       = 20
)

type divisionThreshold struct {
	name  string
	upper int // inclusive
}

var divisionThresholds = []divisionThreshold{
	{"Lightweight", 499},
	{"Cruiserweight", 999},
	{"Middleweight", 1499},
	{"Heavyweight", 1999},
	{"Super Heavyweight", 2499},
}

const topDivision = "Champion"

// CalculateStrength computes the seeding strength and division for a record.
// Missing stats count as zero. All arithmetic is integer so results floor.
func CalculateStrength(record models.RegistrationRecord) models.Strength {
	s := models.Strength{
		BaseCrit:    derefInt(record.CritLevel),
		Legendarity: derefInt(record.Legendarity),
		Perks:       derefInt(record.PerksLevel),
	}

	bonusPercent := 0
	for _, card := range record.Cards {
		canonical, ok := models.LookupCard(card.Name)
		if !ok {
			continue
		}
		if pct, ok := pantheonBonuses[canonical]; ok {
			bonusPercent += pct
			s.PantheonBonus = append(s.PantheonBonus, models.PantheonBonus{Card: canonical, Percent: pct})
		}
	}

	s.AdjustedCrit = s.BaseCrit * (100 + bonusPercent) / 100
	s.Total = (s.AdjustedCrit*critWeight + s.Legendarity*legendarityWeight + s.Perks*perksWeight) / 100
	s.Division = DivisionFor(s.Total)
	return s
}

// DivisionFor maps a total strength to its division label
func DivisionFor(total int) string {
	for _, t := range divisionThresholds {
		if total <= t.upper {
			return t.name
		}
	}
	return topDivision
}

// DivisionNames returns every division in ascending order
func DivisionNames() []string {
	names := make([]string, 0, len(divisionThresholds)+1)
	for _, t := range divisionThresholds {
		names = append(names, t.name)
	}
	return append(names, topDivision)
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
