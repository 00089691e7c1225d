package models

import (
	"sort"
	"strings"
)

const (
	MinCardLevel          = 1
	MaxCardLevel          = 15
	MaxLegendaryCardLevel = 18
)

var legendaryCards = []string{
	"Banshee", "Bard", "Bruiser", "Blade Dancer", "Boreas", "Corsair", "Cultist",
	"Demon Hunter", "Demonologist", "Spirit Master", "Dryad", "Franky & Stein",
	"Frost", "Gun Slinger", "Harlequin", "Inquisitor", "Genie", "Hex",
	"Knight Statue", "Kobold", "Twilight Ranger", "Clock", "Meteor", "Minotaur",
	"Monk", "Swords", "Phoenix", "Riding Hood", "Robot", "Scrapper", "Stasis",
	"Summoner", "Tesla", "Trapper", "Treant", "Sea Dog", "Twins", "Witch", "Shaman",
	"Valkerie",
}

var regularCards = []string{
	"Catapult", "Clown", "Crystalmancer", "Earth Elemental", "Cold Elemental",
	"Engineer", "Gargoyle", "Executioner", "Mime", "Plague Doctor", "Ivy",
	"Portal Keeper", "Pyrotechnic", "Reaper", "Portal Mage", "Thunderer",
	"Vampire", "Wind Archer", "Alchemist", "Banner", "Magic Cauldron", "Chemist",
	"Grindstone", "Priestess", "Sentry", "Sharpshooter", "Zealot",
	"Archer", "Bombardier", "Cold Mage", "Fire Mage", "Hunter",
	"Lightning Mage", "Poisoner", "Rogue", "Thrower",
}

// HeroItems maps each hero item to the hero it belongs to
var HeroItems = map[string]string{
	"Shadow Blade":           "Lucia",
	"Ethereal Phylactery":    "Necromancer",
	"Lucky Coin":             "Fortuna",
	"Star Gaze":              "Zeus",
	"Rhandumization Key":     "Gadget",
	"Unstable Jelly":         "Mari",
	"Ice Reflection":         "Snowflake",
	"Royal Duck":             "Flicker",
	"RR Champion Belt":       "Jake Paul",
	"Bubble Wand":            "Mermaid",
	"Mana Power-up Flask":    "Trickster",
	"Scroll of the Elements": "Elementalist",
	"Ring of Rhandum":        "Jay",
	"Treasure Compass":       "Captain",
	"Favorite Horn":          "Bestie",
}

// DefaultCommunities is used when a guild has not configured its own list
var DefaultCommunities = []string{"Shinning Stars", "Empires Gaming", "Ronin Gaming"}

var cardIndex = buildCardIndex()

func buildCardIndex() map[string]string {
	index := make(map[string]string, len(legendaryCards)+len(regularCards))
	for _, name := range legendaryCards {
		index[strings.ToLower(name)] = name
	}
	for _, name := range regularCards {
		index[strings.ToLower(name)] = name
	}
	return index
}

// AllCards returns every known card name, sorted
func AllCards() []string {
	all := make([]string, 0, len(cardIndex))
	for _, name := range cardIndex {
		all = append(all, name)
	}
	sort.Strings(all)
	return all
}

// LookupCard returns the canonical spelling of a card name, matched case-insensitively
func LookupCard(name string) (string, bool) {
	canonical, ok := cardIndex[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// IsLegendaryCard reports whether the card is in the legendary set
func IsLegendaryCard(name string) bool {
	for _, legendary := range legendaryCards {
		if strings.EqualFold(legendary, name) {
			return true
		}
	}
	return false
}

// MaxLevelFor returns the highest level a card can reach
func MaxLevelFor(name string) int {
	if IsLegendaryCard(name) {
		return MaxLegendaryCardLevel
	}
	return MaxCardLevel
}
