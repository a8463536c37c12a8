package receipt

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"contas/internal/core"
)

// MatchCard resolves a card by the last four digits printed on the
// receipt. Returns false when no registered card has those digits.
func MatchCard(lastFour string, cards []core.Card) (string, bool) {
	lastFour = strings.TrimSpace(lastFour)
	if len(lastFour) != 4 {
		return "", false
	}
	for _, c := range cards {
		if c.LastFour == lastFour {
			return c.ID, true
		}
	}
	return "", false
}

// SuggestCategory picks the category of the historical transaction
// whose description is closest to the receipt's. Distances above
// half the description length are too noisy to trust.
func SuggestCategory(description string, history []core.Transaction) (string, bool) {
	description = strings.ToLower(strings.TrimSpace(description))
	if description == "" {
		return "", false
	}

	bestID := ""
	bestDistance := -1
	for _, t := range history {
		if t.CategoryID == "" {
			continue
		}
		d := levenshtein.ComputeDistance(description, strings.ToLower(t.Description))
		if bestDistance == -1 || d < bestDistance {
			bestDistance = d
			bestID = t.CategoryID
		}
	}

	if bestID == "" || bestDistance > len(description)/2 {
		return "", false
	}
	return bestID, true
}
