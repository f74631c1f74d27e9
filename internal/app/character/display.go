package character

import "habitpet/internal/app/api"

// RarityLabel returns the display label of a rarity.
func RarityLabel(r api.Rarity) string {
	switch r {
	case api.RarityRare:
		return "Rare"
	case api.RarityEpic:
		return "Epic"
	case api.RarityLegendary:
		return "Legendary"
	default:
		return "Common"
	}
}

// RarityColor returns the badge color of a rarity.
func RarityColor(r api.Rarity) string {
	switch r {
	case api.RarityRare:
		return "#2196f3"
	case api.RarityEpic:
		return "#9c27b0"
	case api.RarityLegendary:
		return "#ff9800"
	default:
		return "#9e9e9e"
	}
}

// Mood describes a happiness band.
type Mood struct {
	Label string
	Color string
}

// MoodFor maps happiness (0..100) to its band.
func MoodFor(happiness int) Mood {
	switch {
	case happiness >= 80:
		return Mood{"Very happy", "#4caf50"}
	case happiness >= 60:
		return Mood{"Happy", "#8bc34a"}
	case happiness >= 40:
		return Mood{"Okay", "#ffc107"}
	case happiness >= 20:
		return Mood{"Sad", "#ff9800"}
	default:
		return Mood{"Very sad", "#f44336"}
	}
}
