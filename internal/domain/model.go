package domain

import (
	"sort"
	"strconv"
	"strings"
)

// ModelInfo describes one model offered by the generation service.
// PromptPrice keeps the listing endpoint's string form; it is parsed
// only when filtering.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PromptPrice string `json:"promptPrice"`
}

// FreeModels filters the listing down to models that cost nothing:
// pricing is numerically zero, or the identifier/name carries a
// case-insensitive "free" marker. The result is sorted by display name.
func FreeModels(models []ModelInfo) []ModelInfo {
	free := make([]ModelInfo, 0, len(models))
	for _, m := range models {
		if isFreeByPricing(m) || isFreeByName(m) {
			free = append(free, m)
		}
	}
	sort.Slice(free, func(i, j int) bool {
		return displayName(free[i]) < displayName(free[j])
	})
	return free
}

func isFreeByPricing(m ModelInfo) bool {
	if m.PromptPrice == "" {
		return false
	}
	price, err := strconv.ParseFloat(m.PromptPrice, 64)
	return err == nil && price == 0
}

func isFreeByName(m ModelInfo) bool {
	return strings.Contains(strings.ToLower(m.ID), "free") ||
		strings.Contains(strings.ToLower(m.Name), "free")
}

func displayName(m ModelInfo) string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}
