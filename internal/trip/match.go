package trip

import (
	"strings"

	"github.com/mchou/campnook/internal/model"
)

// matchIngredient finds the pantry ingredient an item name refers to.
// An exact name match wins; otherwise the first substring match in
// either direction. Model output rarely reproduces pantry names
// verbatim ("牛肉" vs "好市多牛肉片 (500g)"), so the fallback carries
// most real matches.
func matchIngredient(name string, pool []*model.Ingredient) *model.Ingredient {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	for _, ing := range pool {
		if ing.Name == name {
			return ing
		}
	}

	for _, ing := range pool {
		if strings.Contains(ing.Name, name) || strings.Contains(name, ing.Name) {
			return ing
		}
	}

	return nil
}

// buyLineName formats a shopping line for an item the pantry does not
// cover.
func buyLineName(name, buy string) string {
	if buy == "" || buy == "0" {
		return name
	}
	return name + " (需買: " + buy + ")"
}
