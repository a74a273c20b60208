package trip

import (
	"math"

	"github.com/mchou/campnook/internal/model"
)

// Check map phases.
const (
	PhaseDeparture = "departure"
	PhaseReturn    = "return"
)

// GearKey and FoodKey build the check map keys for one item.
func GearKey(id string) string { return "gear-" + id }
func FoodKey(id string) string { return "food-" + id }

// Progress reports the given member's packing completion for one phase
// as a rounded percentage. The denominator is the member's own job:
// public gear they claimed, every personal item, and the ingredients
// they contributed. No items means 0, not 100, so a fresh roster entry
// does not show up as done.
func Progress(d *model.AppData, memberID, phase string) int {
	checked := d.CheckedDeparture[memberID]
	if phase == PhaseReturn {
		checked = d.CheckedReturn[memberID]
	}

	total := 0
	done := 0
	for _, g := range d.GearList {
		switch g.Category {
		case model.GearPublic:
			if g.Owner == nil || g.Owner.ID != memberID {
				continue
			}
		case model.GearPersonal:
		default:
			continue
		}
		total++
		if checked[GearKey(g.ID)] {
			done++
		}
	}
	for _, ing := range d.Ingredients {
		if ing.Owner == nil || ing.Owner.ID != memberID {
			continue
		}
		total++
		if checked[FoodKey(ing.ID)] {
			done++
		}
	}

	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// Progress is the lock-taking form of the package-level Progress.
func (o *Orchestrator) Progress(memberID, phase string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Progress(o.data, memberID, phase)
}
