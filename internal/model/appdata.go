package model

// AppData is the complete trip document. It is what the remote store
// persists and what clients hydrate from, so every collection the app
// mutates lives here.
//
// CheckedDeparture and CheckedReturn are keyed by member ID first, then
// by item key ("gear-<id>" or "food-<id>"), so each member walks their
// own departure and teardown checklist.
type AppData struct {
	GearList         []GearItem                 `json:"gear_list"`
	Ingredients      []Ingredient               `json:"ingredients"`
	MealPlans        []MealPlan                 `json:"meal_plans"`
	Bills            []Bill                     `json:"bills"`
	Members          []Member                   `json:"members"`
	TripInfo         TripInfo                   `json:"trip_info"`
	CheckedDeparture map[string]map[string]bool `json:"checked_departure"`
	CheckedReturn    map[string]map[string]bool `json:"checked_return"`
	LastUpdated      int64                      `json:"last_updated"`
}

// Clone returns a deep copy so callers can hand the document to slow
// consumers without holding the orchestrator lock.
func (d *AppData) Clone() *AppData {
	out := &AppData{
		GearList:         make([]GearItem, len(d.GearList)),
		Ingredients:      make([]Ingredient, len(d.Ingredients)),
		MealPlans:        make([]MealPlan, len(d.MealPlans)),
		Bills:            append([]Bill(nil), d.Bills...),
		Members:          append([]Member(nil), d.Members...),
		TripInfo:         d.TripInfo,
		CheckedDeparture: cloneCheckMap(d.CheckedDeparture),
		CheckedReturn:    cloneCheckMap(d.CheckedReturn),
		LastUpdated:      d.LastUpdated,
	}
	for i, g := range d.GearList {
		if g.Owner != nil {
			o := *g.Owner
			g.Owner = &o
		}
		if g.PackedBy != nil {
			m := make(map[string]bool, len(g.PackedBy))
			for k, v := range g.PackedBy {
				m[k] = v
			}
			g.PackedBy = m
		}
		out.GearList[i] = g
	}
	for i, ing := range d.Ingredients {
		if ing.Owner != nil {
			o := *ing.Owner
			ing.Owner = &o
		}
		out.Ingredients[i] = ing
	}
	for i, p := range d.MealPlans {
		p.Checklist = append([]CheckItem(nil), p.Checklist...)
		for j, ci := range p.Checklist {
			if ci.Owner != nil {
				o := *ci.Owner
				p.Checklist[j].Owner = &o
			}
		}
		if p.Recipe != nil {
			r := *p.Recipe
			r.Steps = append([]string(nil), p.Recipe.Steps...)
			p.Recipe = &r
		}
		out.MealPlans[i] = p
	}
	if d.TripInfo.Weather != nil {
		w := *d.TripInfo.Weather
		out.TripInfo.Weather = &w
	}
	return out
}

func cloneCheckMap(src map[string]map[string]bool) map[string]map[string]bool {
	if src == nil {
		return nil
	}
	out := make(map[string]map[string]bool, len(src))
	for member, items := range src {
		m := make(map[string]bool, len(items))
		for k, v := range items {
			m[k] = v
		}
		out[member] = m
	}
	return out
}
