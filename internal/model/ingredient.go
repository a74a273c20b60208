package model

// Ingredient is one entry in the shared fridge inventory.
//
// Selected marks it as a candidate for the next generated meal plan.
// UsedInPlanID is the lock: when non-empty the ingredient belongs to that
// meal plan's checklist and cannot be selected, reassigned or deleted
// until the plan releases it.
type Ingredient struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Selected     bool             `json:"selected"`
	UsedInPlanID string           `json:"used_in_plan_id,omitempty"`
	Owner        *IngredientOwner `json:"owner,omitempty"`
}

// Locked reports whether the ingredient is held by a meal plan.
func (i *Ingredient) Locked() bool {
	return i.UsedInPlanID != ""
}
