package advisor

// MealItem is one ingredient line the model proposes for a meal. Buy is
// the quantity still to purchase as free text ("0" or empty when the
// pantry already covers it).
type MealItem struct {
	Name string `json:"name"`
	Buy  string `json:"buy"`
}

// MealIdea is one proposed meal.
type MealIdea struct {
	DayLabel string     `json:"day_label"`
	MealType string     `json:"meal_type"`
	Title    string     `json:"title"`
	MenuName string     `json:"menu_name"`
	Reason   string     `json:"reason"`
	Items    []MealItem `json:"items"`
	Recipe   *Recipe    `json:"recipe,omitempty"`
}

// Recipe is a cooking walkthrough for a single dish.
type Recipe struct {
	Steps      []string `json:"steps"`
	VideoQuery string   `json:"video_query"`
}

// PlanRequest describes one meal generation round: the pantry on offer,
// the day and meal slot being planned, and how many mouths to feed.
type PlanRequest struct {
	Ingredients []string
	DayLabel    string
	MealType    string
	Adults      int
	Children    int
	Location    string
}

// GearRequest describes a gear review round.
type GearRequest struct {
	Location string
	Date     string
	Existing []string
}
