package model

// Meal type labels shown on the plan board. The planner UI predates any
// localisation layer so these are stored verbatim in the document.
const (
	MealBreakfast = "早餐"
	MealLunch     = "午餐"
	MealDinner    = "晚餐"
)

// Recipe holds the cooking steps attached to a plan after an autofill.
type Recipe struct {
	Steps      []string `json:"steps"`
	VideoQuery string   `json:"video_query,omitempty"`
}

// CheckItem is one line on a meal plan's shopping/prep checklist.
// SourceIngredientID links back to the inventory entry the line consumes;
// it is empty for buy-list lines that no member owns.
type CheckItem struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Checked            bool        `json:"checked"`
	Owner              *CheckOwner `json:"owner,omitempty"`
	SourceIngredientID string      `json:"source_ingredient_id,omitempty"`
}

// MealPlan is one generated or hand-entered meal on the itinerary.
type MealPlan struct {
	ID        string      `json:"id"`
	DayLabel  string      `json:"day_label"`
	MealType  string      `json:"meal_type"`
	Title     string      `json:"title"`
	MenuName  string      `json:"menu_name"`
	Reason    string      `json:"reason,omitempty"`
	Checklist []CheckItem `json:"checklist"`
	Notes     string      `json:"notes,omitempty"`
	Recipe    *Recipe     `json:"recipe,omitempty"`
}
