package trip

import (
	"context"
	"fmt"
	"strings"

	"github.com/mchou/campnook/internal/advisor"
	"github.com/mchou/campnook/internal/model"
)

// Rescue plan labels.
const (
	rescueDayLabel = "撤收前"
	rescueTitle    = "清冰箱大作戰"
	rescueNotes    = "請將所有剩餘食材確認後投入！"
)

// MealRequest targets one generation round at a day and meal slot.
// Adults and Children size the portions.
type MealRequest struct {
	Day      int
	MealType string
	Adults   int
	Children int
}

// GenerateMealPlans builds meal plans for the requested slot from the
// currently selected ingredients. The advisor call runs outside the
// document lock; the selection is re-read when the result is applied,
// so an ingredient deselected mid-call simply stays untouched.
func (o *Orchestrator) GenerateMealPlans(ctx context.Context, req MealRequest) error {
	if o.advisor == nil {
		return ErrNoAdvisor
	}
	if req.Day <= 0 {
		req.Day = 1
	}
	if req.MealType == "" {
		req.MealType = model.MealDinner
	}

	o.mu.Lock()
	var names []string
	for _, ing := range o.data.Ingredients {
		if ing.Selected && !ing.Locked() {
			names = append(names, ing.Name)
		}
	}
	adults := req.Adults
	if adults <= 0 {
		adults = len(o.data.Members)
	}
	areq := advisor.PlanRequest{
		Ingredients: names,
		DayLabel:    fmt.Sprintf("第 %d 天", req.Day),
		MealType:    req.MealType,
		Adults:      adults,
		Children:    req.Children,
		Location:    o.data.TripInfo.Location,
	}
	o.mu.Unlock()

	if len(names) == 0 {
		return ErrNoSelection
	}

	ideas, err := o.advisor.PlanMeals(ctx, areq)
	if err != nil {
		return fmt.Errorf("generate meal plans: %w", err)
	}
	// The prompt pins the slot, but the model does not always obey.
	for i := range ideas {
		if ideas[i].DayLabel == "" {
			ideas[i].DayLabel = areq.DayLabel
		}
		if ideas[i].MealType == "" {
			ideas[i].MealType = areq.MealType
		}
	}

	return o.update(func(d *model.AppData) error {
		o.applyIdeas(d, ideas)
		return nil
	})
}

// applyIdeas turns advisor meal ideas into plans and reconciles them
// against the selected pantry. Each proposed item is matched against
// the selection: a match becomes an owned checklist line and locks the
// ingredient to that plan; an unmatched item with a buy quantity
// becomes an ownerless shopping line. Selected ingredients no idea
// mentioned are attached to the first plan so nothing the family
// offered is silently dropped. New plans go to the front of the board.
func (o *Orchestrator) applyIdeas(d *model.AppData, ideas []advisor.MealIdea) {
	var pool []*model.Ingredient
	for i := range d.Ingredients {
		if d.Ingredients[i].Selected && !d.Ingredients[i].Locked() {
			pool = append(pool, &d.Ingredients[i])
		}
	}

	plans := make([]model.MealPlan, 0, len(ideas))
	for _, idea := range ideas {
		plan := model.MealPlan{
			ID:        o.newID(),
			DayLabel:  idea.DayLabel,
			MealType:  idea.MealType,
			Title:     idea.Title,
			MenuName:  idea.MenuName,
			Reason:    idea.Reason,
			Checklist: []model.CheckItem{},
		}
		if plan.Title == "" {
			plan.Title = fmt.Sprintf("%s %s", idea.DayLabel, idea.MealType)
		}
		if r := idea.Recipe; r != nil && len(r.Steps) > 0 {
			plan.Recipe = &model.Recipe{Steps: r.Steps, VideoQuery: r.VideoQuery}
		}

		for _, item := range idea.Items {
			if ing := matchIngredient(item.Name, pool); ing != nil {
				plan.Checklist = append(plan.Checklist, o.checklistLine(ing))
				ing.UsedInPlanID = plan.ID
				ing.Selected = false
				pool = removeIngredient(pool, ing)
				continue
			}
			if item.Buy != "" && item.Buy != "0" {
				plan.Checklist = append(plan.Checklist, model.CheckItem{
					ID:   o.newID(),
					Name: buyLineName(item.Name, item.Buy),
				})
			}
		}

		plans = append(plans, plan)
	}

	// Whatever the ideas never touched still belongs somewhere.
	if len(plans) > 0 {
		first := &plans[0]
		for _, ing := range pool {
			first.Checklist = append(first.Checklist, o.checklistLine(ing))
			ing.UsedInPlanID = first.ID
			ing.Selected = false
		}
	}

	d.MealPlans = append(plans, d.MealPlans...)
}

func (o *Orchestrator) checklistLine(ing *model.Ingredient) model.CheckItem {
	ci := model.CheckItem{
		ID:                 o.newID(),
		Name:               ing.Name,
		SourceIngredientID: ing.ID,
	}
	if ing.Owner != nil {
		ci.Owner = &model.CheckOwner{Name: ing.Owner.Name, Avatar: ing.Owner.Avatar}
	}
	return ci
}

func removeIngredient(pool []*model.Ingredient, target *model.Ingredient) []*model.Ingredient {
	for i, ing := range pool {
		if ing == target {
			return append(pool[:i], pool[i+1:]...)
		}
	}
	return pool
}

// RescueLeftovers asks for one final meal that clears every unlocked
// ingredient, then locks them all to the new plan.
func (o *Orchestrator) RescueLeftovers(ctx context.Context) error {
	if o.advisor == nil {
		return ErrNoAdvisor
	}

	o.mu.Lock()
	var names []string
	for _, ing := range o.data.Ingredients {
		if !ing.Locked() {
			names = append(names, ing.Name)
		}
	}
	o.mu.Unlock()

	if len(names) == 0 {
		return ErrNoSelection
	}

	idea, err := o.advisor.RescueRecipe(ctx, names)
	if err != nil {
		return fmt.Errorf("rescue leftovers: %w", err)
	}

	return o.update(func(d *model.AppData) error {
		plan := model.MealPlan{
			ID:        o.newID(),
			DayLabel:  rescueDayLabel,
			MealType:  model.MealLunch,
			Title:     rescueTitle,
			MenuName:  idea.MenuName,
			Reason:    idea.Reason,
			Notes:     rescueNotes,
			Checklist: []model.CheckItem{},
		}
		if r := idea.Recipe; r != nil && len(r.Steps) > 0 {
			plan.Recipe = &model.Recipe{Steps: r.Steps, VideoQuery: r.VideoQuery}
		}
		for i := range d.Ingredients {
			ing := &d.Ingredients[i]
			if ing.Locked() {
				continue
			}
			plan.Checklist = append(plan.Checklist, o.checklistLine(ing))
			ing.UsedInPlanID = plan.ID
			ing.Selected = false
		}
		d.MealPlans = append([]model.MealPlan{plan}, d.MealPlans...)
		return nil
	})
}

// ImportItinerary parses free-form itinerary text into empty meal slots
// appended to the board.
func (o *Orchestrator) ImportItinerary(ctx context.Context, text string) error {
	if o.advisor == nil {
		return ErrNoAdvisor
	}

	ideas, err := o.advisor.ParseItinerary(ctx, text)
	if err != nil {
		return fmt.Errorf("import itinerary: %w", err)
	}

	return o.update(func(d *model.AppData) error {
		for _, idea := range ideas {
			title := idea.Title
			if title == "" {
				title = fmt.Sprintf("%s %s", idea.DayLabel, idea.MealType)
			}
			d.MealPlans = append(d.MealPlans, model.MealPlan{
				ID:        o.newID(),
				DayLabel:  idea.DayLabel,
				MealType:  idea.MealType,
				Title:     title,
				MenuName:  idea.MenuName,
				Reason:    idea.Reason,
				Checklist: []model.CheckItem{},
			})
		}
		return nil
	})
}

// ImportMenuImage reads a menu photo into meal plans, reconciling the
// recognized dishes against the selected pantry the same way generation
// does.
func (o *Orchestrator) ImportMenuImage(ctx context.Context, image []byte, mimeType string) error {
	if o.advisor == nil {
		return ErrNoAdvisor
	}

	ideas, err := o.advisor.MenuFromImage(ctx, image, mimeType)
	if err != nil {
		return fmt.Errorf("import menu image: %w", err)
	}

	return o.update(func(d *model.AppData) error {
		o.applyIdeas(d, ideas)
		return nil
	})
}

// AutofillDish fetches cooking steps for a plan's menu and stores them
// on the plan.
func (o *Orchestrator) AutofillDish(ctx context.Context, planID string) error {
	if o.advisor == nil {
		return ErrNoAdvisor
	}

	o.mu.Lock()
	plan := findPlan(o.data, planID)
	if plan == nil {
		o.mu.Unlock()
		return ErrNotFound
	}
	dish := plan.MenuName
	if dish == "" {
		dish = plan.Title
	}
	o.mu.Unlock()

	recipe, err := o.advisor.DishRecipe(ctx, dish)
	if err != nil {
		return fmt.Errorf("autofill dish: %w", err)
	}

	return o.update(func(d *model.AppData) error {
		plan := findPlan(d, planID)
		if plan == nil {
			return ErrNotFound
		}
		plan.Recipe = &model.Recipe{Steps: recipe.Steps, VideoQuery: recipe.VideoQuery}
		return nil
	})
}

// AddBlankPlan creates a hand-entered meal slot.
func (o *Orchestrator) AddBlankPlan(dayLabel, mealType string) (string, error) {
	id := o.newID()
	err := o.update(func(d *model.AppData) error {
		d.MealPlans = append([]model.MealPlan{{
			ID:        id,
			DayLabel:  dayLabel,
			MealType:  mealType,
			Title:     fmt.Sprintf("%s %s", dayLabel, mealType),
			Checklist: []model.CheckItem{},
		}}, d.MealPlans...)
		return nil
	})
	return id, err
}

// UpdatePlanDetails edits the labels of an existing plan.
func (o *Orchestrator) UpdatePlanDetails(planID, title, menuName, dayLabel, mealType string) error {
	return o.update(func(d *model.AppData) error {
		plan := findPlan(d, planID)
		if plan == nil {
			return ErrNotFound
		}
		if title != "" {
			plan.Title = title
		}
		if menuName != "" {
			plan.MenuName = menuName
		}
		if dayLabel != "" {
			plan.DayLabel = dayLabel
		}
		if mealType != "" {
			plan.MealType = mealType
		}
		return nil
	})
}

// UpdatePlanNotes replaces a plan's notes.
func (o *Orchestrator) UpdatePlanNotes(planID, notes string) error {
	return o.update(func(d *model.AppData) error {
		plan := findPlan(d, planID)
		if plan == nil {
			return ErrNotFound
		}
		plan.Notes = notes
		return nil
	})
}

// DeleteMealPlan removes a plan and releases every ingredient it held.
func (o *Orchestrator) DeleteMealPlan(planID string) error {
	return o.update(func(d *model.AppData) error {
		idx := -1
		for i := range d.MealPlans {
			if d.MealPlans[i].ID == planID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrNotFound
		}
		d.MealPlans = append(d.MealPlans[:idx], d.MealPlans[idx+1:]...)
		for i := range d.Ingredients {
			if d.Ingredients[i].UsedInPlanID == planID {
				d.Ingredients[i].UsedInPlanID = ""
				d.Ingredients[i].Selected = false
			}
		}
		return nil
	})
}

// ToggleCheckItem flips one checklist line.
func (o *Orchestrator) ToggleCheckItem(planID, itemID string) error {
	return o.update(func(d *model.AppData) error {
		plan := findPlan(d, planID)
		if plan == nil {
			return ErrNotFound
		}
		for i := range plan.Checklist {
			if plan.Checklist[i].ID == itemID {
				plan.Checklist[i].Checked = !plan.Checklist[i].Checked
				return nil
			}
		}
		return ErrNotFound
	})
}

// AddCheckItem appends a manual line to a plan's checklist.
func (o *Orchestrator) AddCheckItem(planID, name string, owner *model.CheckOwner) error {
	return o.update(func(d *model.AppData) error {
		plan := findPlan(d, planID)
		if plan == nil {
			return ErrNotFound
		}
		plan.Checklist = append(plan.Checklist, model.CheckItem{
			ID:    o.newID(),
			Name:  name,
			Owner: owner,
		})
		return nil
	})
}

// UpdateCheckItem edits one checklist line's name and owner. The
// ingredient link and checked state are untouched. When the line is
// backed by a pantry ingredient and the new owner matches a roster
// member, that ingredient's owner follows along so the fridge shows who
// is bringing it now.
func (o *Orchestrator) UpdateCheckItem(planID, itemID, name string, owner *model.CheckOwner) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("check item name must not be empty")
	}
	return o.update(func(d *model.AppData) error {
		plan := findPlan(d, planID)
		if plan == nil {
			return ErrNotFound
		}
		for i := range plan.Checklist {
			if plan.Checklist[i].ID != itemID {
				continue
			}
			item := &plan.Checklist[i]
			changed := ownerChanged(item.Owner, owner)
			item.Name = name
			item.Owner = owner
			if changed && item.SourceIngredientID != "" && owner != nil {
				propagateOwner(d, item.SourceIngredientID, owner)
			}
			return nil
		}
		return ErrNotFound
	})
}

func ownerChanged(old, next *model.CheckOwner) bool {
	if old == nil || next == nil {
		return old != next
	}
	return old.Name != next.Name || old.Avatar != next.Avatar
}

// propagateOwner moves a sourced ingredient onto the member matching the
// edited owner. An owner that matches nobody on the roster changes only
// the checklist line.
func propagateOwner(d *model.AppData, ingredientID string, owner *model.CheckOwner) {
	var match *model.Member
	for i := range d.Members {
		if d.Members[i].Name == owner.Name && d.Members[i].Avatar == owner.Avatar {
			match = &d.Members[i]
			break
		}
	}
	if match == nil {
		return
	}
	if ing := findIngredient(d, ingredientID); ing != nil {
		ing.Owner = &model.IngredientOwner{ID: match.ID, Name: match.Name, Avatar: match.Avatar}
	}
}

// DeleteCheckItem removes one checklist line. A line backed by a pantry
// ingredient releases that ingredient on the way out.
func (o *Orchestrator) DeleteCheckItem(planID, itemID string) error {
	return o.update(func(d *model.AppData) error {
		plan := findPlan(d, planID)
		if plan == nil {
			return ErrNotFound
		}
		for i := range plan.Checklist {
			if plan.Checklist[i].ID != itemID {
				continue
			}
			if src := plan.Checklist[i].SourceIngredientID; src != "" {
				if ing := findIngredient(d, src); ing != nil && ing.UsedInPlanID == planID {
					ing.UsedInPlanID = ""
					ing.Selected = false
				}
			}
			plan.Checklist = append(plan.Checklist[:i], plan.Checklist[i+1:]...)
			return nil
		}
		return ErrNotFound
	})
}
