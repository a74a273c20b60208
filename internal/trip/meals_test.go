package trip

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mchou/campnook/internal/advisor"
	"github.com/mchou/campnook/internal/model"
)

// seedPantry replaces the starter pantry with just the named
// ingredients, all selected and owned by user_mom.
func seedPantry(t *testing.T, o *Orchestrator, names ...string) {
	t.Helper()
	o.mu.Lock()
	o.data.Ingredients = nil
	o.mu.Unlock()
	if err := o.AddIngredients(names, "user_mom"); err != nil {
		t.Fatalf("seed pantry: %v", err)
	}
}

func TestGenerateMealPlansReconciliation(t *testing.T) {
	adv := &fakeAdvisor{
		planMeals: func(req advisor.PlanRequest) ([]advisor.MealIdea, error) {
			if len(req.Ingredients) != 2 {
				t.Errorf("expected 2 selected ingredients in request, got %v", req.Ingredients)
			}
			if req.DayLabel != "第 2 天" || req.MealType != model.MealDinner {
				t.Errorf("slot not forwarded: %q %q", req.DayLabel, req.MealType)
			}
			if req.Adults != 3 || req.Children != 2 {
				t.Errorf("party size not forwarded: %d adults, %d children", req.Adults, req.Children)
			}
			return []advisor.MealIdea{{
				DayLabel: "第 2 天",
				MealType: model.MealDinner,
				Title:    "第 2 天 晚餐",
				MenuName: "奶油洋蔥牛肉",
				Reason:   "用現有食材",
				Items: []advisor.MealItem{
					{Name: "洋蔥", Buy: "0"},
					{Name: "奶油", Buy: "2"},
				},
				Recipe: &advisor.Recipe{
					Steps:      []string{"洋蔥切絲下鍋", "加入牛肉拌炒"},
					VideoQuery: "露營 奶油洋蔥牛肉",
				},
			}}, nil
		},
	}
	o := newTestOrchestrator(t, adv)
	seedPantry(t, o, "洋蔥 3 顆", "雞蛋 1 盒")

	req := MealRequest{Day: 2, MealType: model.MealDinner, Adults: 3, Children: 2}
	if err := o.GenerateMealPlans(context.Background(), req); err != nil {
		t.Fatalf("GenerateMealPlans: %v", err)
	}

	snap := o.Snapshot()
	if len(snap.MealPlans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(snap.MealPlans))
	}
	plan := snap.MealPlans[0]
	if plan.DayLabel != "第 2 天" || plan.MealType != model.MealDinner {
		t.Errorf("plan landed on wrong slot: %q %q", plan.DayLabel, plan.MealType)
	}
	if plan.Recipe == nil {
		t.Fatal("generated plan must keep the suggested recipe")
	}
	if len(plan.Recipe.Steps) != 2 || plan.Recipe.VideoQuery != "露營 奶油洋蔥牛肉" {
		t.Errorf("recipe not carried over: %+v", plan.Recipe)
	}

	// 洋蔥 matched by substring, 雞蛋 attached as leftover, 奶油 is a buy line.
	if len(plan.Checklist) != 3 {
		t.Fatalf("expected 3 checklist lines, got %d: %+v", len(plan.Checklist), plan.Checklist)
	}

	byName := map[string]model.CheckItem{}
	for _, ci := range plan.Checklist {
		byName[ci.Name] = ci
	}

	onion, ok := byName["洋蔥 3 顆"]
	if !ok {
		t.Fatal("matched ingredient line missing")
	}
	if onion.SourceIngredientID == "" || onion.Owner == nil {
		t.Errorf("matched line should carry source and owner: %+v", onion)
	}

	eggs, ok := byName["雞蛋 1 盒"]
	if !ok {
		t.Fatal("unused selected ingredient should fall back onto the first plan")
	}
	if eggs.SourceIngredientID == "" {
		t.Error("fallback line should carry its source ingredient")
	}

	buy, ok := byName["奶油 (需買: 2)"]
	if !ok {
		t.Fatalf("buy line missing, have %v", byName)
	}
	if buy.Owner != nil || buy.SourceIngredientID != "" {
		t.Errorf("buy line must be ownerless and unsourced: %+v", buy)
	}

	// Both pantry entries are now locked, deselected and tied to exactly
	// one checklist line each.
	for _, ing := range snap.Ingredients {
		if ing.UsedInPlanID != plan.ID {
			t.Errorf("%s not locked to plan: %q", ing.Name, ing.UsedInPlanID)
		}
		if ing.Selected {
			t.Errorf("%s still selected after generation", ing.Name)
		}
		lines := 0
		for _, ci := range plan.Checklist {
			if ci.SourceIngredientID == ing.ID {
				lines++
			}
		}
		if lines != 1 {
			t.Errorf("%s has %d checklist lines, want 1", ing.Name, lines)
		}
	}
}

func TestGenerateMealPlansNoSelection(t *testing.T) {
	o := newTestOrchestrator(t, &fakeAdvisor{})
	if err := o.GenerateMealPlans(context.Background(), MealRequest{}); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestGenerateMealPlansNoAdvisor(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	if err := o.GenerateMealPlans(context.Background(), MealRequest{}); !errors.Is(err, ErrNoAdvisor) {
		t.Fatalf("expected ErrNoAdvisor, got %v", err)
	}
}

func TestGenerateMealPlansAdvisorFailureLeavesDocument(t *testing.T) {
	adv := &fakeAdvisor{
		planMeals: func(advisor.PlanRequest) ([]advisor.MealIdea, error) {
			return nil, errors.New("model offline")
		},
	}
	o := newTestOrchestrator(t, adv)
	seedPantry(t, o, "洋蔥 3 顆")

	if err := o.GenerateMealPlans(context.Background(), MealRequest{}); err == nil {
		t.Fatal("expected error")
	}

	snap := o.Snapshot()
	if len(snap.MealPlans) != 0 {
		t.Error("failed generation must not create plans")
	}
	if !snap.Ingredients[0].Selected || snap.Ingredients[0].Locked() {
		t.Error("failed generation must not touch the selection")
	}
}

func TestDeleteMealPlanReleasesIngredients(t *testing.T) {
	adv := &fakeAdvisor{
		planMeals: func(advisor.PlanRequest) ([]advisor.MealIdea, error) {
			return []advisor.MealIdea{{
				DayLabel: "第 1 天",
				MealType: model.MealLunch,
				Items: []advisor.MealItem{
					{Name: "洋蔥 3 顆", Buy: "0"},
					{Name: "雞蛋 1 盒", Buy: "0"},
				},
			}}, nil
		},
	}
	o := newTestOrchestrator(t, adv)
	seedPantry(t, o, "洋蔥 3 顆", "雞蛋 1 盒")

	if err := o.GenerateMealPlans(context.Background(), MealRequest{}); err != nil {
		t.Fatalf("GenerateMealPlans: %v", err)
	}
	planID := o.Snapshot().MealPlans[0].ID

	if err := o.DeleteMealPlan(planID); err != nil {
		t.Fatalf("DeleteMealPlan: %v", err)
	}

	snap := o.Snapshot()
	if len(snap.MealPlans) != 0 {
		t.Fatal("plan not removed")
	}
	for _, ing := range snap.Ingredients {
		if ing.Locked() {
			t.Errorf("%s still locked after plan deletion", ing.Name)
		}
		if ing.Selected {
			t.Errorf("%s reselected after plan deletion", ing.Name)
		}
	}
}

func TestRescueLeftovers(t *testing.T) {
	adv := &fakeAdvisor{
		rescue: func(ingredients []string) (*advisor.MealIdea, error) {
			return &advisor.MealIdea{
				MenuName: "什錦雜炊",
				Reason:   "全部用掉",
				Recipe:   &advisor.Recipe{Steps: []string{"全部下鍋"}, VideoQuery: "雜炊"},
			}, nil
		},
	}
	o := newTestOrchestrator(t, adv)
	seedPantry(t, o, "洋蔥 3 顆", "雞蛋 1 盒", "辛拉麵 2 包")

	// Lock one ingredient to an existing plan; rescue must leave it alone.
	o.mu.Lock()
	o.data.Ingredients[2].UsedInPlanID = "plan-existing"
	o.mu.Unlock()

	if err := o.RescueLeftovers(context.Background()); err != nil {
		t.Fatalf("RescueLeftovers: %v", err)
	}

	snap := o.Snapshot()
	plan := snap.MealPlans[0]
	if plan.DayLabel != "撤收前" || plan.Title != "清冰箱大作戰" {
		t.Errorf("unexpected rescue labels: %q %q", plan.DayLabel, plan.Title)
	}
	if plan.MenuName != "什錦雜炊" {
		t.Errorf("menu name not taken from advisor: %q", plan.MenuName)
	}
	if plan.Recipe == nil || plan.Recipe.VideoQuery != "雜炊" {
		t.Errorf("rescue plan must keep the suggested recipe: %+v", plan.Recipe)
	}
	if len(plan.Checklist) != 2 {
		t.Fatalf("expected 2 rescued lines, got %d", len(plan.Checklist))
	}
	if got := snap.Ingredients[2].UsedInPlanID; got != "plan-existing" {
		t.Errorf("already locked ingredient moved to %q", got)
	}
	for _, ing := range snap.Ingredients[:2] {
		if ing.UsedInPlanID != plan.ID {
			t.Errorf("%s not locked to rescue plan", ing.Name)
		}
	}
}

func TestRescueLeftoversEmptyFridge(t *testing.T) {
	o := newTestOrchestrator(t, &fakeAdvisor{})
	o.mu.Lock()
	for i := range o.data.Ingredients {
		o.data.Ingredients[i].UsedInPlanID = "plan-x"
	}
	o.mu.Unlock()

	if err := o.RescueLeftovers(context.Background()); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestImportItinerary(t *testing.T) {
	adv := &fakeAdvisor{
		itinerary: func(text string) ([]advisor.MealIdea, error) {
			if !strings.Contains(text, "第二天") {
				t.Errorf("itinerary text not forwarded: %q", text)
			}
			return []advisor.MealIdea{
				{DayLabel: "第 1 天", MealType: model.MealDinner, MenuName: "烤肉"},
				{DayLabel: "第 2 天", MealType: model.MealBreakfast},
			}, nil
		},
	}
	o := newTestOrchestrator(t, adv)

	if err := o.ImportItinerary(context.Background(), "第一天晚上烤肉，第二天早餐"); err != nil {
		t.Fatalf("ImportItinerary: %v", err)
	}

	snap := o.Snapshot()
	if len(snap.MealPlans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(snap.MealPlans))
	}
	if snap.MealPlans[1].Title != "第 2 天 早餐" {
		t.Errorf("untitled slot should get a label title, got %q", snap.MealPlans[1].Title)
	}
	for _, p := range snap.MealPlans {
		if len(p.Checklist) != 0 {
			t.Errorf("imported slot %s should start with an empty checklist", p.ID)
		}
	}
}

func TestAutofillDish(t *testing.T) {
	adv := &fakeAdvisor{
		dish: func(dish string) (*advisor.Recipe, error) {
			if dish != "奶油洋蔥牛肉" {
				t.Errorf("unexpected dish: %q", dish)
			}
			return &advisor.Recipe{Steps: []string{"切洋蔥", "下牛肉"}, VideoQuery: "奶油洋蔥牛肉 露營"}, nil
		},
	}
	o := newTestOrchestrator(t, adv)

	id, err := o.AddBlankPlan("第 1 天", model.MealDinner)
	if err != nil {
		t.Fatalf("AddBlankPlan: %v", err)
	}
	if err := o.UpdatePlanDetails(id, "", "奶油洋蔥牛肉", "", ""); err != nil {
		t.Fatalf("UpdatePlanDetails: %v", err)
	}

	if err := o.AutofillDish(context.Background(), id); err != nil {
		t.Fatalf("AutofillDish: %v", err)
	}

	plan := o.Snapshot().MealPlans[0]
	if plan.Recipe == nil || len(plan.Recipe.Steps) != 2 {
		t.Fatalf("recipe not stored: %+v", plan.Recipe)
	}
}

func TestChecklistLineOperations(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	id, err := o.AddBlankPlan("第 1 天", model.MealBreakfast)
	if err != nil {
		t.Fatalf("AddBlankPlan: %v", err)
	}

	if err := o.AddCheckItem(id, "吐司", &model.CheckOwner{Name: "媽媽", Avatar: "🐰"}); err != nil {
		t.Fatalf("AddCheckItem: %v", err)
	}

	plan := o.Snapshot().MealPlans[0]
	line := plan.Checklist[0]

	if err := o.ToggleCheckItem(id, line.ID); err != nil {
		t.Fatalf("ToggleCheckItem: %v", err)
	}
	if !o.Snapshot().MealPlans[0].Checklist[0].Checked {
		t.Fatal("line not checked")
	}

	if err := o.UpdateCheckItem(id, line.ID, "厚片吐司", line.Owner); err != nil {
		t.Fatalf("UpdateCheckItem: %v", err)
	}
	renamed := o.Snapshot().MealPlans[0].Checklist[0]
	if renamed.Name != "厚片吐司" {
		t.Errorf("renamed line = %q", renamed.Name)
	}
	if !renamed.Checked {
		t.Error("rename should not reset checked state")
	}
	if renamed.Owner == nil || renamed.Owner.Name != "媽媽" {
		t.Errorf("rename should keep the owner: %+v", renamed.Owner)
	}
	if err := o.UpdateCheckItem(id, line.ID, "  ", line.Owner); err == nil {
		t.Error("expected error for blank name")
	}

	if err := o.DeleteCheckItem(id, line.ID); err != nil {
		t.Fatalf("DeleteCheckItem: %v", err)
	}
	if got := len(o.Snapshot().MealPlans[0].Checklist); got != 0 {
		t.Fatalf("expected empty checklist, got %d lines", got)
	}

	if err := o.ToggleCheckItem(id, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateCheckItemOwnerPropagation(t *testing.T) {
	adv := &fakeAdvisor{
		planMeals: func(advisor.PlanRequest) ([]advisor.MealIdea, error) {
			return []advisor.MealIdea{{
				DayLabel: "第 1 天",
				MealType: model.MealDinner,
				Items:    []advisor.MealItem{{Name: "洋蔥 3 顆", Buy: "0"}},
			}}, nil
		},
	}
	o := newTestOrchestrator(t, adv)
	seedPantry(t, o, "洋蔥 3 顆")

	if err := o.GenerateMealPlans(context.Background(), MealRequest{}); err != nil {
		t.Fatalf("GenerateMealPlans: %v", err)
	}
	plan := o.Snapshot().MealPlans[0]
	line := plan.Checklist[0]
	if line.SourceIngredientID == "" {
		t.Fatal("expected a sourced checklist line")
	}

	// Hand the line to 爸爸; the fridge entry must follow.
	dad := &model.CheckOwner{Name: "爸爸", Avatar: "🐻"}
	if err := o.UpdateCheckItem(plan.ID, line.ID, line.Name, dad); err != nil {
		t.Fatalf("UpdateCheckItem: %v", err)
	}

	snap := o.Snapshot()
	if got := snap.MealPlans[0].Checklist[0].Owner; got == nil || got.Name != "爸爸" {
		t.Errorf("line owner = %+v, want 爸爸", got)
	}
	ing := snap.Ingredients[0]
	if ing.Owner == nil || ing.Owner.ID != "user_dad" {
		t.Errorf("ingredient owner = %+v, want user_dad", ing.Owner)
	}

	// An owner matching nobody on the roster stays on the line only.
	stranger := &model.CheckOwner{Name: "隔壁營位", Avatar: "🦊"}
	if err := o.UpdateCheckItem(plan.ID, line.ID, line.Name, stranger); err != nil {
		t.Fatalf("UpdateCheckItem: %v", err)
	}
	snap = o.Snapshot()
	if got := snap.MealPlans[0].Checklist[0].Owner; got == nil || got.Name != "隔壁營位" {
		t.Errorf("line owner = %+v, want 隔壁營位", got)
	}
	if got := snap.Ingredients[0].Owner; got == nil || got.ID != "user_dad" {
		t.Errorf("unmatched owner must not move the ingredient: %+v", got)
	}
}

func TestDeleteCheckItemReleasesIngredient(t *testing.T) {
	adv := &fakeAdvisor{
		planMeals: func(advisor.PlanRequest) ([]advisor.MealIdea, error) {
			return []advisor.MealIdea{{
				DayLabel: "第 1 天",
				MealType: model.MealDinner,
				Items:    []advisor.MealItem{{Name: "洋蔥 3 顆", Buy: "0"}},
			}}, nil
		},
	}
	o := newTestOrchestrator(t, adv)
	seedPantry(t, o, "洋蔥 3 顆")

	if err := o.GenerateMealPlans(context.Background(), MealRequest{}); err != nil {
		t.Fatalf("GenerateMealPlans: %v", err)
	}

	plan := o.Snapshot().MealPlans[0]
	if err := o.DeleteCheckItem(plan.ID, plan.Checklist[0].ID); err != nil {
		t.Fatalf("DeleteCheckItem: %v", err)
	}

	ing := o.Snapshot().Ingredients[0]
	if ing.Locked() {
		t.Error("deleting the sourced line should release the ingredient")
	}
	if ing.Selected {
		t.Error("released ingredient should stay deselected")
	}
}
