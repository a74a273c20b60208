package trip

import (
	"errors"
	"testing"

	"github.com/mchou/campnook/internal/model"
)

func ingredientByName(t *testing.T, o *Orchestrator, name string) model.Ingredient {
	t.Helper()
	for _, ing := range o.Snapshot().Ingredients {
		if ing.Name == name {
			return ing
		}
	}
	t.Fatalf("ingredient %q not found", name)
	return model.Ingredient{}
}

func TestAddIngredientsSelectedAndOwned(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	if err := o.AddIngredients([]string{"高麗菜", ""}, "user_sis"); err != nil {
		t.Fatalf("AddIngredients: %v", err)
	}

	ing := ingredientByName(t, o, "高麗菜")
	if !ing.Selected {
		t.Error("new ingredient should start selected")
	}
	if ing.Owner == nil || ing.Owner.ID != "user_sis" || ing.Owner.Avatar != "🐱" {
		t.Errorf("unexpected owner: %+v", ing.Owner)
	}

	if len(o.Snapshot().Ingredients) != 11 {
		t.Errorf("blank name should be skipped, got %d ingredients", len(o.Snapshot().Ingredients))
	}
}

func TestToggleIngredientLocked(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	ing := ingredientByName(t, o, "洋蔥 3 顆")
	if err := o.ToggleIngredient(ing.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !ingredientByName(t, o, "洋蔥 3 顆").Selected {
		t.Fatal("expected ingredient selected")
	}

	// Lock it to a plan and try again.
	o.mu.Lock()
	findIngredient(o.data, ing.ID).UsedInPlanID = "plan-1"
	o.mu.Unlock()

	if err := o.ToggleIngredient(ing.ID); !errors.Is(err, ErrIngredientLocked) {
		t.Fatalf("expected ErrIngredientLocked, got %v", err)
	}
}

func TestDeleteIngredientRules(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	onion := ingredientByName(t, o, "洋蔥 3 顆") // owned by user_mom

	// Not the owner, not admin.
	if err := o.DeleteIngredient(onion.ID, "user_sis"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	// Locked beats everything.
	o.mu.Lock()
	findIngredient(o.data, onion.ID).UsedInPlanID = "plan-1"
	o.mu.Unlock()
	if err := o.DeleteIngredient(onion.ID, "user_mom"); !errors.Is(err, ErrIngredientLocked) {
		t.Fatalf("expected ErrIngredientLocked, got %v", err)
	}

	o.mu.Lock()
	findIngredient(o.data, onion.ID).UsedInPlanID = ""
	o.mu.Unlock()

	// Owner can delete.
	if err := o.DeleteIngredient(onion.ID, "user_mom"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	// Admin can delete someone else's.
	eggs := ingredientByName(t, o, "雞蛋 1 盒")
	if err := o.DeleteIngredient(eggs.ID, "user_dad"); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	if len(o.Snapshot().Ingredients) != 8 {
		t.Errorf("expected 8 ingredients left, got %d", len(o.Snapshot().Ingredients))
	}
}

func TestReassignIngredient(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	toast := ingredientByName(t, o, "全聯吐司 (半條)")

	if err := o.ReassignIngredient(toast.ID, "user_mom", "user_bro"); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}

	if err := o.ReassignIngredient(toast.ID, "user_dad", "user_bro"); err != nil {
		t.Fatalf("admin reassign: %v", err)
	}

	got := ingredientByName(t, o, "全聯吐司 (半條)")
	if got.Owner == nil || got.Owner.ID != "user_bro" || got.Owner.Avatar != "🐶" {
		t.Errorf("unexpected owner after reassign: %+v", got.Owner)
	}
}
