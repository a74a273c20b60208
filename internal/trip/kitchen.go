package trip

import (
	"context"
	"fmt"
	"strings"

	"github.com/mchou/campnook/internal/model"
)

// AddIngredients appends pantry entries owned by the given member. New
// entries start selected so they feed the next generation round.
func (o *Orchestrator) AddIngredients(names []string, ownerID string) error {
	return o.update(func(d *model.AppData) error {
		owner := findMember(d, ownerID)
		if owner == nil {
			return ErrNotFound
		}
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			d.Ingredients = append(d.Ingredients, model.Ingredient{
				ID:       o.newID(),
				Name:     name,
				Selected: true,
				Owner: &model.IngredientOwner{
					ID:     owner.ID,
					Name:   owner.Name,
					Avatar: owner.Avatar,
				},
			})
		}
		return nil
	})
}

// IdentifyIngredients runs a photo through the advisor and adds every
// recognized ingredient under the caller's name.
func (o *Orchestrator) IdentifyIngredients(ctx context.Context, image []byte, mimeType, ownerID string) ([]string, error) {
	if o.advisor == nil {
		return nil, ErrNoAdvisor
	}

	names, err := o.advisor.IngredientsFromImage(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("identify ingredients: %w", err)
	}
	if err := o.AddIngredients(names, ownerID); err != nil {
		return nil, err
	}
	return names, nil
}

// ToggleIngredient flips an ingredient's selection. Locked ingredients
// belong to a plan and cannot be reselected until released.
func (o *Orchestrator) ToggleIngredient(ingredientID string) error {
	return o.update(func(d *model.AppData) error {
		ing := findIngredient(d, ingredientID)
		if ing == nil {
			return ErrNotFound
		}
		if ing.Locked() {
			return ErrIngredientLocked
		}
		ing.Selected = !ing.Selected
		return nil
	})
}

// DeleteIngredient removes a pantry entry. Only the owner or an admin
// may delete, and never while a plan holds it.
func (o *Orchestrator) DeleteIngredient(ingredientID, actorID string) error {
	return o.update(func(d *model.AppData) error {
		actor := findMember(d, actorID)
		if actor == nil {
			return ErrNotFound
		}
		for i := range d.Ingredients {
			ing := &d.Ingredients[i]
			if ing.ID != ingredientID {
				continue
			}
			if ing.Locked() {
				return ErrIngredientLocked
			}
			if !actor.IsAdmin && (ing.Owner == nil || ing.Owner.ID != actorID) {
				return ErrNotOwner
			}
			d.Ingredients = append(d.Ingredients[:i], d.Ingredients[i+1:]...)
			return nil
		}
		return ErrNotFound
	})
}

// ReassignIngredient hands an ingredient to another member. Admin only,
// and never while a plan holds it.
func (o *Orchestrator) ReassignIngredient(ingredientID, actorID, newOwnerID string) error {
	return o.update(func(d *model.AppData) error {
		actor := findMember(d, actorID)
		if actor == nil {
			return ErrNotFound
		}
		if !actor.IsAdmin {
			return ErrNotAdmin
		}
		ing := findIngredient(d, ingredientID)
		if ing == nil {
			return ErrNotFound
		}
		if ing.Locked() {
			return ErrIngredientLocked
		}
		target := findMember(d, newOwnerID)
		if target == nil {
			return ErrNotFound
		}
		ing.Owner = &model.IngredientOwner{
			ID:     target.ID,
			Name:   target.Name,
			Avatar: target.Avatar,
		}
		return nil
	})
}
