package trip

import (
	"context"
	"fmt"
	"strings"

	"github.com/mchou/campnook/internal/advisor"
	"github.com/mchou/campnook/internal/model"
)

// ClaimGear toggles the caller's claim on a public gear item. Admins
// override: their click releases any existing claim or takes an
// unclaimed item; everyone else can claim a free item or release their
// own, and gets ErrGearTaken otherwise.
func (o *Orchestrator) ClaimGear(gearID, actorID string) error {
	return o.update(func(d *model.AppData) error {
		actor := findMember(d, actorID)
		if actor == nil {
			return ErrNotFound
		}
		item := findGear(d, gearID)
		if item == nil {
			return ErrNotFound
		}
		if item.Category != model.GearPublic {
			return fmt.Errorf("claim gear %q: %w", item.Name, ErrNotFound)
		}

		if actor.IsAdmin {
			if item.Owner != nil {
				item.Owner = nil
			} else {
				item.Owner = &model.GearOwner{ID: actor.ID, Name: actor.Name}
			}
			return nil
		}

		switch {
		case item.Owner == nil:
			item.Owner = &model.GearOwner{ID: actor.ID, Name: actor.Name}
		case item.Owner.ID == actorID:
			item.Owner = nil
		default:
			return ErrGearTaken
		}
		return nil
	})
}

// AssignGear sets a public item's owner directly. Admin only; an empty
// targetID clears the claim.
func (o *Orchestrator) AssignGear(gearID, actorID, targetID string) error {
	return o.update(func(d *model.AppData) error {
		actor := findMember(d, actorID)
		if actor == nil {
			return ErrNotFound
		}
		if !actor.IsAdmin {
			return ErrNotAdmin
		}
		item := findGear(d, gearID)
		if item == nil || item.Category != model.GearPublic {
			return ErrNotFound
		}
		if targetID == "" {
			item.Owner = nil
			return nil
		}
		target := findMember(d, targetID)
		if target == nil {
			return ErrNotFound
		}
		item.Owner = &model.GearOwner{ID: target.ID, Name: target.Name}
		return nil
	})
}

// TogglePersonalPacked flips the caller's packed mark on a personal
// item. Marks are per member so the whole family shares one list.
func (o *Orchestrator) TogglePersonalPacked(gearID, memberID string) error {
	return o.update(func(d *model.AppData) error {
		if findMember(d, memberID) == nil {
			return ErrNotFound
		}
		item := findGear(d, gearID)
		if item == nil || item.Category != model.GearPersonal {
			return ErrNotFound
		}
		if item.PackedBy == nil {
			item.PackedBy = make(map[string]bool)
		}
		if item.PackedBy[memberID] {
			delete(item.PackedBy, memberID)
		} else {
			item.PackedBy[memberID] = true
		}
		return nil
	})
}

// AddGear appends items to the gear board. Preset names come from the
// catalog; custom marks hand-typed entries, which any member may later
// delete.
func (o *Orchestrator) AddGear(names []string, category string, required, custom bool) error {
	if category != model.GearPublic && category != model.GearPersonal {
		return fmt.Errorf("unknown gear category %q", category)
	}
	return o.update(func(d *model.AppData) error {
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			d.GearList = append(d.GearList, model.GearItem{
				ID:       o.newID(),
				Name:     name,
				Category: category,
				Required: required,
				IsCustom: custom,
			})
		}
		return nil
	})
}

// DeleteGear removes an item. Custom items may be removed by anyone;
// catalog and starter items only by an admin.
func (o *Orchestrator) DeleteGear(gearID, actorID string) error {
	return o.update(func(d *model.AppData) error {
		actor := findMember(d, actorID)
		if actor == nil {
			return ErrNotFound
		}
		for i := range d.GearList {
			if d.GearList[i].ID != gearID {
				continue
			}
			if !d.GearList[i].IsCustom && !actor.IsAdmin {
				return ErrNotAdmin
			}
			d.GearList = append(d.GearList[:i], d.GearList[i+1:]...)
			return nil
		}
		return ErrNotFound
	})
}

// SuggestGear asks the advisor what the current list is missing for the
// trip's destination and date. The suggestions are returned for the
// family to review, nothing is added automatically.
func (o *Orchestrator) SuggestGear(ctx context.Context) ([]string, error) {
	if o.advisor == nil {
		return nil, ErrNoAdvisor
	}

	o.mu.Lock()
	req := advisor.GearRequest{
		Location: o.data.TripInfo.Location,
		Date:     o.data.TripInfo.Date,
		Existing: make([]string, 0, len(o.data.GearList)),
	}
	for _, g := range o.data.GearList {
		req.Existing = append(req.Existing, g.Name)
	}
	o.mu.Unlock()

	suggestions, err := o.advisor.GearAdvice(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("suggest gear: %w", err)
	}
	return suggestions, nil
}
