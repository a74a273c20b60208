package trip

import (
	"fmt"

	"github.com/mchou/campnook/internal/model"
)

// SetCheckMark sets one departure or return check mark for a member.
// Keys come from GearKey and FoodKey.
func (o *Orchestrator) SetCheckMark(memberID, phase, key string, checked bool) error {
	if phase != PhaseDeparture && phase != PhaseReturn {
		return fmt.Errorf("unknown check phase %q", phase)
	}
	return o.update(func(d *model.AppData) error {
		if findMember(d, memberID) == nil {
			return ErrNotFound
		}
		target := d.CheckedDeparture
		if phase == PhaseReturn {
			target = d.CheckedReturn
		}
		m := target[memberID]
		if m == nil {
			m = make(map[string]bool)
			target[memberID] = m
		}
		if checked {
			m[key] = true
		} else {
			delete(m, key)
		}
		return nil
	})
}

// UpdateTripInfo edits the trip header. Blank fields keep their current
// value; the weather block and album link have their own setters.
func (o *Orchestrator) UpdateTripInfo(title, date, location string) error {
	return o.update(func(d *model.AppData) error {
		if title != "" {
			d.TripInfo.Title = title
		}
		if date != "" {
			d.TripInfo.Date = date
		}
		if location != "" {
			d.TripInfo.Location = location
		}
		return nil
	})
}

// SetAlbumURL stores the shared photo album link.
func (o *Orchestrator) SetAlbumURL(url string) error {
	return o.update(func(d *model.AppData) error {
		d.TripInfo.AlbumURL = url
		return nil
	})
}

// SetWeather pins a forecast snapshot on the trip header.
func (o *Orchestrator) SetWeather(w *model.Weather) error {
	return o.update(func(d *model.AppData) error {
		d.TripInfo.Weather = w
		return nil
	})
}

// UpdateMembers replaces the roster. Admin only. Gear claims and
// ingredient ownership keep their stored snapshots even if a member
// leaves; the stale names stay readable on the board.
func (o *Orchestrator) UpdateMembers(actorID string, members []model.Member) error {
	if len(members) == 0 {
		return fmt.Errorf("roster cannot be empty")
	}
	return o.update(func(d *model.AppData) error {
		actor := findMember(d, actorID)
		if actor == nil {
			return ErrNotFound
		}
		if !actor.IsAdmin {
			return ErrNotAdmin
		}
		d.Members = members
		return nil
	})
}

// ElevateMember grants admin rights to a member.
func (o *Orchestrator) ElevateMember(memberID string) error {
	return o.update(func(d *model.AppData) error {
		m := findMember(d, memberID)
		if m == nil {
			return ErrNotFound
		}
		m.IsAdmin = true
		return nil
	})
}

// ResetTrip starts a new trip. The roster, the gear list and its claims,
// and the album link survive; meal plans, ingredients, bills, personal
// packed marks and both check maps are cleared, and the trip header
// returns to the default.
func (o *Orchestrator) ResetTrip(actorID string) error {
	return o.update(func(d *model.AppData) error {
		actor := findMember(d, actorID)
		if actor == nil {
			return ErrNotFound
		}
		if !actor.IsAdmin {
			return ErrNotAdmin
		}

		for i := range d.GearList {
			d.GearList[i].PackedBy = nil
		}
		d.Ingredients = []model.Ingredient{}
		d.MealPlans = []model.MealPlan{}
		d.Bills = []model.Bill{}
		d.CheckedDeparture = make(map[string]map[string]bool)
		d.CheckedReturn = make(map[string]map[string]bool)

		album := d.TripInfo.AlbumURL
		d.TripInfo = DefaultData().TripInfo
		d.TripInfo.AlbumURL = album
		return nil
	})
}
