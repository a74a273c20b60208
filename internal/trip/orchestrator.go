// Package trip holds the authoritative in-memory trip document and the
// mutations that may be applied to it. Every mutation goes through the
// Orchestrator, which serializes access, bumps the document timestamp
// and fans the updated document out to the registered change listener.
package trip

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mchou/campnook/internal/advisor"
	"github.com/mchou/campnook/internal/model"
)

// Advisor is the generative planning surface the orchestrator calls for
// AI-assisted operations. *advisor.Client satisfies it.
type Advisor interface {
	PlanMeals(ctx context.Context, req advisor.PlanRequest) ([]advisor.MealIdea, error)
	RescueRecipe(ctx context.Context, ingredients []string) (*advisor.MealIdea, error)
	DishRecipe(ctx context.Context, dish string) (*advisor.Recipe, error)
	GearAdvice(ctx context.Context, req advisor.GearRequest) ([]string, error)
	IngredientsFromImage(ctx context.Context, image []byte, mimeType string) ([]string, error)
	MenuFromImage(ctx context.Context, image []byte, mimeType string) ([]advisor.MealIdea, error)
	ParseItinerary(ctx context.Context, text string) ([]advisor.MealIdea, error)
}

// Orchestrator owns the trip document.
type Orchestrator struct {
	mu       sync.Mutex
	data     *model.AppData
	advisor  Advisor
	logger   *slog.Logger
	onChange func(*model.AppData)

	now   func() time.Time
	newID func() string
}

// New creates an Orchestrator seeded with the default trip document.
// adv may be nil; AI-assisted operations then return ErrNoAdvisor.
func New(logger *slog.Logger, adv Advisor) *Orchestrator {
	return &Orchestrator{
		data:    DefaultData(),
		advisor: adv,
		logger:  logger.With("component", "trip"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// OnChange registers the listener called with a copy of the document
// after every successful mutation. Must be set before concurrent use.
func (o *Orchestrator) OnChange(fn func(*model.AppData)) {
	o.onChange = fn
}

// Hydrate replaces the whole document, used when loading a remote or
// offline snapshot at startup. Missing maps are initialized so later
// mutations never hit a nil map.
func (o *Orchestrator) Hydrate(data *model.AppData) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if data.CheckedDeparture == nil {
		data.CheckedDeparture = make(map[string]map[string]bool)
	}
	if data.CheckedReturn == nil {
		data.CheckedReturn = make(map[string]map[string]bool)
	}
	o.data = data
	o.logger.Info("document hydrated", "members", len(data.Members), "last_updated", data.LastUpdated)
}

// Snapshot returns a deep copy of the current document.
func (o *Orchestrator) Snapshot() *model.AppData {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.data.Clone()
}

// update applies fn to the document under the lock. On success it bumps
// LastUpdated and hands a copy to the change listener after the lock is
// released.
func (o *Orchestrator) update(fn func(d *model.AppData) error) error {
	o.mu.Lock()
	if err := fn(o.data); err != nil {
		o.mu.Unlock()
		return err
	}
	o.data.LastUpdated = o.now().UnixMilli()
	snap := o.data.Clone()
	cb := o.onChange
	o.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
	return nil
}

func findMember(d *model.AppData, id string) *model.Member {
	for i := range d.Members {
		if d.Members[i].ID == id {
			return &d.Members[i]
		}
	}
	return nil
}

func findGear(d *model.AppData, id string) *model.GearItem {
	for i := range d.GearList {
		if d.GearList[i].ID == id {
			return &d.GearList[i]
		}
	}
	return nil
}

func findIngredient(d *model.AppData, id string) *model.Ingredient {
	for i := range d.Ingredients {
		if d.Ingredients[i].ID == id {
			return &d.Ingredients[i]
		}
	}
	return nil
}

func findPlan(d *model.AppData, id string) *model.MealPlan {
	for i := range d.MealPlans {
		if d.MealPlans[i].ID == id {
			return &d.MealPlans[i]
		}
	}
	return nil
}
