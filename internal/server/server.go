package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mchou/campnook/internal/backup"
	"github.com/mchou/campnook/internal/handler"
	"github.com/mchou/campnook/internal/middleware"
	"github.com/mchou/campnook/internal/model"
	"github.com/mchou/campnook/internal/push"
	"github.com/mchou/campnook/internal/remote"
	"github.com/mchou/campnook/internal/store"
	"github.com/mchou/campnook/internal/trip"
	"github.com/mchou/campnook/internal/weather"
	ws "github.com/mchou/campnook/internal/websocket"
)

// PushConfig holds the VAPID key pair. Empty keys disable web push.
type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
}

type Server struct {
	db     *sql.DB
	orch   *trip.Orchestrator
	hub    *ws.Hub
	bridge *remote.Bridge

	documentH *handler.DocumentHandler
	gearH     *handler.GearHandler
	kitchenH  *handler.KitchenHandler
	mealH     *handler.MealHandler
	tripH     *handler.TripHandler
	billH     *handler.BillHandler
	pinH      *handler.PinHandler
	pushH     *handler.PushHandler
	backupH   *handler.BackupHandler
	settingsH *handler.SettingsHandler

	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

// New wires the HTTP surface around an already hydrated orchestrator. The
// bridge feeds cloud sync; every document change flows through it and out
// to the websocket hub.
func New(db *sql.DB, orch *trip.Orchestrator, bridge *remote.Bridge, weatherSvc *weather.Service, backupCfg backup.Config, pushCfg PushConfig, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	settingsStore := store.NewSettingsStore(db)
	backupStore := store.NewBackupStore(db)
	pushStore := store.NewPushStore(db)
	pinStore := store.NewPinStore(db)

	backupMgr := backup.NewManager(backupCfg, orch.Snapshot, backupStore, settingsStore, logger, func(s backup.Status) {
		hub.Broadcast(ws.BackupStatus(string(s.State), s.Error))
	})

	var notifier *push.Notifier
	pushSvc := push.NewService(pushCfg.VAPIDPublicKey, pushCfg.VAPIDPrivateKey)
	if pushSvc.Configured() {
		notifier = push.NewNotifier(pushSvc, pushStore, logger.With("component", "push"))
	}

	orch.OnChange(func(data *model.AppData) {
		bridge.DocumentChanged(data)
		hub.Broadcast(ws.DocumentUpdated(data.LastUpdated))
	})
	bridge.OnStatus(func(status string, err error) {
		detail := ""
		if err != nil {
			detail = err.Error()
		}
		hub.Broadcast(ws.SyncStatus(status, detail))
	})

	restore := func(data *model.AppData) {
		orch.Hydrate(data)
		bridge.DocumentChanged(data)
		hub.Broadcast(ws.DocumentUpdated(data.LastUpdated))
	}

	return &Server{
		db:            db,
		orch:          orch,
		hub:           hub,
		bridge:        bridge,
		documentH:     handler.NewDocumentHandler(orch, pinStore, logger.With("component", "document")),
		gearH:         handler.NewGearHandler(orch, notifier, logger.With("component", "gear")),
		kitchenH:      handler.NewKitchenHandler(orch, logger.With("component", "kitchen")),
		mealH:         handler.NewMealHandler(orch, notifier, logger.With("component", "meal")),
		tripH:         handler.NewTripHandler(orch, weatherSvc, pinStore, logger.With("component", "trip")),
		billH:         handler.NewBillHandler(orch, logger.With("component", "bill")),
		pinH:          handler.NewPinHandler(pinStore, logger.With("component", "pin")),
		pushH:         handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, restore, logger.With("component", "backup_handler")),
		settingsH:     handler.NewSettingsHandler(settingsStore, logger.With("component", "settings")),
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// BackupManager exposes the manager so main can start and stop its schedule.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// RateLimiter exposes the limiter so main can run its cleanup loop.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Trip document
	mux.HandleFunc("GET /api/document", s.documentH.Get)
	mux.HandleFunc("GET /api/progress", s.documentH.Progress)
	mux.HandleFunc("GET /api/sync/status", s.syncStatusHandler)

	// Gear
	mux.HandleFunc("GET /api/gear/presets", s.gearH.Presets)
	mux.HandleFunc("POST /api/gear", s.gearH.Add)
	mux.HandleFunc("DELETE /api/gear/{id}", s.gearH.Delete)
	mux.HandleFunc("POST /api/gear/{id}/claim", s.gearH.Claim)
	mux.HandleFunc("POST /api/gear/{id}/assign", s.gearH.Assign)
	mux.HandleFunc("POST /api/gear/{id}/packed", s.gearH.TogglePacked)
	mux.HandleFunc("POST /api/gear/suggest", s.advisorLimited(s.gearH.Suggest))

	// Shared fridge
	mux.HandleFunc("POST /api/ingredients", s.kitchenH.Add)
	mux.HandleFunc("POST /api/ingredients/identify", s.advisorLimited(s.kitchenH.Identify))
	mux.HandleFunc("POST /api/ingredients/{id}/toggle", s.kitchenH.Toggle)
	mux.HandleFunc("DELETE /api/ingredients/{id}", s.kitchenH.Delete)
	mux.HandleFunc("POST /api/ingredients/{id}/reassign", s.kitchenH.Reassign)

	// Meal plans
	mux.HandleFunc("POST /api/meal-plans/generate", s.advisorLimited(s.mealH.Generate))
	mux.HandleFunc("POST /api/meal-plans/rescue", s.advisorLimited(s.mealH.Rescue))
	mux.HandleFunc("POST /api/meal-plans/import-itinerary", s.advisorLimited(s.mealH.ImportItinerary))
	mux.HandleFunc("POST /api/meal-plans/import-menu", s.advisorLimited(s.mealH.ImportMenu))
	mux.HandleFunc("POST /api/meal-plans", s.mealH.Create)
	mux.HandleFunc("PUT /api/meal-plans/{id}", s.mealH.Update)
	mux.HandleFunc("PUT /api/meal-plans/{id}/notes", s.mealH.UpdateNotes)
	mux.HandleFunc("DELETE /api/meal-plans/{id}", s.mealH.Delete)
	mux.HandleFunc("POST /api/meal-plans/{id}/autofill", s.advisorLimited(s.mealH.Autofill))
	mux.HandleFunc("POST /api/meal-plans/{id}/items", s.mealH.AddItem)
	mux.HandleFunc("POST /api/meal-plans/{id}/items/{item_id}/toggle", s.mealH.ToggleItem)
	mux.HandleFunc("PUT /api/meal-plans/{id}/items/{item_id}", s.mealH.UpdateItem)
	mux.HandleFunc("DELETE /api/meal-plans/{id}/items/{item_id}", s.mealH.DeleteItem)

	// Bills
	mux.HandleFunc("POST /api/bills", s.billH.Create)
	mux.HandleFunc("DELETE /api/bills/{id}", s.billH.Delete)
	mux.HandleFunc("GET /api/bills/settlement", s.billH.Settlement)

	// Trip info, weather, checklists
	mux.HandleFunc("PUT /api/trip", s.tripH.UpdateInfo)
	mux.HandleFunc("PUT /api/trip/album", s.tripH.SetAlbum)
	mux.HandleFunc("GET /api/trip/weather", s.tripH.Weather)
	mux.HandleFunc("PUT /api/checklist/{phase}", s.tripH.SetCheckMark)
	mux.HandleFunc("POST /api/trip/reset", s.tripH.Reset)

	// Members and PINs
	mux.HandleFunc("PUT /api/members", s.tripH.UpdateMembers)
	mux.HandleFunc("POST /api/members/{id}/elevate", s.pinLimited(s.tripH.ElevateMember))
	mux.HandleFunc("POST /api/members/{id}/pin", s.pinH.Set)
	mux.HandleFunc("POST /api/members/{id}/pin/verify", s.pinLimited(s.pinH.Verify))
	mux.HandleFunc("DELETE /api/members/{id}/pin", s.pinH.Clear)

	// Push notifications
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.List)

	// Backups
	mux.HandleFunc("POST /api/backups/run", s.backupH.Run)
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backups/{id}/restore", s.backupH.Restore)

	// Settings
	mux.HandleFunc("GET /api/settings", s.settingsH.Get)
	mux.HandleFunc("PUT /api/settings", s.settingsH.Update)

	// WebSocket
	mux.Handle("GET /ws", s.hub)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) syncStatusHandler(w http.ResponseWriter, r *http.Request) {
	status, detail := s.bridge.Status()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": status, "detail": detail})
}

// advisorLimited rate limits the endpoints that spend AI quota.
func (s *Server) advisorLimited(h http.HandlerFunc) http.HandlerFunc {
	return s.limited(h, 10, time.Minute)
}

// pinLimited slows down PIN guessing.
func (s *Server) pinLimited(h http.HandlerFunc) http.HandlerFunc {
	return s.limited(h, 10, time.Minute)
}

func (s *Server) limited(h http.HandlerFunc, limit int, window time.Duration) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, limit, window)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(h).ServeHTTP(w, r)
	}
}
