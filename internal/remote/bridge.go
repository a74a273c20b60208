package remote

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mchou/campnook/internal/model"
)

// Sync states reported to the status listener.
const (
	StatusIdle    = "idle"
	StatusSyncing = "syncing"
	StatusError   = "error"
)

// SnapshotStore persists the offline copy of the document.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, data *model.AppData) error
	LoadSnapshot(ctx context.Context) (*model.AppData, error)
}

// ErrNoSnapshot is returned by SnapshotStore implementations when no
// offline copy exists yet.
var ErrNoSnapshot = errors.New("no offline snapshot")

// Bridge keeps the in-memory document, the offline snapshot and the
// cloud store in step. Every change is written to the snapshot right
// away; the cloud save is debounced so rapid edits collapse into one
// upload.
type Bridge struct {
	client    *Client
	snapshots SnapshotStore
	sched     *Scheduler
	logger    *slog.Logger

	mu         sync.Mutex
	latest     *model.AppData
	lastStatus string
	lastError  string
	onStatus   func(status string, err error)
}

// NewBridge creates a Bridge. client may be nil when no cloud endpoint
// is configured; the bridge then only maintains the offline snapshot.
func NewBridge(client *Client, snapshots SnapshotStore, debounce time.Duration, logger *slog.Logger) *Bridge {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Bridge{
		client:    client,
		snapshots: snapshots,
		sched:     NewScheduler(debounce),
		logger:    logger.With("component", "sync"),
	}
}

// OnStatus registers the sync status listener. Must be set before
// concurrent use.
func (b *Bridge) OnStatus(fn func(status string, err error)) {
	b.onStatus = fn
}

func (b *Bridge) report(status string, err error) {
	b.mu.Lock()
	b.lastStatus = status
	b.lastError = ""
	if err != nil {
		b.lastError = err.Error()
	}
	b.mu.Unlock()

	if b.onStatus != nil {
		b.onStatus(status, err)
	}
}

// Status returns the last reported sync state and error detail. Before
// any upload it reports idle.
func (b *Bridge) Status() (status, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastStatus == "" {
		return StatusIdle, ""
	}
	return b.lastStatus, b.lastError
}

// Load resolves the startup document: the cloud copy when one exists,
// else the offline snapshot, else nil so the caller seeds defaults. A
// cloud error falls through to the snapshot rather than blocking
// startup.
func (b *Bridge) Load(ctx context.Context) (*model.AppData, error) {
	if b.client != nil {
		data, err := b.client.Fetch(ctx)
		switch {
		case err == nil:
			b.logger.Info("hydrated from cloud", "last_updated", data.LastUpdated)
			return data, nil
		case errors.Is(err, ErrEmpty):
			b.logger.Info("cloud store is empty")
		default:
			b.logger.Warn("cloud fetch failed, trying offline snapshot", "error", err)
		}
	}

	data, err := b.snapshots.LoadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			return nil, nil
		}
		return nil, err
	}
	b.logger.Info("hydrated from offline snapshot", "last_updated", data.LastUpdated)
	return data, nil
}

// DocumentChanged accepts the latest document copy. Wire it to the
// orchestrator's change listener.
func (b *Bridge) DocumentChanged(data *model.AppData) {
	b.mu.Lock()
	b.latest = data
	b.mu.Unlock()

	if err := b.snapshots.SaveSnapshot(context.Background(), data); err != nil {
		b.logger.Error("offline snapshot save failed", "error", err)
	}

	if b.client == nil {
		return
	}
	b.sched.Schedule(b.upload)
}

func (b *Bridge) upload() {
	b.mu.Lock()
	data := b.latest
	b.mu.Unlock()
	if data == nil {
		return
	}

	b.report(StatusSyncing, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := b.client.Save(ctx, data); err != nil {
		b.logger.Error("cloud save failed", "error", err)
		b.report(StatusError, err)
		return
	}
	b.logger.Debug("cloud save completed", "last_updated", data.LastUpdated)
	b.report(StatusIdle, nil)
}

// Flush pushes any pending debounced save synchronously. Called on
// shutdown so the last edit is not lost with the process.
func (b *Bridge) Flush() {
	if b.client == nil {
		b.sched.Stop()
		return
	}
	if b.sched.Flush() {
		b.upload()
	}
}
