package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mchou/campnook/internal/backup"
	"github.com/mchou/campnook/internal/model"
	"github.com/mchou/campnook/internal/store"
)

type BackupHandler struct {
	manager *backup.Manager
	backups *store.BackupStore
	// apply replaces the live trip document after a restore.
	apply  func(*model.AppData)
	logger *slog.Logger
}

func NewBackupHandler(manager *backup.Manager, backups *store.BackupStore, apply func(*model.AppData), logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: manager, backups: backups, apply: apply, logger: logger}
}

func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	id, err := h.manager.RunNow(r.Context())
	if err != nil {
		h.logger.Error("backup failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rec, err := h.backups.GetByID(id)
	if err != nil || rec == nil {
		writeJSON(w, http.StatusOK, map[string]any{"id": id})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}
	backups, err := h.backups.List(limit)
	if err != nil {
		h.logger.Error("list backups failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list backups")
		return
	}
	if backups == nil {
		backups = []model.Backup{}
	}
	writeJSON(w, http.StatusOK, backups)
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Status())
}

// Restore decrypts a stored backup and swaps it in as the live document.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	rec, err := h.backups.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get backup")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "backup not found")
		return
	}
	if rec.Status != model.BackupStatusCompleted {
		writeError(w, http.StatusConflict, "backup is not completed")
		return
	}
	data, err := h.manager.Restore(r.Context(), rec.Filename)
	if err != nil {
		h.logger.Error("restore failed", "filename", rec.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.apply(data)
	h.logger.Info("backup restored", "filename", rec.Filename)
	writeJSON(w, http.StatusOK, data)
}
