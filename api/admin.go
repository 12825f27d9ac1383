package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository"
	"github.com/gorilla/mux"
)

// Enqueuer submits background jobs; satisfied by the jobs worker pool.
type Enqueuer interface {
	Enqueue(ctx context.Context, typ string, payload any, priority int, maxAttempts int) (int64, error)
}

type AdminHandler struct {
	moderationRepo   repository.ModerationRepo
	announcementRepo repository.AnnouncementRepo
	queue            Enqueuer
}

func NewAdminHandler(mr repository.ModerationRepo, ar repository.AnnouncementRepo, q Enqueuer) *AdminHandler {
	return &AdminHandler{moderationRepo: mr, announcementRepo: ar, queue: q}
}

// ListModeration returns pending profile change requests.
func (h *AdminHandler) ListModeration(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}
	offset := 0
	if o := q.Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	items, err := h.moderationRepo.ListPending(r.Context(), limit, offset)
	if err != nil {
		writeError(w, "failed to list moderation requests", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.ModerationRequest{}
	}

	writeJSON(w, map[string]any{"limit": limit, "offset": offset, "items": items}, http.StatusOK)
}

// ApproveModeration queues the held change set for application. The worker
// applies it to the profile and resolves the request.
func (h *AdminHandler) ApproveModeration(w http.ResponseWriter, r *http.Request) {
	req, status, msg := h.loadRequest(r)
	if req == nil {
		writeError(w, msg, status)
		return
	}
	if req.Status != models.ModerationPending {
		writeError(w, "request already resolved", http.StatusConflict)
		return
	}

	payload := map[string]any{"request_id": req.ID}
	if _, err := h.queue.Enqueue(r.Context(), "moderation.apply", payload, 100, 3); err != nil {
		writeError(w, "failed to queue approval", http.StatusInternalServerError)
		return
	}

	logger.Info("moderation request approved", slog.Int64("request_id", req.ID))
	writeJSON(w, map[string]string{"message": "approved"}, http.StatusAccepted)
}

// RejectModeration discards the held change set.
func (h *AdminHandler) RejectModeration(w http.ResponseWriter, r *http.Request) {
	req, status, msg := h.loadRequest(r)
	if req == nil {
		writeError(w, msg, status)
		return
	}
	if req.Status != models.ModerationPending {
		writeError(w, "request already resolved", http.StatusConflict)
		return
	}

	if err := h.moderationRepo.ResolveRequest(r.Context(), req.ID, models.ModerationRejected); err != nil {
		writeError(w, "failed to reject request", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"message": "rejected"}, http.StatusOK)
}

// ListPendingAnnouncements returns announcements awaiting review.
func (h *AdminHandler) ListPendingAnnouncements(w http.ResponseWriter, r *http.Request) {
	items, err := h.announcementRepo.ListAnnouncements(r.Context(), "", models.AnnouncementPending, 100, 0)
	if err != nil {
		writeError(w, "failed to list announcements", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.Announcement{}
	}

	writeJSON(w, map[string]any{"items": items}, http.StatusOK)
}

func (h *AdminHandler) ApproveAnnouncement(w http.ResponseWriter, r *http.Request) {
	h.resolveAnnouncement(w, r, models.AnnouncementPublished)
}

func (h *AdminHandler) RejectAnnouncement(w http.ResponseWriter, r *http.Request) {
	h.resolveAnnouncement(w, r, models.AnnouncementRejected)
}

func (h *AdminHandler) resolveAnnouncement(w http.ResponseWriter, r *http.Request, status string) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, "missing announcement id", http.StatusBadRequest)
		return
	}

	a, err := h.announcementRepo.GetAnnouncement(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load announcement", http.StatusInternalServerError)
		return
	}
	if a == nil {
		writeError(w, "announcement not found", http.StatusNotFound)
		return
	}
	if a.Status != models.AnnouncementPending {
		writeError(w, "announcement is not pending", http.StatusConflict)
		return
	}

	a.Status = status
	a.Updated = time.Now().UTC().UnixMilli()
	if err := h.announcementRepo.UpdateAnnouncement(r.Context(), a); err != nil {
		writeError(w, "failed to update announcement", http.StatusInternalServerError)
		return
	}

	writeJSON(w, a, http.StatusOK)
}

func (h *AdminHandler) loadRequest(r *http.Request) (*models.ModerationRequest, int, string) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return nil, http.StatusBadRequest, "invalid request id"
	}
	req, err := h.moderationRepo.GetRequest(r.Context(), id)
	if err != nil {
		return nil, http.StatusInternalServerError, "failed to load request"
	}
	if req == nil {
		return nil, http.StatusNotFound, "request not found"
	}
	return req, http.StatusOK, ""
}
