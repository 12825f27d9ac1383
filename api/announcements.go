package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AnnouncementsHandler struct {
	repo repository.AnnouncementRepo
}

func NewAnnouncementsHandler(ar repository.AnnouncementRepo) *AnnouncementsHandler {
	return &AnnouncementsHandler{repo: ar}
}

// Create saves a new draft. The wizard may save incomplete drafts; only
// publishing requires the kind-specific fields.
func (h *AnnouncementsHandler) Create(w http.ResponseWriter, r *http.Request) {
	authorID, ok := accountID(r)
	if !ok {
		writeError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var a models.Announcement
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if !a.Kind.Known() {
		writeError(w, "unknown announcement kind", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC().UnixMilli()
	a.ID = uuid.NewString()
	a.AuthorID = authorID
	a.Status = models.AnnouncementDraft
	a.Created = now
	a.Updated = now

	if err := h.repo.CreateAnnouncement(r.Context(), &a); err != nil {
		writeError(w, "failed to create announcement", http.StatusInternalServerError)
		return
	}

	writeJSON(w, a, http.StatusCreated)
}

// List returns published announcements, optionally filtered by kind.
func (h *AnnouncementsHandler) List(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.repo.ListAnnouncements(r.Context(), q.Get("kind"), models.AnnouncementPublished, limit, offset)
	if err != nil {
		writeError(w, "failed to list announcements", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.Announcement{}
	}

	writeJSON(w, map[string]any{"limit": limit, "offset": offset, "items": items}, http.StatusOK)
}

// ListMine returns all of the caller's announcements regardless of status.
func (h *AnnouncementsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	authorID, ok := accountID(r)
	if !ok {
		writeError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	items, err := h.repo.ListByAuthor(r.Context(), authorID)
	if err != nil {
		writeError(w, "failed to list announcements", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.Announcement{}
	}

	writeJSON(w, map[string]any{"items": items}, http.StatusOK)
}

func (h *AnnouncementsHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, status, msg := h.load(r)
	if a == nil {
		writeError(w, msg, status)
		return
	}
	writeJSON(w, a, http.StatusOK)
}

// Update replaces the editable fields of a draft or rejected announcement.
func (h *AnnouncementsHandler) Update(w http.ResponseWriter, r *http.Request) {
	authorID, ok := accountID(r)
	if !ok {
		writeError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	a, status, msg := h.load(r)
	if a == nil {
		writeError(w, msg, status)
		return
	}
	if a.AuthorID != authorID {
		writeError(w, "not the author", http.StatusForbidden)
		return
	}
	if a.Status != models.AnnouncementDraft && a.Status != models.AnnouncementRejected {
		writeError(w, "only drafts can be edited", http.StatusConflict)
		return
	}

	var next models.Announcement
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if !next.Kind.Known() {
		writeError(w, "unknown announcement kind", http.StatusBadRequest)
		return
	}

	// identity and lifecycle fields are not editable
	next.ID = a.ID
	next.AuthorID = a.AuthorID
	next.Status = models.AnnouncementDraft
	next.Created = a.Created
	next.Updated = time.Now().UTC().UnixMilli()

	if err := h.repo.UpdateAnnouncement(r.Context(), &next); err != nil {
		writeError(w, "failed to update announcement", http.StatusInternalServerError)
		return
	}

	writeJSON(w, next, http.StatusOK)
}

// Publish submits a complete draft for moderation.
func (h *AnnouncementsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	authorID, ok := accountID(r)
	if !ok {
		writeError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	a, status, msg := h.load(r)
	if a == nil {
		writeError(w, msg, status)
		return
	}
	if a.AuthorID != authorID {
		writeError(w, "not the author", http.StatusForbidden)
		return
	}
	if a.Status == models.AnnouncementPublished || a.Status == models.AnnouncementPending {
		writeError(w, "already submitted", http.StatusConflict)
		return
	}
	if !a.Complete() {
		writeError(w, "announcement is incomplete", http.StatusBadRequest)
		return
	}

	a.Status = models.AnnouncementPending
	a.Updated = time.Now().UTC().UnixMilli()
	if err := h.repo.UpdateAnnouncement(r.Context(), a); err != nil {
		writeError(w, "failed to submit announcement", http.StatusInternalServerError)
		return
	}

	writeJSON(w, a, http.StatusOK)
}

func (h *AnnouncementsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	authorID, ok := accountID(r)
	if !ok {
		writeError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	a, status, msg := h.load(r)
	if a == nil {
		writeError(w, msg, status)
		return
	}
	if a.AuthorID != authorID {
		writeError(w, "not the author", http.StatusForbidden)
		return
	}

	if err := h.repo.DeleteAnnouncement(r.Context(), a.ID); err != nil {
		writeError(w, "failed to delete announcement", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"message": "deleted"}, http.StatusOK)
}

func (h *AnnouncementsHandler) load(r *http.Request) (*models.Announcement, int, string) {
	id := mux.Vars(r)["id"]
	if id == "" {
		return nil, http.StatusBadRequest, "missing announcement id"
	}
	a, err := h.repo.GetAnnouncement(r.Context(), id)
	if err != nil {
		return nil, http.StatusInternalServerError, "failed to load announcement"
	}
	if a == nil {
		return nil, http.StatusNotFound, "announcement not found"
	}
	return a, http.StatusOK, ""
}
