package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/NeGaTiVe369/DocLearn-sub000/internal/profile"
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/schema"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository"
)

// moderatedFields are diverted to a moderation request instead of being
// applied directly.
var moderatedFields = map[string]bool{
	"firstName": true,
	"lastName":  true,
}

type ProfileHandler struct {
	profileRepo    repository.ProfileRepo
	moderationRepo repository.ModerationRepo
	schemas        *schema.Loader
}

func NewProfileHandler(pr repository.ProfileRepo, mr repository.ModerationRepo, sl *schema.Loader) *ProfileHandler {
	return &ProfileHandler{profileRepo: pr, moderationRepo: mr, schemas: sl}
}

// profileResponse renders a profile with education in its role-dependent wire
// shape: a single object for students, a list for everyone else.
type profileResponse struct {
	models.SpecialistUser
	Education any `json:"education,omitempty"`
}

func renderProfile(u *models.SpecialistUser) profileResponse {
	return profileResponse{
		SpecialistUser: *u,
		Education:      profile.EducationToWire(u.Role, u.Education),
	}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(r)
	if !ok {
		writeError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	u, err := h.profileRepo.GetByAccountID(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	if u == nil {
		writeError(w, "profile not found", http.StatusNotFound)
		return
	}

	writeJSON(w, renderProfile(u), http.StatusOK)
}

type updateResponse struct {
	Message            string `json:"message"`
	RequiresModeration bool   `json:"requiresModeration"`
}

// UpdateMyProfile applies a partial-update payload. Fields under moderation
// are held in a moderation request and only reach the profile once approved;
// everything else is applied immediately.
func (h *ProfileHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(r)
	if !ok {
		writeError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if len(payload) == 0 {
		writeJSON(w, updateResponse{Message: "nothing to update"}, http.StatusOK)
		return
	}

	violations, err := h.schemas.Validate(r.Context(), schema.CurrentVersion, body)
	if err != nil {
		writeError(w, "failed to validate payload", http.StatusInternalServerError)
		return
	}
	if len(violations) > 0 {
		writeError(w, strings.Join(violations, "; "), http.StatusBadRequest)
		return
	}

	held := make(map[string]any)
	immediate := make(map[string]any)
	for k, v := range payload {
		if moderatedFields[k] {
			held[k] = v
		} else {
			immediate[k] = v
		}
	}

	if len(immediate) > 0 {
		u, err := h.profileRepo.GetByAccountID(r.Context(), id)
		if err != nil || u == nil {
			writeError(w, "failed to load profile", http.StatusInternalServerError)
			return
		}
		if err := profile.ApplyPayload(u, immediate); err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.profileRepo.UpdateProfile(r.Context(), u); err != nil {
			writeError(w, "failed to save profile", http.StatusInternalServerError)
			return
		}
	}

	resp := updateResponse{Message: "profile updated"}
	if len(held) > 0 {
		changes, err := json.Marshal(held)
		if err != nil {
			writeError(w, "failed to save profile", http.StatusInternalServerError)
			return
		}
		req := &models.ModerationRequest{
			UserID:      id,
			ChangesJSON: string(changes),
			Status:      models.ModerationPending,
			Created:     time.Now().UTC().UnixMilli(),
		}
		if _, err := h.moderationRepo.CreateRequest(r.Context(), req); err != nil {
			writeError(w, "failed to save profile", http.StatusInternalServerError)
			return
		}
		resp.RequiresModeration = true
		resp.Message = "profile updated, some changes await moderation"
		logger.Info("moderation request created", slog.Int64("user_id", id))
	}

	writeJSON(w, resp, http.StatusOK)
}
