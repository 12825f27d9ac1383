package api

import (
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// maxAvatarSize caps the accepted upload body.
const maxAvatarSize = 5 << 20

type AvatarHandler struct {
	uploadRepo  repository.UploadRepo
	profileRepo repository.ProfileRepo
}

func NewAvatarHandler(ur repository.UploadRepo, pr repository.ProfileRepo) *AvatarHandler {
	return &AvatarHandler{uploadRepo: ur, profileRepo: pr}
}

type avatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
	AvatarID  string `json:"avatarId"`
}

// Upload stores a new avatar image, makes it the profile's current avatar and
// drops the user's previous uploads.
func (h *AvatarHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(r)
	if !ok {
		writeError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeError(w, "image too large or malformed", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, "missing avatar file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	blob, err := io.ReadAll(file)
	if err != nil {
		writeError(w, "failed to read image", http.StatusBadRequest)
		return
	}
	if len(blob) == 0 {
		writeError(w, "empty image", http.StatusBadRequest)
		return
	}

	contentType := http.DetectContentType(blob)
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, "file is not an image", http.StatusBadRequest)
		return
	}

	upload := &models.AvatarUpload{
		ID:          uuid.NewString(),
		UserID:      id,
		ContentType: contentType,
		Blob:        blob,
		Created:     time.Now().UTC().UnixMilli(),
	}
	if err := h.uploadRepo.SaveUpload(r.Context(), upload); err != nil {
		writeError(w, "failed to store image", http.StatusInternalServerError)
		return
	}

	// previous uploads are garbage once the profile points at the new one
	if n, err := h.uploadRepo.DeleteUploadsByUser(r.Context(), id, upload.ID); err != nil {
		logger.Error("failed to drop stale uploads", slog.Int64("user_id", id), slog.Any("err", err))
	} else if n > 0 {
		logger.Info("stale uploads dropped", slog.Int64("user_id", id), slog.Int64("count", n))
	}

	u, err := h.profileRepo.GetByAccountID(r.Context(), id)
	if err != nil || u == nil {
		writeError(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	u.AvatarID = upload.ID
	u.AvatarURL = "/avatars/" + upload.ID
	if err := h.profileRepo.UpdateProfile(r.Context(), u); err != nil {
		writeError(w, "failed to save profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, avatarResponse{AvatarURL: u.AvatarURL, AvatarID: u.AvatarID}, http.StatusOK)
}

// Serve streams a stored avatar image. Open endpoint, answers raw bytes.
func (h *AvatarHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, "missing avatar id", http.StatusBadRequest)
		return
	}

	upload, err := h.uploadRepo.GetUpload(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load avatar", http.StatusInternalServerError)
		return
	}
	if upload == nil {
		writeError(w, "avatar not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", upload.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=604800")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(upload.Blob)
}
