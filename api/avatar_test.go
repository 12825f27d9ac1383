package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

// pngBytes is a minimal blob http.DetectContentType reports as image/png.
var pngBytes = []byte("\x89PNG\r\n\x1a\n0123456789")

func uploadAvatar(t *testing.T, env *testEnv, token string, field string, blob []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "me.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(blob); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/user/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadAvatar(t *testing.T) {
	env := newTestEnv(t)
	seedProfile(t, env, &models.SpecialistUser{ID: 1, Role: models.RoleStudent})

	rec := uploadAvatar(t, env, signToken(t, 1, false), "avatar", pngBytes)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var envl map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envl); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data := dataField(t, envl)
	id, _ := data["avatarId"].(string)
	if id == "" {
		t.Fatalf("no avatarId in response: %v", data)
	}
	if data["avatarUrl"] != "/avatars/"+id {
		t.Fatalf("unexpected avatarUrl: %v", data["avatarUrl"])
	}

	// profile now points at the upload
	p, _ := env.mocks.Profiles.GetByAccountID(context.Background(), 1)
	if p.AvatarID != id {
		t.Fatalf("profile not updated: %q", p.AvatarID)
	}
}

func TestUploadAvatar_ReplacesPrevious(t *testing.T) {
	env := newTestEnv(t)
	seedProfile(t, env, &models.SpecialistUser{ID: 1, Role: models.RoleStudent})
	token := signToken(t, 1, false)

	first := uploadAvatar(t, env, token, "avatar", pngBytes)
	if first.Code != http.StatusOK {
		t.Fatalf("first upload: %d", first.Code)
	}
	var firstEnv map[string]any
	_ = json.Unmarshal(first.Body.Bytes(), &firstEnv)
	firstID, _ := dataField(t, firstEnv)["avatarId"].(string)

	second := uploadAvatar(t, env, token, "avatar", pngBytes)
	if second.Code != http.StatusOK {
		t.Fatalf("second upload: %d", second.Code)
	}

	// first upload is gone
	old, _ := env.mocks.Uploads.GetUpload(context.Background(), firstID)
	if old != nil {
		t.Fatalf("stale upload survived")
	}
}

func TestUploadAvatar_WrongField(t *testing.T) {
	env := newTestEnv(t)
	seedProfile(t, env, &models.SpecialistUser{ID: 1, Role: models.RoleStudent})

	rec := uploadAvatar(t, env, signToken(t, 1, false), "file", pngBytes)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUploadAvatar_NotAnImage(t *testing.T) {
	env := newTestEnv(t)
	seedProfile(t, env, &models.SpecialistUser{ID: 1, Role: models.RoleStudent})

	rec := uploadAvatar(t, env, signToken(t, 1, false), "avatar", []byte("plain text, not an image"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestServeAvatar(t *testing.T) {
	env := newTestEnv(t)
	if err := env.mocks.Uploads.SaveUpload(context.Background(), &models.AvatarUpload{
		ID: "av-1", UserID: 1, ContentType: "image/png", Blob: pngBytes,
	}); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/avatars/av-1", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("wrong content type: %q", rec.Header().Get("Content-Type"))
	}
	if !bytes.Equal(rec.Body.Bytes(), pngBytes) {
		t.Fatalf("blob mismatch")
	}
}

func TestServeAvatar_NotFound(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/avatars/nope", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
