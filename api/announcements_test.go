package api_test

import (
	"net/http"
	"testing"
)

func createDraft(t *testing.T, env *testEnv, token string, body map[string]any) string {
	t.Helper()
	rec, envl := env.doJSON(t, http.MethodPost, "/v1/announcements", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", rec.Code, rec.Body.String())
	}
	id, _ := dataField(t, envl)["id"].(string)
	if id == "" {
		t.Fatalf("no id in create response")
	}
	return id
}

func TestAnnouncementLifecycle(t *testing.T) {
	env := newTestEnv(t)
	author := signToken(t, 1, false)
	admin := signToken(t, 2, true)

	id := createDraft(t, env, author, map[string]any{
		"kind": "event", "title": "Cardiology meetup", "startDate": "2026-10-01",
	})

	// draft is not listed publicly
	rec, envl := env.doJSON(t, http.MethodGet, "/v1/announcements", author, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d", rec.Code)
	}
	if items := dataField(t, envl)["items"].([]any); len(items) != 0 {
		t.Fatalf("draft leaked into the public list")
	}

	// publish puts it into pending
	rec, envl = env.doJSON(t, http.MethodPost, "/v1/announcements/"+id+"/publish", author, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status %d: %s", rec.Code, rec.Body.String())
	}
	if dataField(t, envl)["status"] != "pending" {
		t.Fatalf("expected pending status: %v", envl)
	}

	// admin sees it and approves
	rec, envl = env.doJSON(t, http.MethodGet, "/v1/admin/announcements", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list status %d: %s", rec.Code, rec.Body.String())
	}
	if items := dataField(t, envl)["items"].([]any); len(items) != 1 {
		t.Fatalf("expected 1 pending announcement, got %d", len(items))
	}

	rec, envl = env.doJSON(t, http.MethodPost, "/v1/admin/announcements/"+id+"/approve", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status %d: %s", rec.Code, rec.Body.String())
	}
	if dataField(t, envl)["status"] != "published" {
		t.Fatalf("expected published status: %v", envl)
	}

	// now it is public
	rec, envl = env.doJSON(t, http.MethodGet, "/v1/announcements", author, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d", rec.Code)
	}
	if items := dataField(t, envl)["items"].([]any); len(items) != 1 {
		t.Fatalf("published announcement missing from the list")
	}
}

func TestPublishIncompleteDraft(t *testing.T) {
	env := newTestEnv(t)
	author := signToken(t, 1, false)

	// an event without a start date is incomplete
	id := createDraft(t, env, author, map[string]any{"kind": "event", "title": "TBD"})

	rec, _ := env.doJSON(t, http.MethodPost, "/v1/announcements/"+id+"/publish", author, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateUnknownKind(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.doJSON(t, http.MethodPost, "/v1/announcements", signToken(t, 1, false), map[string]any{
		"kind": "meme", "title": "nope",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateByNonAuthor(t *testing.T) {
	env := newTestEnv(t)
	author := signToken(t, 1, false)
	stranger := signToken(t, 2, false)

	id := createDraft(t, env, author, map[string]any{"kind": "job", "title": "Surgeon", "organization": "City Clinic"})

	rec, _ := env.doJSON(t, http.MethodPut, "/v1/announcements/"+id, stranger, map[string]any{
		"kind": "job", "title": "Hijacked",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestUpdatePendingRejected(t *testing.T) {
	env := newTestEnv(t)
	author := signToken(t, 1, false)

	id := createDraft(t, env, author, map[string]any{"kind": "course", "title": "ECG basics", "provider": "DocLearn"})

	rec, _ := env.doJSON(t, http.MethodPost, "/v1/announcements/"+id+"/publish", author, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status %d", rec.Code)
	}

	rec, _ = env.doJSON(t, http.MethodPut, "/v1/announcements/"+id, author, map[string]any{
		"kind": "course", "title": "Edited while pending",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestDeleteAnnouncement(t *testing.T) {
	env := newTestEnv(t)
	author := signToken(t, 1, false)

	id := createDraft(t, env, author, map[string]any{"kind": "job", "title": "Surgeon", "organization": "City Clinic"})

	rec, _ := env.doJSON(t, http.MethodDelete, "/v1/announcements/"+id, author, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status %d", rec.Code)
	}

	rec, _ = env.doJSON(t, http.MethodGet, "/v1/announcements/"+id, author, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestListMine(t *testing.T) {
	env := newTestEnv(t)
	author := signToken(t, 1, false)
	other := signToken(t, 2, false)

	createDraft(t, env, author, map[string]any{"kind": "event", "title": "Mine", "startDate": "2026-10-01"})
	createDraft(t, env, other, map[string]any{"kind": "event", "title": "Not mine", "startDate": "2026-11-01"})

	rec, envl := env.doJSON(t, http.MethodGet, "/v1/announcements/my", author, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list mine status %d", rec.Code)
	}
	items := dataField(t, envl)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 own announcement, got %d", len(items))
	}
}
