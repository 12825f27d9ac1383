package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

func seedModerationRequest(t *testing.T, env *testEnv, userID int64, changes string) int64 {
	t.Helper()
	id, err := env.mocks.Moderation.CreateRequest(context.Background(), &models.ModerationRequest{
		UserID:      userID,
		ChangesJSON: changes,
		Status:      models.ModerationPending,
	})
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return id
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.doJSON(t, http.MethodGet, "/v1/admin/moderation", signToken(t, 1, false), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
}

func TestListModeration(t *testing.T) {
	env := newTestEnv(t)
	seedModerationRequest(t, env, 1, `{"firstName":"Anya"}`)

	rec, envl := env.doJSON(t, http.MethodGet, "/v1/admin/moderation", signToken(t, 2, true), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	items := dataField(t, envl)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(items))
	}
}

func TestApproveModerationEnqueuesJob(t *testing.T) {
	env := newTestEnv(t)
	seedModerationRequest(t, env, 1, `{"firstName":"Anya"}`)

	rec, _ := env.doJSON(t, http.MethodPost, "/v1/admin/moderation/1/approve", signToken(t, 2, true), nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	if len(env.queue.jobs) != 1 || env.queue.jobs[0] != "moderation.apply" {
		t.Fatalf("expected moderation.apply job, got %v", env.queue.jobs)
	}
}

func TestRejectModeration(t *testing.T) {
	env := newTestEnv(t)
	id := seedModerationRequest(t, env, 1, `{"firstName":"Anya"}`)

	rec, _ := env.doJSON(t, http.MethodPost, "/v1/admin/moderation/1/reject", signToken(t, 2, true), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	req, _ := env.mocks.Moderation.GetRequest(context.Background(), id)
	if req.Status != models.ModerationRejected {
		t.Fatalf("request not rejected: %q", req.Status)
	}

	// no job for rejections
	if len(env.queue.jobs) != 0 {
		t.Fatalf("unexpected jobs: %v", env.queue.jobs)
	}
}

func TestApproveResolvedRequest(t *testing.T) {
	env := newTestEnv(t)
	id := seedModerationRequest(t, env, 1, `{"firstName":"Anya"}`)
	if err := env.mocks.Moderation.ResolveRequest(context.Background(), id, models.ModerationApproved); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	rec, _ := env.doJSON(t, http.MethodPost, "/v1/admin/moderation/1/approve", signToken(t, 2, true), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestApproveUnknownRequest(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.doJSON(t, http.MethodPost, "/v1/admin/moderation/42/approve", signToken(t, 2, true), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
