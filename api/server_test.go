package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NeGaTiVe369/DocLearn-sub000/api"
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/config"
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/schema"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository/mock"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

// fakeQueue records enqueued jobs instead of running them.
type fakeQueue struct {
	jobs []string
	err  error
}

func (q *fakeQueue) Enqueue(ctx context.Context, typ string, payload any, priority, maxAttempts int) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	q.jobs = append(q.jobs, typ)
	return int64(len(q.jobs)), nil
}

// fakeSchemaRepo serves a single permissive schema version.
type fakeSchemaRepo struct{ schemaJSON string }

func (f *fakeSchemaRepo) CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error) {
	return 0, errors.New("read-only")
}

func (f *fakeSchemaRepo) GetSchemaByVersion(ctx context.Context, version string) (*repository.Schema, error) {
	return nil, nil
}

func (f *fakeSchemaRepo) ListSchemas(ctx context.Context) ([]repository.Schema, error) {
	return []repository.Schema{{Version: schema.CurrentVersion, SchemaJSON: f.schemaJSON}}, nil
}

func (f *fakeSchemaRepo) DeleteSchema(ctx context.Context, version string) error { return nil }

type testEnv struct {
	router http.Handler
	mocks  *mock.Mocks
	queue  *fakeQueue
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithSchema(t, `{}`)
}

func newTestEnvWithSchema(t *testing.T, schemaJSON string) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Addr:          ":0",
		JWTSecret:     testSecret,
		TokenDuration: time.Hour,
	}

	loader, err := schema.NewLoader(context.Background(), &fakeSchemaRepo{schemaJSON: schemaJSON})
	if err != nil {
		t.Fatalf("schema loader: %v", err)
	}

	mocks := mock.NewMocks()
	queue := &fakeQueue{}
	repos := api.Repos{
		Accounts:      mocks.Accounts,
		Profiles:      mocks.Profiles,
		Uploads:       mocks.Uploads,
		Announcements: mocks.Announcements,
		Moderation:    mocks.Moderation,
	}

	return &testEnv{
		router: api.SetupRoutes(cfg, "test", "now", repos, loader, queue),
		mocks:  mocks,
		queue:  queue,
	}
}

func signToken(t *testing.T, accountID int64, isAdmin bool) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": accountID,
		"is_admin":   isAdmin,
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// doJSON runs one request through the router and decodes the envelope.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func dataField(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", env)
	}
	return data
}
