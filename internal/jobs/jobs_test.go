package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/NeGaTiVe369/DocLearn-sub000/internal/db"
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/jobs"
)

func setupJobsDB(t *testing.T) *db.DB {
	t.Helper()
	ctx := context.Background()

	// use shared in-memory DB so multiple connections see the same schema
	d, err := db.New(ctx, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS jobs (id INTEGER PRIMARY KEY AUTOINCREMENT, type TEXT NOT NULL, payload TEXT, status TEXT NOT NULL DEFAULT 'queued', attempts INTEGER NOT NULL DEFAULT 0, max_attempts INTEGER NOT NULL DEFAULT 5, priority INTEGER NOT NULL DEFAULT 100, scheduled_at INTEGER NOT NULL DEFAULT (strftime('%s','now')), next_try_at INTEGER, last_error TEXT, created INTEGER NOT NULL DEFAULT (strftime('%s','now')), updated INTEGER NOT NULL DEFAULT (strftime('%s','now')))`); err != nil {
		t.Fatalf("create jobs table: %v", err)
	}
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS dead_letter_jobs (id INTEGER PRIMARY KEY AUTOINCREMENT, job_id INTEGER NOT NULL, type TEXT NOT NULL, payload TEXT, attempts INTEGER NOT NULL, last_error TEXT, failed_at INTEGER NOT NULL DEFAULT (strftime('%s','now')))`); err != nil {
		t.Fatalf("create dlq table: %v", err)
	}

	return d
}

func TestEnqueueAndProcess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := setupJobsDB(t)

	repo := jobs.NewRepository(d)
	handled := make(chan struct{}, 1)
	handlers := map[string]jobs.Handler{
		"test": func(ctx context.Context, j *jobs.Job) error {
			handled <- struct{}{}
			return nil
		},
	}
	pool := jobs.NewWorkerPool(repo, handlers, slog.Default(), 1)
	pool.Start(ctx)
	defer pool.Stop()

	if _, err := pool.Enqueue(ctx, "test", map[string]string{"foo": "bar"}, 10, 3); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case <-handled:
	case <-time.After(3 * time.Second):
		t.Fatalf("handler was not called")
	}
}

func TestFailingJobMovesToDeadLetter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := setupJobsDB(t)

	repo := jobs.NewRepository(d)
	handlers := map[string]jobs.Handler{
		"boom": func(ctx context.Context, j *jobs.Job) error {
			return errors.New("always fails")
		},
	}
	pool := jobs.NewWorkerPool(repo, handlers, slog.Default(), 1)
	pool.Start(ctx)
	defer pool.Stop()

	if _, err := pool.Enqueue(ctx, "boom", nil, 10, 1); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		var n int
		if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM dead_letter_jobs`).Scan(&n); err != nil {
			t.Fatalf("count dlq: %v", err)
		}
		if n == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("job never reached the dead letter table")
}

func TestUnknownJobTypeGoesToDeadLetter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := setupJobsDB(t)

	repo := jobs.NewRepository(d)
	pool := jobs.NewWorkerPool(repo, map[string]jobs.Handler{}, slog.Default(), 1)
	pool.Start(ctx)
	defer pool.Stop()

	if _, err := pool.Enqueue(ctx, "nobody.handles.this", nil, 10, 3); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		var n int
		if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM dead_letter_jobs`).Scan(&n); err != nil {
			t.Fatalf("count dlq: %v", err)
		}
		if n == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("unhandled job never reached the dead letter table")
}

func TestDefaultBackoffSchedule(t *testing.T) {
	if d := jobs.DefaultBackoff(1); d != time.Second {
		t.Fatalf("first retry: got %v", d)
	}
	if d := jobs.DefaultBackoff(3); d != 4*time.Second {
		t.Fatalf("third retry: got %v", d)
	}
	if d := jobs.DefaultBackoff(30); d != 5*time.Minute {
		t.Fatalf("retry 30 should cap at 5m: got %v", d)
	}
}
