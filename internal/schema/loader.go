package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository"
	"github.com/qri-io/jsonschema"
)

// CurrentVersion is the schema applied to incoming profile updates.
const CurrentVersion = "profile-update-v1"

// Loader loads and caches compiled JSON schemas from the repository.
type Loader struct {
	repo  repository.SchemaRepo
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

func NewLoader(ctx context.Context, r repository.SchemaRepo) (*Loader, error) {
	l := &Loader{
		repo:  r,
		cache: make(map[string]*jsonschema.Schema),
	}
	// initial load
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}

	return l, nil
}

// Get returns a compiled schema for a version.
func (l *Loader) Get(version string) (*jsonschema.Schema, bool) {
	l.mu.RLock()
	s, ok := l.cache[version]
	l.mu.RUnlock()

	return s, ok
}

// Validate runs a payload against the named schema version and returns the
// messages of any violations.
func (l *Loader) Validate(ctx context.Context, version string, payload []byte) ([]string, error) {
	s, ok := l.Get(version)
	if !ok {
		return nil, fmt.Errorf("unknown schema version %q", version)
	}

	verrs, err := s.ValidateBytes(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("validate payload: %w", err)
	}
	if len(verrs) == 0 {
		return nil, nil
	}

	msgs := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		msgs = append(msgs, ve.Error())
	}
	return msgs, nil
}

// Reload loads all schemas from the DB and compiles them.
func (l *Loader) Reload(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.repo.ListSchemas(ctx)
	if err != nil {
		return fmt.Errorf("load schemas: %w", err)
	}

	newCache := make(map[string]*jsonschema.Schema)
	for _, r := range rows {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(r.SchemaJSON), rs); err != nil {
			return fmt.Errorf("compile schema %s: %w", r.Version, err)
		}

		newCache[r.Version] = rs
	}

	l.cache = newCache
	return nil
}
