package avatar

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Source is what a caller renders right now. Remote sources point at a URL;
// cached sources carry the blob.
type Source struct {
	// URL is set when the image must be fetched by the renderer itself
	// (remote URL or default asset path).
	URL string
	// Blob and ContentType are set when the image was served from the cache.
	Blob        []byte
	ContentType string
	// FromCache reports which of the two shapes is populated.
	FromCache bool
}

// Resolver is the synchronous read path over the cache service. Every Resolve
// call returns an immediately displayable source; on a miss it kicks off a
// background fetch-and-populate so a later call for the same id upgrades to
// the cached blob. Concurrent resolutions of one avatar id share a single
// population via singleflight.
type Resolver struct {
	svc    *Service
	logger *slog.Logger

	mu       sync.RWMutex
	resolved map[string]resolvedEntry

	group singleflight.Group
	wg    sync.WaitGroup

	closeOnce sync.Once
	closed    chan struct{}
}

// NewResolver creates a resolver over the cache service.
func NewResolver(svc *Service, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		svc:      svc,
		logger:   logger,
		resolved: make(map[string]resolvedEntry),
		closed:   make(chan struct{}),
	}
}

type resolvedEntry struct {
	src    Source
	userID string
}

// Resolve returns a displayable source for an avatar without blocking.
// Resolution order: the per-session resolved map, then a background store
// lookup plus network populate, with the remote URL (or fallback) returned
// meanwhile. Callers must tolerate the source changing on a later call.
func (r *Resolver) Resolve(url, avatarID, userID, fallback string) Source {
	if avatarID == "" {
		return remoteSource(url, fallback)
	}

	r.mu.RLock()
	entry, ok := r.resolved[avatarID]
	r.mu.RUnlock()
	if ok {
		return entry.src
	}

	// closed check and Add under the lock so Close cannot observe the
	// counter between them.
	r.mu.Lock()
	select {
	case <-r.closed:
		r.mu.Unlock()
		return remoteSource(url, fallback)
	default:
	}
	r.wg.Add(1)
	r.mu.Unlock()
	go func() {
		defer r.wg.Done()
		r.populate(url, avatarID, userID)
	}()

	return remoteSource(url, fallback)
}

// Invalidate drops the avatar from both the session map and the persistent
// cache, releasing the held blob. Used when a user uploads a new avatar.
func (r *Resolver) Invalidate(ctx context.Context, avatarID string) error {
	r.mu.Lock()
	delete(r.resolved, avatarID)
	r.mu.Unlock()

	return r.svc.InvalidateAvatar(ctx, avatarID)
}

// ReleaseUser drops every resolved entry of a user along with the persisted
// ones.
func (r *Resolver) ReleaseUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	for id, entry := range r.resolved {
		if entry.userID == userID {
			delete(r.resolved, id)
		}
	}
	r.mu.Unlock()

	_, err := r.svc.ClearUserAvatars(ctx, userID)
	return err
}

// Close waits for in-flight background populations and releases every held
// blob. The resolver degrades to pass-through afterwards.
func (r *Resolver) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		close(r.closed)
		r.mu.Unlock()
	})
	r.wg.Wait()

	r.mu.Lock()
	r.resolved = make(map[string]resolvedEntry)
	r.mu.Unlock()
}

func (r *Resolver) populate(url, avatarID, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.svc.cfg.FetchTimeout+r.svc.cfg.FetchBackoff*4)
	defer cancel()

	_, err, _ := r.group.Do(avatarID, func() (any, error) {
		entry, err := r.svc.CachedAvatar(ctx, avatarID)
		if err != nil {
			// store unavailable: stay on pass-through, do not record
			return nil, err
		}
		if entry == nil {
			r.svc.CacheAvatar(ctx, url, avatarID, userID)
			if entry, err = r.svc.CachedAvatar(ctx, avatarID); err != nil || entry == nil {
				return nil, err
			}
		}

		r.mu.Lock()
		r.resolved[avatarID] = resolvedEntry{
			src: Source{
				Blob:        entry.Blob,
				ContentType: entry.ContentType,
				FromCache:   true,
			},
			userID: userID,
		}
		r.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		r.logger.Warn("avatar resolution degraded to remote URL",
			slog.String("avatar_id", avatarID),
			slog.Any("err", err),
		)
	}
}

func remoteSource(url, fallback string) Source {
	if url != "" {
		return Source{URL: url}
	}
	return Source{URL: fallback}
}
