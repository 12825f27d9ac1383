package avatar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/retry"
)

// Config holds settings for the avatar blob cache.
type Config struct {
	// Retention is how long a cached blob stays valid.
	Retention time.Duration `yaml:"retention" json:"retention"`
	// FetchRetries is the number of attempts for one avatar download.
	FetchRetries int `yaml:"fetch_retries" json:"fetch_retries"`
	// FetchBackoff is the base of the linear backoff between attempts.
	FetchBackoff time.Duration `yaml:"fetch_backoff" json:"fetch_backoff"`
	// FetchTimeout is the per-request timeout.
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
	// MaxBlobSize caps a downloaded image, bytes.
	MaxBlobSize int64 `yaml:"max_blob_size" json:"max_blob_size"`
}

// DefaultConfig returns the standard cache settings: 7-day retention, three
// fetch attempts with linear backoff starting at one second.
func DefaultConfig() Config {
	return Config{
		Retention:    7 * 24 * time.Hour,
		FetchRetries: 3,
		FetchBackoff: time.Second,
		FetchTimeout: 15 * time.Second,
		MaxBlobSize:  10 << 20,
	}
}

// Service is the avatar blob cache: a write-once, content-addressed store of
// downloaded avatar images with time-based expiry. Store and fetch failures
// degrade to the caller's fallback path; they are logged, never surfaced to
// rendering code.
type Service struct {
	store  repository.AvatarStore
	client *http.Client
	cfg    Config
	policy retry.Policy
	logger *slog.Logger
}

// NewService creates the cache service. A nil httpClient gets a default with
// the configured fetch timeout; a nil logger gets slog.Default.
func NewService(store repository.AvatarStore, httpClient *http.Client, cfg Config, logger *slog.Logger) *Service {
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultConfig().Retention
	}
	if cfg.FetchRetries <= 0 {
		cfg.FetchRetries = DefaultConfig().FetchRetries
	}
	if cfg.FetchBackoff <= 0 {
		cfg.FetchBackoff = DefaultConfig().FetchBackoff
	}
	if cfg.MaxBlobSize <= 0 {
		cfg.MaxBlobSize = DefaultConfig().MaxBlobSize
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.FetchTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		client: httpClient,
		cfg:    cfg,
		policy: retry.Policy{MaxAttempts: cfg.FetchRetries, Backoff: retry.Linear(cfg.FetchBackoff)},
		logger: logger,
	}
}

// Retention exposes the configured retention window.
func (s *Service) Retention() time.Duration {
	return s.cfg.Retention
}

// CacheAvatar downloads the image at url and stores it keyed by avatarID. The
// cache is write-once per id: an existing entry short-circuits the download,
// so racing callers result in a single stored blob. Download failures are
// retried per the policy and then absorbed: the caller falls back to the
// remote URL either way.
func (s *Service) CacheAvatar(ctx context.Context, url, avatarID, userID string) {
	if url == "" || avatarID == "" {
		return
	}

	existing, err := s.store.Get(ctx, avatarID)
	if err != nil {
		s.logger.Error("avatar cache lookup failed", slog.String("avatar_id", avatarID), slog.Any("err", err))
		return
	}
	if existing != nil {
		return
	}

	var blob []byte
	var contentType string
	err = s.policy.Do(ctx, func(ctx context.Context) error {
		blob, contentType, err = s.fetch(ctx, url)
		return err
	})
	if err != nil {
		s.logger.Error("avatar fetch failed",
			slog.String("avatar_id", avatarID),
			slog.String("url", url),
			slog.Any("err", err),
		)
		return
	}

	entry := &models.CachedAvatar{
		ID:          avatarID,
		UserID:      userID,
		ContentType: contentType,
		Blob:        blob,
		CachedAt:    time.Now().UTC().UnixMilli(),
	}
	if err := s.store.Put(ctx, entry); err != nil {
		s.logger.Error("avatar cache write failed", slog.String("avatar_id", avatarID), slog.Any("err", err))
	}
}

// CachedAvatar returns the stored entry or nil. An entry past the retention
// window is deleted as a side effect and reported as absent.
func (s *Service) CachedAvatar(ctx context.Context, avatarID string) (*models.CachedAvatar, error) {
	entry, err := s.store.Get(ctx, avatarID)
	if err != nil || entry == nil {
		return nil, err
	}

	age := time.Since(time.UnixMilli(entry.CachedAt))
	if age > s.cfg.Retention {
		if err := s.store.Delete(ctx, avatarID); err != nil {
			s.logger.Error("expired avatar delete failed", slog.String("avatar_id", avatarID), slog.Any("err", err))
		}
		return nil, nil
	}

	return entry, nil
}

// InvalidateAvatar drops the single entry, used when a user uploads a new
// avatar.
func (s *Service) InvalidateAvatar(ctx context.Context, avatarID string) error {
	return s.store.Delete(ctx, avatarID)
}

// ClearUserAvatars bulk-deletes every entry belonging to a user.
func (s *Service) ClearUserAvatars(ctx context.Context, userID string) (int64, error) {
	return s.store.DeleteByUser(ctx, userID)
}

// ClearOldAvatars sweeps entries older than the retention window. Meant to run
// once at startup and periodically from the job worker.
func (s *Service) ClearOldAvatars(ctx context.Context) (int64, error) {
	n, err := s.store.Sweep(ctx, s.cfg.Retention)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("avatar cache sweep", slog.Int64("removed", n))
	}
	return n, nil
}

func (s *Service) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build avatar request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch avatar: unexpected status %d", resp.StatusCode)
	}

	blob, err := io.ReadAll(io.LimitReader(resp.Body, s.cfg.MaxBlobSize))
	if err != nil {
		return nil, "", fmt.Errorf("read avatar body: %w", err)
	}

	return blob, resp.Header.Get("Content-Type"), nil
}
