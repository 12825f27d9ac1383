package doclearn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"sync"
	"sync/atomic"

	"github.com/NeGaTiVe369/DocLearn-sub000/internal/profile"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/retry"
)

// ErrSessionExpired is returned when the session is rejected and the single
// transparent re-authentication attempt failed as well.
var ErrSessionExpired = errors.New("doclearn: session expired")

// genericSaveError is surfaced when the server rejects a save without a usable
// error body.
const genericSaveError = "failed to save profile"

// package-level logger for pkg/doclearn; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/doclearn. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Client talks to the DocLearn REST API. It keeps the bearer token and the
// credentials used to obtain it, so an expired session can be renewed
// transparently exactly once per failing save.
type Client struct {
	cfg    Config
	client *http.Client
	policy retry.Policy

	mu       sync.Mutex
	token    string
	email    string
	password string

	closed int32 // atomic flag for Close()
}

// NewClient creates a new API client. A nil httpClient gets a default with the
// configured timeout.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg = DefaultConfig()
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if cfg.Retries <= 0 {
		cfg.Retries = DefaultConfig().Retries
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultConfig().Backoff
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		cfg:    cfg,
		client: httpClient,
		policy: retry.Policy{MaxAttempts: cfg.Retries, Backoff: retry.Linear(cfg.Backoff)},
	}
	logger.Info("doclearn: client created", slog.String("base_url", cfg.BaseURL))
	return c, nil
}

// Close releases any resources held by the client. Close is idempotent and
// safe to call multiple times.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.client != nil && c.client.Transport != nil {
		if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
		}
	}
	return nil
}

// envelope is the standard response wrapper of the DocLearn API.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type authData struct {
	Token string `json:"token"`
}

// SignUp registers an account and stores the issued session.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var data authData
	if err := c.postJSON(ctx, "/v1/auth/signup", body, &data, false); err != nil {
		return err
	}
	c.setSession(data.Token, email, password)
	return nil
}

// SignIn authenticates and stores the issued session. The credentials are
// kept so an expired session can be renewed without caller involvement.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var data authData
	if err := c.postJSON(ctx, "/v1/auth/signin", body, &data, false); err != nil {
		return err
	}
	c.setSession(data.Token, email, password)
	return nil
}

// Token returns the current bearer token, empty when not signed in.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setSession(token, email, password string) {
	c.mu.Lock()
	c.token = token
	c.email = email
	c.password = password
	c.mu.Unlock()
}

// reauth renews the session with the stored credentials.
func (c *Client) reauth(ctx context.Context) error {
	c.mu.Lock()
	email, password := c.email, c.password
	c.mu.Unlock()
	if email == "" {
		return ErrSessionExpired
	}
	if err := c.SignIn(ctx, email, password); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	return nil
}

// Me fetches the caller's full profile. Transient failures are retried per
// the client policy.
func (c *Client) Me(ctx context.Context) (*models.SpecialistUser, error) {
	var raw json.RawMessage
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		return c.getJSON(ctx, "/user/me", &raw)
	})
	if err != nil {
		return nil, err
	}

	// education arrives as a single object for students and a list otherwise
	var wire struct {
		models.SpecialistUser
		Education json.RawMessage `json:"education,omitempty"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	u := wire.SpecialistUser
	u.Education, err = profile.EducationFromWire(u.Role, wire.Education)
	if err != nil {
		return nil, fmt.Errorf("decode profile education: %w", err)
	}
	return &u, nil
}

// UpdateResult is the server's answer to a partial profile update.
type UpdateResult struct {
	Message            string `json:"message"`
	RequiresModeration bool   `json:"requiresModeration"`
}

// UpdateProfile sends a partial-update payload. A rejected session triggers
// one transparent re-authentication and retry of the save; any other failure
// surfaces the server's error message with a generic fallback.
func (c *Client) UpdateProfile(ctx context.Context, payload map[string]any) (*UpdateResult, error) {
	if len(payload) == 0 {
		return &UpdateResult{Message: "nothing to update"}, nil
	}

	var out UpdateResult
	err := c.postJSON(ctx, "/user/update-my-profile", payload, &out, true)
	if err == nil {
		return &out, nil
	}

	var se *statusError
	if !errors.As(err, &se) || se.code != http.StatusUnauthorized {
		return nil, err
	}

	logger.Info("doclearn: session rejected, re-authenticating")
	if err := c.reauth(ctx); err != nil {
		return nil, err
	}
	if err := c.postJSON(ctx, "/user/update-my-profile", payload, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// AvatarRef is the stored location of an uploaded avatar.
type AvatarRef struct {
	AvatarURL string `json:"avatarUrl"`
	AvatarID  string `json:"avatarId"`
}

// UploadAvatar sends a new avatar image as multipart form data.
func (c *Client) UploadAvatar(ctx context.Context, filename string, data []byte) (*AvatarRef, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("avatar", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("write multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/user/avatar", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	var ref AvatarRef
	if err := c.do(req, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// FetchAvatar downloads a raw avatar image; the cache service feeds on it.
func (c *Client) FetchAvatar(ctx context.Context, avatarURL string) ([]byte, string, error) {
	var blob []byte
	var contentType string
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
		if err != nil {
			return err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return &statusError{code: resp.StatusCode, message: "avatar fetch failed"}
		}
		blob, err = io.ReadAll(resp.Body)
		contentType = resp.Header.Get("Content-Type")
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return blob, contentType, nil
}

// statusError carries the HTTP status alongside the server's message.
type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("doclearn: %s (status %d)", e.message, e.code)
}

// StatusCode returns the HTTP status of a server-rejected call, 0 otherwise.
func StatusCode(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.code
	}
	return 0
}

// ErrorMessage returns the server-provided message of a rejected call, empty
// otherwise.
func ErrorMessage(err error) string {
	var se *statusError
	if errors.As(err, &se) {
		return se.message
	}
	return ""
}

func (c *Client) authorize(req *http.Request) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any, auth bool) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if auth {
		c.authorize(req)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		env = envelope{}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = genericSaveError
		}
		return &statusError{code: resp.StatusCode, message: msg}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = env.Data
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
