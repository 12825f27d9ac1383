package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"github.com/NeGaTiVe369/DocLearn-sub000/internal/avatar"
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/profile"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository"
)

// Job type names understood by the worker pool.
const (
	TypeAvatarSweep     = "avatar.sweep"
	TypeModerationApply = "moderation.apply"
)

// NewAvatarSweepHandler removes cache entries older than the retention window.
func NewAvatarSweepHandler(svc *avatar.Service, logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, j *Job) error {
		n, err := svc.ClearOldAvatars(ctx)
		if err != nil {
			return fmt.Errorf("avatar sweep: %w", err)
		}
		if n > 0 {
			logger.Info("avatar sweep", slog.Int64("removed", n))
		}
		return nil
	}
}

type moderationApplyPayload struct {
	RequestID int64 `json:"request_id"`
}

// NewModerationApplyHandler applies an approved change set to its profile and
// resolves the request. Already-resolved requests are skipped, so the job is
// safe to retry.
func NewModerationApplyHandler(mr repository.ModerationRepo, pr repository.ProfileRepo, logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, j *Job) error {
		var p moderationApplyPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return fmt.Errorf("moderation payload: %w", err)
		}

		req, err := mr.GetRequest(ctx, p.RequestID)
		if err != nil {
			return fmt.Errorf("load request %d: %w", p.RequestID, err)
		}
		if req == nil || req.Status != models.ModerationPending {
			logger.Info("moderation request already handled", slog.Int64("request_id", p.RequestID))
			return nil
		}

		var changes map[string]any
		if err := json.Unmarshal([]byte(req.ChangesJSON), &changes); err != nil {
			return fmt.Errorf("decode changes for request %d: %w", req.ID, err)
		}

		u, err := pr.GetByAccountID(ctx, req.UserID)
		if err != nil {
			return fmt.Errorf("load profile %d: %w", req.UserID, err)
		}
		if u == nil {
			// profile gone; resolve so the request does not retry forever
			return mr.ResolveRequest(ctx, req.ID, models.ModerationRejected)
		}

		if err := profile.ApplyPayload(u, changes); err != nil {
			return fmt.Errorf("apply changes for request %d: %w", req.ID, err)
		}
		if err := pr.UpdateProfile(ctx, u); err != nil {
			return fmt.Errorf("save profile %d: %w", req.UserID, err)
		}

		return mr.ResolveRequest(ctx, req.ID, models.ModerationApproved)
	}
}
