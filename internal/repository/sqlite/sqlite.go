package sqlite

import (
	"log/slog"
	"time"

	"github.com/NeGaTiVe369/DocLearn-sub000/internal/db"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository"
)

// Repo implements the repository interfaces using the internal DB wrapper.
type Repo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure Repo implements the public interfaces.
var _ repository.AccountRepo = (*Repo)(nil)
var _ repository.ProfileRepo = (*Repo)(nil)
var _ repository.AvatarStore = (*Repo)(nil)
var _ repository.UploadRepo = (*Repo)(nil)
var _ repository.AnnouncementRepo = (*Repo)(nil)
var _ repository.ModerationRepo = (*Repo)(nil)
var _ repository.SchemaRepo = (*Repo)(nil)

func New(conn *db.DB, logger *slog.Logger) *Repo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}
