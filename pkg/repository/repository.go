package repository

import (
	"context"
	"time"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type AccountRepo interface {
	CreateAccount(ctx context.Context, a *models.Account) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateAccount(ctx context.Context, a *models.Account) error
	DeleteAccount(ctx context.Context, id int64) error
}

type ProfileRepo interface {
	CreateProfile(ctx context.Context, u *models.SpecialistUser) error
	GetByAccountID(ctx context.Context, accountID int64) (*models.SpecialistUser, error)
	UpdateProfile(ctx context.Context, u *models.SpecialistUser) error
	DeleteProfile(ctx context.Context, accountID int64) error
}

// AvatarStore is the persistent blob cache contract used by the avatar cache
// service. Implementations must treat a missing entry as (nil, nil).
type AvatarStore interface {
	Get(ctx context.Context, avatarID string) (*models.CachedAvatar, error)
	Put(ctx context.Context, entry *models.CachedAvatar) error
	Delete(ctx context.Context, avatarID string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	Sweep(ctx context.Context, olderThan time.Duration) (int64, error)
}

type UploadRepo interface {
	SaveUpload(ctx context.Context, u *models.AvatarUpload) error
	GetUpload(ctx context.Context, id string) (*models.AvatarUpload, error)
	DeleteUpload(ctx context.Context, id string) error
	DeleteUploadsByUser(ctx context.Context, userID int64, keepID string) (int64, error)
}

type AnnouncementRepo interface {
	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error)
	ListAnnouncements(ctx context.Context, kind, status string, limit, offset int) ([]models.Announcement, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]models.Announcement, error)
	UpdateAnnouncement(ctx context.Context, a *models.Announcement) error
	DeleteAnnouncement(ctx context.Context, id string) error
}

type ModerationRepo interface {
	CreateRequest(ctx context.Context, m *models.ModerationRequest) (int64, error)
	GetRequest(ctx context.Context, id int64) (*models.ModerationRequest, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.ModerationRequest, error)
	ResolveRequest(ctx context.Context, id int64, status string) error
}

type SchemaRepo interface {
	CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error)
	GetSchemaByVersion(ctx context.Context, version string) (*Schema, error)
	ListSchemas(ctx context.Context) ([]Schema, error)
	DeleteSchema(ctx context.Context, version string) error
}

// Schema is a stored JSON schema used to validate partial-update payloads.
type Schema struct {
	ID          int64  `json:"id" db:"id"`
	Version     string `json:"version" db:"version"`
	Description string `json:"description,omitempty" db:"description"`
	SchemaJSON  string `json:"schema_json" db:"schema_json"`
	Created     int64  `json:"created" db:"created"`
	Updated     int64  `json:"updated" db:"updated"`
}
