package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	Accounts      *AccountRepo
	Profiles      *ProfileRepo
	Uploads       *UploadRepo
	Announcements *AnnouncementRepo
	Moderation    *ModerationRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Accounts:      &AccountRepo{},
		Profiles:      &ProfileRepo{profiles: map[int64]*models.SpecialistUser{}},
		Uploads:       &UploadRepo{uploads: map[string]*models.AvatarUpload{}},
		Announcements: &AnnouncementRepo{items: map[string]*models.Announcement{}},
		Moderation:    &ModerationRepo{},
	}
}

type AccountRepo struct {
	Stored    *models.Account
	CreateErr error
}

var _ repository.AccountRepo = (*AccountRepo)(nil)

func (m *AccountRepo) CreateAccount(ctx context.Context, a *models.Account) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.Stored = &models.Account{ID: 1, Email: a.Email, PasswordHash: a.PasswordHash, IsAdmin: a.IsAdmin}
	return 1, nil
}

func (m *AccountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *AccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.Stored != nil && m.Stored.Email == email {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *AccountRepo) UpdateAccount(ctx context.Context, a *models.Account) error {
	m.Stored = a
	return nil
}

func (m *AccountRepo) DeleteAccount(ctx context.Context, id int64) error {
	if m.Stored != nil && m.Stored.ID == id {
		m.Stored = nil
	}
	return nil
}

type ProfileRepo struct {
	profiles  map[int64]*models.SpecialistUser
	UpdateErr error
}

var _ repository.ProfileRepo = (*ProfileRepo)(nil)

func (m *ProfileRepo) CreateProfile(ctx context.Context, u *models.SpecialistUser) error {
	cp := *u
	m.profiles[u.ID] = &cp
	return nil
}

func (m *ProfileRepo) GetByAccountID(ctx context.Context, accountID int64) (*models.SpecialistUser, error) {
	if p, ok := m.profiles[accountID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *ProfileRepo) UpdateProfile(ctx context.Context, u *models.SpecialistUser) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	cp := *u
	m.profiles[u.ID] = &cp
	return nil
}

func (m *ProfileRepo) DeleteProfile(ctx context.Context, accountID int64) error {
	delete(m.profiles, accountID)
	return nil
}

type UploadRepo struct {
	uploads map[string]*models.AvatarUpload
	SaveErr error
}

var _ repository.UploadRepo = (*UploadRepo)(nil)

func (m *UploadRepo) SaveUpload(ctx context.Context, u *models.AvatarUpload) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.uploads[u.ID] = u
	return nil
}

func (m *UploadRepo) GetUpload(ctx context.Context, id string) (*models.AvatarUpload, error) {
	return m.uploads[id], nil
}

func (m *UploadRepo) DeleteUpload(ctx context.Context, id string) error {
	delete(m.uploads, id)
	return nil
}

func (m *UploadRepo) DeleteUploadsByUser(ctx context.Context, userID int64, keepID string) (int64, error) {
	var n int64
	for id, u := range m.uploads {
		if u.UserID == userID && id != keepID {
			delete(m.uploads, id)
			n++
		}
	}
	return n, nil
}

type AnnouncementRepo struct {
	items map[string]*models.Announcement
}

var _ repository.AnnouncementRepo = (*AnnouncementRepo)(nil)

func (m *AnnouncementRepo) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *AnnouncementRepo) GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error) {
	if a, ok := m.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *AnnouncementRepo) ListAnnouncements(ctx context.Context, kind, status string, limit, offset int) ([]models.Announcement, error) {
	var out []models.Announcement
	for _, a := range m.items {
		if kind != "" && string(a.Kind) != kind {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *AnnouncementRepo) ListByAuthor(ctx context.Context, authorID int64) ([]models.Announcement, error) {
	var out []models.Announcement
	for _, a := range m.items {
		if a.AuthorID == authorID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *AnnouncementRepo) UpdateAnnouncement(ctx context.Context, a *models.Announcement) error {
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *AnnouncementRepo) DeleteAnnouncement(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type ModerationRepo struct {
	Requests []*models.ModerationRequest
	nextID   int64
}

var _ repository.ModerationRepo = (*ModerationRepo)(nil)

func (m *ModerationRepo) CreateRequest(ctx context.Context, req *models.ModerationRequest) (int64, error) {
	m.nextID++
	cp := *req
	cp.ID = m.nextID
	cp.Status = models.ModerationPending
	m.Requests = append(m.Requests, &cp)
	return cp.ID, nil
}

func (m *ModerationRepo) GetRequest(ctx context.Context, id int64) (*models.ModerationRequest, error) {
	for _, r := range m.Requests {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *ModerationRepo) ListPending(ctx context.Context, limit, offset int) ([]models.ModerationRequest, error) {
	var out []models.ModerationRequest
	for _, r := range m.Requests {
		if r.Status == models.ModerationPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *ModerationRepo) ResolveRequest(ctx context.Context, id int64, status string) error {
	for _, r := range m.Requests {
		if r.ID == id {
			r.Status = status
			now := time.Now().UTC().UnixMilli()
			r.Resolved = &now
			return nil
		}
	}
	return nil
}

// AvatarStore is an in-memory repository.AvatarStore for tests and for
// running the SDK without persistent storage.
type AvatarStore struct {
	mu      sync.Mutex
	entries map[string]*models.CachedAvatar

	GetErr error
	PutErr error
}

var _ repository.AvatarStore = (*AvatarStore)(nil)

func NewAvatarStore() *AvatarStore {
	return &AvatarStore{entries: map[string]*models.CachedAvatar{}}
}

func (s *AvatarStore) Get(ctx context.Context, avatarID string) (*models.CachedAvatar, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[avatarID]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (s *AvatarStore) Put(ctx context.Context, entry *models.CachedAvatar) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// write-once semantics, same as the sqlite INSERT OR IGNORE
	if _, ok := s.entries[entry.ID]; ok {
		return nil
	}
	cp := *entry
	s.entries[entry.ID] = &cp
	return nil
}

func (s *AvatarStore) Delete(ctx context.Context, avatarID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, avatarID)
	return nil
}

func (s *AvatarStore) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, e := range s.entries {
		if e.UserID == userID {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}

func (s *AvatarStore) Sweep(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).UnixMilli()
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, e := range s.entries {
		if e.CachedAt < cutoff {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored entries.
func (s *AvatarStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
