package models

import "strings"

// Domain models shared by the API server, the client SDK and the
// change-tracking engine. The wire shapes match the DocLearn REST contract.

// Role is the professional role tag of a specialist profile. Exactly one role
// is active at a time; several profile sections exist only for some roles.
type Role string

const (
	RoleStudent      Role = "student"
	RoleResident     Role = "resident"
	RolePostgraduate Role = "postgraduate"
	RoleDoctor       Role = "doctor"
	RoleResearcher   Role = "researcher"
)

// Known reports whether r is one of the defined role tags.
func (r Role) Known() bool {
	switch r {
	case RoleStudent, RoleResident, RolePostgraduate, RoleDoctor, RoleResearcher:
		return true
	}
	return false
}

// HasScientificStatus reports whether the role carries the scientific status
// section (degree/title/rank/interests).
func (r Role) HasScientificStatus() bool {
	return r == RolePostgraduate || r == RoleDoctor || r == RoleResearcher
}

// HasSpecializations reports whether the role carries the specializations list.
func (r Role) HasSpecializations() bool {
	return r == RoleDoctor || r == RoleResearcher
}

// SingleEducation reports whether the role serializes education as a single
// record instead of a list.
func (r Role) SingleEducation() bool {
	return r == RoleStudent
}

// Contact is one entry of the profile contact list.
type Contact struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// Valid reports whether the contact may be sent to the server.
func (c Contact) Valid() bool {
	return strings.TrimSpace(c.Value) != ""
}

// Education is one education record. Students carry exactly one, all other
// roles carry a list.
type Education struct {
	ID                string `json:"id,omitempty"`
	Institution       string `json:"institution"`
	Degree            string `json:"degree"`
	Specialty         string `json:"specialty"`
	StartDate         string `json:"startDate"`
	GraduationYear    string `json:"graduationYear,omitempty"`
	CurrentlyStudying bool   `json:"currentlyStudying,omitempty"`
}

// Valid reports whether the record is complete enough to submit: the four
// required fields plus either an ongoing flag or a graduation year.
func (e Education) Valid() bool {
	if strings.TrimSpace(e.Institution) == "" ||
		strings.TrimSpace(e.Degree) == "" ||
		strings.TrimSpace(e.Specialty) == "" ||
		strings.TrimSpace(e.StartDate) == "" {
		return false
	}
	return e.CurrentlyStudying || strings.TrimSpace(e.GraduationYear) != ""
}

// Work is one work-history record.
type Work struct {
	ID               string `json:"id,omitempty"`
	OrganizationName string `json:"organizationName"`
	Position         string `json:"position"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate,omitempty"`
	CurrentlyWorking bool   `json:"currentlyWorking,omitempty"`
}

// Valid reports whether the record is complete enough to submit.
func (w Work) Valid() bool {
	return strings.TrimSpace(w.OrganizationName) != "" &&
		strings.TrimSpace(w.Position) != "" &&
		strings.TrimSpace(w.StartDate) != ""
}

// Specialization is a doctor/researcher specialization entry.
type Specialization struct {
	Name                  string `json:"name"`
	Method                string `json:"method,omitempty"`
	QualificationCategory string `json:"qualificationCategory,omitempty"`
}

// Valid reports whether the entry names a specialization.
func (s Specialization) Valid() bool {
	return strings.TrimSpace(s.Name) != ""
}

// ScientificStatus is the role-gated academic status section. Interests is the
// only profile field compared order-insensitively.
type ScientificStatus struct {
	Degree    string   `json:"degree,omitempty"`
	Title     string   `json:"title,omitempty"`
	Rank      string   `json:"rank,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// SpecialistUser is the full profile of a platform user. The set of populated
// sections depends on Role; education is serialized as a single object for
// students and as a list for everyone else (see the profile package for the
// shape conversion).
type SpecialistUser struct {
	ID               int64             `json:"id"`
	Email            string            `json:"email"`
	Role             Role              `json:"role"`
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	MiddleName       string            `json:"middleName,omitempty"`
	Bio              string            `json:"bio,omitempty"`
	Location         string            `json:"location,omitempty"`
	Birthday         string            `json:"birthday,omitempty"`
	AvatarURL        string            `json:"avatarUrl,omitempty"`
	AvatarID         string            `json:"avatarId,omitempty"`
	Contacts         []Contact         `json:"contacts,omitempty"`
	Work             []Work            `json:"workHistory,omitempty"`
	Education        []Education       `json:"-"`
	ScientificStatus *ScientificStatus `json:"scientificStatus,omitempty"`
	Specializations  []Specialization  `json:"specializations,omitempty"`
	IsAdmin          bool              `json:"isAdmin,omitempty"`
	Updated          int64             `json:"updated,omitempty"`
}

// Account is the authentication identity backing a profile.
type Account struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	PasswordHash string `json:"-" db:"password_hash"`
	IsAdmin      bool   `json:"is_admin" db:"is_admin"`
	Updated      int64  `json:"updated" db:"updated"`
}

// CachedAvatar is one entry of the client-side avatar blob cache, keyed by the
// stable avatar identifier. CachedAt is unix milliseconds.
type CachedAvatar struct {
	ID          string `json:"id"`
	UserID      string `json:"userId,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Blob        []byte `json:"-"`
	CachedAt    int64  `json:"cachedAt"`
}

// AvatarUpload is a server-side stored avatar image.
type AvatarUpload struct {
	ID          string `json:"id" db:"id"`
	UserID      int64  `json:"userId" db:"user_id"`
	ContentType string `json:"contentType" db:"content_type"`
	Blob        []byte `json:"-" db:"blob"`
	Created     int64  `json:"created" db:"created"`
}

// ModerationRequest holds a profile change set that needs manual review before
// it becomes visible. ChangesJSON is the held partial-update payload.
type ModerationRequest struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"userId" db:"user_id"`
	ChangesJSON string `json:"changes" db:"changes_json"`
	Status      string `json:"status" db:"status"`
	Created     int64  `json:"created" db:"created"`
	Resolved    *int64 `json:"resolved,omitempty" db:"resolved"`
}

// Moderation request states.
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)
