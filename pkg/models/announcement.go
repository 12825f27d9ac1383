package models

import "strings"

// AnnouncementKind discriminates the announcement union: each kind carries its
// own extra field set on top of the common ones.
type AnnouncementKind string

const (
	AnnouncementEvent  AnnouncementKind = "event"
	AnnouncementJob    AnnouncementKind = "job"
	AnnouncementCourse AnnouncementKind = "course"
)

// Known reports whether k is one of the defined kinds.
func (k AnnouncementKind) Known() bool {
	switch k {
	case AnnouncementEvent, AnnouncementJob, AnnouncementCourse:
		return true
	}
	return false
}

// Announcement lifecycle states. Publishing a draft puts it into pending until
// a moderator approves it.
const (
	AnnouncementDraft     = "draft"
	AnnouncementPending   = "pending"
	AnnouncementPublished = "published"
	AnnouncementRejected  = "rejected"
)

// Announcement is an event, job opening or course listing created through the
// multi-step wizard. Kind-specific fields are empty for the other kinds.
type Announcement struct {
	ID          string           `json:"id"`
	AuthorID    int64            `json:"authorId"`
	Kind        AnnouncementKind `json:"kind"`
	Status      string           `json:"status"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Location    string           `json:"location,omitempty"`

	// event
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Online    bool   `json:"online,omitempty"`

	// job
	Organization   string `json:"organization,omitempty"`
	Salary         string `json:"salary,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`

	// course
	Provider string `json:"provider,omitempty"`
	Duration string `json:"duration,omitempty"`
	Price    string `json:"price,omitempty"`

	Created int64 `json:"created"`
	Updated int64 `json:"updated"`
}

// Complete reports whether the announcement has every field its kind requires
// to be submitted for publication. Drafts may be saved incomplete.
func (a Announcement) Complete() bool {
	if strings.TrimSpace(a.Title) == "" || !a.Kind.Known() {
		return false
	}
	switch a.Kind {
	case AnnouncementEvent:
		return strings.TrimSpace(a.StartDate) != ""
	case AnnouncementJob:
		return strings.TrimSpace(a.Organization) != ""
	case AnnouncementCourse:
		return strings.TrimSpace(a.Provider) != ""
	}
	return false
}
