package profile

import (
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

// Tracker owns an editing session over a profile: an immutable snapshot of the
// last saved state and a freely mutable working copy. On save it computes the
// minimal partial-update payload. It never returns errors; a session that has
// nothing valid to send simply produces an empty payload.
type Tracker struct {
	original *models.SpecialistUser
	working  *models.SpecialistUser

	// role-specific sections displaced by a role change, kept so switching
	// back within the session restores them untouched
	stash map[models.Role]stashedSections
}

type stashedSections struct {
	education        []models.Education
	scientificStatus *models.ScientificStatus
	specializations  []models.Specialization
}

// NewTracker starts an editing session from a saved snapshot. The snapshot is
// deep-copied; later mutations of the working copy never reach it.
func NewTracker(snapshot *models.SpecialistUser) *Tracker {
	if snapshot == nil {
		snapshot = &models.SpecialistUser{}
	}
	return &Tracker{
		original: cloneUser(snapshot),
		working:  cloneUser(snapshot),
		stash:    make(map[models.Role]stashedSections),
	}
}

// Working returns the mutable working copy the form edits.
func (t *Tracker) Working() *models.SpecialistUser {
	return t.working
}

// Original returns the immutable snapshot the diff is computed against.
func (t *Tracker) Original() *models.SpecialistUser {
	return cloneUser(t.original)
}

// ChangeRole rebuilds the working copy for a new role tag. Common fields are
// carried over as-is; education is reshaped for the target role; sections the
// target role does not carry are stashed and restored on a later switch back,
// so a role round-trip inside one session loses nothing. Unknown or unchanged
// roles are ignored.
func (t *Tracker) ChangeRole(newRole models.Role) {
	cur := t.working.Role
	if !newRole.Known() || newRole == cur {
		return
	}

	// stash and restore deep copies so later edits of the working copy cannot
	// corrupt what a switch back is supposed to restore
	saved := cloneUser(t.working)
	t.stash[cur] = stashedSections{
		education:        saved.Education,
		scientificStatus: saved.ScientificStatus,
		specializations:  saved.Specializations,
	}

	if prev, ok := t.stash[newRole]; ok {
		t.working.Education = append([]models.Education(nil), prev.education...)
		t.working.Specializations = append([]models.Specialization(nil), prev.specializations...)
		t.working.ScientificStatus = nil
		if prev.scientificStatus != nil {
			ss := *prev.scientificStatus
			ss.Interests = append([]string(nil), ss.Interests...)
			t.working.ScientificStatus = &ss
		}
	} else {
		if newRole.SingleEducation() && len(t.working.Education) > 1 {
			t.working.Education = t.working.Education[:1]
		}
	}

	if newRole.HasScientificStatus() {
		if t.working.ScientificStatus == nil {
			t.working.ScientificStatus = &models.ScientificStatus{}
		}
	} else {
		t.working.ScientificStatus = nil
	}

	if newRole.HasSpecializations() {
		if t.working.Specializations == nil {
			t.working.Specializations = []models.Specialization{}
		}
	} else {
		t.working.Specializations = nil
	}

	t.working.Role = newRole
}

// HasChanges reports whether the working copy differs from the snapshot.
func (t *Tracker) HasChanges() bool {
	return len(t.ChangedFields()) > 0
}
