package profile

import (
	"sort"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

// ChangedFields compares the working copy against the snapshot field by field
// and returns the changed ones keyed by wire name. Scalars compare directly.
// Record arrays compare element-wise on their semantic keys and are
// order-sensitive. scientificStatus compares sub-fields, with interests as a
// sorted set (the only order-insensitive comparison). Neither side is mutated.
func (t *Tracker) ChangedFields() map[string]any {
	o, w := t.original, t.working
	out := make(map[string]any)

	if w.Role != o.Role {
		out["role"] = w.Role
	}
	if w.FirstName != o.FirstName {
		out["firstName"] = w.FirstName
	}
	if w.LastName != o.LastName {
		out["lastName"] = w.LastName
	}
	if w.MiddleName != o.MiddleName {
		out["middleName"] = w.MiddleName
	}
	if w.Bio != o.Bio {
		out["bio"] = w.Bio
	}
	if w.Location != o.Location {
		out["location"] = w.Location
	}
	if w.Birthday != o.Birthday {
		out["birthday"] = w.Birthday
	}

	if !contactsEqual(o.Contacts, w.Contacts) {
		out["contacts"] = append([]models.Contact(nil), w.Contacts...)
	}
	if !workEqual(o.Work, w.Work) {
		out["workHistory"] = append([]models.Work(nil), w.Work...)
	}
	if !educationEqual(o.Education, w.Education) {
		out["education"] = append([]models.Education(nil), w.Education...)
	}
	if !specializationsEqual(o.Specializations, w.Specializations) {
		out["specializations"] = append([]models.Specialization(nil), w.Specializations...)
	}
	if !statusEqual(o.ScientificStatus, w.ScientificStatus) {
		out["scientificStatus"] = w.ScientificStatus
	}

	return out
}

func contactsEqual(a, b []models.Contact) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type || a[i].Value != b[i].Value || a[i].Label != b[i].Label {
			return false
		}
	}
	return true
}

func workEqual(a, b []models.Work) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].OrganizationName != b[i].OrganizationName ||
			a[i].Position != b[i].Position ||
			a[i].StartDate != b[i].StartDate ||
			a[i].EndDate != b[i].EndDate ||
			a[i].CurrentlyWorking != b[i].CurrentlyWorking {
			return false
		}
	}
	return true
}

func educationEqual(a, b []models.Education) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Institution != b[i].Institution ||
			a[i].Degree != b[i].Degree ||
			a[i].Specialty != b[i].Specialty ||
			a[i].StartDate != b[i].StartDate ||
			a[i].GraduationYear != b[i].GraduationYear ||
			a[i].CurrentlyStudying != b[i].CurrentlyStudying {
			return false
		}
	}
	return true
}

func specializationsEqual(a, b []models.Specialization) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name ||
			a[i].Method != b[i].Method ||
			a[i].QualificationCategory != b[i].QualificationCategory {
			return false
		}
	}
	return true
}

func statusEqual(a, b *models.ScientificStatus) bool {
	av, bv := models.ScientificStatus{}, models.ScientificStatus{}
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	if av.Degree != bv.Degree || av.Title != bv.Title || av.Rank != bv.Rank {
		return false
	}
	return interestsEqual(av.Interests, bv.Interests)
}

// interestsEqual compares the interests lists as sets: same elements in any
// order are the same value.
func interestsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
