package profile

import (
	"encoding/json"
	"fmt"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

// Education wire-shape conversion. Students carry a single education object on
// the wire, every other role carries a list; internally both are held as a
// slice. Both directions are total: list→single keeps the first record (lossy
// beyond the first, which is why the tracker stashes the full slice on role
// change), single→list wraps the record (lossless).

// EducationToWire converts the internal slice to the wire shape for a role.
// For single-record roles an empty slice maps to nil so the field is omitted.
func EducationToWire(role models.Role, list []models.Education) any {
	if role.SingleEducation() {
		if len(list) == 0 {
			return nil
		}
		return list[0]
	}
	return list
}

// EducationFromWire parses the wire shape of the education field for a role.
// A single object is accepted for any role, and a list for any role; the
// declared role decides the canonical interpretation when both would fit.
func EducationFromWire(role models.Role, raw json.RawMessage) ([]models.Education, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []models.Education
	if err := json.Unmarshal(raw, &list); err == nil {
		if role.SingleEducation() && len(list) > 1 {
			list = list[:1]
		}
		return list, nil
	}

	var single models.Education
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("education has neither list nor record shape: %w", err)
	}
	return []models.Education{single}, nil
}

// cloneUser deep-copies a profile so tracker mutations never reach the
// snapshot.
func cloneUser(u *models.SpecialistUser) *models.SpecialistUser {
	if u == nil {
		return nil
	}

	out := *u
	out.Contacts = append([]models.Contact(nil), u.Contacts...)
	out.Work = append([]models.Work(nil), u.Work...)
	out.Education = append([]models.Education(nil), u.Education...)
	out.Specializations = append([]models.Specialization(nil), u.Specializations...)
	if u.ScientificStatus != nil {
		ss := *u.ScientificStatus
		ss.Interests = append([]string(nil), u.ScientificStatus.Interests...)
		out.ScientificStatus = &ss
	}
	return &out
}
