package profile

import (
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

// Payload turns the changed fields into the partial-update body to send.
// Invalid array entries are filtered out by the model validity predicates; a
// changed array left with no valid entries is dropped from the payload
// entirely. Ongoing work/education entries have their terminal date field
// stripped. Education is reshaped for the working copy's role.
func (t *Tracker) Payload() map[string]any {
	changed := t.ChangedFields()
	out := make(map[string]any, len(changed))

	for field, value := range changed {
		switch field {
		case "contacts":
			contacts := filterContacts(value.([]models.Contact))
			if len(contacts) > 0 {
				out[field] = contacts
			}
		case "workHistory":
			work := filterWork(value.([]models.Work))
			if len(work) > 0 {
				out[field] = work
			}
		case "education":
			edu := filterEducation(value.([]models.Education))
			if len(edu) == 0 {
				continue
			}
			if wire := EducationToWire(t.working.Role, edu); wire != nil {
				out[field] = wire
			}
		case "specializations":
			specs := filterSpecializations(value.([]models.Specialization))
			if len(specs) > 0 {
				out[field] = specs
			}
		default:
			out[field] = value
		}
	}

	return out
}

func filterContacts(in []models.Contact) []models.Contact {
	out := make([]models.Contact, 0, len(in))
	for _, c := range in {
		if c.Valid() {
			out = append(out, c)
		}
	}
	return out
}

func filterWork(in []models.Work) []models.Work {
	out := make([]models.Work, 0, len(in))
	for _, w := range in {
		if !w.Valid() {
			continue
		}
		if w.CurrentlyWorking {
			w.EndDate = ""
		}
		out = append(out, w)
	}
	return out
}

func filterEducation(in []models.Education) []models.Education {
	out := make([]models.Education, 0, len(in))
	for _, e := range in {
		if !e.Valid() {
			continue
		}
		if e.CurrentlyStudying {
			e.GraduationYear = ""
		}
		out = append(out, e)
	}
	return out
}

func filterSpecializations(in []models.Specialization) []models.Specialization {
	out := make([]models.Specialization, 0, len(in))
	for _, s := range in {
		if s.Valid() {
			out = append(out, s)
		}
	}
	return out
}
