package profile

import (
	"encoding/json"
	"fmt"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

// ApplyPayload merges a partial-update payload into a stored profile. Only the
// keys present in the payload are touched; unknown keys are ignored. The
// education fragment is accepted in either wire shape.
func ApplyPayload(u *models.SpecialistUser, payload map[string]any) error {
	if u == nil {
		return fmt.Errorf("nil profile")
	}

	if v, ok := payload["role"]; ok {
		s, ok := v.(string)
		if !ok || !models.Role(s).Known() {
			return fmt.Errorf("invalid role %v", v)
		}
		u.Role = models.Role(s)
	}

	for key, dst := range map[string]*string{
		"firstName":  &u.FirstName,
		"lastName":   &u.LastName,
		"middleName": &u.MiddleName,
		"bio":        &u.Bio,
		"location":   &u.Location,
		"birthday":   &u.Birthday,
	} {
		if v, ok := payload[key]; ok {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("field %s must be a string", key)
			}
			*dst = s
		}
	}

	if v, ok := payload["contacts"]; ok {
		if err := decodeFragment(v, &u.Contacts); err != nil {
			return fmt.Errorf("contacts: %w", err)
		}
	}
	if v, ok := payload["workHistory"]; ok {
		if err := decodeFragment(v, &u.Work); err != nil {
			return fmt.Errorf("workHistory: %w", err)
		}
	}
	if v, ok := payload["specializations"]; ok {
		if err := decodeFragment(v, &u.Specializations); err != nil {
			return fmt.Errorf("specializations: %w", err)
		}
	}
	if v, ok := payload["scientificStatus"]; ok {
		if err := decodeFragment(v, &u.ScientificStatus); err != nil {
			return fmt.Errorf("scientificStatus: %w", err)
		}
	}

	if v, ok := payload["education"]; ok {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("education: %w", err)
		}
		list, err := EducationFromWire(u.Role, raw)
		if err != nil {
			return fmt.Errorf("education: %w", err)
		}
		u.Education = list
	}

	return nil
}

// decodeFragment re-marshals one payload value into a typed destination.
func decodeFragment(v, dst any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
