package profile_test

import (
	"testing"

	"github.com/NeGaTiVe369/DocLearn-sub000/internal/profile"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

func TestApplyPayload_Scalars(t *testing.T) {
	u := &models.SpecialistUser{Role: models.RoleDoctor, FirstName: "Anna", Bio: "old"}

	err := profile.ApplyPayload(u, map[string]any{"bio": "new", "location": "Moscow"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if u.Bio != "new" || u.Location != "Moscow" {
		t.Fatalf("scalars not applied: %#v", u)
	}
	if u.FirstName != "Anna" {
		t.Fatalf("untouched field changed: %q", u.FirstName)
	}
}

func TestApplyPayload_EducationBothShapes(t *testing.T) {
	student := &models.SpecialistUser{Role: models.RoleStudent}
	err := profile.ApplyPayload(student, map[string]any{
		"education": map[string]any{"institution": "FMU", "degree": "MD", "specialty": "Peds", "startDate": "2020-09-01"},
	})
	if err != nil {
		t.Fatalf("apply single: %v", err)
	}
	if len(student.Education) != 1 || student.Education[0].Institution != "FMU" {
		t.Fatalf("single education not applied: %#v", student.Education)
	}

	doctor := &models.SpecialistUser{Role: models.RoleDoctor}
	err = profile.ApplyPayload(doctor, map[string]any{
		"education": []any{
			map[string]any{"institution": "A", "degree": "MD", "specialty": "X", "startDate": "2010-09-01", "graduationYear": "2016"},
			map[string]any{"institution": "B", "degree": "PhD", "specialty": "Y", "startDate": "2016-09-01", "currentlyStudying": true},
		},
	})
	if err != nil {
		t.Fatalf("apply list: %v", err)
	}
	if len(doctor.Education) != 2 {
		t.Fatalf("education list not applied: %#v", doctor.Education)
	}
}

func TestApplyPayload_RoleChangeBeforeEducation(t *testing.T) {
	u := &models.SpecialistUser{Role: models.RoleDoctor}
	// role switches to student in the same payload, so the single shape applies
	err := profile.ApplyPayload(u, map[string]any{
		"role":      "student",
		"education": map[string]any{"institution": "FMU", "degree": "MD", "specialty": "Peds", "startDate": "2020-09-01"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if u.Role != models.RoleStudent || len(u.Education) != 1 {
		t.Fatalf("role+education not applied: %#v", u)
	}
}

func TestApplyPayload_InvalidRole(t *testing.T) {
	u := &models.SpecialistUser{Role: models.RoleDoctor}
	if err := profile.ApplyPayload(u, map[string]any{"role": "pilot"}); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestApplyPayload_BadFieldType(t *testing.T) {
	u := &models.SpecialistUser{Role: models.RoleDoctor}
	if err := profile.ApplyPayload(u, map[string]any{"bio": 42}); err == nil {
		t.Fatalf("expected error for non-string bio")
	}
}

func TestApplyPayload_UnknownKeysIgnored(t *testing.T) {
	u := &models.SpecialistUser{Role: models.RoleDoctor, Bio: "keep"}
	if err := profile.ApplyPayload(u, map[string]any{"favouriteColor": "blue"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if u.Bio != "keep" {
		t.Fatalf("profile mutated by unknown key")
	}
}
