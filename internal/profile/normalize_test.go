package profile

import (
	"encoding/json"
	"testing"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

func TestEducationToWire(t *testing.T) {
	list := []models.Education{
		{Institution: "A", Degree: "MD", Specialty: "S", StartDate: "2020", GraduationYear: "2026"},
		{Institution: "B", Degree: "PhD", Specialty: "S", StartDate: "2021", GraduationYear: "2025"},
	}

	if got := EducationToWire(models.RoleDoctor, list); len(got.([]models.Education)) != 2 {
		t.Fatalf("doctor education should stay a list: %#v", got)
	}

	single, ok := EducationToWire(models.RoleStudent, list).(models.Education)
	if !ok || single.Institution != "A" {
		t.Fatalf("student education should be the first record: %#v", single)
	}

	if got := EducationToWire(models.RoleStudent, nil); got != nil {
		t.Fatalf("empty student education should map to nil, got %#v", got)
	}
}

func TestEducationFromWire(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		raw     string
		wantLen int
		wantErr bool
	}{
		{name: "list for doctor", role: models.RoleDoctor, raw: `[{"institution":"A","degree":"MD","specialty":"S","startDate":"2020"}]`, wantLen: 1},
		{name: "single for student", role: models.RoleStudent, raw: `{"institution":"A","degree":"MD","specialty":"S","startDate":"2020"}`, wantLen: 1},
		{name: "single for doctor accepted", role: models.RoleDoctor, raw: `{"institution":"A","degree":"MD","specialty":"S","startDate":"2020"}`, wantLen: 1},
		{name: "list for student truncated", role: models.RoleStudent, raw: `[{"institution":"A","degree":"MD","specialty":"S","startDate":"2020"},{"institution":"B","degree":"MD","specialty":"S","startDate":"2021"}]`, wantLen: 1},
		{name: "null", role: models.RoleStudent, raw: `null`, wantLen: 0},
		{name: "garbage", role: models.RoleStudent, raw: `42`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EducationFromWire(tc.role, json.RawMessage(tc.raw))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %#v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tc.wantLen {
				t.Fatalf("expected %d records, got %#v", tc.wantLen, got)
			}
		})
	}
}
