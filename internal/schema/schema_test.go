package schema

import (
	"errors"
	"reflect"
	"testing"

	"github.com/campus-suite/registry-service/internal/recordstore"
)

func TestStudentToDisplay(t *testing.T) {
	rec := recordstore.Record{
		"Id":           float64(7),
		"first_name_c": "Ada",
		"last_name_c":  "Lovelace",
		"email_c":      "ada@example.edu",
		"gpa_c":        3.85,
		"rating_c":     float64(4),
		"hobbies_c":    "Reading, Chess,Music",
	}

	model := Students.ToDisplay(rec)

	if model["Id"] != 7 {
		t.Errorf("Id = %v, want 7", model["Id"])
	}
	if model["firstName"] != "Ada" {
		t.Errorf("firstName = %v", model["firstName"])
	}
	if model["gpa"] != "3.85" {
		t.Errorf("gpa = %v, want string \"3.85\"", model["gpa"])
	}
	if model["rating"] != "4" {
		t.Errorf("rating = %v, want string \"4\"", model["rating"])
	}
	if got, want := model["hobbies"], []string{"Reading", "Chess", "Music"}; !reflect.DeepEqual(got, want) {
		t.Errorf("hobbies = %v, want %v", got, want)
	}
	// Absent fields come back as zero display values, not nil.
	if model["phone"] != "" {
		t.Errorf("phone = %v, want empty string", model["phone"])
	}
}

func TestToDisplayLegacyFallback(t *testing.T) {
	rec := recordstore.Record{
		"Id":           float64(3),
		"firstName":    "Grace",
		"last_name_c":  "Hopper",
		"student_id_c": "STU-001",
	}

	model := Students.ToDisplay(rec)

	if model["firstName"] != "Grace" {
		t.Errorf("legacy firstName not read: %v", model["firstName"])
	}
	if model["lastName"] != "Hopper" {
		t.Errorf("canonical lastName = %v", model["lastName"])
	}
}

func TestStudentToStorage(t *testing.T) {
	model := map[string]any{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.edu",
		"studentId": "STU-042",
		"major":     "Mathematics",
		"year":      "Sophomore",
		"gpa":       "3.85",
		"rating":    "4",
		"hobbies":   []string{"Reading", "Chess"},
		"Id":        42, // must not leak into storage
	}

	rec, err := Students.ToStorage(model)
	if err != nil {
		t.Fatalf("ToStorage() error = %v", err)
	}

	if rec["first_name_c"] != "Ada" {
		t.Errorf("first_name_c = %v", rec["first_name_c"])
	}
	if rec["gpa_c"] != 3.85 {
		t.Errorf("gpa_c = %v, want float 3.85", rec["gpa_c"])
	}
	if rec["rating_c"] != 4 {
		t.Errorf("rating_c = %v, want int 4", rec["rating_c"])
	}
	if rec["hobbies_c"] != "Reading,Chess" {
		t.Errorf("hobbies_c = %v", rec["hobbies_c"])
	}
	if rec["Name"] != "Ada Lovelace" {
		t.Errorf("Name = %v", rec["Name"])
	}
	if _, ok := rec["Id"]; ok {
		t.Error("identity leaked into storage record")
	}
}

func TestToStorageNumericErrors(t *testing.T) {
	tests := []struct {
		name    string
		model   map[string]any
		wantErr bool
	}{
		{
			name:    "required numeric empty",
			model:   map[string]any{"courseCode": "CS101", "title": "Intro", "credits": ""},
			wantErr: true,
		},
		{
			name:    "required numeric garbage",
			model:   map[string]any{"courseCode": "CS101", "title": "Intro", "credits": "three", "capacity": "30"},
			wantErr: true,
		},
		{
			name:    "optional numeric empty becomes zero",
			model:   map[string]any{"courseCode": "CS101", "title": "Intro", "credits": "3", "capacity": "30", "enrolled": ""},
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Courses.ToStorage(tt.model)
			if tt.wantErr {
				var numErr *InvalidNumericError
				if !errors.As(err, &numErr) {
					t.Fatalf("ToStorage() error = %v, want InvalidNumericError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToStorage() error = %v", err)
			}
			if rec["enrolled_c"] != 0 {
				t.Errorf("enrolled_c = %v, want 0", rec["enrolled_c"])
			}
		})
	}
}

func TestRoundTripPreservesDisplayModel(t *testing.T) {
	model := map[string]any{
		"studentId":   "5",
		"courseId":    "9",
		"grade":       "B+",
		"points":      "3.3",
		"semester":    "Fall",
		"year":        "2026",
		"dateEntered": "2026-08-29",
	}

	rec, err := Grades.ToStorage(model)
	if err != nil {
		t.Fatalf("ToStorage() error = %v", err)
	}
	rec["Id"] = 1
	back := Grades.ToDisplay(rec)

	for k, want := range model {
		if got := back[k]; got != want {
			t.Errorf("round trip %s = %v, want %v", k, got, want)
		}
	}
}

func TestRoundTripCanonicalizesNumericText(t *testing.T) {
	model := map[string]any{
		"studentId": "05", "courseId": "9", "grade": "A",
		"points": "4.0", "semester": "Fall", "year": "2026",
	}

	rec, err := Grades.ToStorage(model)
	if err != nil {
		t.Fatalf("ToStorage() error = %v", err)
	}
	back := Grades.ToDisplay(rec)

	if back["points"] != "4" {
		t.Errorf(`points = %v, want canonical "4"`, back["points"])
	}
	if back["studentId"] != "5" {
		t.Errorf(`studentId = %v, want canonical "5"`, back["studentId"])
	}
}

func TestGradeOnChangeFillsPoints(t *testing.T) {
	draft := map[string]any{"grade": "", "points": ""}

	Grades.OnChange("grade", "A", draft)
	if draft["points"] != "4" {
		t.Errorf("points after A = %v, want \"4\"", draft["points"])
	}

	Grades.OnChange("grade", "B+", draft)
	if draft["points"] != "3.3" {
		t.Errorf("points after B+ = %v, want \"3.3\"", draft["points"])
	}

	Grades.OnChange("grade", "not-a-grade", draft)
	if draft["points"] != "" {
		t.Errorf("points after unknown letter = %v, want empty", draft["points"])
	}

	// Editing an unrelated field leaves points alone.
	draft["points"] = "2.0"
	Grades.OnChange("semester", "Fall", draft)
	if draft["points"] != "2.0" {
		t.Errorf("points after semester edit = %v", draft["points"])
	}
}

func TestCourseDefaults(t *testing.T) {
	defaults := Courses.Defaults()
	if defaults["semester"] != "Spring" {
		t.Errorf("semester default = %v", defaults["semester"])
	}
	if defaults["isActive"] != true {
		t.Errorf("isActive default = %v", defaults["isActive"])
	}
}

func TestSearchText(t *testing.T) {
	if got := SearchText([]string{"Reading", "Chess"}); got != "reading chess" {
		t.Errorf("SearchText(set) = %q", got)
	}
	if got := SearchText("CS101"); got != "cs101" {
		t.Errorf("SearchText(string) = %q", got)
	}
}
