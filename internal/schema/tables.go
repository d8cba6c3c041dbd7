package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/campus-suite/registry-service/internal/models"
)

func today() string { return time.Now().Format("2006-01-02") }

func currentYear() string { return fmt.Sprint(time.Now().Year()) }

// Students holds identity, academic standing and the extended profile
// attributes (gender, rating, amount paid, hobbies).
var Students = Table{
	Name:  models.TableStudents,
	Label: "Student",
	Fields: []Field{
		{Display: "firstName", Storage: "first_name_c", Kind: Text, Required: true},
		{Display: "lastName", Storage: "last_name_c", Kind: Text, Required: true},
		{Display: "email", Storage: "email_c", Kind: Text, Required: true},
		{Display: "phone", Storage: "phone_c", Kind: Text},
		{Display: "studentId", Storage: "student_id_c", Kind: Text, Required: true},
		{Display: "enrollmentDate", Storage: "enrollment_date_c", Kind: Date},
		{Display: "major", Storage: "major_c", Kind: Text, Required: true},
		{Display: "year", Storage: "year_c", Kind: Text, Required: true},
		{Display: "status", Storage: "status_c", Kind: Text},
		{Display: "gpa", Storage: "gpa_c", Kind: Decimal},
		{Display: "gender", Storage: "gender_c", Kind: Text},
		{Display: "rating", Storage: "rating_c", Kind: Numeric},
		{Display: "amountPaid", Storage: "amount_paid_c", Kind: Decimal},
		{Display: "hobbies", Storage: "hobbies_c", Kind: Set},
	},
	Searchable: []string{"firstName", "lastName", "email", "studentId", "major", "gender", "hobbies"},
	Defaults: func() map[string]any {
		return map[string]any{
			"status":         string(models.StudentActive),
			"enrollmentDate": today(),
		}
	},
	NameOf: func(draft map[string]any) string {
		return strings.TrimSpace(Stringify(draft["firstName"]) + " " + Stringify(draft["lastName"]))
	},
}

// Courses carries scheduling, contact and the extended form-only fields the
// course editor exposes (specializations, topics, delivery methods,
// difficulty, experience level, active flag).
var Courses = Table{
	Name:  models.TableCourses,
	Label: "Course",
	Fields: []Field{
		{Display: "courseCode", Storage: "course_code_c", Kind: Text, Required: true},
		{Display: "title", Storage: "title_c", Kind: Text, Required: true},
		{Display: "credits", Storage: "credits_c", Kind: Numeric, Required: true},
		{Display: "department", Storage: "department_c", Kind: Text, Required: true},
		{Display: "semester", Storage: "semester_c", Kind: Text},
		{Display: "year", Storage: "year_c", Kind: Numeric},
		{Display: "capacity", Storage: "capacity_c", Kind: Numeric, Required: true},
		{Display: "enrolled", Storage: "enrolled_c", Kind: Numeric},
		{Display: "instructor", Storage: "instructor_c", Kind: Text, Required: true},
		{Display: "room", Storage: "room_c", Kind: Text},
		{Display: "days", Storage: "days_c", Kind: Set},
		{Display: "time", Storage: "time_c", Kind: Text},
		{Display: "phone", Storage: "phone_c", Kind: Text},
		{Display: "email", Storage: "email_c", Kind: Text},
		{Display: "website", Storage: "website_c", Kind: Text},
		{Display: "amount", Storage: "amount_c", Kind: Decimal},
		{Display: "specializations", Storage: "specializations_c", Kind: Set},
		{Display: "topics", Storage: "topics_c", Kind: Set},
		{Display: "deliveryMethods", Storage: "delivery_methods_c", Kind: Set},
		{Display: "difficulty", Storage: "difficulty_c", Kind: Text},
		{Display: "experienceLevel", Storage: "experience_level_c", Kind: Text},
		{Display: "isActive", Storage: "is_active_c", Kind: Bool},
	},
	Searchable: []string{"title", "courseCode", "department", "instructor", "phone", "email", "website"},
	Defaults: func() map[string]any {
		return map[string]any{
			"semester": string(models.SemesterSpring),
			"year":     currentYear(),
			"isActive": true,
		}
	},
	NameOf: func(draft map[string]any) string {
		return strings.TrimSpace(Stringify(draft["courseCode"]) + " - " + Stringify(draft["title"]))
	},
}

// Grades link students to courses with a letter grade and its GPA points.
var Grades = Table{
	Name:  models.TableGrades,
	Label: "Grade",
	Fields: []Field{
		{Display: "studentId", Storage: "student_id_c", Kind: Numeric, Required: true},
		{Display: "courseId", Storage: "course_id_c", Kind: Numeric, Required: true},
		{Display: "grade", Storage: "grade_c", Kind: Text, Required: true},
		{Display: "points", Storage: "points_c", Kind: Decimal},
		{Display: "semester", Storage: "semester_c", Kind: Text, Required: true},
		{Display: "year", Storage: "year_c", Kind: Numeric, Required: true},
		{Display: "dateEntered", Storage: "date_entered_c", Kind: Date},
	},
	Searchable: []string{"grade", "semester"},
	Defaults: func() map[string]any {
		return map[string]any{
			"semester":    string(models.SemesterSpring),
			"year":        currentYear(),
			"dateEntered": today(),
		}
	},
	NameOf: func(draft map[string]any) string {
		return strings.TrimSpace(fmt.Sprintf("%s - %s %s",
			Stringify(draft["grade"]), Stringify(draft["semester"]), Stringify(draft["year"])))
	},
	// Choosing a letter fills points from the fixed table; points stay
	// independently editable afterwards.
	OnChange: func(field string, value any, draft map[string]any) {
		if field != "grade" {
			return
		}
		if pts, ok := models.GradePoints[Stringify(value)]; ok {
			draft["points"] = Stringify(pts)
		} else {
			draft["points"] = ""
		}
	},
}

// Enrollments link students to courses with a status and attendance.
var Enrollments = Table{
	Name:  models.TableEnrollments,
	Label: "Enrollment",
	Fields: []Field{
		{Display: "studentId", Storage: "student_id_c", Kind: Numeric, Required: true},
		{Display: "courseId", Storage: "course_id_c", Kind: Numeric, Required: true},
		{Display: "enrollmentDate", Storage: "enrollment_date_c", Kind: Date, Required: true},
		{Display: "status", Storage: "status_c", Kind: Text, Required: true},
		{Display: "attendance", Storage: "attendance_c", Kind: Numeric},
	},
	Searchable: []string{"status"},
	Defaults: func() map[string]any {
		return map[string]any{
			"enrollmentDate": today(),
			"status":         string(models.EnrollmentEnrolled),
			"attendance":     "100",
		}
	},
	NameOf: func(draft map[string]any) string {
		return "Enrollment - " + Stringify(draft["enrollmentDate"])
	},
}

// Documents carry file metadata only; blob storage is out of scope.
var Documents = Table{
	Name:  models.TableDocuments,
	Label: "Document",
	Fields: []Field{
		{Display: "title", Storage: "title_c", Kind: Text, Required: true},
		{Display: "description", Storage: "description_c", Kind: Text},
		{Display: "category", Storage: "category_c", Kind: Text, Required: true},
		{Display: "fileName", Storage: "file_name_c", Kind: Text},
		{Display: "fileSize", Storage: "file_size_c", Kind: Numeric},
		{Display: "fileType", Storage: "file_type_c", Kind: Text},
		{Display: "fileUrl", Storage: "file_url_c", Kind: Text},
		{Display: "uploadDate", Storage: "upload_date_c", Kind: Date},
		{Display: "status", Storage: "status_c", Kind: Text},
		{Display: "uploadedBy", Storage: "uploaded_by_c", Kind: Text},
		{Display: "lastModified", Storage: "last_modified_c", Kind: Date},
		{Display: "studentId", Storage: "student_id_c", Kind: Numeric, Required: true},
	},
	Searchable: []string{"title", "description", "category", "fileName"},
	Defaults: func() map[string]any {
		return map[string]any{
			"status":     string(models.DocumentActive),
			"uploadDate": today(),
		}
	},
	NameOf: func(draft map[string]any) string {
		if title := Stringify(draft["title"]); title != "" {
			return title
		}
		return "Document"
	},
}

// All lists every entity table, keyed by URL resource name.
var All = map[string]Table{
	"students":    Students,
	"courses":     Courses,
	"grades":      Grades,
	"enrollments": Enrollments,
	"documents":   Documents,
}
