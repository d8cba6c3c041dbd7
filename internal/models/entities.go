package models

// Table names as exposed by the hosted record store. Every entity table
// carries both the canonical "_c" suffixed fields and the legacy unsuffixed
// ones; only internal/schema is allowed to know both spellings.
const (
	TableStudents    = "student_c"
	TableCourses     = "course_c"
	TableGrades      = "grade_c"
	TableEnrollments = "enrollment_c"
	TableDocuments   = "document_c"
)

type StudentStatus string

const (
	StudentActive   StudentStatus = "Active"
	StudentInactive StudentStatus = "Inactive"
)

type AcademicYear string

const (
	YearFreshman  AcademicYear = "Freshman"
	YearSophomore AcademicYear = "Sophomore"
	YearJunior    AcademicYear = "Junior"
	YearSenior    AcademicYear = "Senior"
	YearGraduate  AcademicYear = "Graduate"
)

type Semester string

const (
	SemesterSpring Semester = "Spring"
	SemesterSummer Semester = "Summer"
	SemesterFall   Semester = "Fall"
)

type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "Enrolled"
	EnrollmentWaitlist  EnrollmentStatus = "Waitlisted"
	EnrollmentDropped   EnrollmentStatus = "Dropped"
	EnrollmentCompleted EnrollmentStatus = "Completed"
)

type DocumentCategory string

const (
	CategoryTranscript  DocumentCategory = "Transcript"
	CategoryCertificate DocumentCategory = "Certificate"
	CategoryReportCard  DocumentCategory = "Report Card"
	CategoryDiploma     DocumentCategory = "Diploma"
	CategoryLetter      DocumentCategory = "Letter"
	CategoryOther       DocumentCategory = "Other"
)

type DocumentStatus string

const (
	DocumentActive   DocumentStatus = "Active"
	DocumentArchived DocumentStatus = "Archived"
	DocumentPending  DocumentStatus = "Pending"
)

// Weekdays selectable on a course schedule, in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// GradePoints maps a letter grade to its GPA points. The points field of a
// new grade draft is filled from this table whenever the letter changes;
// edits that leave the letter untouched keep whatever points are stored.
var GradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "D-": 0.7,
	"F": 0.0,
}

// LetterGrades lists every letter accepted in a grade draft, best first.
var LetterGrades = []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "D-", "F"}
