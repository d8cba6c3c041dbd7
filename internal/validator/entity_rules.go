package validator

// Per-entity rule sets. Order is part of the contract: when several rules
// watch one field, the earlier message is the one users see.

var StudentRules = RuleSet{
	{Field: "firstName", Kind: Required, Message: "First name is required"},
	{Field: "lastName", Kind: Required, Message: "Last name is required"},
	{Field: "email", Kind: Required, Message: "Email is required"},
	{Field: "email", Kind: Email, Message: "Email is invalid"},
	{Field: "studentId", Kind: Required, Message: "Student ID is required"},
	{Field: "major", Kind: Required, Message: "Major is required"},
	{Field: "year", Kind: RequiredSelect, Message: "Year is required"},
}

var CourseRules = RuleSet{
	{Field: "courseCode", Kind: Required, Message: "Course code is required"},
	{Field: "title", Kind: Required, Message: "Course title is required"},
	{Field: "credits", Kind: RequiredNumeric, Message: "Valid credits required"},
	{Field: "department", Kind: Required, Message: "Department is required"},
	{Field: "capacity", Kind: RequiredNumeric, Message: "Valid capacity required"},
	{Field: "instructor", Kind: Required, Message: "Instructor is required"},
	{Field: "days", Kind: SetNonEmpty, Message: "At least one day must be selected"},
	{Field: "time", Kind: Required, Message: "Time is required"},
	{Field: "email", Kind: Email, Message: "Email is invalid"},
	{Field: "website", Kind: URL, Message: "Website must be a valid URL"},
	{Field: "experienceLevel", Kind: RangeSeparator, Message: "Experience level must be a range"},
}

var GradeRules = RuleSet{
	{Field: "studentId", Kind: RequiredSelect, Message: "Student is required"},
	{Field: "courseId", Kind: RequiredSelect, Message: "Course is required"},
	{Field: "grade", Kind: RequiredSelect, Message: "Grade is required"},
	{Field: "semester", Kind: RequiredSelect, Message: "Semester is required"},
	{Field: "year", Kind: Required, Message: "Year is required"},
}

var EnrollmentRules = RuleSet{
	{Field: "studentId", Kind: RequiredSelect, Message: "Student is required"},
	{Field: "courseId", Kind: RequiredSelect, Message: "Course is required"},
	{Field: "enrollmentDate", Kind: Required, Message: "Enrollment date is required"},
	{Field: "status", Kind: RequiredSelect, Message: "Status is required"},
}

var DocumentRules = RuleSet{
	{Field: "title", Kind: Required, Message: "Title is required"},
	{Field: "category", Kind: RequiredSelect, Message: "Category is required"},
	{Field: "studentId", Kind: RequiredSelect, Message: "Student selection is required"},
}

// ForTable returns the rule set of a URL resource name.
var ForTable = map[string]RuleSet{
	"students":    StudentRules,
	"courses":     CourseRules,
	"grades":      GradeRules,
	"enrollments": EnrollmentRules,
	"documents":   DocumentRules,
}
