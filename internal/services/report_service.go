package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/campus-suite/registry-service/internal/models"
	"github.com/campus-suite/registry-service/internal/recordstore"
	"github.com/campus-suite/registry-service/internal/schema"
)

// ===== RESPONSE DTOs =====

type OverviewStats struct {
	TotalStudents    int    `json:"total_students"`
	ActiveStudents   int    `json:"active_students"`
	TotalCourses     int    `json:"total_courses"`
	TotalEnrollments int    `json:"total_enrollments"`
	AverageGPA       string `json:"average_gpa"`
}

type AnalyticsReport struct {
	TotalStudents        int            `json:"total_students"`
	TotalCourses         int            `json:"total_courses"`
	TotalGrades          int            `json:"total_grades"`
	AverageGPA           string         `json:"average_gpa"`
	EnrollmentRate       string         `json:"enrollment_rate"`
	YearDistribution     map[string]int `json:"year_distribution"`
	GradeDistribution    map[string]int `json:"grade_distribution"`
	DepartmentEnrollment map[string]int `json:"department_enrollment"`
}

// ScheduleEntry is one course occurrence on a weekday.
type ScheduleEntry struct {
	CourseCode string `json:"course_code"`
	Title      string `json:"title"`
	Time       string `json:"time"`
	Room       string `json:"room"`
	Instructor string `json:"instructor"`
}

// ===== SERVICE INTERFACE =====

type ReportService interface {
	Overview(ctx context.Context) (*OverviewStats, error)
	Analytics(ctx context.Context) (*AnalyticsReport, error)
	WeeklySchedule(ctx context.Context) (map[string][]ScheduleEntry, error)

	// ExportWorkbook renders students, courses, grades and the analytics
	// summary into an xlsx workbook.
	ExportWorkbook(ctx context.Context) ([]byte, error)
}

type reportService struct {
	gateway recordstore.Gateway
	logger  *slog.Logger
}

func NewReportService(gateway recordstore.Gateway, logger *slog.Logger) ReportService {
	return &reportService{gateway: gateway, logger: logger}
}

// reportFetchLimit bounds how many records each report pulls per table;
// aggregates cover at most the newest reportFetchLimit records.
const reportFetchLimit = 1000

func (s *reportService) load(ctx context.Context, table schema.Table) ([]map[string]any, error) {
	recs, err := s.gateway.List(ctx, table.Name, recordstore.ListOptions{
		OrderBy:    "CreatedOn",
		Descending: true,
		Limit:      reportFetchLimit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, table.ToDisplay(rec))
	}
	return out, nil
}

func (s *reportService) Overview(ctx context.Context) (*OverviewStats, error) {
	students, err := s.load(ctx, schema.Students)
	if err != nil {
		return nil, err
	}
	courses, err := s.load(ctx, schema.Courses)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.load(ctx, schema.Enrollments)
	if err != nil {
		return nil, err
	}

	active := 0
	for _, st := range students {
		if schema.Stringify(st["status"]) == string(models.StudentActive) {
			active++
		}
	}

	return &OverviewStats{
		TotalStudents:    len(students),
		ActiveStudents:   active,
		TotalCourses:     len(courses),
		TotalEnrollments: len(enrollments),
		AverageGPA:       averageGPA(students),
	}, nil
}

func (s *reportService) Analytics(ctx context.Context) (*AnalyticsReport, error) {
	students, err := s.load(ctx, schema.Students)
	if err != nil {
		return nil, err
	}
	courses, err := s.load(ctx, schema.Courses)
	if err != nil {
		return nil, err
	}
	grades, err := s.load(ctx, schema.Grades)
	if err != nil {
		return nil, err
	}

	years := make(map[string]int)
	for _, st := range students {
		if y := schema.Stringify(st["year"]); y != "" {
			years[y]++
		}
	}

	letters := make(map[string]int)
	for _, g := range grades {
		if letter := schema.Stringify(g["grade"]); letter != "" {
			letters[letter]++
		}
	}

	departments := make(map[string]int)
	totalCapacity, totalEnrolled := 0, 0
	for _, course := range courses {
		enrolled := intOf(course["enrolled"])
		totalEnrolled += enrolled
		totalCapacity += intOf(course["capacity"])
		if dept := schema.Stringify(course["department"]); dept != "" {
			departments[dept] += enrolled
		}
	}

	rate := "0.0"
	if totalCapacity > 0 {
		rate = fmt.Sprintf("%.1f", float64(totalEnrolled)/float64(totalCapacity)*100)
	}

	return &AnalyticsReport{
		TotalStudents:        len(students),
		TotalCourses:         len(courses),
		TotalGrades:          len(grades),
		AverageGPA:           averageGPA(students),
		EnrollmentRate:       rate,
		YearDistribution:     years,
		GradeDistribution:    letters,
		DepartmentEnrollment: departments,
	}, nil
}

func (s *reportService) WeeklySchedule(ctx context.Context) (map[string][]ScheduleEntry, error) {
	courses, err := s.load(ctx, schema.Courses)
	if err != nil {
		return nil, err
	}

	week := make(map[string][]ScheduleEntry, len(models.Weekdays))
	for _, day := range models.Weekdays {
		week[day] = []ScheduleEntry{}
	}

	for _, course := range courses {
		days, _ := course["days"].([]string)
		entry := ScheduleEntry{
			CourseCode: schema.Stringify(course["courseCode"]),
			Title:      schema.Stringify(course["title"]),
			Time:       schema.Stringify(course["time"]),
			Room:       schema.Stringify(course["room"]),
			Instructor: schema.Stringify(course["instructor"]),
		}
		for _, day := range days {
			if _, ok := week[day]; ok {
				week[day] = append(week[day], entry)
			}
		}
	}

	for day := range week {
		entries := week[day]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Time < entries[j].Time })
		week[day] = entries
	}
	return week, nil
}

func (s *reportService) ExportWorkbook(ctx context.Context) ([]byte, error) {
	students, err := s.load(ctx, schema.Students)
	if err != nil {
		return nil, err
	}
	courses, err := s.load(ctx, schema.Courses)
	if err != nil {
		return nil, err
	}
	grades, err := s.load(ctx, schema.Grades)
	if err != nil {
		return nil, err
	}
	analytics, err := s.Analytics(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	writeSheet := func(sheet string, header []any, rows [][]any) error {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return err
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return err
			}
		}
		return nil
	}

	studentRows := make([][]any, 0, len(students))
	for _, st := range students {
		studentRows = append(studentRows, []any{
			st["studentId"], st["firstName"], st["lastName"], st["email"],
			st["major"], st["year"], st["status"], st["gpa"],
		})
	}
	if err := writeSheet("Students",
		[]any{"Student ID", "First Name", "Last Name", "Email", "Major", "Year", "Status", "GPA"},
		studentRows); err != nil {
		return nil, err
	}

	courseRows := make([][]any, 0, len(courses))
	for _, course := range courses {
		courseRows = append(courseRows, []any{
			course["courseCode"], course["title"], course["department"],
			course["credits"], course["instructor"], course["enrolled"], course["capacity"],
		})
	}
	if err := writeSheet("Courses",
		[]any{"Code", "Title", "Department", "Credits", "Instructor", "Enrolled", "Capacity"},
		courseRows); err != nil {
		return nil, err
	}

	gradeRows := make([][]any, 0, len(grades))
	for _, g := range grades {
		gradeRows = append(gradeRows, []any{
			g["studentId"], g["courseId"], g["grade"], g["points"], g["semester"], g["year"],
		})
	}
	if err := writeSheet("Grades",
		[]any{"Student", "Course", "Grade", "Points", "Semester", "Year"},
		gradeRows); err != nil {
		return nil, err
	}

	if err := writeSheet("Summary",
		[]any{"Metric", "Value"},
		[][]any{
			{"Total Students", analytics.TotalStudents},
			{"Total Courses", analytics.TotalCourses},
			{"Total Grades", analytics.TotalGrades},
			{"Average GPA", analytics.AverageGPA},
			{"Enrollment Rate (%)", analytics.EnrollmentRate},
		}); err != nil {
		return nil, err
	}

	// Drop the default sheet so the workbook opens on Students.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func averageGPA(students []map[string]any) string {
	if len(students) == 0 {
		return "0.00"
	}
	sum := 0.0
	for _, st := range students {
		if gpa, err := strconv.ParseFloat(schema.Stringify(st["gpa"]), 64); err == nil {
			sum += gpa
		}
	}
	return fmt.Sprintf("%.2f", sum/float64(len(students)))
}

func intOf(v any) int {
	n, err := strconv.Atoi(schema.Stringify(v))
	if err != nil {
		return 0
	}
	return n
}
