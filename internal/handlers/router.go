package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-suite/registry-service/internal/recordstore"
	"github.com/campus-suite/registry-service/internal/services"
	"github.com/campus-suite/registry-service/internal/utils"
)

type HandlerManager struct {
	studentHandler    *EntityHandler
	courseHandler     *EntityHandler
	gradeHandler      *EntityHandler
	enrollmentHandler *EntityHandler
	documentHandler   *EntityHandler
	reportHandler     *ReportHandler

	gateway recordstore.Gateway
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	gateway recordstore.Gateway,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		studentHandler:    NewEntityHandler(serviceManager.Students(), logger),
		courseHandler:     NewEntityHandler(serviceManager.Courses(), logger),
		gradeHandler:      NewEntityHandler(serviceManager.Grades(), logger),
		enrollmentHandler: NewEntityHandler(serviceManager.Enrollments(), logger),
		documentHandler:   NewEntityHandler(serviceManager.Documents(), logger),
		reportHandler:     NewReportHandler(serviceManager.Reports(), logger),
		gateway:           gateway,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		students := v1.Group("/students")
		{
			students.GET("", hm.studentHandler.List)
			students.POST("", hm.studentHandler.Create)
			students.GET("/:id", hm.studentHandler.Get)
			students.PUT("/:id", hm.studentHandler.Update)
			students.DELETE("/:id", hm.studentHandler.Delete)

			// Related collections keyed by the student's identity
			students.GET("/:id/grades", hm.gradeHandler.ListBy("studentId"))
			students.GET("/:id/enrollments", hm.enrollmentHandler.ListBy("studentId"))
			students.GET("/:id/documents", hm.documentHandler.ListBy("studentId"))
		}

		courses := v1.Group("/courses")
		{
			courses.GET("", hm.courseHandler.List)
			courses.POST("", hm.courseHandler.Create)
			courses.GET("/:id", hm.courseHandler.Get)
			courses.PUT("/:id", hm.courseHandler.Update)
			courses.DELETE("/:id", hm.courseHandler.Delete)

			courses.GET("/:id/grades", hm.gradeHandler.ListBy("courseId"))
			courses.GET("/:id/enrollments", hm.enrollmentHandler.ListBy("courseId"))
		}

		grades := v1.Group("/grades")
		{
			grades.GET("", hm.gradeHandler.List)
			grades.POST("", hm.gradeHandler.Create)
			grades.GET("/:id", hm.gradeHandler.Get)
			grades.PUT("/:id", hm.gradeHandler.Update)
			grades.DELETE("/:id", hm.gradeHandler.Delete)
		}

		enrollments := v1.Group("/enrollments")
		{
			enrollments.GET("", hm.enrollmentHandler.List)
			enrollments.POST("", hm.enrollmentHandler.Create)
			enrollments.GET("/:id", hm.enrollmentHandler.Get)
			enrollments.PUT("/:id", hm.enrollmentHandler.Update)
			enrollments.DELETE("/:id", hm.enrollmentHandler.Delete)
		}

		documents := v1.Group("/documents")
		{
			documents.GET("", hm.documentHandler.List)
			documents.POST("", hm.documentHandler.Create)
			documents.GET("/:id", hm.documentHandler.Get)
			documents.PUT("/:id", hm.documentHandler.Update)
			documents.DELETE("/:id", hm.documentHandler.Delete)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/overview", hm.reportHandler.GetOverview)
			reports.GET("/analytics", hm.reportHandler.GetAnalytics)
			reports.GET("/schedule", hm.reportHandler.GetSchedule)
			reports.GET("/export", hm.reportHandler.ExportWorkbook)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := 200
		if err := hm.gateway.Ping(c.Request.Context()); err != nil {
			status = "degraded"
			code = 503
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": "registry-service",
		})
	})
}
