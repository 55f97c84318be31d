package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qlgl/catechism-backend/internal/app/controllers"
	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	parishController *controllers.ParishController,
	classController *controllers.ClassController,
	attendanceController *controllers.AttendanceController,
	gradeController *controllers.GradeController,
	scheduleController *controllers.ScheduleController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.POST("/auth/logout", authController.Logout)
	authenticated.GET("/auth/me", authController.Me)

	// Account creation is reserved for administrators.
	adminOnly := authMiddleware.RoleRequired(models.RoleSuperAdmin, models.RoleParishAdmin)
	authenticated.POST("/auth/register", adminOnly, authController.Register)

	// Parish reference data: readable by any authenticated user, mutable by
	// administrators.
	parishes := authenticated.Group("/parishes")
	{
		parishes.GET("", parishController.List)
		parishes.GET("/:id", parishController.Get)
		parishes.POST("", adminOnly, parishController.Create)
		parishes.PUT("/:id", adminOnly, parishController.Update)
		parishes.DELETE("/:id", adminOnly, parishController.Delete)
	}

	students := authenticated.Group("/students")
	{
		students.GET("", studentController.List)
		students.GET("/stats", studentController.Stats)
		students.GET("/:id", studentController.Get)
		students.GET("/:id/guardians", studentController.ListGuardians)

		students.POST("", adminOnly, studentController.Create)
		students.PATCH("/:id", adminOnly, studentController.Update)
		students.DELETE("/:id", adminOnly, studentController.Delete)
		students.POST("/:id/guardians", adminOnly, studentController.AddGuardian)
		students.PATCH("/:id/guardians/:guardianId", adminOnly, studentController.UpdateGuardian)
		students.DELETE("/:id/guardians/:guardianId", adminOnly, studentController.RemoveGuardian)
	}

	classes := authenticated.Group("/classes")
	{
		classes.GET("", classController.List)
		classes.GET("/:id", classController.Get)
		classes.POST("", adminOnly, classController.Create)
		classes.PUT("/:id", adminOnly, classController.Update)
		classes.DELETE("/:id", adminOnly, classController.Delete)
		classes.POST("/:id/students", adminOnly, classController.Enroll)
		classes.DELETE("/:id/students/:studentId", adminOnly, classController.Unenroll)

		// Catechists run their own sessions and grading.
		classes.GET("/:id/sessions", attendanceController.ListSessions)
		classes.POST("/:id/sessions", attendanceController.CreateSession)
		classes.GET("/:id/grade-columns", gradeController.ListColumns)
		classes.POST("/:id/grade-columns", gradeController.CreateColumn)
		classes.PUT("/:id/grade-columns/:columnId", gradeController.UpdateColumn)
		classes.DELETE("/:id/grade-columns/:columnId", gradeController.DeleteColumn)
		classes.POST("/:id/grade-columns/:columnId/grades", gradeController.UpsertGrade)
		classes.GET("/:id/grades", gradeController.ClassGrades)
	}

	sessions := authenticated.Group("/sessions")
	{
		sessions.DELETE("/:sessionId", attendanceController.DeleteSession)
		sessions.GET("/:sessionId/attendance", attendanceController.GetAttendance)
		sessions.POST("/:sessionId/attendance", attendanceController.RecordAttendance)
		sessions.GET("/:sessionId/attendance/summary", attendanceController.GetSummary)
	}

	schedules := authenticated.Group("/schedules")
	{
		schedules.GET("", scheduleController.List)
		schedules.POST("", adminOnly, scheduleController.Create)
		schedules.PUT("/:id", adminOnly, scheduleController.Update)
		schedules.DELETE("/:id", adminOnly, scheduleController.Delete)
	}
}
