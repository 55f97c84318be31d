package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/app/services"
	"github.com/qlgl/catechism-backend/internal/middleware"
)

// AttendanceController handles session and attendance endpoints
type AttendanceController struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService *services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService}
}

// ListSessions retrieves a class's sessions
// @Summary List sessions
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Session} "Sessions"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id}/sessions [get]
func (c *AttendanceController) ListSessions(ctx *gin.Context) {
	classID, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}

	sessions, err := c.attendanceService.ListSessions(ctx, classID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(sessions))
}

// CreateSession creates a session for a class
// @Summary Create a session
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param request body dto.CreateSessionRequest true "Session information"
// @Success 201 {object} dto.APIResponse{data=models.Session} "Session created"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id}/sessions [post]
func (c *AttendanceController) CreateSession(ctx *gin.Context) {
	classID, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}

	var req dto.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	session, err := c.attendanceService.CreateSession(ctx, classID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(session))
}

// DeleteSession removes a session
// @Summary Delete a session
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param sessionId path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Session deleted"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{sessionId} [delete]
func (c *AttendanceController) DeleteSession(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "sessionId", "session")
	if !ok {
		return
	}

	if err := c.attendanceService.DeleteSession(ctx, sessionID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Session deleted"}))
}

// RecordAttendance records attendance for a session
// @Summary Record attendance
// @Description Upserts attendance marks; re-marking a student overwrites
// the earlier status
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path int true "Session ID"
// @Param request body dto.RecordAttendanceRequest true "Attendance entries"
// @Success 200 {object} dto.APIResponse{data=[]models.Attendance} "Attendance recorded"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{sessionId}/attendance [post]
func (c *AttendanceController) RecordAttendance(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "sessionId", "session")
	if !ok {
		return
	}

	var req dto.RecordAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	records, err := c.attendanceService.RecordAttendance(ctx, sessionID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(records))
}

// GetAttendance retrieves a session's attendance records
// @Summary Get attendance
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param sessionId path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Attendance} "Attendance records"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{sessionId}/attendance [get]
func (c *AttendanceController) GetAttendance(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "sessionId", "session")
	if !ok {
		return
	}

	records, err := c.attendanceService.GetAttendance(ctx, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(records))
}

// GetSummary retrieves a session's attendance summary
// @Summary Attendance summary
// @Description Per-status counts against the class's current enrollment
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param sessionId path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=models.AttendanceSummary} "Summary"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{sessionId}/attendance/summary [get]
func (c *AttendanceController) GetSummary(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "sessionId", "session")
	if !ok {
		return
	}

	summary, err := c.attendanceService.GetSummary(ctx, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(summary))
}
