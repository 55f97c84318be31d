package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/app/services"
	"github.com/qlgl/catechism-backend/internal/middleware"
)

// ClassController handles class and enrollment endpoints
type ClassController struct {
	classService *services.ClassService
}

// NewClassController creates a new ClassController
func NewClassController(classService *services.ClassService) *ClassController {
	return &ClassController{classService: classService}
}

// List retrieves classes
// @Summary List classes
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param academicYear query string false "Filter by academic year"
// @Param teacherId query int false "Filter by teacher"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Classes"
// @Router /classes [get]
func (c *ClassController) List(ctx *gin.Context) {
	var filter dto.ClassFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	classes, meta, err := c.classService.List(ctx, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{Data: classes, Meta: meta}))
}

// Get retrieves a class
// @Summary Get class details
// @Description Retrieves a class with its teacher and current roster
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=models.Class} "Class"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id} [get]
func (c *ClassController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}

	class, err := c.classService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(class))
}

// Create creates a class
// @Summary Create a class
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClassRequest true "Class information"
// @Success 201 {object} dto.APIResponse{data=models.Class} "Class created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /classes [post]
func (c *ClassController) Create(ctx *gin.Context) {
	var req dto.CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	class, err := c.classService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(class))
}

// Update modifies a class
// @Summary Update a class
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param request body dto.UpdateClassRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Class} "Class updated"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id} [put]
func (c *ClassController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}

	var req dto.UpdateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	class, err := c.classService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(class))
}

// Delete removes a class
// @Summary Delete a class
// @Description Removes a class with its enrollments, sessions and grades
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Class deleted"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id} [delete]
func (c *ClassController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}

	if err := c.classService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Class deleted"}))
}

// Enroll adds a student to a class
// @Summary Enroll a student
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param request body dto.EnrollStudentRequest true "Student to enroll"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Student enrolled"
// @Failure 404 {object} dto.ErrorResponse "Class or student not found"
// @Failure 409 {object} dto.ErrorResponse "Student already enrolled"
// @Router /classes/{id}/students [post]
func (c *ClassController) Enroll(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}

	var req dto.EnrollStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	enrollment, err := c.classService.Enroll(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(enrollment))
}

// Unenroll removes a student from a class
// @Summary Unenroll a student
// @Description Marks the enrollment as left; the record stays for history
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student unenrolled"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /classes/{id}/students/{studentId} [delete]
func (c *ClassController) Unenroll(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}
	studentID, ok := parseIDParam(ctx, "studentId", "student")
	if !ok {
		return
	}

	if err := c.classService.Unenroll(ctx, id, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student unenrolled"}))
}
