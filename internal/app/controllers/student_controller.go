package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/app/services"
	"github.com/qlgl/catechism-backend/internal/middleware"
)

// StudentController handles student and guardian endpoints
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// List retrieves students
// @Summary List students
// @Description Retrieves active students with search, filters and pagination
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match against name, code or saint name"
// @Param gender query string false "MALE, FEMALE or OTHER"
// @Param parishId query int false "Filter by parish"
// @Param classId query int false "Filter by current class"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param sortBy query string false "fullName, code, dateOfBirth or createdAt"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Students"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	var filter dto.StudentFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	students, meta, err := c.studentService.List(ctx, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{Data: students, Meta: meta}))
}

// Stats retrieves student statistics
// @Summary Student statistics
// @Description Total active students, counts per gender and top parishes
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentStats} "Statistics"
// @Router /students/stats [get]
func (c *StudentController) Stats(ctx *gin.Context) {
	stats, err := c.studentService.Stats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}

// Get retrieves a student
// @Summary Get student details
// @Description Retrieves a student with parish, guardians and enrollments
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student")
	if !ok {
		return
	}

	student, err := c.studentService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// Create registers a student
// @Summary Create a student
// @Description Creates a student together with at least one guardian
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Student code already exists"
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	student, err := c.studentService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(student))
}

// Update modifies a student
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [patch]
func (c *StudentController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	student, err := c.studentService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// Delete deactivates a student
// @Summary Deactivate a student
// @Description Soft-deletes the student; history stays readable
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student deactivated"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student")
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student deactivated"}))
}

// ListGuardians retrieves a student's guardians
// @Summary List guardians
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Guardian} "Guardians"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/guardians [get]
func (c *StudentController) ListGuardians(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student")
	if !ok {
		return
	}

	guardians, err := c.studentService.ListGuardians(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(guardians))
}

// AddGuardian adds a guardian to a student
// @Summary Add a guardian
// @Description Adds a guardian; marking it primary demotes the current one
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.CreateGuardianRequest true "Guardian information"
// @Success 201 {object} dto.APIResponse{data=models.Guardian} "Guardian added"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/guardians [post]
func (c *StudentController) AddGuardian(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student")
	if !ok {
		return
	}

	var req dto.CreateGuardianRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	guardian, err := c.studentService.AddGuardian(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(guardian))
}

// UpdateGuardian modifies a guardian
// @Summary Update a guardian
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param guardianId path int true "Guardian ID"
// @Param request body dto.UpdateGuardianRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Guardian} "Guardian updated"
// @Failure 404 {object} dto.ErrorResponse "Guardian not found"
// @Router /students/{id}/guardians/{guardianId} [patch]
func (c *StudentController) UpdateGuardian(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student")
	if !ok {
		return
	}
	guardianID, ok := parseIDParam(ctx, "guardianId", "guardian")
	if !ok {
		return
	}

	var req dto.UpdateGuardianRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	guardian, err := c.studentService.UpdateGuardian(ctx, id, guardianID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(guardian))
}

// RemoveGuardian deletes a guardian
// @Summary Remove a guardian
// @Description Removes a guardian. The last guardian cannot be removed;
// removing the primary promotes the earliest remaining one.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param guardianId path int true "Guardian ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Guardian removed"
// @Failure 400 {object} dto.ErrorResponse "Last guardian cannot be removed"
// @Failure 404 {object} dto.ErrorResponse "Guardian not found"
// @Router /students/{id}/guardians/{guardianId} [delete]
func (c *StudentController) RemoveGuardian(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student")
	if !ok {
		return
	}
	guardianID, ok := parseIDParam(ctx, "guardianId", "guardian")
	if !ok {
		return
	}

	if err := c.studentService.RemoveGuardian(ctx, id, guardianID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Guardian removed"}))
}
