package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/app/services"
	"github.com/qlgl/catechism-backend/internal/middleware"
)

// GradeController handles grade column and grade endpoints
type GradeController struct {
	gradeService *services.GradeService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService *services.GradeService) *GradeController {
	return &GradeController{gradeService: gradeService}
}

// ListColumns retrieves a class's grade columns
// @Summary List grade columns
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=[]models.GradeColumn} "Grade columns"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id}/grade-columns [get]
func (c *GradeController) ListColumns(ctx *gin.Context) {
	classID, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}

	columns, err := c.gradeService.ListColumns(ctx, classID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(columns))
}

// CreateColumn creates a grade column
// @Summary Create a grade column
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param request body dto.CreateGradeColumnRequest true "Column information"
// @Success 201 {object} dto.APIResponse{data=models.GradeColumn} "Column created"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id}/grade-columns [post]
func (c *GradeController) CreateColumn(ctx *gin.Context) {
	classID, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}

	var req dto.CreateGradeColumnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	column, err := c.gradeService.CreateColumn(ctx, classID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(column))
}

// UpdateColumn modifies a grade column
// @Summary Update a grade column
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param columnId path int true "Grade column ID"
// @Param request body dto.UpdateGradeColumnRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.GradeColumn} "Column updated"
// @Failure 404 {object} dto.ErrorResponse "Grade column not found"
// @Router /classes/{id}/grade-columns/{columnId} [put]
func (c *GradeController) UpdateColumn(ctx *gin.Context) {
	classID, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}
	columnID, ok := parseIDParam(ctx, "columnId", "grade column")
	if !ok {
		return
	}

	var req dto.UpdateGradeColumnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	column, err := c.gradeService.UpdateColumn(ctx, classID, columnID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(column))
}

// DeleteColumn removes a grade column
// @Summary Delete a grade column
// @Description Removes the column and the scores recorded in it
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param columnId path int true "Grade column ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Column deleted"
// @Failure 404 {object} dto.ErrorResponse "Grade column not found"
// @Router /classes/{id}/grade-columns/{columnId} [delete]
func (c *GradeController) DeleteColumn(ctx *gin.Context) {
	classID, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}
	columnID, ok := parseIDParam(ctx, "columnId", "grade column")
	if !ok {
		return
	}

	if err := c.gradeService.DeleteColumn(ctx, classID, columnID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Grade column deleted"}))
}

// UpsertGrade sets a student's score
// @Summary Set a score
// @Description Inserts or overwrites a student's score in a column
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param columnId path int true "Grade column ID"
// @Param request body dto.UpsertGradeRequest true "Score"
// @Success 200 {object} dto.APIResponse{data=models.Grade} "Score saved"
// @Failure 400 {object} dto.ErrorResponse "Score out of range"
// @Failure 404 {object} dto.ErrorResponse "Grade column not found"
// @Router /classes/{id}/grade-columns/{columnId}/grades [post]
func (c *GradeController) UpsertGrade(ctx *gin.Context) {
	classID, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}
	columnID, ok := parseIDParam(ctx, "columnId", "grade column")
	if !ok {
		return
	}

	var req dto.UpsertGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	grade, err := c.gradeService.UpsertGrade(ctx, classID, columnID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(grade))
}

// ClassGrades retrieves the grade matrix of a class
// @Summary Class grade matrix
// @Description Columns in display order and one row per enrolled student
// with the weighted average
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClassGrades} "Grade matrix"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id}/grades [get]
func (c *GradeController) ClassGrades(ctx *gin.Context) {
	classID, ok := parseIDParam(ctx, "id", "class")
	if !ok {
		return
	}

	grades, err := c.gradeService.ClassGrades(ctx, classID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(grades))
}
