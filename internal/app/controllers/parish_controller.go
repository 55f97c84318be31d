package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/app/services"
	"github.com/qlgl/catechism-backend/internal/middleware"
)

// ParishController handles parish endpoints
type ParishController struct {
	parishService *services.ParishService
}

// NewParishController creates a new ParishController
func NewParishController(parishService *services.ParishService) *ParishController {
	return &ParishController{parishService: parishService}
}

// List retrieves all parishes
// @Summary List parishes
// @Tags parishes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Parish} "Parishes"
// @Router /parishes [get]
func (c *ParishController) List(ctx *gin.Context) {
	parishes, err := c.parishService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(parishes))
}

// Get retrieves a parish
// @Summary Get parish details
// @Tags parishes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parish ID"
// @Success 200 {object} dto.APIResponse{data=models.Parish} "Parish"
// @Failure 404 {object} dto.ErrorResponse "Parish not found"
// @Router /parishes/{id} [get]
func (c *ParishController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "parish")
	if !ok {
		return
	}

	parish, err := c.parishService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(parish))
}

// Create creates a parish
// @Summary Create a parish
// @Tags parishes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateParishRequest true "Parish information"
// @Success 201 {object} dto.APIResponse{data=models.Parish} "Parish created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /parishes [post]
func (c *ParishController) Create(ctx *gin.Context) {
	var req dto.CreateParishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	parish, err := c.parishService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(parish))
}

// Update modifies a parish
// @Summary Update a parish
// @Tags parishes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parish ID"
// @Param request body dto.UpdateParishRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Parish} "Parish updated"
// @Failure 404 {object} dto.ErrorResponse "Parish not found"
// @Router /parishes/{id} [put]
func (c *ParishController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "parish")
	if !ok {
		return
	}

	var req dto.UpdateParishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	parish, err := c.parishService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(parish))
}

// Delete removes a parish
// @Summary Delete a parish
// @Description Removes a parish. Students keep their records with the
// parish reference cleared.
// @Tags parishes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parish ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Parish deleted"
// @Failure 404 {object} dto.ErrorResponse "Parish not found"
// @Router /parishes/{id} [delete]
func (c *ParishController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "parish")
	if !ok {
		return
	}

	if err := c.parishService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Parish deleted"}))
}
