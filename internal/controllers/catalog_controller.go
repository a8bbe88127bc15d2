package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuseats/campus-food-api/internal/models"
	"github.com/campuseats/campus-food-api/internal/services"
)

// CatalogController handles HTTP requests for stalls, menus and slots
type CatalogController interface {
	// GetStalls lists all open stalls
	GetStalls(c *gin.Context)
	// GetStallMenu lists a stall's available items
	GetStallMenu(c *gin.Context)
	// GetSlots lists the time slots with today's availability
	GetSlots(c *gin.Context)
}

type catalogController struct {
	service services.CatalogService
}

// NewCatalogController creates a new instance of CatalogController
func NewCatalogController(service services.CatalogService) *catalogController {
	return &catalogController{service: service}
}

// GetStalls godoc
// @Summary List open stalls
// @Description Get all food stalls currently open on campus
// @Tags catalog
// @Produce json
// @Success 200 {array} models.FoodStall
// @Failure 500 {object} models.APIError
// @Router /api/v1/public/stalls [get]
func (c *catalogController) GetStalls(ctx *gin.Context) {
	stalls, err := c.service.ListStalls()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stalls)
}

// GetStallMenu godoc
// @Summary Get a stall's menu
// @Description Get the available items of a stall, optionally filtered by category
// @Tags catalog
// @Produce json
// @Param id path int true "Stall ID"
// @Param category query string false "Filter by category"
// @Success 200 {array} models.FoodItem
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/v1/public/stalls/{id}/menu [get]
func (c *catalogController) GetStallMenu(ctx *gin.Context) {
	stallID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid stall ID format"))
		return
	}

	category := models.FoodCategory(ctx.Query("category"))
	items, err := c.service.StallMenu(uint(stallID), category)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// GetSlots godoc
// @Summary List time slots
// @Description Get every break time slot with its current load and availability for today
// @Tags catalog
// @Produce json
// @Success 200 {array} services.SlotAvailability
// @Failure 500 {object} models.APIError
// @Router /api/v1/public/slots [get]
func (c *catalogController) GetSlots(ctx *gin.Context) {
	slots, err := c.service.ListSlots()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, slots)
}
