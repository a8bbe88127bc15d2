package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuseats/campus-food-api/internal/models"
	"github.com/campuseats/campus-food-api/internal/services"
)

// DemandController serves the demand predictions and dashboard views
type DemandController interface {
	// GetDemandChart returns per-day predicted demand for a food item
	GetDemandChart(c *gin.Context)
	// GetPeakTimes returns per-slot load and predicted demand
	GetPeakTimes(c *gin.Context)
	// GetDashboard returns today's operational stats with predictions
	GetDashboard(c *gin.Context)
	// RefreshDemand triggers the daily aggregation out of schedule
	RefreshDemand(c *gin.Context)
}

type demandController struct {
	service services.DemandService
}

// NewDemandController creates a new instance of DemandController
func NewDemandController(service services.DemandService) *demandController {
	return &demandController{service: service}
}

// GetDemandChart godoc
// @Summary Weekly demand chart for a food item
// @Description Predicted integer demand per slot for every day Monday-Sunday
// @Tags demand
// @Produce json
// @Param id path int true "Food item ID"
// @Success 200 {object} services.WeeklyChart
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/staff/demand/chart/{id} [get]
func (c *demandController) GetDemandChart(ctx *gin.Context) {
	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid food item ID format"))
		return
	}

	chart, err := c.service.WeeklyChart(uint(itemID))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, chart)
}

// GetPeakTimes godoc
// @Summary Peak ordering times
// @Description Current load, predicted demand and peak flag for every slot
// @Tags demand
// @Produce json
// @Success 200 {array} services.SlotStatus
// @Security BearerAuth
// @Router /api/v1/protected/staff/demand/peak-times [get]
func (c *demandController) GetPeakTimes(ctx *gin.Context) {
	slots, err := c.service.PeakTimes()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, slots)
}

// GetDashboard godoc
// @Summary Operator dashboard
// @Description Today's order count, revenue, per-slot load and per-item predictions
// @Tags demand
// @Produce json
// @Success 200 {object} services.DashboardStats
// @Security BearerAuth
// @Router /api/v1/protected/staff/dashboard [get]
func (c *demandController) GetDashboard(ctx *gin.Context) {
	stats, err := c.service.Dashboard()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// RefreshDemand godoc
// @Summary Refresh demand aggregates
// @Description Re-run the daily aggregation of today's orders into demand records; idempotent
// @Tags demand
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/protected/staff/demand/refresh [post]
func (c *demandController) RefreshDemand(ctx *gin.Context) {
	rows, err := c.service.RefreshDemandRecords(time.Now())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"rows_written": rows})
}
