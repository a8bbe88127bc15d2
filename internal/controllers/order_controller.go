package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuseats/campus-food-api/internal/middleware"
	"github.com/campuseats/campus-food-api/internal/models"
	"github.com/campuseats/campus-food-api/internal/services"
)

// CreateOrderRequest is the wire payload for direct order creation
type CreateOrderRequest struct {
	StallID             uint                 `json:"stall_id" binding:"required"`
	TimeSlotID          uint                 `json:"time_slot_id" binding:"required"`
	SpecialInstructions string               `json:"special_instructions"`
	Items               []services.OrderLine `json:"items"`
}

// UpdateStatusRequest carries the new status for an order
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// OrderController handles HTTP requests for the order lifecycle
type OrderController interface {
	// CreateOrder places a new order
	CreateOrder(c *gin.Context)
	// GetMyOrders lists the authenticated student's orders
	GetMyOrders(c *gin.Context)
	// GetOrder returns one order with its items
	GetOrder(c *gin.Context)
	// CancelOrder cancels the student's own pending order
	CancelOrder(c *gin.Context)
	// UpdateStatus moves an order along the state machine (staff only)
	UpdateStatus(c *gin.Context)
}

type orderController struct {
	service services.OrderService
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(service services.OrderService) *orderController {
	return &orderController{service: service}
}

// CreateOrder godoc
// @Summary Place an order
// @Description Create an order with its items against a capacity-limited time slot
// @Tags orders
// @Accept json
// @Produce json
// @Param order body CreateOrderRequest true "Order payload"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/orders [post]
func (c *orderController) CreateOrder(ctx *gin.Context) {
	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}

	order, err := c.service.Create(services.CreateOrderInput{
		StudentID:           middleware.GetUserID(ctx),
		StallID:             req.StallID,
		TimeSlotID:          req.TimeSlotID,
		SpecialInstructions: req.SpecialInstructions,
		Items:               req.Items,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, order)
}

// GetMyOrders godoc
// @Summary List my orders
// @Tags orders
// @Produce json
// @Success 200 {array} models.Order
// @Security BearerAuth
// @Router /api/v1/protected/orders [get]
func (c *orderController) GetMyOrders(ctx *gin.Context) {
	orders, err := c.service.ListByStudent(middleware.GetUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

// GetOrder godoc
// @Summary Get one order
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/orders/{id} [get]
func (c *orderController) GetOrder(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid order ID format"))
		return
	}

	order, err := c.service.GetByID(uint(orderID))
	if err != nil {
		respondError(ctx, err)
		return
	}
	if order.StudentID != middleware.GetUserID(ctx) {
		ctx.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden,
			"This order does not belong to you."))
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// CancelOrder godoc
// @Summary Cancel a pending order
// @Description Students may cancel their own orders while still pending
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 403 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/orders/{id}/cancel [post]
func (c *orderController) CancelOrder(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid order ID format"))
		return
	}

	order, err := c.service.Cancel(uint(orderID), middleware.GetUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// UpdateStatus godoc
// @Summary Update an order's status
// @Description Move an order along its lifecycle; re-applying the current status is a no-op
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param status body UpdateStatusRequest true "New status"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/staff/orders/{id}/status [patch]
func (c *orderController) UpdateStatus(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid order ID format"))
		return
	}

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}

	order, err := c.service.SetStatus(uint(orderID), req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}
