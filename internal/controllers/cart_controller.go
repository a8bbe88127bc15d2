package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuseats/campus-food-api/internal/cart"
	"github.com/campuseats/campus-food-api/internal/middleware"
	"github.com/campuseats/campus-food-api/internal/models"
	"github.com/campuseats/campus-food-api/internal/services"
)

// AddCartItemRequest is the payload for adding an item to the cart
type AddCartItemRequest struct {
	FoodItemID uint `json:"food_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest selects the slot when turning the cart into an order
type CheckoutRequest struct {
	TimeSlotID          uint   `json:"time_slot_id" binding:"required"`
	SpecialInstructions string `json:"special_instructions"`
}

// CartController handles the per-student staging cart
type CartController interface {
	// GetCart returns the cart contents with a live-price total
	GetCart(c *gin.Context)
	// AddItem adds a food item to the cart
	AddItem(c *gin.Context)
	// RemoveItem removes a food item from the cart
	RemoveItem(c *gin.Context)
	// ClearCart empties the cart
	ClearCart(c *gin.Context)
	// Checkout places an order from the cart contents
	Checkout(c *gin.Context)
}

type cartController struct {
	store   *cart.Store
	catalog services.CatalogService
	orders  services.OrderService
}

// NewCartController creates a new instance of CartController
func NewCartController(store *cart.Store, catalog services.CatalogService, orders services.OrderService) *cartController {
	return &cartController{store: store, catalog: catalog, orders: orders}
}

// GetCart godoc
// @Summary View the cart
// @Description Get the current cart with a total computed from live prices
// @Tags cart
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/protected/cart [get]
func (c *cartController) GetCart(ctx *gin.Context) {
	studentCart := c.store.Get(middleware.GetUserID(ctx))
	ctx.JSON(http.StatusOK, gin.H{
		"stall_id": studentCart.StallID,
		"items":    studentCart.Lines(),
		"total":    studentCart.Total(c.catalog.PriceOf),
	})
}

// AddItem godoc
// @Summary Add an item to the cart
// @Description Add a food item; quantities accumulate and the cart is locked to one stall
// @Tags cart
// @Accept json
// @Produce json
// @Param item body AddCartItemRequest true "Item to add"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/cart/items [post]
func (c *cartController) AddItem(ctx *gin.Context) {
	var req AddCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}

	item, err := c.catalog.GetItem(req.FoodItemID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !item.IsAvailable {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrCodeUnavailableItem,
			"This item is currently unavailable."))
		return
	}

	studentCart := c.store.Get(middleware.GetUserID(ctx))
	if err := studentCart.AddItem(item.ID, item.StallID, req.Quantity); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"stall_id": studentCart.StallID,
		"items":    studentCart.Lines(),
		"total":    studentCart.Total(c.catalog.PriceOf),
	})
}

// RemoveItem godoc
// @Summary Remove an item from the cart
// @Tags cart
// @Produce json
// @Param id path int true "Food item ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/cart/items/{id} [delete]
func (c *cartController) RemoveItem(ctx *gin.Context) {
	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid item ID format"))
		return
	}

	studentCart := c.store.Get(middleware.GetUserID(ctx))
	studentCart.RemoveItem(uint(itemID))
	ctx.JSON(http.StatusOK, gin.H{
		"stall_id": studentCart.StallID,
		"items":    studentCart.Lines(),
		"total":    studentCart.Total(c.catalog.PriceOf),
	})
}

// ClearCart godoc
// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Success 204
// @Security BearerAuth
// @Router /api/v1/protected/cart [delete]
func (c *cartController) ClearCart(ctx *gin.Context) {
	c.store.Get(middleware.GetUserID(ctx)).Clear()
	ctx.JSON(http.StatusNoContent, nil)
}

// Checkout godoc
// @Summary Place an order from the cart
// @Description Turn the cart into an order against the chosen time slot; the cart is cleared on success
// @Tags cart
// @Accept json
// @Produce json
// @Param checkout body CheckoutRequest true "Checkout payload"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/cart/checkout [post]
func (c *cartController) Checkout(ctx *gin.Context) {
	var req CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}

	studentID := middleware.GetUserID(ctx)
	studentCart := c.store.Get(studentID)

	items := make([]services.OrderLine, 0)
	for _, line := range studentCart.Lines() {
		items = append(items, services.OrderLine{
			FoodItemID: line.FoodItemID,
			Quantity:   line.Quantity,
		})
	}

	order, err := c.orders.Create(services.CreateOrderInput{
		StudentID:           studentID,
		StallID:             studentCart.StallID,
		TimeSlotID:          req.TimeSlotID,
		SpecialInstructions: req.SpecialInstructions,
		Items:               items,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	studentCart.Clear()
	ctx.JSON(http.StatusCreated, order)
}
