package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuseats/campus-food-api/internal/cart"
	"github.com/campuseats/campus-food-api/internal/models"
	"github.com/campuseats/campus-food-api/internal/services"
)

// respondError maps domain errors to HTTP status codes and APIError
// payloads. Everything here is per-request and recoverable; unknown
// errors become a 500 without leaking internals.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSlotFull):
		ctx.JSON(http.StatusConflict, models.NewAPIError(models.ErrCodeSlotFull,
			"This time slot is fully booked. Please choose another slot."))
	case errors.Is(err, services.ErrEmptyOrder):
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrCodeEmptyOrder,
			"Your order must contain at least one item."))
	case errors.Is(err, services.ErrUnavailableItem):
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrCodeUnavailableItem,
			err.Error()))
	case errors.Is(err, services.ErrCrossStall), errors.Is(err, cart.ErrCrossStall):
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrCodeCrossStall,
			"You can only order from one stall at a time."))
	case errors.Is(err, services.ErrTerminalState):
		ctx.JSON(http.StatusConflict, models.NewAPIError(models.ErrCodeTerminalState,
			err.Error()))
	case errors.Is(err, services.ErrInvalidTransition):
		ctx.JSON(http.StatusConflict, models.NewAPIError(models.ErrCodeInvalidTransition,
			err.Error()))
	case errors.Is(err, services.ErrCancellationWindowClosed):
		ctx.JSON(http.StatusConflict, models.NewAPIError(models.ErrCodeCancellationClosed,
			"Only pending orders can be cancelled."))
	case errors.Is(err, services.ErrNotOrderOwner):
		ctx.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden,
			"This order does not belong to you."))
	case errors.Is(err, gorm.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound,
			"Resource not found."))
	default:
		ctx.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer,
			"Something went wrong."))
	}
}
