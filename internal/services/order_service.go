package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/campuseats/campus-food-api/internal/models"
	"github.com/campuseats/campus-food-api/internal/statemachine"
)

// OrderLine is one requested item in an order creation call
type OrderLine struct {
	FoodItemID uint `json:"food_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

// CreateOrderInput carries everything needed to place an order
type CreateOrderInput struct {
	StudentID           uint
	StallID             uint
	TimeSlotID          uint
	SpecialInstructions string
	Items               []OrderLine
}

// OrderService owns the order lifecycle from creation through the
// terminal states
type OrderService interface {
	// Create places a new order in status pending. Admission against
	// the slot's capacity, price snapshotting, line item insertion and
	// the total computation happen in one transaction.
	Create(in CreateOrderInput) (models.Order, error)
	// SetStatus moves an order along the state machine. Re-applying
	// the current status is a no-op success.
	SetStatus(orderID uint, newStatus models.OrderStatus) (models.Order, error)
	// Cancel is the student-facing transition to cancelled, permitted
	// only while the order is still pending.
	Cancel(orderID, studentID uint) (models.Order, error)
	// GetByID loads an order with its items
	GetByID(orderID uint) (models.Order, error)
	// ListByStudent returns a student's orders, newest first
	ListByStudent(studentID uint) ([]models.Order, error)
}

type orderService struct {
	db        *gorm.DB
	admission AdmissionService
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(db *gorm.DB, admission AdmissionService) OrderService {
	return &orderService{db: db, admission: admission}
}

func (s *orderService) Create(in CreateOrderInput) (models.Order, error) {
	if len(in.Items) == 0 {
		return models.Order{}, ErrEmptyOrder
	}

	// Resolve and validate items up front; the capacity check happens
	// later under the slot lock.
	lines := make([]models.OrderItem, 0, len(in.Items))
	var total float64
	for _, reqItem := range in.Items {
		var item models.FoodItem
		if err := s.db.First(&item, reqItem.FoodItemID).Error; err != nil {
			return models.Order{}, fmt.Errorf("food item %d: %w", reqItem.FoodItemID, err)
		}
		if item.StallID != in.StallID {
			return models.Order{}, ErrCrossStall
		}
		if !item.IsAvailable {
			return models.Order{}, fmt.Errorf("%w: %s", ErrUnavailableItem, item.Name)
		}
		qty := reqItem.Quantity
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, models.OrderItem{
			FoodItemID:   item.ID,
			Quantity:     qty,
			PriceAtOrder: item.Price, // frozen here, never updated
		})
		total += float64(qty) * item.Price
	}

	today := DateOnly(time.Now())
	order := models.Order{
		StudentID:           in.StudentID,
		StallID:             in.StallID,
		TimeSlotID:          in.TimeSlotID,
		OrderDate:           today,
		Status:              models.StatusPending,
		TotalAmount:         round2(total),
		SpecialInstructions: in.SpecialInstructions,
		PickupCode:          newPickupCode(),
		Items:               lines,
	}

	// Check-and-insert is serialized per (slot, date) and wrapped in
	// one transaction so the slot fills at exactly max capacity and a
	// half-created order is never observable.
	err := s.admission.WithSlotLock(in.TimeSlotID, today, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.admission.TryAdmit(tx, in.TimeSlotID, today); err != nil {
				return err
			}
			return tx.Create(&order).Error
		})
	})
	if err != nil {
		return models.Order{}, err
	}

	log.WithFields(log.Fields{
		"order_id":     order.ID,
		"student_id":   order.StudentID,
		"time_slot_id": order.TimeSlotID,
		"total_amount": order.TotalAmount,
	}).Info("Order placed")
	return s.GetByID(order.ID)
}

func (s *orderService) SetStatus(orderID uint, newStatus models.OrderStatus) (models.Order, error) {
	if !models.IsValidStatus(newStatus) {
		return models.Order{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, newStatus)
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		return models.Order{}, err
	}

	// Re-submitting the already-applied status is a no-op success.
	if order.Status == newStatus {
		return order, nil
	}
	if order.Status.IsTerminal() {
		return models.Order{}, fmt.Errorf("%w: %s", ErrTerminalState, order.Status)
	}
	if err := statemachine.CanTransition(order.Status, newStatus); err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	previous := order.Status
	order.Status = newStatus
	if err := s.db.Model(&order).Update("status", newStatus).Error; err != nil {
		return models.Order{}, err
	}

	log.WithFields(log.Fields{
		"order_id": order.ID,
		"from":     previous,
		"to":       newStatus,
	}).Info("Order status updated")
	return order, nil
}

func (s *orderService) Cancel(orderID, studentID uint) (models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		return models.Order{}, err
	}
	if order.StudentID != studentID {
		return models.Order{}, ErrNotOrderOwner
	}
	if order.Status != models.StatusPending {
		return models.Order{}, ErrCancellationWindowClosed
	}

	order.Status = models.StatusCancelled
	if err := s.db.Model(&order).Update("status", models.StatusCancelled).Error; err != nil {
		return models.Order{}, err
	}
	log.WithField("order_id", order.ID).Info("Order cancelled by student")
	return order, nil
}

func (s *orderService) GetByID(orderID uint) (models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items.FoodItem").Preload("TimeSlot").Preload("Stall").
		First(&order, orderID).Error
	return order, err
}

func (s *orderService) ListByStudent(studentID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items.FoodItem").Preload("TimeSlot").
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// newPickupCode derives a short human-readable code for counter pickup
func newPickupCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// round2 rounds a currency amount to two decimals
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
