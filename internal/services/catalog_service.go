package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/campuseats/campus-food-api/internal/models"
)

// SlotAvailability is a time slot together with its derived load today
type SlotAvailability struct {
	Slot        models.TimeSlot `json:"slot"`
	CurrentLoad int             `json:"current_load"`
	Available   bool            `json:"available"`
}

// CatalogService serves the read-mostly reference data: stalls, menu
// items and time slots
type CatalogService interface {
	// ListStalls returns all open stalls
	ListStalls() ([]models.FoodStall, error)
	// StallMenu returns a stall's available items, optionally filtered
	// by category
	StallMenu(stallID uint, category models.FoodCategory) ([]models.FoodItem, error)
	// GetItem loads a single food item
	GetItem(itemID uint) (models.FoodItem, error)
	// ListSlots returns every slot with its current load for today
	ListSlots() ([]SlotAvailability, error)
	// PriceOf is the live price lookup used for cart totals
	PriceOf(itemID uint) (float64, bool)
}

type catalogService struct {
	db        *gorm.DB
	admission AdmissionService
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(db *gorm.DB, admission AdmissionService) CatalogService {
	return &catalogService{db: db, admission: admission}
}

func (s *catalogService) ListStalls() ([]models.FoodStall, error) {
	var stalls []models.FoodStall
	if err := s.db.Where("is_open = ?", true).Find(&stalls).Error; err != nil {
		return nil, err
	}
	return stalls, nil
}

func (s *catalogService) StallMenu(stallID uint, category models.FoodCategory) ([]models.FoodItem, error) {
	q := s.db.Where("stall_id = ? AND is_available = ?", stallID, true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var items []models.FoodItem
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *catalogService) GetItem(itemID uint) (models.FoodItem, error) {
	var item models.FoodItem
	err := s.db.First(&item, itemID).Error
	return item, err
}

func (s *catalogService) ListSlots() ([]SlotAvailability, error) {
	var slots []models.TimeSlot
	if err := s.db.Order("slot_index").Find(&slots).Error; err != nil {
		return nil, err
	}

	today := time.Now()
	out := make([]SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		load, err := s.admission.CurrentLoad(nil, slot.ID, today)
		if err != nil {
			return nil, err
		}
		out = append(out, SlotAvailability{
			Slot:        slot,
			CurrentLoad: load,
			Available:   load < slot.MaxCapacity,
		})
	}
	return out, nil
}

func (s *catalogService) PriceOf(itemID uint) (float64, bool) {
	item, err := s.GetItem(itemID)
	if err != nil {
		return 0, false
	}
	return item.Price, true
}
