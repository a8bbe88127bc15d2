package services

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/campuseats/campus-food-api/internal/models"
)

// AdmissionService decides whether a new order may enter a time slot.
// The load check is re-evaluated at order creation time inside the
// creation transaction while the (slot, date) lock is held, so a slot
// fills to exactly its max capacity and never overshoots, even when
// placements race.
type AdmissionService interface {
	// CurrentLoad counts the active orders for a slot on a date.
	// Active means status in {pending, confirmed, ready}.
	CurrentLoad(db *gorm.DB, slotID uint, date time.Time) (int, error)
	// TryAdmit returns nil if the slot still has capacity on the date,
	// ErrSlotFull otherwise.
	TryAdmit(db *gorm.DB, slotID uint, date time.Time) error
	// WithSlotLock serializes fn against all other admissions for the
	// same (slot, date) key.
	WithSlotLock(slotID uint, date time.Time, fn func() error) error
}

type admissionService struct {
	db    *gorm.DB
	mu    sync.Mutex
	locks map[slotDateKey]*sync.Mutex
}

type slotDateKey struct {
	slotID uint
	date   string
}

// NewAdmissionService creates a new instance of AdmissionService
func NewAdmissionService(db *gorm.DB) AdmissionService {
	return &admissionService{db: db, locks: make(map[slotDateKey]*sync.Mutex)}
}

func (s *admissionService) CurrentLoad(db *gorm.DB, slotID uint, date time.Time) (int, error) {
	if db == nil {
		db = s.db
	}
	var count int64
	err := db.Model(&models.Order{}).
		Where("time_slot_id = ? AND order_date = ? AND status IN ?",
			slotID, DateOnly(date), models.ActiveStatuses).
		Count(&count).Error
	return int(count), err
}

func (s *admissionService) TryAdmit(db *gorm.DB, slotID uint, date time.Time) error {
	if db == nil {
		db = s.db
	}
	var slot models.TimeSlot
	if err := db.First(&slot, slotID).Error; err != nil {
		return err
	}

	load, err := s.CurrentLoad(db, slotID, date)
	if err != nil {
		return err
	}
	if load >= slot.MaxCapacity {
		log.WithFields(log.Fields{
			"slot_id":      slotID,
			"slot_label":   slot.Label,
			"current_load": load,
			"max_capacity": slot.MaxCapacity,
		}).Info("Slot admission rejected")
		return ErrSlotFull
	}
	return nil
}

func (s *admissionService) WithSlotLock(slotID uint, date time.Time, fn func() error) error {
	key := slotDateKey{slotID: slotID, date: DateOnly(date).Format("2006-01-02")}

	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn()
}

// DateOnly truncates a timestamp to its calendar date in UTC. Order
// dates and demand record dates are always stored this way so equality
// queries match.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
