package services

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campuseats/campus-food-api/internal/models"
	"github.com/campuseats/campus-food-api/internal/predictor"
)

// Days of the week as chart labels, Monday first to match the
// day-of-week convention used by the model features
var weekdayLabels = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// chartSlotLimit caps how many slots appear as chart datasets
const chartSlotLimit = 5

// lunchSlotIndex is the slot the dashboard predictions are made for
const lunchSlotIndex = 2

// ChartDataset is one slot's predicted demand across the week
type ChartDataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"` // Monday..Sunday
}

// WeeklyChart is the per-day predicted demand for one food item
type WeeklyChart struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// SlotStatus combines a slot's live load with its predicted demand
type SlotStatus struct {
	Slot            models.TimeSlot `json:"slot"`
	CurrentLoad     int             `json:"current_load"`
	PredictedDemand int             `json:"predicted_demand"`
	LoadPercentage  int             `json:"load_percentage"` // 0-100, capped
	IsPeak          bool            `json:"is_peak"`
}

// ItemPrediction is a dashboard row for one food item
type ItemPrediction struct {
	Item            models.FoodItem `json:"item"`
	PredictedDemand int             `json:"predicted_demand"`
}

// DashboardStats is the operator dashboard payload
type DashboardStats struct {
	Date             time.Time                  `json:"date"`
	TotalOrdersToday int                        `json:"total_orders_today"`
	RevenueToday     float64                    `json:"revenue_today"`
	SlotOrders       []SlotStatus               `json:"slot_orders"`
	ItemPredictions  []ItemPrediction           `json:"item_predictions"`
	PeakSlots        []predictor.SlotPrediction `json:"peak_slots"`
}

// DemandService trains demand models from historical aggregates and
// serves predictions to dashboards. It also owns the daily job that
// folds placed orders into DemandRecord rows.
type DemandService interface {
	// RefreshDemandRecords recomputes the demand aggregates for a
	// date from that date's orders and upserts them. Safe to re-run:
	// it writes absolute sums, never increments, so racing or repeated
	// runs cannot double-count. Returns the number of rows written.
	RefreshDemandRecords(date time.Time) (int, error)
	// WeeklyChart returns Monday-Sunday predicted demand per slot for
	// one food item. Training failures degrade to the fallback, they
	// are never surfaced.
	WeeklyChart(foodItemID uint) (WeeklyChart, error)
	// PeakTimes reports every slot's current load and predicted demand
	PeakTimes() ([]SlotStatus, error)
	// Dashboard aggregates today's stats with per-item predictions
	Dashboard() (DashboardStats, error)
}

type demandService struct {
	db        *gorm.DB
	admission AdmissionService

	// serializes refresh runs; two concurrent cron or manual triggers
	// must not interleave their upserts
	refreshMu sync.Mutex
}

// NewDemandService creates a new instance of DemandService
func NewDemandService(db *gorm.DB, admission AdmissionService) DemandService {
	return &demandService{db: db, admission: admission}
}

func (s *demandService) RefreshDemandRecords(date time.Time) (int, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	day := DateOnly(date)
	dayOfWeek := models.WeekdayIndex(day.Weekday())

	// Aggregate order volume at time of placement: every order created
	// on the date counts, regardless of its current status. Cancelling
	// an order never removes its signal from the training data.
	type demandRow struct {
		FoodItemID uint
		TimeSlotID uint
		Total      int
	}
	var rows []demandRow
	err := s.db.Model(&models.OrderItem{}).
		Select("order_items.food_item_id, orders.time_slot_id, SUM(order_items.quantity) AS total").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.order_date = ?", day).
		Group("order_items.food_item_id, orders.time_slot_id").
		Scan(&rows).Error
	if err != nil {
		return 0, err
	}

	for _, row := range rows {
		rec := models.DemandRecord{
			FoodItemID:      row.FoodItemID,
			Date:            day,
			TimeSlotID:      row.TimeSlotID,
			DayOfWeek:       dayOfWeek,
			QuantityOrdered: row.Total,
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "food_item_id"}, {Name: "date"}, {Name: "time_slot_id"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity_ordered": row.Total,
				"day_of_week":      dayOfWeek,
			}),
		}).Create(&rec).Error
		if err != nil {
			return 0, err
		}
	}

	log.WithFields(log.Fields{
		"date": day.Format("2006-01-02"),
		"rows": len(rows),
	}).Info("Demand records refreshed")
	return len(rows), nil
}

// trainFor builds a model from an item's demand history. Any failure
// along the way is treated as insufficient data and yields a nil
// model, which predicts via the fallback heuristic.
func (s *demandService) trainFor(foodItemID uint) *predictor.Model {
	var records []models.DemandRecord
	err := s.db.Preload("TimeSlot").
		Where("food_item_id = ?", foodItemID).
		Find(&records).Error
	if err != nil {
		log.WithError(err).WithField("food_item_id", foodItemID).
			Warn("Could not load demand history, using fallback")
		return nil
	}

	points := make([]predictor.TrainingPoint, 0, len(records))
	for _, rec := range records {
		_, week := rec.Date.ISOWeek()
		points = append(points, predictor.TrainingPoint{
			DayOfWeek:  rec.DayOfWeek,
			SlotIndex:  rec.TimeSlot.SlotIndex,
			WeekNumber: week,
			Quantity:   rec.QuantityOrdered,
		})
	}

	model, ok := predictor.Train(points)
	if !ok {
		return nil
	}
	return model
}

func (s *demandService) WeeklyChart(foodItemID uint) (WeeklyChart, error) {
	var item models.FoodItem
	if err := s.db.First(&item, foodItemID).Error; err != nil {
		return WeeklyChart{}, err
	}

	var slots []models.TimeSlot
	if err := s.db.Order("slot_index").Limit(chartSlotLimit).Find(&slots).Error; err != nil {
		return WeeklyChart{}, err
	}

	model := s.trainFor(foodItemID)

	chart := WeeklyChart{Labels: weekdayLabels}
	for _, slot := range slots {
		data := make([]int, len(weekdayLabels))
		for day := range data {
			data[day] = model.Predict(day, slot.SlotIndex)
		}
		chart.Datasets = append(chart.Datasets, ChartDataset{
			Label: slot.Label,
			Data:  data,
		})
	}
	return chart, nil
}

func (s *demandService) PeakTimes() ([]SlotStatus, error) {
	var slots []models.TimeSlot
	if err := s.db.Order("slot_index").Find(&slots).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	dayOfWeek := models.WeekdayIndex(now.Weekday())

	// Slot-level peak times are item-independent, so there is no
	// history to train on and the fallback heuristic applies.
	var model *predictor.Model

	out := make([]SlotStatus, 0, len(slots))
	for _, slot := range slots {
		load, err := s.admission.CurrentLoad(nil, slot.ID, now)
		if err != nil {
			return nil, err
		}
		predicted := model.Predict(dayOfWeek, slot.SlotIndex)

		pct := 0
		if slot.MaxCapacity > 0 {
			pct = load * 100 / slot.MaxCapacity
			if pct > 100 {
				pct = 100
			}
		}
		out = append(out, SlotStatus{
			Slot:            slot,
			CurrentLoad:     load,
			PredictedDemand: predicted,
			LoadPercentage:  pct,
			IsPeak:          predicted > predictor.PeakThreshold,
		})
	}
	return out, nil
}

func (s *demandService) Dashboard() (DashboardStats, error) {
	today := DateOnly(time.Now())
	dayOfWeek := models.WeekdayIndex(today.Weekday())

	var totalOrders int64
	if err := s.db.Model(&models.Order{}).
		Where("order_date = ?", today).
		Count(&totalOrders).Error; err != nil {
		return DashboardStats{}, err
	}

	// Revenue only counts orders the stall has accepted.
	var revenue float64
	err := s.db.Model(&models.Order{}).
		Where("order_date = ? AND status IN ?", today, []models.OrderStatus{
			models.StatusConfirmed, models.StatusPreparing,
			models.StatusReady, models.StatusCompleted,
		}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	if err != nil {
		return DashboardStats{}, err
	}

	slotOrders, err := s.PeakTimes()
	if err != nil {
		return DashboardStats{}, err
	}

	var items []models.FoodItem
	if err := s.db.Where("is_available = ?", true).Limit(5).Find(&items).Error; err != nil {
		return DashboardStats{}, err
	}
	itemPredictions := make([]ItemPrediction, 0, len(items))
	for _, item := range items {
		model := s.trainFor(item.ID)
		itemPredictions = append(itemPredictions, ItemPrediction{
			Item:            item,
			PredictedDemand: model.Predict(dayOfWeek, lunchSlotIndex),
		})
	}

	var slots []models.TimeSlot
	if err := s.db.Order("slot_index").Find(&slots).Error; err != nil {
		return DashboardStats{}, err
	}
	peak := predictor.PeakSlots(nil, slots, dayOfWeek)

	return DashboardStats{
		Date:             today,
		TotalOrdersToday: int(totalOrders),
		RevenueToday:     revenue,
		SlotOrders:       slotOrders,
		ItemPredictions:  itemPredictions,
		PeakSlots:        peak,
	}, nil
}
