// Package predictor estimates per-slot food demand from historical
// order aggregates. Training produces an immutable Model; prediction
// is a pure function of the model and its inputs, so instances can be
// shared across requests or rebuilt per request without locking.
package predictor

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/campuseats/campus-food-api/internal/models"
)

const (
	// MinTrainingRecords is the smallest history that yields a model.
	// Anything less falls back to the rule-based estimate.
	MinTrainingRecords = 5

	// PeakThreshold marks a slot as peak when predicted demand exceeds
	// it. Shared by the dashboard and the peak-times view.
	PeakThreshold = 35

	featureCount = 5
)

// TrainingPoint is one daily demand observation for a food item
type TrainingPoint struct {
	DayOfWeek  int // 0=Monday, 6=Sunday
	SlotIndex  int
	WeekNumber int // ISO week of the observation date
	Quantity   int
}

// featureVector builds the fixed-order model input:
// [day_of_week, slot_index, is_weekend, week_number, day*slot]
func featureVector(dayOfWeek, slotIndex, weekNumber int) [featureCount]float64 {
	isWeekend := 0.0
	if dayOfWeek >= 5 {
		isWeekend = 1.0
	}
	return [featureCount]float64{
		float64(dayOfWeek),
		float64(slotIndex),
		isWeekend,
		float64(weekNumber),
		float64(dayOfWeek * slotIndex),
	}
}

// scaler holds the standardization parameters fit on the training set
type scaler struct {
	mean [featureCount]float64
	std  [featureCount]float64
}

func fitScaler(rows [][featureCount]float64) scaler {
	var s scaler
	n := float64(len(rows))
	for _, r := range rows {
		for j, v := range r {
			s.mean[j] += v
		}
	}
	for j := range s.mean {
		s.mean[j] /= n
	}
	for _, r := range rows {
		for j, v := range r {
			d := v - s.mean[j]
			s.std[j] += d * d
		}
	}
	for j := range s.std {
		s.std[j] = math.Sqrt(s.std[j] / n)
		if s.std[j] == 0 {
			// constant feature, leave it centered at zero
			s.std[j] = 1
		}
	}
	return s
}

func (s scaler) transform(r [featureCount]float64) [featureCount]float64 {
	var out [featureCount]float64
	for j, v := range r {
		out[j] = (v - s.mean[j]) / s.std[j]
	}
	return out
}

// Model holds the fitted regression weights together with the
// standardization parameters they were trained under
type Model struct {
	intercept float64
	weights   [featureCount]float64
	scale     scaler
}

// Train fits an ordinary least-squares regression of quantity ordered
// on the standardized feature vectors. It returns (nil, false) when
// fewer than MinTrainingRecords points exist or the fit degenerates;
// callers then use Fallback. Train never returns an error: estimator
// degradation is a defined fallback path, not a failure.
func Train(points []TrainingPoint) (*Model, bool) {
	if len(points) < MinTrainingRecords {
		return nil, false
	}

	rows := make([][featureCount]float64, len(points))
	for i, p := range points {
		rows[i] = featureVector(p.DayOfWeek, p.SlotIndex, p.WeekNumber)
	}
	sc := fitScaler(rows)

	// Design matrix with a leading intercept column.
	x := mat.NewDense(len(points), featureCount+1, nil)
	y := mat.NewVecDense(len(points), nil)
	for i, p := range points {
		scaled := sc.transform(rows[i])
		x.Set(i, 0, 1)
		for j, v := range scaled {
			x.Set(i, j+1, v)
		}
		y.SetVec(i, float64(p.Quantity))
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		// Condition numbers flag near-singularity but the minimum-norm
		// solution is still usable; anything else means no model.
		if _, ok := err.(mat.Condition); !ok {
			return nil, false
		}
	}

	m := &Model{intercept: beta.AtVec(0), scale: sc}
	for j := 0; j < featureCount; j++ {
		m.weights[j] = beta.AtVec(j + 1)
	}
	return m, true
}

// PredictAt returns the estimated order count for a day-of-week and
// slot index at a given ISO week, never negative, rounded to the
// nearest integer. A nil model answers with the fallback heuristic.
func (m *Model) PredictAt(dayOfWeek, slotIndex, weekNumber int) int {
	if m == nil {
		return Fallback(dayOfWeek, slotIndex)
	}
	scaled := m.scale.transform(featureVector(dayOfWeek, slotIndex, weekNumber))
	pred := m.intercept
	for j, v := range scaled {
		pred += m.weights[j] * v
	}
	rounded := int(math.Round(pred))
	if rounded < 0 {
		return 0
	}
	return rounded
}

// Predict is PredictAt for the current ISO week
func (m *Model) Predict(dayOfWeek, slotIndex int) int {
	_, week := time.Now().ISOWeek()
	return m.PredictAt(dayOfWeek, slotIndex, week)
}

// Fallback is the rule-based estimate used when no model could be
// trained. Lunch slots (index 2-3) are the busiest, mid-morning next,
// and weekdays run about 30% hotter than weekends.
func Fallback(dayOfWeek, slotIndex int) int {
	base := 20
	switch {
	case slotIndex == 2 || slotIndex == 3:
		base = 45
	case slotIndex == 1:
		base = 30
	}
	if dayOfWeek < 5 {
		base = int(float64(base) * 1.3)
	}
	return base
}

// SlotPrediction pairs a time slot with its predicted demand
type SlotPrediction struct {
	Slot            models.TimeSlot `json:"slot"`
	PredictedDemand int             `json:"predicted_demand"`
	IsPeak          bool            `json:"is_peak"`
}

// PeakSlots predicts demand for every candidate slot on the given
// day-of-week and returns them ordered by predicted demand descending.
// Ties keep their original input order. A slot is peak when its
// prediction exceeds PeakThreshold.
func PeakSlots(m *Model, slots []models.TimeSlot, dayOfWeek int) []SlotPrediction {
	preds := make([]SlotPrediction, len(slots))
	for i, slot := range slots {
		p := m.Predict(dayOfWeek, slot.SlotIndex)
		preds[i] = SlotPrediction{
			Slot:            slot,
			PredictedDemand: p,
			IsPeak:          p > PeakThreshold,
		}
	}
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].PredictedDemand > preds[j].PredictedDemand
	})
	return preds
}
