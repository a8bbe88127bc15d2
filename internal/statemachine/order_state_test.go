package statemachine

import (
	"testing"

	"github.com/campuseats/campus-food-api/internal/models"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{name: "pending to confirmed", from: models.StatusPending, to: models.StatusConfirmed, allowed: true},
		{name: "pending to cancelled", from: models.StatusPending, to: models.StatusCancelled, allowed: true},
		{name: "pending to preparing skips confirm", from: models.StatusPending, to: models.StatusPreparing, allowed: false},
		{name: "pending to completed skips everything", from: models.StatusPending, to: models.StatusCompleted, allowed: false},
		{name: "confirmed to preparing", from: models.StatusConfirmed, to: models.StatusPreparing, allowed: true},
		{name: "confirmed to cancelled", from: models.StatusConfirmed, to: models.StatusCancelled, allowed: true},
		{name: "confirmed to ready skips preparing", from: models.StatusConfirmed, to: models.StatusReady, allowed: false},
		{name: "preparing to ready", from: models.StatusPreparing, to: models.StatusReady, allowed: true},
		{name: "preparing to cancelled", from: models.StatusPreparing, to: models.StatusCancelled, allowed: true},
		{name: "ready to completed", from: models.StatusReady, to: models.StatusCompleted, allowed: true},
		{name: "ready to cancelled", from: models.StatusReady, to: models.StatusCancelled, allowed: true},
		{name: "ready back to pending", from: models.StatusReady, to: models.StatusPending, allowed: false},
		{name: "completed is terminal", from: models.StatusCompleted, to: models.StatusPending, allowed: false},
		{name: "completed cannot cancel", from: models.StatusCompleted, to: models.StatusCancelled, allowed: false},
		{name: "cancelled is terminal", from: models.StatusCancelled, to: models.StatusPending, allowed: false},
		{name: "cancelled cannot complete", from: models.StatusCancelled, to: models.StatusCompleted, allowed: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to)
			if tt.allowed && err != nil {
				t.Errorf("CanTransition(%s, %s) = %v, expected nil", tt.from, tt.to, err)
			}
			if !tt.allowed && err == nil {
				t.Errorf("CanTransition(%s, %s) = nil, expected error", tt.from, tt.to)
			}
		})
	}
}

func TestTerminalStatesHaveNoSuccessors(t *testing.T) {
	for _, status := range []models.OrderStatus{models.StatusCompleted, models.StatusCancelled} {
		if nexts := ValidTransitionsFrom(status); len(nexts) != 0 {
			t.Errorf("ValidTransitionsFrom(%s) = %v, expected none", status, nexts)
		}
	}
}

func TestEveryStateReachesATerminalState(t *testing.T) {
	// Every non-terminal state can cancel, so no order gets stuck.
	for _, status := range models.ValidStatuses {
		if status.IsTerminal() {
			continue
		}
		if err := CanTransition(status, models.StatusCancelled); err != nil {
			t.Errorf("expected %s to allow cancellation: %v", status, err)
		}
	}
}
