package order

import (
	"testing"
	"time"

	"github.com/SwiftParcel/SwiftParcel/internal/model"
)

var allStatuses = []model.OrderStatus{
	model.OrderPending, model.OrderConfirmed, model.OrderPickingUp,
	model.OrderInTransit, model.OrderDelivered, model.OrderCompleted, model.OrderCancelled,
}

func TestCanTransitionTable(t *testing.T) {
	allowed := map[[2]model.OrderStatus]bool{
		{model.OrderPending, model.OrderConfirmed}:   true,
		{model.OrderPending, model.OrderCancelled}:   true,
		{model.OrderConfirmed, model.OrderPickingUp}: true,
		{model.OrderConfirmed, model.OrderCancelled}: true,
		{model.OrderPickingUp, model.OrderInTransit}: true,
		{model.OrderInTransit, model.OrderDelivered}: true,
		{model.OrderDelivered, model.OrderCompleted}: true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[[2]model.OrderStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatesAreSinks(t *testing.T) {
	for _, from := range []model.OrderStatus{model.OrderCompleted, model.OrderCancelled} {
		for _, to := range allStatuses {
			if CanTransition(from, to) {
				t.Fatalf("terminal %s must not transition to %s", from, to)
			}
		}
	}
}

func TestApplyTransitionStampsCompletion(t *testing.T) {
	o := &model.Order{Status: model.OrderDelivered}
	now := time.Now()
	if err := ApplyTransition(o, model.OrderCompleted, now); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if o.Status != model.OrderCompleted {
		t.Fatalf("expected COMPLETED, got %s", o.Status)
	}
	if o.CompletedAt == nil || !o.CompletedAt.Equal(now) {
		t.Fatalf("expected completion timestamp %v, got %v", now, o.CompletedAt)
	}
}

func TestApplyTransitionRejectsAndKeepsOrder(t *testing.T) {
	o := &model.Order{Status: model.OrderPending}
	if err := ApplyTransition(o, model.OrderDelivered, time.Now()); err == nil {
		t.Fatalf("expected shortcut transition to fail")
	}
	if o.Status != model.OrderPending {
		t.Fatalf("order mutated on rejected transition: %s", o.Status)
	}
	if o.CompletedAt != nil {
		t.Fatalf("completion stamped on rejected transition")
	}
}
