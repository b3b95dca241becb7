package services

import (
	"fmt"
	"strings"

	"cafeconnect/internal/models"
)

// StatusTransition is one allowed step of the order lifecycle.
type StatusTransition struct {
	From models.OrderStatus `json:"from"`
	To   models.OrderStatus `json:"to"`
}

// statusTransitions is the authoritative order lifecycle. completed and cancelled are terminal.
var statusTransitions = []StatusTransition{
	{From: models.StatusPending, To: models.StatusConfirmed},
	{From: models.StatusPending, To: models.StatusCancelled},
	{From: models.StatusConfirmed, To: models.StatusPreparing},
	{From: models.StatusConfirmed, To: models.StatusCancelled},
	{From: models.StatusPreparing, To: models.StatusReady},
	{From: models.StatusPreparing, To: models.StatusCancelled},
	{From: models.StatusReady, To: models.StatusCompleted},
}

var statusTransitionSet = func() map[StatusTransition]bool {
	m := make(map[StatusTransition]bool, len(statusTransitions))
	for _, t := range statusTransitions {
		m[t] = true
	}
	return m
}()

var paymentTransitions = map[models.PaymentStatus]models.PaymentStatus{
	models.PaymentUnpaid: models.PaymentPaid,
	models.PaymentPaid:   models.PaymentRefunded,
}

// ValidTransitionsFrom returns the statuses an order in status may move to.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var next []models.OrderStatus
	for _, t := range statusTransitions {
		if t.From == status {
			next = append(next, t.To)
		}
	}
	return next
}

// StatusTransitions returns the full lifecycle table.
func StatusTransitions() []StatusTransition {
	out := make([]StatusTransition, len(statusTransitions))
	copy(out, statusTransitions)
	return out
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to models.OrderStatus) error {
	if statusTransitionSet[StatusTransition{From: from, To: to}] {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s is not allowed; valid transitions from %s: %s",
		ErrInvalidTransition, from, to, from, describeValidFrom(from))
}

// CanTransitionPayment reports whether the payment status may move from one value to another.
func CanTransitionPayment(from, to models.PaymentStatus) error {
	if next, ok := paymentTransitions[from]; ok && next == to {
		return nil
	}
	return fmt.Errorf("%w: payment %s -> %s is not allowed", ErrInvalidTransition, from, to)
}

func describeValidFrom(status models.OrderStatus) string {
	next := ValidTransitionsFrom(status)
	if len(next) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(next))
	for i, s := range next {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
