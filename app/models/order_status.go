package models

import (
	"errors"
	"strings"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// transitions lists the statuses reachable from each state. Completed and
// Cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPreparing, StatusCompleted, StatusCancelled},
	StatusPreparing: {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusCancelled: nil,
}

// ParseOrderStatus accepts any letter case, e.g. "completed".
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	for st := range transitions {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransitionTo reports whether next is a legal move from s. Staying in
// the same state is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// CheckTransition returns nil for a legal move, ErrInvalidStatus when either
// side is unknown, and ErrInvalidTransition otherwise.
func (s OrderStatus) CheckTransition(next OrderStatus) error {
	if !s.Valid() || !next.Valid() {
		return ErrInvalidStatus
	}
	if !s.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	return nil
}
