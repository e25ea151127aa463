package models

import "strings"

type OrderStatus string

const (
	StatusPlaced     OrderStatus = "placed"
	StatusProcessing OrderStatus = "processing"
	StatusInTransit  OrderStatus = "in-transit"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// statusRank orders the forward path. Cancelled sits outside it.
var statusRank = map[OrderStatus]int{
	StatusPlaced:     0,
	StatusProcessing: 1,
	StatusInTransit:  2,
	StatusDelivered:  3,
}

func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusPlaced, StatusProcessing, StatusInTransit, StatusDelivered, StatusCancelled}
}

func (s OrderStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order in status s may move to next.
// Forward moves may skip steps; cancelled is reachable from any
// non-terminal status.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// Predecessors lists every status from which next is reachable.
func Predecessors(next OrderStatus) []OrderStatus {
	var out []OrderStatus
	for _, s := range AllStatuses() {
		if s.CanTransition(next) {
			out = append(out, s)
		}
	}
	return out
}

// ParseStatus normalizes a client-supplied status. "order placed" is the
// label older clients send for placed.
func ParseStatus(s string) OrderStatus {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "order placed" {
		return StatusPlaced
	}
	return OrderStatus(v)
}
