package models

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// validNext is the complete transition table. Absence means the move is
// rejected; delivered and cancelled are terminal.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderPending: {
		OrderProcessing: true,
		OrderCancelled:  true,
	},
	OrderProcessing: {
		OrderShipped:   true,
		OrderCancelled: true,
	},
	OrderShipped: {
		OrderDelivered: true,
		OrderCancelled: true,
	},
	OrderDelivered: {},
	OrderCancelled: {},
}

// CanTransition reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	return validNext[s][next]
}

// Terminal reports whether no further transitions exist from s.
func (s OrderStatus) Terminal() bool {
	return len(validNext[s]) == 0
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}
