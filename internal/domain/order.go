// SPDX-License-Identifier: MIT

package domain

import "time"

// OrderStatus tracks the lifecycle of a persisted order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is the durable snapshot written when a cart passes the confirmation
// gate. TotalPrice is free-form ("Pending" until a human prices the order).
type Order struct {
	ID         int64       `json:"id"`
	UserPhone  string      `json:"user_phone"`
	Status     OrderStatus `json:"status"`
	Items      []LineItem  `json:"items"`
	TotalPrice string      `json:"total_price"`
	CreatedAt  time.Time   `json:"created_at"`
}
