package events

import (
	"github.com/shopspring/decimal"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// Envelope is what gets serialized into the outbox and onto the topic.
type Envelope struct {
	EventID string      `json:"eventId"`
	Type    string      `json:"type"`
	Data    interface{} `json:"data"`
}

type OrderLine struct {
	ProductID uint            `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderCreated struct {
	OrderID    string          `json:"orderId"`
	UserID     uint            `json:"userId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Items      []OrderLine     `json:"items"`
}

type OrderStatusChanged struct {
	OrderID string `json:"orderId"`
	UserID  uint   `json:"userId"`
	From    string `json:"from"`
	Status  string `json:"status"`
}
