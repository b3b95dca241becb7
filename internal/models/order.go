package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus tracks an order from placement to completion.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentEWallet      PaymentMethod = "e-wallet"
	PaymentBankTransfer PaymentMethod = "bank-transfer"
)

// PaymentStatus tracks settlement of an order.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// OrderItem is a line of an order. Name and price are snapshots taken when the order was placed.
type OrderItem struct {
	Name     string   `json:"name" bson:"name" validate:"required"`
	Quantity int      `json:"quantity" bson:"quantity" validate:"gte=1"`
	Price    *float64 `json:"price" bson:"price" validate:"required,gte=0"`
}

// LineTotal is price × quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	if i.Price == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a customer order placed at a cafe.
type Order struct {
	ID            string        `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	CafeID        string        `json:"cafeId" bson:"cafeId" gorm:"type:varchar(36);not null;index:idx_orders_cafe_status,priority:1" validate:"required"`
	UserID        string        `json:"userId" bson:"userId" gorm:"type:varchar(36);not null;index:idx_orders_user_date,priority:1" validate:"required"`
	CustomerName  string        `json:"customerName,omitempty" bson:"customerName,omitempty"`
	Items         []OrderItem   `json:"items" bson:"items" gorm:"serializer:json" validate:"required,min=1,dive"`
	Total         float64       `json:"total" bson:"total" validate:"gte=0"`
	Tax           float64       `json:"tax" bson:"tax" validate:"gte=0"`
	Status        OrderStatus   `json:"status" bson:"status" gorm:"type:varchar(20);not null;index:idx_orders_cafe_status,priority:2" validate:"required,oneof=pending confirmed preparing ready completed cancelled"`
	PaymentMethod PaymentMethod `json:"paymentMethod" bson:"paymentMethod" gorm:"type:varchar(20);not null" validate:"required,oneof=cash card e-wallet bank-transfer"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"paymentStatus" gorm:"type:varchar(20);not null" validate:"required,oneof=unpaid paid refunded"`
	Notes         string        `json:"notes" bson:"notes"`
	OrderDate     time.Time     `json:"orderDate" bson:"orderDate" gorm:"index:idx_orders_user_date,priority:2,sort:desc"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// NewOrder returns an order carrying the schema defaults.
func NewOrder() *Order {
	return &Order{
		Items:         []OrderItem{},
		Status:        StatusPending,
		PaymentMethod: PaymentCash,
		PaymentStatus: PaymentUnpaid,
	}
}

// Normalize trims free-text fields and fills the order date when missing.
func (o *Order) Normalize() {
	o.CustomerName = strings.TrimSpace(o.CustomerName)
	o.Notes = strings.TrimSpace(o.Notes)
	for i := range o.Items {
		o.Items[i].Name = strings.TrimSpace(o.Items[i].Name)
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = Now()
	}
}

// ComputeTotal sets Total to the sum of the line totals, ignoring any client-supplied value.
func (o *Order) ComputeTotal() {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.LineTotal())
	}
	o.Total = sum.InexactFloat64()
}

func (Order) TableName() string { return "orders" }

func (o *Order) GetID() string { return o.ID }
func (o *Order) SetID(id string) { o.ID = id }
func (o *Order) GetCreatedAt() time.Time { return o.CreatedAt }
func (o *Order) SetTimestamps(created, updated time.Time) {
	o.CreatedAt, o.UpdatedAt = created, updated
}
