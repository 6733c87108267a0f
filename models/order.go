package models

import "time"

// Order statuses.
const (
	OrderValidated = "validated"
	OrderDraft     = "draft"
	OrderCancelled = "cancelled"
)

type OrderTotals struct {
	TotalAmount float64 `json:"totalAmount" bson:"totalAmount"`
	ItemCount   int     `json:"itemCount" bson:"itemCount"`
}

// Order is append-only once validated; there is no edit path.
type Order struct {
	OrderID        string      `json:"orderId" bson:"orderId"`
	DistributionID string      `json:"distributionId,omitempty" bson:"distributionId,omitempty"`
	MemberID       string      `json:"memberId" bson:"memberId"`
	Status         string      `json:"status" bson:"status"`
	Totals         OrderTotals `json:"totals" bson:"totals"`
	CreatedAt      time.Time   `json:"createdAt" bson:"createdAt"`
	ValidatedAt    *time.Time  `json:"validatedAt,omitempty" bson:"validatedAt,omitempty"`
}

type OrderItem struct {
	OrderID       string  `json:"orderId" bson:"orderId"`
	OfferItemID   string  `json:"offerItemId,omitempty" bson:"offerItemId,omitempty"`
	ProducerID    string  `json:"producerId" bson:"producerId"`
	ProductID     string  `json:"productId" bson:"productId"`
	VariantID     string  `json:"variantId" bson:"variantId"`
	Quantity      int     `json:"quantity" bson:"quantity"`
	UnitPrice     float64 `json:"unitPrice" bson:"unitPrice"`
	LineTotal     float64 `json:"lineTotal" bson:"lineTotal"`
	Label         string  `json:"label" bson:"label"`
	VariantLabel  string  `json:"variantLabel" bson:"variantLabel"`
	SaleDateKey   string  `json:"saleDateKey,omitempty" bson:"saleDateKey,omitempty"`
	SaleDateLabel string  `json:"saleDateLabel,omitempty" bson:"saleDateLabel,omitempty"`
}
