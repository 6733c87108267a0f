package models

import "time"

// CartItem is one cart line. Lines are identified by
// (productId, variantId, saleDateKey) within a cart key; adding the same
// tuple again merges quantities instead of creating a second line.
type CartItem struct {
	CartKey       string    `json:"-" bson:"cartKey"` // member id or guest:<uuid>
	ProductID     string    `json:"productId" bson:"productId"`
	VariantID     string    `json:"variantId" bson:"variantId"`
	SaleDateKey   string    `json:"saleDateKey,omitempty" bson:"saleDateKey,omitempty"`
	SaleDateLabel string    `json:"saleDateLabel,omitempty" bson:"saleDateLabel,omitempty"`
	Name          string    `json:"name" bson:"name"`
	VariantLabel  string    `json:"variantLabel" bson:"variantLabel"`
	ProducerID    string    `json:"producerId" bson:"producerId"`
	OfferItemID   string    `json:"offerItemId,omitempty" bson:"offerItemId,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	UnitPrice     float64   `json:"unitPrice" bson:"unitPrice"`
	Quantity      int       `json:"quantity" bson:"quantity"`
	AddedAt       time.Time `json:"addedAt" bson:"addedAt"`
}

// LineID is the client-facing identifier of a cart line.
func (c CartItem) LineID() string {
	return c.ProductID + "_" + c.VariantID + "_" + c.SaleDateKey
}
