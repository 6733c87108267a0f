package models

import "time"

// Producer is a supplier the cooperative buys from.
type Producer struct {
	ProducerID string    `json:"producerId" bson:"producerId"`
	Name       string    `json:"name" bson:"name"`
	Email      string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Address    string    `json:"address,omitempty" bson:"address,omitempty"`
	CoopStatus string    `json:"coopStatus,omitempty" bson:"coopStatus,omitempty"` // active, inactive
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Category struct {
	CategoryID  string `json:"categoryId" bson:"categoryId"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// Product belongs to a producer. SaleDates is denormalized: always the union
// of the product's variants' activeDates, recomputed by the offer engine.
type Product struct {
	ProductID   string    `json:"productId" bson:"productId"`
	ProducerID  string    `json:"producerId" bson:"producerId"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	IsOrganic   bool      `json:"isOrganic" bson:"isOrganic"`
	CategoryID  string    `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
	Tags        []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	SaleDates   []string  `json:"saleDates,omitempty" bson:"saleDates,omitempty"` // date keys (YYYY-MM-DD)
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Variant is a purchasable declination of a product (size, unit, packaging).
type Variant struct {
	VariantID   string   `json:"variantId" bson:"variantId"`
	ProductID   string   `json:"productId" bson:"productId"`
	Label       string   `json:"label" bson:"label"`
	Type        string   `json:"type,omitempty" bson:"type,omitempty"`
	Unit        string   `json:"unit,omitempty" bson:"unit,omitempty"`
	Price       float64  `json:"price" bson:"price"`
	ActiveDates []string `json:"activeDates,omitempty" bson:"activeDates,omitempty"` // date keys on which this variant may be ordered
}
