package models

import "time"

// Distribution statuses. Comparison is case-sensitive everywhere; "closed"
// still appears on documents produced by legacy tooling and is treated as
// not-open.
const (
	DistributionPlanned  = "planned"
	DistributionOpen     = "open"
	DistributionFinished = "finished"
)

// Distribution is a pickup period of exactly three dates, 14 days apart.
type Distribution struct {
	DistributionID string      `json:"distributionId" bson:"distributionId"`
	Title          string      `json:"title,omitempty" bson:"title,omitempty"`
	Status         string      `json:"status" bson:"status"`
	Dates          []time.Time `json:"dates" bson:"dates"`
	OpenedAt       *time.Time  `json:"openedAt,omitempty" bson:"openedAt,omitempty"`
	CreatedAt      time.Time   `json:"createdAt" bson:"createdAt"`
}

// DistributionProducer marks a producer as participating in one distribution.
type DistributionProducer struct {
	DistributionID string `json:"distributionId" bson:"distributionId"`
	ProducerID     string `json:"producerId" bson:"producerId"`
	Active         bool   `json:"active" bson:"active"`
}

// OfferItem is a denormalized, point-in-time snapshot of one purchasable
// (producer, product, variant, date) for one distribution. Later edits to the
// product or variant do not flow back into already-written offers; the set is
// only refreshed by re-running the offer save.
type OfferItem struct {
	OfferItemID    string  `json:"offerItemId" bson:"offerItemId"`
	DistributionID string  `json:"distributionId" bson:"distributionId"`
	ProducerID     string  `json:"producerId" bson:"producerId"`
	ProductID      string  `json:"productId" bson:"productId"`
	VariantID      string  `json:"variantId" bson:"variantId"`
	DateIndex      int     `json:"dateIndex" bson:"dateIndex"` // 0-2
	LimitPerMember int     `json:"limitPerMember" bson:"limitPerMember"`
	LimitTotal     int     `json:"limitTotal" bson:"limitTotal"`
	Price          float64 `json:"price" bson:"price"`
	Title          string  `json:"title" bson:"title"`
	VariantLabel   string  `json:"variantLabel" bson:"variantLabel"`
	ImageURL       string  `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	IsOrganic      bool    `json:"isOrganic" bson:"isOrganic"`
	CategoryID     string  `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
}
