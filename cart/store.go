package cart

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brouette/db"
	"brouette/metrics"
	"brouette/models"
	"brouette/utils"
)

const guestPrefix = "guest:"

var ErrLineNotFound = errors.New("cart line not found")

// NewGuestKey mints a cart key for an anonymous visitor.
func NewGuestKey() string {
	return guestPrefix + utils.GetUUID()
}

// IsGuestKey reports whether a cart key belongs to an anonymous
// visitor rather than a member.
func IsGuestKey(key string) bool {
	return strings.HasPrefix(key, guestPrefix)
}

// NormalizeQuantity clamps a requested line quantity. A line in the
// cart always holds at least one unit; removal is its own operation.
func NormalizeQuantity(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}

func lineFilter(key string, item models.CartItem) bson.M {
	return bson.M{
		"cartKey":     key,
		"productId":   item.ProductID,
		"variantId":   item.VariantID,
		"saleDateKey": item.SaleDateKey,
	}
}

// Add merges an item into the cart: an existing line for the same
// product, variant and pickup date grows by the added quantity, a new
// line is created otherwise.
func Add(ctx context.Context, key string, item models.CartItem) error {
	qty := NormalizeQuantity(item.Quantity)
	update := bson.M{
		"$inc": bson.M{"quantity": qty},
		"$set": bson.M{
			"saleDateLabel": item.SaleDateLabel,
			"name":          item.Name,
			"variantLabel":  item.VariantLabel,
			"producerId":    item.ProducerID,
			"offerItemId":   item.OfferItemID,
			"imageUrl":      item.ImageURL,
			"unitPrice":     item.UnitPrice,
		},
		"$setOnInsert": bson.M{
			"cartKey":     key,
			"productId":   item.ProductID,
			"variantId":   item.VariantID,
			"saleDateKey": item.SaleDateKey,
			"addedAt":     time.Now(),
		},
	}
	_, err := db.CartsCollection.UpdateOne(ctx, lineFilter(key, item), update,
		options.Update().SetUpsert(true))
	if err == nil {
		metrics.CartMutations.Inc()
	}
	return err
}

// SetQuantity pins a line to an absolute quantity, clamped to one.
func SetQuantity(ctx context.Context, key string, item models.CartItem, qty int) error {
	res, err := db.CartsCollection.UpdateOne(ctx, lineFilter(key, item),
		bson.M{"$set": bson.M{"quantity": NormalizeQuantity(qty)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrLineNotFound
	}
	metrics.CartMutations.Inc()
	return nil
}

// Remove deletes one line from the cart.
func Remove(ctx context.Context, key string, item models.CartItem) error {
	res, err := db.CartsCollection.DeleteOne(ctx, lineFilter(key, item))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrLineNotFound
	}
	metrics.CartMutations.Inc()
	return nil
}

// Clear empties the cart.
func Clear(ctx context.Context, key string) error {
	_, err := db.CartsCollection.DeleteMany(ctx, bson.M{"cartKey": key})
	return err
}

// Get returns the cart's lines, oldest first.
func Get(ctx context.Context, key string) ([]models.CartItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}})
	cursor, err := db.CartsCollection.Find(ctx, bson.M{"cartKey": key}, opts)
	if err != nil {
		return nil, err
	}
	items := []models.CartItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Rebind folds a guest cart into a member's cart after login.
// Quantities merge additively with whatever the member already had,
// then the guest cart disappears.
func Rebind(ctx context.Context, guestKey, memberID string) error {
	if !IsGuestKey(guestKey) || memberID == "" || guestKey == memberID {
		return nil
	}
	items, err := Get(ctx, guestKey)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := Add(ctx, memberID, item); err != nil {
			return err
		}
	}
	return Clear(ctx, guestKey)
}

// Totals sums a cart the same way checkout will.
func Totals(items []models.CartItem) models.OrderTotals {
	var t models.OrderTotals
	for _, item := range items {
		t.TotalAmount += item.UnitPrice * float64(item.Quantity)
		t.ItemCount += item.Quantity
	}
	return t
}
