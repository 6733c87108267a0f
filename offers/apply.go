package offers

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"brouette/catalogue"
	"brouette/db"
	"brouette/distributions"
	"brouette/metrics"
	"brouette/models"
)

// loadCatalogue fetches one producer's products and variants.
func loadCatalogue(ctx context.Context, producerID string) (Catalogue, error) {
	cat := Catalogue{
		Products: map[string]models.Product{},
		Variants: map[string]models.Variant{},
	}

	cursor, err := db.ProductsCollection.Find(ctx, bson.M{"producerId": producerID})
	if err != nil {
		return cat, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return cat, err
	}
	productIDs := make([]string, 0, len(products))
	for _, p := range products {
		cat.Products[p.ProductID] = p
		productIDs = append(productIDs, p.ProductID)
	}
	if len(productIDs) == 0 {
		return cat, nil
	}

	cursor, err = db.VariantsCollection.Find(ctx, bson.M{"productId": bson.M{"$in": productIDs}})
	if err != nil {
		return cat, err
	}
	var variants []models.Variant
	if err := cursor.All(ctx, &variants); err != nil {
		return cat, err
	}
	for _, v := range variants {
		cat.Variants[v.VariantID] = v
	}
	return cat, nil
}

func loadExisting(ctx context.Context, distributionID, producerID string) ([]models.OfferItem, error) {
	cursor, err := db.OfferItemsCollection.Find(ctx,
		bson.M{"distributionId": distributionID, "producerId": producerID})
	if err != nil {
		return nil, err
	}
	var existing []models.OfferItem
	if err := cursor.All(ctx, &existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// applyPlan sends the upserts and deletes in bulk batches.
func applyPlan(ctx context.Context, toUpsert []models.OfferItem, toDelete []string) error {
	var writes []mongo.WriteModel
	for _, item := range toUpsert {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"offerItemId": item.OfferItemID}).
			SetReplacement(item).
			SetUpsert(true))
	}
	for _, id := range toDelete {
		writes = append(writes, mongo.NewDeleteOneModel().
			SetFilter(bson.M{"offerItemId": id}))
	}
	for _, span := range chunk(len(writes)) {
		if _, err := db.OfferItemsCollection.BulkWrite(ctx, writes[span[0]:span[1]]); err != nil {
			return err
		}
	}
	metrics.OfferWrites.Add(float64(len(writes)))
	return nil
}

// syncCatalogueDates rewrites variant activeDates and product
// saleDates for one producer from the desired offer set. Variants and
// products with no enabled cell get their dates cleared.
func syncCatalogueDates(ctx context.Context, dist *models.Distribution, producerID string, desired []models.OfferItem, cat Catalogue) error {
	keyOf := func(i int) string { return distributions.DateKey(dist.Dates[i]) }
	variantDates, productDates := ActiveDateKeys(dist, desired, keyOf)

	for id := range cat.Variants {
		dates := variantDates[id]
		if dates == nil {
			dates = []string{}
		}
		if _, err := db.VariantsCollection.UpdateOne(ctx,
			bson.M{"variantId": id},
			bson.M{"$set": bson.M{"activeDates": dates}}); err != nil {
			return err
		}
	}
	for id := range cat.Products {
		dates := productDates[id]
		if dates == nil {
			dates = []string{}
		}
		if _, err := db.ProductsCollection.UpdateOne(ctx,
			bson.M{"productId": id},
			bson.M{"$set": bson.M{"saleDates": dates}}); err != nil {
			return err
		}
	}
	return nil
}

// SaveProducerOffers reconciles one producer's offer configuration in
// a distribution with the wizard draft: desired set, minimal diff,
// bulk apply, then the catalogue date denormalisation. Saving the same
// draft twice writes nothing the second time.
func SaveProducerOffers(ctx context.Context, dist *models.Distribution, producerID string, draft Draft) (upserted, deleted int, err error) {
	cat, err := loadCatalogue(ctx, producerID)
	if err != nil {
		return 0, 0, err
	}
	existing, err := loadExisting(ctx, dist.DistributionID, producerID)
	if err != nil {
		return 0, 0, err
	}

	desired := ComputeDesired(dist, producerID, draft, cat)
	toUpsert, toDelete := Diff(existing, desired)
	if err := applyPlan(ctx, toUpsert, toDelete); err != nil {
		return 0, 0, err
	}
	if err := syncCatalogueDates(ctx, dist, producerID, desired, cat); err != nil {
		return 0, 0, err
	}

	catalogue.InvalidateShopCache(dist.DistributionID)
	metrics.OfferSaves.Inc()
	log.Info().
		Str("distributionId", dist.DistributionID).
		Str("producerId", producerID).
		Int("upserted", len(toUpsert)).
		Int("deleted", len(toDelete)).
		Msg("offer configuration saved")
	return len(toUpsert), len(toDelete), nil
}

// stripProducerDates removes this distribution's date keys from the
// producer's variant activeDates and product saleDates. Keys written
// by other distributions survive.
func stripProducerDates(ctx context.Context, dist *models.Distribution, cat Catalogue) error {
	keys := make([]string, 0, len(dist.Dates))
	for _, d := range dist.Dates {
		keys = append(keys, distributions.DateKey(d))
	}

	for id, v := range cat.Variants {
		kept := StripDateKeys(v.ActiveDates, keys)
		if len(kept) == len(v.ActiveDates) {
			continue
		}
		if _, err := db.VariantsCollection.UpdateOne(ctx,
			bson.M{"variantId": id},
			bson.M{"$set": bson.M{"activeDates": kept}}); err != nil {
			return err
		}
	}
	for id, p := range cat.Products {
		kept := StripDateKeys(p.SaleDates, keys)
		if len(kept) == len(p.SaleDates) {
			continue
		}
		if _, err := db.ProductsCollection.UpdateOne(ctx,
			bson.M{"productId": id},
			bson.M{"$set": bson.M{"saleDates": kept}}); err != nil {
			return err
		}
	}
	return nil
}

// RemoveProducer strips a deselected producer from a distribution:
// their offer items go away and this distribution's date keys are
// removed from their catalogue.
func RemoveProducer(ctx context.Context, dist *models.Distribution, producerID string) error {
	if _, err := db.OfferItemsCollection.DeleteMany(ctx,
		bson.M{"distributionId": dist.DistributionID, "producerId": producerID}); err != nil {
		return err
	}
	cat, err := loadCatalogue(ctx, producerID)
	if err != nil {
		return err
	}
	if err := stripProducerDates(ctx, dist, cat); err != nil {
		return err
	}
	catalogue.InvalidateShopCache(dist.DistributionID)
	return nil
}
