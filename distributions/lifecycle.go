package distributions

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"brouette/db"
	"brouette/metrics"
	"brouette/models"
	"brouette/mq"
	"brouette/rdx"
)

// dropShopCache evicts the cached shop listing. The key matches what
// the catalogue package writes.
func dropShopCache(distributionID string) {
	if rdx.Conn == nil {
		return
	}
	_ = rdx.RdxDel("shop:" + distributionID)
}

var (
	ErrNotFound      = errors.New("distribution not found")
	ErrAlreadyOpen   = errors.New("distribution is already open")
	ErrNotOpen       = errors.New("distribution is not open")
	ErrAlreadyClosed = errors.New("distribution is already finished")
)

// canOpen reports whether a distribution in the given status may be
// opened. Finished distributions stay finished; running the sale again
// means creating a new distribution.
func canOpen(status string) error {
	if IsOpenStatus(status) {
		return ErrAlreadyOpen
	}
	if status != models.DistributionPlanned {
		return ErrAlreadyClosed
	}
	return nil
}

// Open flips a planned distribution to open, stamps openedAt, and
// closes any other distribution still marked open so at most one sale
// is running. Reopening an open or finished distribution is rejected.
func Open(ctx context.Context, distributionID string) (*models.Distribution, error) {
	var dist models.Distribution
	err := db.DistributionsCollection.FindOne(ctx, bson.M{"distributionId": distributionID}).Decode(&dist)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := canOpen(dist.Status); err != nil {
		return nil, err
	}

	now := time.Now()
	err = db.WithTxn(ctx, func(ctx context.Context) error {
		_, err := db.DistributionsCollection.UpdateMany(ctx,
			bson.M{"status": bson.M{"$in": []string{models.DistributionOpen, "ouverte", "ouvertes"}}},
			bson.M{"$set": bson.M{"status": models.DistributionFinished}})
		if err != nil {
			return err
		}
		_, err = db.DistributionsCollection.UpdateOne(ctx,
			bson.M{"distributionId": distributionID},
			bson.M{"$set": bson.M{"status": models.DistributionOpen, "openedAt": now}})
		return err
	})
	if err != nil {
		return nil, err
	}

	dist.Status = models.DistributionOpen
	dist.OpenedAt = &now
	dropShopCache(distributionID)
	metrics.SalesOpened.Inc()
	mq.Emit("sale-opened", mq.Event{DistributionID: distributionID, At: now})
	log.Info().Str("distributionId", distributionID).Msg("sale opened")
	return &dist, nil
}

// Close flips an open distribution to finished.
func Close(ctx context.Context, distributionID string) (*models.Distribution, error) {
	var dist models.Distribution
	err := db.DistributionsCollection.FindOne(ctx, bson.M{"distributionId": distributionID}).Decode(&dist)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if dist.Status == models.DistributionFinished {
		return nil, ErrAlreadyClosed
	}
	if !IsOpenStatus(dist.Status) {
		return nil, ErrNotOpen
	}

	_, err = db.DistributionsCollection.UpdateOne(ctx,
		bson.M{"distributionId": distributionID},
		bson.M{"$set": bson.M{"status": models.DistributionFinished}})
	if err != nil {
		return nil, err
	}

	dist.Status = models.DistributionFinished
	dropShopCache(distributionID)
	metrics.SalesClosed.Inc()
	mq.Emit("sale-closed", mq.Event{DistributionID: distributionID, At: time.Now()})
	log.Info().Str("distributionId", distributionID).Msg("sale closed")
	return &dist, nil
}

// FindOpen loads every distribution and picks the one currently open.
func FindOpen(ctx context.Context) (*models.Distribution, error) {
	cursor, err := db.DistributionsCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var all []models.Distribution
	if err := cursor.All(ctx, &all); err != nil {
		return nil, err
	}
	return PickOpen(all), nil
}
