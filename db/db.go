package db

import (
	"context"
	"time"

	"brouette/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	MembersCollection               *mongo.Collection
	ProducersCollection             *mongo.Collection
	ProductsCollection              *mongo.Collection
	VariantsCollection              *mongo.Collection
	CategoriesCollection            *mongo.Collection
	DistributionsCollection         *mongo.Collection
	DistributionProducersCollection *mongo.Collection
	OfferItemsCollection            *mongo.Collection
	OrdersCollection                *mongo.Collection
	OrderItemsCollection            *mongo.Collection
	CartsCollection                 *mongo.Collection
	InvitesCollection               *mongo.Collection
	MessagesCollection              *mongo.Collection
	DocumentsCollection             *mongo.Collection
	SettingsCollection              *mongo.Collection
	Client                          *mongo.Client
)

// Init connects to MongoDB and binds every collection handle.
// Firestore-era subcollections (distributionDates/{id}/producers,
// distributionDates/{id}/offerItems, orders/{id}/items, products/{id}/variants)
// live as flat collections carrying the parent id.
func Init(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return err
	}
	Client = client

	database := client.Database(cfg.MongoDB)
	MembersCollection = database.Collection("members")
	ProducersCollection = database.Collection("producers")
	ProductsCollection = database.Collection("products")
	VariantsCollection = database.Collection("variants")
	CategoriesCollection = database.Collection("categories")
	DistributionsCollection = database.Collection("distributionDates")
	DistributionProducersCollection = database.Collection("distributionProducers")
	OfferItemsCollection = database.Collection("offerItems")
	OrdersCollection = database.Collection("orders")
	OrderItemsCollection = database.Collection("orderItems")
	CartsCollection = database.Collection("carts")
	InvitesCollection = database.Collection("invites")
	MessagesCollection = database.Collection("messages")
	DocumentsCollection = database.Collection("documents")
	SettingsCollection = database.Collection("settings")
	return nil
}

// WithTxn runs fn inside a transaction when the deployment supports
// sessions, and falls back to a plain call against standalone servers.
func WithTxn(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := Client.StartSession()
	if err != nil {
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Close disconnects the client, used during graceful shutdown.
func Close(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}
