package configs

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB dials MongoDB and verifies the connection with a ping.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

func GetCollection(client *mongo.Client, database, collectionName string) *mongo.Collection {
	return client.Database(database).Collection(collectionName)
}

// EnsureIndexes creates the indexes the fulfillment core relies on. The
// unique indexes on orderKey and orderNumber back the duplicate-key retry
// loop in order number generation.
func EnsureIndexes(ctx context.Context, client *mongo.Client, database string) error {
	orders := GetCollection(client, database, "orders")
	carts := GetCollection(client, database, "carts")
	coupons := GetCollection(client, database, "coupons")

	unique := options.Index().SetUnique(true)

	_, err := orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderKey", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	if _, err := carts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}}, Options: unique,
	}); err != nil {
		return err
	}

	_, err = coupons.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "code", Value: 1}}, Options: unique,
	})
	return err
}
