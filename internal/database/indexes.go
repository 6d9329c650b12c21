package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates every index the storefront relies on. The unique
// indexes carry invariants (one address per user, one payment per order,
// unique trxId), so callers should treat a failure as fatal.
func EnsureIndexes(db *mongo.Database) error {
	steps := []func(*mongo.Database) error{
		EnsureProductIndexes,
		EnsureUserIndexes,
		EnsureOrderIndexes,
		EnsurePaymentIndexes,
		EnsureAddressIndexes,
		EnsureCartIndexes,
	}
	for _, step := range steps {
		if err := step(db); err != nil {
			return err
		}
	}
	return nil
}

func createIndexes(db *mongo.Database, collection string, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Printf("[DB] [INFO] creating %d index(es) on %s", len(models), collection)
	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		log.Printf("[DB] [ERROR] %s index error: %v", collection, err)
		return err
	}
	log.Printf("[DB] [INFO] %s indexes ready: %v", collection, names)
	return nil
}

func existsFilter(field string) bson.M {
	return bson.M{field: bson.M{"$exists": true}}
}

func EnsureProductIndexes(db *mongo.Database) error {
	return createIndexes(db, ProductsCollection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("slug_unique").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "sku", Value: 1}},
			Options: options.Index().
				SetName("sku_unique").
				SetUnique(true).
				SetPartialFilterExpression(existsFilter("sku")),
		},
		{
			Keys:    bson.D{{Key: "isPublished", Value: 1}, {Key: "stock", Value: 1}},
			Options: options.Index().SetName("published_stock"),
		},
	})
}

func EnsureUserIndexes(db *mongo.Database) error {
	return createIndexes(db, UsersCollection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
	})
}

func EnsureOrderIndexes(db *mongo.Database) error {
	return createIndexes(db, OrdersCollection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("userId_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_index"),
		},
	})
}

func EnsurePaymentIndexes(db *mongo.Database) error {
	return createIndexes(db, PaymentsCollection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetName("orderId_unique").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "trxId", Value: 1}},
			Options: options.Index().
				SetName("trxId_unique").
				SetUnique(true).
				SetPartialFilterExpression(existsFilter("trxId")),
		},
		{
			Keys:    bson.D{{Key: "method", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("method_status"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("userId_status"),
		},
	})
}

func EnsureAddressIndexes(db *mongo.Database) error {
	return createIndexes(db, AddressesCollection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_unique").SetUnique(true),
		},
	})
}

func EnsureCartIndexes(db *mongo.Database) error {
	return createIndexes(db, CartsCollection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_unique").SetUnique(true),
		},
	})
}
