package addresses

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/apperr"
	"storefront/internal/database"
	"storefront/internal/models"
)

// Store keeps the single saved address of each user. The unique index on
// userId decides races between concurrent creates.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) addresses() *mongo.Collection {
	return s.db.Collection(database.AddressesCollection)
}

func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, fields models.ShippingAddress) (*models.Address, error) {
	fields = Normalize(fields)
	if missing := MissingFields(fields); len(missing) > 0 {
		return nil, apperr.Validation("address is incomplete", missing...)
	}

	now := time.Now().UTC()
	address := toDocument(fields)
	address.UserID = userID
	address.CreatedAt = now
	address.UpdatedAt = now

	res, err := s.addresses().InsertOne(ctx, address)
	if err != nil {
		return nil, apperr.FromStore(err, "", "address already exists for user")
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		address.ID = id
	}

	log.Println("[ADDRESS] [INFO] address created for user:", userID.Hex())
	return &address, nil
}

func (s *Store) Update(ctx context.Context, userID primitive.ObjectID, fields models.ShippingAddress) (*models.Address, error) {
	fields = Normalize(fields)
	if missing := MissingFields(fields); len(missing) > 0 {
		return nil, apperr.Validation("address is incomplete", missing...)
	}

	update := bson.M{"$set": bson.M{
		"name":      fields.Name,
		"email":     fields.Email,
		"number":    fields.Number,
		"address":   fields.Address,
		"city":      fields.City,
		"zipcode":   fields.Zipcode,
		"region":    fields.Region,
		"country":   fields.Country,
		"updatedAt": time.Now().UTC(),
	}}

	var address models.Address
	err := s.addresses().FindOneAndUpdate(
		ctx,
		bson.M{"userId": userID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&address)
	if err != nil {
		return nil, apperr.FromStore(err, "address not found", "")
	}

	log.Println("[ADDRESS] [INFO] address updated for user:", userID.Hex())
	return &address, nil
}

// CreateIfMissing saves fields as the user's address unless one already
// exists. It upserts instead of inserting so that, inside a transaction, a
// concurrent first checkout does not abort on the unique index.
func (s *Store) CreateIfMissing(ctx context.Context, userID primitive.ObjectID, fields models.ShippingAddress) (bool, error) {
	fields = Normalize(fields)
	if missing := MissingFields(fields); len(missing) > 0 {
		return false, apperr.Validation("address is incomplete", missing...)
	}

	now := time.Now().UTC()
	res, err := s.addresses().UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$setOnInsert": bson.M{
			"name":      fields.Name,
			"email":     fields.Email,
			"number":    fields.Number,
			"address":   fields.Address,
			"city":      fields.City,
			"zipcode":   fields.Zipcode,
			"region":    fields.Region,
			"country":   fields.Country,
			"createdAt": now,
			"updatedAt": now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, apperr.FromStore(err, "", "address already exists for user")
	}

	created := res.UpsertedCount == 1
	if created {
		log.Println("[ADDRESS] [INFO] address saved from checkout for user:", userID.Hex())
	}
	return created, nil
}

// Get returns nil without error when the user has no saved address.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (*models.Address, error) {
	var address models.Address
	err := s.addresses().FindOne(ctx, bson.M{"userId": userID}).Decode(&address)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	return &address, nil
}
