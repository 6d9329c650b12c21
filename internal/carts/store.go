package carts

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

// Products checks that a product may be put in a cart.
type Products interface {
	Published(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// Store keeps one server side cart per user.
type Store struct {
	db       *mongo.Database
	products Products
}

func NewStore(db *mongo.Database, products Products) *Store {
	return &Store{db: db, products: products}
}

func (s *Store) carts() *mongo.Collection {
	return s.db.Collection(database.CartsCollection)
}

// Get returns the user's cart; a user without one gets an empty cart.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts().FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// SetItem sets the quantity of one product line. Quantity zero removes it.
func (s *Store) SetItem(ctx context.Context, userID, productID primitive.ObjectID, variant *models.Variant, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, apperr.Validation("invalid quantity", "quantity cannot be negative")
	}
	if variant.IsZero() {
		variant = nil
	}

	if quantity > 0 {
		product, err := s.products.Published(ctx, productID)
		if err != nil {
			return nil, err
		}
		if variant != nil && product.FindVariant(*variant) < 0 {
			return nil, apperr.Validation("variant not available", "variant not found for "+product.Name)
		}
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Items = setLine(cart.Items, productID, variant, quantity)
	return s.save(ctx, userID, cart.Items)
}

// RemoveItem drops every line of a product, whatever its variant.
func (s *Store) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	return s.save(ctx, userID, kept)
}

// Clear empties the cart. Safe to call inside a checkout transaction.
func (s *Store) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.carts().UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return apperr.FromStore(err, "", "")
	}
	return nil
}

func (s *Store) save(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts().FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": items, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&cart)
	if err != nil {
		return nil, apperr.FromStore(err, "", "cart was created concurrently, retry")
	}

	log.Printf("[CART] [INFO] cart saved for user %s (%d lines)", userID.Hex(), len(cart.Items))
	return &cart, nil
}

func setLine(items []models.CartItem, productID primitive.ObjectID, variant *models.Variant, quantity int) []models.CartItem {
	out := make([]models.CartItem, 0, len(items)+1)
	found := false
	for _, item := range items {
		if item.SameLine(productID, variant) {
			found = true
			if quantity > 0 {
				item.Quantity = quantity
				out = append(out, item)
			}
			continue
		}
		out = append(out, item)
	}
	if !found && quantity > 0 {
		out = append(out, models.CartItem{ProductID: productID, Variant: variant, Quantity: quantity})
	}
	return out
}
