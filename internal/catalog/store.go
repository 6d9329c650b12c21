package catalog

import (
	"context"
	"log"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/apperr"
	"storefront/internal/database"
	"storefront/internal/models"
)

// Store reads the product catalog and moves stock. Every method accepts a
// session context so it can run inside a checkout transaction.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) products() *mongo.Collection {
	return s.db.Collection(database.ProductsCollection)
}

// ListFilter narrows the public product listing. Page and Limit of zero
// return everything.
type ListFilter struct {
	Category string
	Search   string
	Page     int64
	Limit    int64
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Product, int64, error) {
	filter := bson.M{"isPublished": true}
	if category := strings.TrimSpace(f.Category); category != "" {
		filter["category"] = category
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Page > 0 && f.Limit > 0 {
		findOptions.SetSkip((f.Page - 1) * f.Limit).SetLimit(f.Limit)
	}

	total, err := s.products().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.FromStore(err, "", "")
	}

	cursor, err := s.products().Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, apperr.FromStore(err, "", "")
	}
	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, 0, apperr.Internal("decode error", err)
	}
	return products, total, nil
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := s.products().FindOne(ctx, bson.M{"slug": strings.TrimSpace(slug), "isPublished": true}).Decode(&product)
	if err != nil {
		return nil, apperr.FromStore(err, "product not found", "")
	}
	decorate(&product)
	return &product, nil
}

// Published loads a product that can currently be sold.
func (s *Store) Published(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.products().FindOne(ctx, bson.M{"_id": id, "isPublished": true}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.Validation("product not available", "product "+id.Hex()+" not found")
	}
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	decorate(&product)
	return &product, nil
}

// Quote prices one line from the live catalog.
func (s *Store) Quote(ctx context.Context, productID primitive.ObjectID, variant *models.Variant) (Quote, error) {
	product, err := s.Published(ctx, productID)
	if err != nil {
		return Quote{}, err
	}
	unit, available, err := UnitPrice(*product, variant)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: unit,
		Available: available,
	}, nil
}

// Reserve takes quantity units off the shelf. The decrement only applies when
// enough stock remains, so concurrent orders never drive stock negative.
func (s *Store) Reserve(ctx context.Context, productID primitive.ObjectID, variant *models.Variant, quantity int) error {
	filter := bson.M{"_id": productID, "stock": bson.M{"$gte": quantity}}
	field := "stock"
	if !variant.IsZero() {
		filter = bson.M{
			"_id":      productID,
			"variants": bson.M{"$elemMatch": variantMatch(*variant, bson.M{"stock": bson.M{"$gte": quantity}})},
		}
		field = "variants.$.stock"
	}

	res, err := s.products().UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{field: -quantity},
		"$currentDate": bson.M{"updatedAt": true},
	})
	if err != nil {
		return apperr.FromStore(err, "", "")
	}
	if res.MatchedCount == 0 {
		log.Printf("[CATALOG] [WARN] insufficient stock for %s (requested %d)", productID.Hex(), quantity)
		return apperr.Conflict("insufficient stock for product " + productID.Hex())
	}
	return nil
}

// Release puts reserved units back.
func (s *Store) Release(ctx context.Context, productID primitive.ObjectID, variant *models.Variant, quantity int) error {
	filter, field := stockFilter(productID, variant)
	res, err := s.products().UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{field: quantity},
		"$currentDate": bson.M{"updatedAt": true},
	})
	if err != nil {
		return apperr.FromStore(err, "", "")
	}
	if res.MatchedCount == 0 {
		// product was removed after the order; nothing to restock
		log.Printf("[CATALOG] [WARN] release skipped, product %s not found", productID.Hex())
	}
	return nil
}

// LowStock lists published products whose stock is at or below threshold.
func (s *Store) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	filter := bson.M{"isPublished": true, "stock": bson.M{"$lte": threshold}}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "stock", Value: 1}}).
		SetProjection(bson.M{"name": 1, "slug": 1, "sku": 1, "stock": 1, "price": 1, "isPublished": 1})

	cursor, err := s.products().Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, apperr.Internal("decode error", err)
	}
	return products, nil
}

func stockFilter(productID primitive.ObjectID, variant *models.Variant) (bson.M, string) {
	if variant.IsZero() {
		return bson.M{"_id": productID}, "stock"
	}
	return bson.M{
		"_id":      productID,
		"variants": bson.M{"$elemMatch": variantMatch(*variant, nil)},
	}, "variants.$.stock"
}

// variantMatch treats an empty color or size as "not set on the variant".
func variantMatch(v models.Variant, extra bson.M) bson.M {
	match := bson.M{
		"color": matchOptional(v.Color),
		"size":  matchOptional(v.Size),
	}
	for k, val := range extra {
		match[k] = val
	}
	return match
}

func matchOptional(value string) interface{} {
	if value == "" {
		return bson.M{"$in": bson.A{nil, ""}}
	}
	return value
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		decorate(&product)
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// decorate fills the fields derived on read.
func decorate(p *models.Product) {
	p.IsOnSale = p.OnSale()
	markInStock(p)
}

func markInStock(p *models.Product) {
	p.InStock = p.Stock > 0
	for _, v := range p.Variants {
		if v.Stock > 0 {
			p.InStock = true
			return
		}
	}
}
