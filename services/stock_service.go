package services

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/naeembaloch9099/EComerce-sub000/models"
)

// StockLedger is the single authority for product availability. Decrement and
// Restore are atomic conditional updates, never read-then-write, so two
// concurrent checkouts can't both take the last unit.
type StockLedger interface {
	CheckAvailable(ctx context.Context, productID primitive.ObjectID, v models.Variant, qty int) (bool, error)
	Decrement(ctx context.Context, productID primitive.ObjectID, v models.Variant, qty int) error
	Restore(ctx context.Context, productID primitive.ObjectID, v models.Variant, qty int) error
}

// MongoStockLedger backs the ledger with the products collection. Conditions
// ride in the update filter so the check and the write are one operation.
type MongoStockLedger struct {
	products *mongo.Collection
}

func NewMongoStockLedger(products *mongo.Collection) *MongoStockLedger {
	return &MongoStockLedger{products: products}
}

func (l *MongoStockLedger) CheckAvailable(ctx context.Context, productID primitive.ObjectID, v models.Variant, qty int) (bool, error) {
	var product models.Product
	err := l.products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, models.ErrProductNotFound
		}
		return false, fmt.Errorf("stock check: %w", err)
	}
	return product.AvailableStock(v) >= qty, nil
}

func (l *MongoStockLedger) Decrement(ctx context.Context, productID primitive.ObjectID, v models.Variant, qty int) error {
	if qty <= 0 {
		return nil
	}

	filter := bson.M{"_id": productID, "stock": bson.M{"$gte": qty}}

	// A size/color selector only conditions the update when the product
	// actually tracks variant counters; products with a single total counter
	// ignore the selector, matching AvailableStock. Two conditional updates,
	// each atomic: the fallback requires variantStock to be absent, so a
	// variant-tracked product can never be decremented past its variant
	// counter through it.
	if key := v.Key(); key != "" {
		field := "variantStock." + key
		withVariant := bson.M{"_id": productID, "stock": bson.M{"$gte": qty}, field: bson.M{"$gte": qty}}
		res, err := l.products.UpdateOne(ctx, withVariant,
			bson.M{"$inc": bson.M{"stock": -qty, "soldCount": qty, field: -qty}})
		if err != nil {
			return fmt.Errorf("stock decrement: %w", err)
		}
		if res.MatchedCount > 0 {
			return nil
		}
		filter["variantStock"] = bson.M{"$exists": false}
	}

	res, err := l.products.UpdateOne(ctx, filter,
		bson.M{"$inc": bson.M{"stock": -qty, "soldCount": qty}})
	if err != nil {
		return fmt.Errorf("stock decrement: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either the product is gone or the conditional lost the race.
		// Both read as insufficient stock to the caller, who re-validates.
		return models.ErrInsufficientStock
	}
	return nil
}

func (l *MongoStockLedger) Restore(ctx context.Context, productID primitive.ObjectID, v models.Variant, qty int) error {
	if qty <= 0 {
		return nil
	}

	// Restoring more than was ever decremented is a logic error, caught by
	// conditioning on the sold counter instead of silently absorbing it.
	filter := bson.M{"_id": productID, "soldCount": bson.M{"$gte": qty}}

	// The variant counter only moves when the product already has that
	// entry; restoring into a total-only product must not plant a phantom
	// variantStock map. Restoring a variant the product never sold falls
	// through both updates and reads as an excess restore.
	if key := v.Key(); key != "" {
		field := "variantStock." + key
		withVariant := bson.M{"_id": productID, "soldCount": bson.M{"$gte": qty}, field: bson.M{"$exists": true}}
		res, err := l.products.UpdateOne(ctx, withVariant,
			bson.M{"$inc": bson.M{"stock": qty, "soldCount": -qty, field: qty}})
		if err != nil {
			return fmt.Errorf("stock restore: %w", err)
		}
		if res.MatchedCount > 0 {
			return nil
		}
		filter["variantStock"] = bson.M{"$exists": false}
	}

	res, err := l.products.UpdateOne(ctx, filter,
		bson.M{"$inc": bson.M{"stock": qty, "soldCount": -qty}})
	if err != nil {
		return fmt.Errorf("stock restore: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrExcessRestore
	}
	return nil
}

// MemoryStockLedger keeps counters in process with the same conditional
// semantics as the Mongo implementation. Useful for tests and local runs
// without a database.
type MemoryStockLedger struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]*memoryStockRecord
}

type memoryStockRecord struct {
	stock     int
	variants  map[string]int
	soldCount int
}

func NewMemoryStockLedger() *MemoryStockLedger {
	return &MemoryStockLedger{records: make(map[primitive.ObjectID]*memoryStockRecord)}
}

// Seed installs the counters for a product, replacing any existing record.
func (l *MemoryStockLedger) Seed(productID primitive.ObjectID, total int, variants map[string]int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec := &memoryStockRecord{stock: total}
	if len(variants) > 0 {
		rec.variants = make(map[string]int, len(variants))
		for k, n := range variants {
			rec.variants[k] = n
		}
	}
	l.records[productID] = rec
}

func (l *MemoryStockLedger) CheckAvailable(_ context.Context, productID primitive.ObjectID, v models.Variant, qty int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[productID]
	if !ok {
		return false, models.ErrProductNotFound
	}
	return rec.available(v) >= qty, nil
}

func (l *MemoryStockLedger) Decrement(_ context.Context, productID primitive.ObjectID, v models.Variant, qty int) error {
	if qty <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[productID]
	if !ok || rec.stock < qty {
		return models.ErrInsufficientStock
	}
	key := v.Key()
	if key != "" && rec.variants != nil {
		if rec.variants[key] < qty {
			return models.ErrInsufficientStock
		}
		rec.variants[key] -= qty
	}
	rec.stock -= qty
	rec.soldCount += qty
	return nil
}

func (l *MemoryStockLedger) Restore(_ context.Context, productID primitive.ObjectID, v models.Variant, qty int) error {
	if qty <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[productID]
	if !ok || rec.soldCount < qty {
		return models.ErrExcessRestore
	}
	if key := v.Key(); key != "" && rec.variants != nil {
		rec.variants[key] += qty
	}
	rec.stock += qty
	rec.soldCount -= qty
	return nil
}

// Stock reports the current total counter, for tests and diagnostics.
func (l *MemoryStockLedger) Stock(productID primitive.ObjectID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rec, ok := l.records[productID]; ok {
		return rec.stock
	}
	return 0
}

func (r *memoryStockRecord) available(v models.Variant) int {
	if key := v.Key(); key != "" && r.variants != nil {
		return r.variants[key]
	}
	return r.stock
}
