package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naeembaloch9099/EComerce-sub000/models"
)

func TestMemoryStockLedgerDecrement(t *testing.T) {
	ctx := context.Background()
	productID := primitive.NewObjectID()

	t.Run("rejects rather than clamps", func(t *testing.T) {
		ledger := NewMemoryStockLedger()
		ledger.Seed(productID, 3, nil)

		err := ledger.Decrement(ctx, productID, models.Variant{}, 5)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)
		assert.Equal(t, 3, ledger.Stock(productID), "a rejected decrement changes nothing")
	})

	t.Run("never goes below zero across a sequence", func(t *testing.T) {
		ledger := NewMemoryStockLedger()
		ledger.Seed(productID, 5, nil)

		require.NoError(t, ledger.Decrement(ctx, productID, models.Variant{}, 2))
		require.NoError(t, ledger.Decrement(ctx, productID, models.Variant{}, 3))
		assert.Equal(t, 0, ledger.Stock(productID))

		err := ledger.Decrement(ctx, productID, models.Variant{}, 1)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)
		assert.Equal(t, 0, ledger.Stock(productID))
	})

	t.Run("variant counters move with the total", func(t *testing.T) {
		ledger := NewMemoryStockLedger()
		ledger.Seed(productID, 10, map[string]int{"M|": 4, "L|": 6})

		v := models.Variant{Size: "M"}
		require.NoError(t, ledger.Decrement(ctx, productID, v, 4))

		ok, err := ledger.CheckAvailable(ctx, productID, v, 1)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = ledger.CheckAvailable(ctx, productID, models.Variant{Size: "L"}, 6)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 6, ledger.Stock(productID))
	})

	t.Run("selector on a total-only product uses the total counter", func(t *testing.T) {
		// A sized/colored cart line against a product that tracks a single
		// total counter must behave exactly like an unselected line: the
		// selector conditions nothing and plants nothing.
		ledger := NewMemoryStockLedger()
		ledger.Seed(productID, 50, nil)
		sized := models.Variant{Size: "M"}

		ok, err := ledger.CheckAvailable(ctx, productID, sized, 2)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, ledger.Decrement(ctx, productID, sized, 2),
			"available stock must be decrementable regardless of selector")
		assert.Equal(t, 48, ledger.Stock(productID))

		require.NoError(t, ledger.Restore(ctx, productID, sized, 2))
		assert.Equal(t, 50, ledger.Stock(productID))

		// No phantom variant entry: a different selector still sees the
		// full total counter.
		ok, err = ledger.CheckAvailable(ctx, productID, models.Variant{Size: "L"}, 50)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("selector the product never stocked fails on a variant-tracked product", func(t *testing.T) {
		ledger := NewMemoryStockLedger()
		ledger.Seed(productID, 10, map[string]int{"M|": 10})

		err := ledger.Decrement(ctx, productID, models.Variant{Size: "XL"}, 1)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)
		assert.Equal(t, 10, ledger.Stock(productID))
	})

	t.Run("unknown product", func(t *testing.T) {
		ledger := NewMemoryStockLedger()
		_, err := ledger.CheckAvailable(ctx, primitive.NewObjectID(), models.Variant{}, 1)
		assert.ErrorIs(t, err, models.ErrProductNotFound)
	})
}

func TestMemoryStockLedgerRestore(t *testing.T) {
	ctx := context.Background()
	productID := primitive.NewObjectID()

	t.Run("restore is the inverse of decrement", func(t *testing.T) {
		ledger := NewMemoryStockLedger()
		ledger.Seed(productID, 5, nil)

		require.NoError(t, ledger.Decrement(ctx, productID, models.Variant{}, 3))
		require.NoError(t, ledger.Restore(ctx, productID, models.Variant{}, 3))
		assert.Equal(t, 5, ledger.Stock(productID))
	})

	t.Run("restoring more than was decremented is an error", func(t *testing.T) {
		ledger := NewMemoryStockLedger()
		ledger.Seed(productID, 5, nil)

		require.NoError(t, ledger.Decrement(ctx, productID, models.Variant{}, 2))
		err := ledger.Restore(ctx, productID, models.Variant{}, 3)
		assert.ErrorIs(t, err, models.ErrExcessRestore)
		assert.Equal(t, 3, ledger.Stock(productID), "failed restore changes nothing")
	})
}

func TestConcurrentDecrementExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	productID := primitive.NewObjectID()
	ledger := NewMemoryStockLedger()
	ledger.Seed(productID, 3, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ledger.Decrement(ctx, productID, models.Variant{}, 2)
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, models.ErrInsufficientStock)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of two concurrent decrements fails")
	assert.Equal(t, 1, ledger.Stock(productID))
}

func TestConcurrentDecrementNeverNegative(t *testing.T) {
	ctx := context.Background()
	productID := primitive.NewObjectID()
	ledger := NewMemoryStockLedger()
	ledger.Seed(productID, 25, nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ledger.Decrement(ctx, productID, models.Variant{}, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, ledger.Stock(productID))
}
