package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/naeembaloch9099/EComerce-sub000/models"
)

// cartSaveRetries bounds the optimistic-concurrency retry loop. Two tabs
// mutating the same cart resolve by reload-and-reapply, not blind overwrite.
const cartSaveRetries = 3

type CartService struct {
	carts    *mongo.Collection
	products *mongo.Collection
	coupons  models.CouponResolver
	logger   *zap.Logger
	now      func() time.Time
}

func NewCartService(carts, products *mongo.Collection, coupons models.CouponResolver, logger *zap.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		coupons:  coupons,
		logger:   logger,
		now:      time.Now,
	}
}

// GetCart loads the user's cart, creating it lazily on first access. Items
// whose product has gone inactive or out of stock are dropped, and the
// filtered cart is persisted so a stale reference never resurfaces.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	dropped := 0
	for _, it := range cart.Items {
		product, err := s.findProduct(ctx, it.ProductID)
		if err != nil {
			if err == models.ErrProductNotFound {
				dropped++
				continue
			}
			return nil, err
		}
		if !product.IsActive || product.AvailableStock(it.Variant) == 0 {
			dropped++
			continue
		}
		kept = append(kept, it)
	}

	if dropped > 0 {
		cart.Items = kept
		cart.Refresh(s.now())
		if err := s.save(ctx, cart); err != nil && err != models.ErrCartConflict {
			return nil, err
		}
		s.logger.Info("filtered dead cart items",
			zap.String("user_id", userID.Hex()),
			zap.Int("dropped", dropped))
	}
	return cart, nil
}

// AddItem validates the product and current stock, then merges or appends the
// line per the cart aggregate rules.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, v models.Variant, qty int) (*models.Cart, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, models.ErrProductNotFound
	}

	return s.mutate(ctx, userID, func(cart *models.Cart) error {
		return cart.AddItem(product, v, qty, product.AvailableStock(v), s.now())
	})
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID primitive.ObjectID, qty int) (*models.Cart, error) {
	return s.mutate(ctx, userID, func(cart *models.Cart) error {
		idx := -1
		for i, it := range cart.Items {
			if it.ID == itemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return models.ErrCartItemNotFound
		}

		available := 0
		if qty > 0 {
			product, err := s.findProduct(ctx, cart.Items[idx].ProductID)
			if err != nil {
				return err
			}
			available = product.AvailableStock(cart.Items[idx].Variant)
		}
		return cart.UpdateItemQuantity(itemID, qty, available, s.now())
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) (*models.Cart, error) {
	return s.mutate(ctx, userID, func(cart *models.Cart) error {
		return cart.RemoveItem(itemID, s.now())
	})
}

func (s *CartService) ClearCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	return s.mutate(ctx, userID, func(cart *models.Cart) error {
		cart.Clear(s.now())
		return nil
	})
}

// ApplyCoupon resolves the code through the pluggable resolver and applies it
// against the current subtotal.
func (s *CartService) ApplyCoupon(ctx context.Context, userID primitive.ObjectID, code string) (*models.Cart, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, models.ErrInvalidCoupon
	}

	coupon, err := s.coupons.ResolveCoupon(ctx, code)
	if err != nil {
		return nil, err
	}
	if !coupon.Usable(s.now()) {
		return nil, models.ErrInvalidCoupon
	}

	return s.mutate(ctx, userID, func(cart *models.Cart) error {
		return cart.ApplyCoupon(coupon, s.now())
	})
}

func (s *CartService) RemoveCoupon(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	return s.mutate(ctx, userID, func(cart *models.Cart) error {
		return cart.RemoveCoupon(s.now())
	})
}

// Summary recomputes the projection from the filtered cart on every read.
func (s *CartService) Summary(ctx context.Context, userID primitive.ObjectID) (models.CartSummary, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return models.CartSummary{}, err
	}
	return cart.Summary(), nil
}

// SweepAbandoned deletes empty carts untouched for longer than age. Non-empty
// carts are never swept.
func (s *CartService) SweepAbandoned(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := s.now().Add(-age)
	res, err := s.carts.DeleteMany(ctx, bson.M{
		"items":        bson.M{"$size": 0},
		"lastModified": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("cart sweep: %w", err)
	}
	if res.DeletedCount > 0 {
		s.logger.Info("swept abandoned carts", zap.Int64("deleted", res.DeletedCount))
	}
	return res.DeletedCount, nil
}

// mutate runs fn against a freshly loaded cart and saves it with a revision
// check, retrying on conflict.
func (s *CartService) mutate(ctx context.Context, userID primitive.ObjectID, fn func(*models.Cart) error) (*models.Cart, error) {
	var lastErr error
	for attempt := 0; attempt < cartSaveRetries; attempt++ {
		cart, err := s.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := fn(cart); err != nil {
			return nil, err
		}
		if err := s.save(ctx, cart); err != nil {
			if err == models.ErrCartConflict {
				lastErr = err
				continue
			}
			return nil, err
		}
		return cart, nil
	}
	return nil, lastErr
}

func (s *CartService) load(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == nil {
		return &cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	fresh := models.NewCart(userID, s.now())
	if _, err := s.carts.InsertOne(ctx, fresh); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the creation race to a concurrent request; use theirs.
			if err := s.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
				return nil, fmt.Errorf("load cart: %w", err)
			}
			return &cart, nil
		}
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return fresh, nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) error {
	prev := cart.Revision
	cart.Revision = prev + 1

	res, err := s.carts.ReplaceOne(ctx, bson.M{"_id": cart.ID, "revision": prev}, cart)
	if err != nil {
		cart.Revision = prev
		return fmt.Errorf("save cart: %w", err)
	}
	if res.MatchedCount == 0 {
		cart.Revision = prev
		return models.ErrCartConflict
	}
	return nil
}

func (s *CartService) findProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

// MongoCouponResolver resolves coupon codes from the coupons collection.
type MongoCouponResolver struct {
	coupons *mongo.Collection
}

func NewMongoCouponResolver(coupons *mongo.Collection) *MongoCouponResolver {
	return &MongoCouponResolver{coupons: coupons}
}

func (r *MongoCouponResolver) ResolveCoupon(ctx context.Context, code string) (models.Coupon, error) {
	var coupon models.Coupon
	err := r.coupons.FindOne(ctx, bson.M{"code": strings.ToUpper(code)}).Decode(&coupon)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Coupon{}, models.ErrInvalidCoupon
		}
		return models.Coupon{}, fmt.Errorf("resolve coupon: %w", err)
	}
	return coupon, nil
}
