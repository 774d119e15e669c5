package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/naeembaloch9099/EComerce-sub000/events"
	"github.com/naeembaloch9099/EComerce-sub000/models"
)

const (
	orderNumberPrefix  = "ORD"
	orderNumberRetries = 5
)

// OrderPolicy carries the pricing and reservation knobs the order service
// applies at checkout.
type OrderPolicy struct {
	TaxRate                float64
	FreeShippingThreshold  float64
	ReserveStockAtCheckout bool
	DeliveryLeadDays       int
}

type OrderService struct {
	orders    *mongo.Collection
	addresses *mongo.Collection
	products  *mongo.Collection
	carts     *CartService
	stock     StockLedger
	producer  *events.Producer
	policy    OrderPolicy
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(
	orders, addresses, products *mongo.Collection,
	carts *CartService,
	stock StockLedger,
	producer *events.Producer,
	policy OrderPolicy,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		addresses: addresses,
		products:  products,
		carts:     carts,
		stock:     stock,
		producer:  producer,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

// CheckoutInput is what checkout needs beyond the cart itself.
type CheckoutInput struct {
	AddressID     primitive.ObjectID
	PaymentMethod models.PaymentMethod
}

// CreateOrder materializes the user's cart into an order: immutable item
// snapshots, computed totals, generated key and number, persisted in pending
// status. Creation, stock reservation and cart clearing are separate writes
// with no cross-document transaction; a crash between them is an accepted
// inconsistency window, which is why the cart clear is last and non-fatal.
func (s *OrderService) CreateOrder(ctx context.Context, userID primitive.ObjectID, input CheckoutInput) (*models.Order, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, models.ErrEmptyCart
	}

	address, err := s.findAddress(ctx, userID, input.AddressID)
	if err != nil {
		return nil, err
	}

	items, err := s.materializeItems(ctx, cart.Items)
	if err != nil {
		return nil, err
	}
	now := s.now()

	order := &models.Order{
		ID:              primitive.NewObjectID(),
		OrderKey:        uuid.NewString(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: address.Snapshot(),
		PaymentMethod:   input.PaymentMethod,
		Status:          models.StatusPending,
		StatusHistory: []models.StatusChange{{
			Status:    models.StatusPending,
			Timestamp: now,
			Note:      "order created",
			Actor:     "customer",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyTotals(order, cart.Discount, s.policy)

	if s.policy.ReserveStockAtCheckout {
		if err := s.reserveStock(ctx, items); err != nil {
			return nil, err
		}
		order.StockReserved = true
	}

	if err := s.insertWithNumber(ctx, order); err != nil {
		if order.StockReserved {
			s.releaseStock(ctx, items)
		}
		return nil, err
	}

	if _, err := s.carts.ClearCart(ctx, userID); err != nil {
		// The order exists; a surviving cart is recoverable noise.
		s.logger.Warn("failed to clear cart after checkout",
			zap.String("order_key", order.OrderKey),
			zap.Error(err))
	}

	s.producer.PublishAsync(order.OrderKey, events.OrderCreatedEvent{
		EventID:     uuid.NewString(),
		OrderKey:    order.OrderKey,
		OrderNumber: order.OrderNumber,
		UserID:      userID.Hex(),
		Total:       order.Total,
		Items:       order.Items,
		Status:      string(order.Status),
		Timestamp:   now,
	})

	s.logger.Info("order created",
		zap.String("order_key", order.OrderKey),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID.Hex()),
		zap.Float64("total", order.Total))

	return order, nil
}

// materializeItems snapshots each cart line. Only a line whose product is
// genuinely gone becomes a generic item with the cart-captured values;
// catalog drift never blocks a checkout, but a store failure mid-checkout
// must fail the checkout, not quietly downgrade every line.
func (s *OrderService) materializeItems(ctx context.Context, lines []models.CartItem) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		var product models.Product
		err := s.products.FindOne(ctx, bson.M{"_id": line.ProductID}).Decode(&product)
		switch {
		case err == mongo.ErrNoDocuments:
			items = append(items, materializeLine(line, nil))
		case err != nil:
			return nil, fmt.Errorf("materialize items: %w", err)
		default:
			items = append(items, materializeLine(line, &product))
		}
	}
	return items, nil
}

// materializeLine turns one cart line into its order snapshot; a nil product
// means the catalog entry no longer resolves.
func materializeLine(line models.CartItem, product *models.Product) models.OrderItem {
	if product == nil {
		return models.NewCustomOrderItem(line.Name, line.UnitPrice, line.Quantity, line.Variant, line.Image)
	}
	return models.NewOrderItem(product, line.Variant, line.Quantity)
}

// applyTotals computes subtotal, discount, shipping, tax and total. The
// free-shipping threshold is checked against the subtotal before discount.
func applyTotals(order *models.Order, discount *models.Discount, policy OrderPolicy) {
	var subtotal float64
	var totalItems int
	for _, it := range order.Items {
		subtotal += it.UnitPrice * float64(it.Quantity)
		totalItems += it.Quantity
	}
	subtotal = models.RoundCurrency(subtotal)

	var discountAmount float64
	if discount != nil {
		discountAmount = models.ApplyDiscount(subtotal, discount.Kind, discount.Value)
	}

	shipping := models.ShippingCost(subtotal, totalItems, policy.FreeShippingThreshold)
	tax := models.TaxAmount(subtotal-discountAmount, policy.TaxRate)

	total := models.RoundCurrency(subtotal + tax + shipping - discountAmount)
	if total < 0 {
		total = 0
	}

	order.Subtotal = subtotal
	order.Discount = discountAmount
	order.Shipping = shipping
	order.Tax = tax
	order.Total = total
}

// insertWithNumber assigns the next daily order number and inserts, retrying
// on a duplicate-key violation. The find-max read is inherently racy under
// concurrent same-day checkouts; the unique index is the arbiter.
func (s *OrderService) insertWithNumber(ctx context.Context, order *models.Order) error {
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		seq, err := s.nextSequence(ctx, order.CreatedAt)
		if err != nil {
			return err
		}
		order.OrderNumber = FormatOrderNumber(order.CreatedAt, seq)

		if _, err := s.orders.InsertOne(ctx, order); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return fmt.Errorf("insert order: %w", err)
		}
		return nil
	}
	return fmt.Errorf("insert order: exhausted %d attempts at a unique order number", orderNumberRetries)
}

func (s *OrderService) nextSequence(ctx context.Context, day time.Time) (int, error) {
	prefix := orderNumberPrefix + day.Format("060102")

	opts := options.FindOne().SetSort(bson.D{{Key: "orderNumber", Value: -1}})
	var last struct {
		OrderNumber string `bson:"orderNumber"`
	}
	err := s.orders.FindOne(ctx, bson.M{
		"orderNumber": bson.M{"$regex": "^" + prefix},
	}, opts).Decode(&last)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 1, nil
		}
		return 0, fmt.Errorf("next order number: %w", err)
	}

	var seq int
	if _, err := fmt.Sscanf(last.OrderNumber[len(prefix):], "%d", &seq); err != nil {
		return 0, fmt.Errorf("next order number: malformed %q", last.OrderNumber)
	}
	return seq + 1, nil
}

// FormatOrderNumber renders the human-facing number: prefix, YYMMDD, and a
// zero-padded daily sequence.
func FormatOrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s%s%04d", orderNumberPrefix, day.Format("060102"), seq)
}

func (s *OrderService) reserveStock(ctx context.Context, items []models.OrderItem) error {
	reserved := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		if !it.Resolved() {
			continue
		}
		if err := s.stock.Decrement(ctx, *it.ProductID, it.Variant, it.Quantity); err != nil {
			s.releaseStock(ctx, reserved)
			return err
		}
		reserved = append(reserved, it)
	}
	return nil
}

func (s *OrderService) releaseStock(ctx context.Context, items []models.OrderItem) {
	for _, it := range items {
		if !it.Resolved() {
			continue
		}
		if err := s.stock.Restore(ctx, *it.ProductID, it.Variant, it.Quantity); err != nil {
			s.logger.Error("failed to restore stock",
				zap.String("product_id", it.ProductID.Hex()),
				zap.Int("quantity", it.Quantity),
				zap.Error(err))
		}
	}
}

// GetOrder enforces ownership: a caller asking for someone else's order gets
// ErrNotOwner, not a silent not-found.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, models.ErrNotOwner
	}
	return order, nil
}

// ListOrders returns the user's orders newest first, optionally filtered by
// status, with the page count.
func (s *OrderService) ListOrders(ctx context.Context, userID primitive.ObjectID, status models.OrderStatus, page, limit int64) ([]models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := bson.M{"userId": userID}
	if status != "" {
		filter["status"] = status
	}

	total, err := s.orders.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	skip := (page - 1) * limit
	cursor, err := s.orders.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus moves an order along the state machine and applies the
// transition side effects: shipped stamps an estimated delivery date, and
// cancelled restores any reserved stock.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, next models.OrderStatus, note, actor string) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	now := s.now()
	if err := order.UpdateStatus(next, note, actor, now); err != nil {
		return nil, err
	}

	if next == models.StatusShipped && order.EstimatedDelivery == nil {
		eta := now.AddDate(0, 0, s.policy.DeliveryLeadDays)
		order.EstimatedDelivery = &eta
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	if next == models.StatusCancelled && order.StockReserved {
		s.releaseStock(ctx, order.Items)
	}

	s.producer.PublishAsync(order.OrderKey, events.OrderStatusChangedEvent{
		EventID:   uuid.NewString(),
		OrderKey:  order.OrderKey,
		From:      string(from),
		To:        string(next),
		Note:      note,
		Actor:     actor,
		Timestamp: now,
	})

	s.logger.Info("order status updated",
		zap.String("order_key", order.OrderKey),
		zap.String("from", string(from)),
		zap.String("to", string(next)))

	return order, nil
}

// Cancel is the self-service path: restricted to the owner and to orders that
// are still cancellable. Paid orders must go through a refund instead.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID primitive.ObjectID, note string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanCancel() {
		return nil, fmt.Errorf("%w: order %s is not cancellable", models.ErrIllegalTransition, order.Status)
	}
	return s.UpdateStatus(ctx, orderID, models.StatusCancelled, note, "customer")
}

func (s *OrderService) loadOrder(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	return &order, nil
}

func (s *OrderService) persist(ctx context.Context, order *models.Order) error {
	res, err := s.orders.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return fmt.Errorf("persist order: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

func (s *OrderService) findAddress(ctx context.Context, userID, addressID primitive.ObjectID) (*models.Address, error) {
	var address models.Address
	err := s.addresses.FindOne(ctx, bson.M{"_id": addressID, "userId": userID}).Decode(&address)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrAddressNotFound
		}
		return nil, fmt.Errorf("find address: %w", err)
	}
	return &address, nil
}
