package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/razorpay/razorpay-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/naeembaloch9099/EComerce-sub000/events"
	"github.com/naeembaloch9099/EComerce-sub000/models"
)

// PaymentService reconciles orders against the payment provider. MarkPaid is
// the single entry point regardless of how the provider result arrived.
type PaymentService struct {
	orders    *mongo.Collection
	client    *razorpay.Client
	keyID     string
	keySecret string
	producer  *events.Producer
	logger    *zap.Logger
	now       func() time.Time
}

func NewPaymentService(orders *mongo.Collection, keyID, keySecret string, producer *events.Producer, logger *zap.Logger) *PaymentService {
	var client *razorpay.Client
	if keyID != "" && keySecret != "" {
		client = razorpay.NewClient(keyID, keySecret)
	}
	return &PaymentService{
		orders:    orders,
		client:    client,
		keyID:     keyID,
		keySecret: keySecret,
		producer:  producer,
		logger:    logger,
		now:       time.Now,
	}
}

// KeyID is handed to clients so they can open the provider's checkout widget.
func (s *PaymentService) KeyID() string { return s.keyID }

// CreateProviderOrder registers the order with Razorpay and stores the
// provider's order id for later signature verification. Amounts go to the
// provider in the smallest currency unit.
func (s *PaymentService) CreateProviderOrder(ctx context.Context, order *models.Order, currency string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("payment provider not configured")
	}
	if currency == "" {
		currency = "INR"
	}

	data := map[string]interface{}{
		"amount":   int64(math.Round(order.Total * 100)),
		"currency": currency,
		"receipt":  "receipt_" + order.OrderKey,
	}
	providerOrder, err := s.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("create provider order: %w", err)
	}

	providerOrderID, _ := providerOrder["id"].(string)
	if providerOrderID == "" {
		return "", fmt.Errorf("create provider order: no id in response")
	}

	_, err = s.orders.UpdateOne(ctx,
		bson.M{"_id": order.ID},
		bson.M{"$set": bson.M{"providerOrderId": providerOrderID, "updatedAt": s.now()}})
	if err != nil {
		return "", fmt.Errorf("store provider order id: %w", err)
	}
	order.ProviderOrderID = providerOrderID
	return providerOrderID, nil
}

// VerifySignature checks the HMAC the provider sends with a redirect
// callback. Webhook and polling paths do their own verification upstream.
func (s *PaymentService) VerifySignature(providerOrderID, paymentID, signature string) bool {
	return VerifyRazorpaySignature(s.keySecret, providerOrderID, paymentID, signature)
}

// VerifyRazorpaySignature recomputes the expected HMAC-SHA256 over
// "<orderID>|<paymentID>" and compares in constant time.
func VerifyRazorpaySignature(secret, providerOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(providerOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// MarkPaid idempotently applies a verified, normalized provider result to the
// order. A repeated callback is a no-op success. The full result shape is
// validated before any field is mutated.
func (s *PaymentService) MarkPaid(ctx context.Context, orderID primitive.ObjectID, res models.PaymentResult) (*models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	changed, err := order.MarkPaid(res, s.now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return &order, nil
	}

	// Guard the persist on isPaid=false so two concurrent callbacks can't
	// both win; the loser reloads and reports the already-paid order.
	result, err := s.orders.ReplaceOne(ctx, bson.M{"_id": order.ID, "isPaid": false}, &order)
	if err != nil {
		return nil, fmt.Errorf("persist payment: %w", err)
	}
	if result.MatchedCount == 0 {
		if err := s.orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			return nil, fmt.Errorf("reload order: %w", err)
		}
		return &order, nil
	}

	s.producer.PublishAsync(order.OrderKey, events.OrderPaidEvent{
		EventID:               uuid.NewString(),
		OrderKey:              order.OrderKey,
		Amount:                res.Amount,
		Currency:              res.Currency,
		ProviderTransactionID: res.ProviderTransactionID,
		Timestamp:             s.now(),
	})

	s.logger.Info("order marked paid",
		zap.String("order_key", order.OrderKey),
		zap.String("provider_txn", res.ProviderTransactionID),
		zap.Float64("amount", res.Amount))

	return &order, nil
}
