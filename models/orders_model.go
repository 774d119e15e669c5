package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusReturned   OrderStatus = "returned"
	StatusRefunded   OrderStatus = "refunded"
)

// statusTransitions is the full table of legal transitions. cancelled and
// refunded are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusReturned},
	StatusDelivered:  {StatusReturned, StatusRefunded},
	StatusCancelled:  {},
	StatusReturned:   {StatusRefunded},
	StatusRefunded:   {},
}

// Valid reports whether s is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo consults the transition table.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range statusTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// StatusChange is one entry in the append-only status history.
type StatusChange struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Note      string      `bson:"note,omitempty" json:"note,omitempty"`
	Actor     string      `bson:"actor,omitempty" json:"actor,omitempty"`
}

// OrderItem is an immutable snapshot taken at order creation. A nil ProductID
// marks an item whose product could not be resolved at checkout; the snapshot
// fields are the caller-supplied values in that case.
type OrderItem struct {
	ProductID *primitive.ObjectID `bson:"productId,omitempty" json:"productId,omitempty"`
	Name      string              `bson:"name" json:"name"`
	SKU       string              `bson:"sku,omitempty" json:"sku,omitempty"`
	UnitPrice float64             `bson:"unitPrice" json:"unitPrice"`
	Quantity  int                 `bson:"quantity" json:"quantity"`
	Variant   Variant             `bson:"variant" json:"variant"`
	Image     string              `bson:"image,omitempty" json:"image,omitempty"`
}

// NewOrderItem snapshots a resolved product at its current effective price.
func NewOrderItem(p *Product, v Variant, qty int) OrderItem {
	id := p.ID
	return OrderItem{
		ProductID: &id,
		Name:      p.Name,
		SKU:       p.SKU,
		UnitPrice: p.EffectivePrice(),
		Quantity:  qty,
		Variant:   v,
		Image:     p.FirstImage(),
	}
}

// NewCustomOrderItem materializes a line whose product no longer resolves.
// Catalog drift must not block a checkout, so the cart-captured values are
// used verbatim.
func NewCustomOrderItem(name string, price float64, qty int, v Variant, image string) OrderItem {
	return OrderItem{
		Name:      name,
		UnitPrice: price,
		Quantity:  qty,
		Variant:   v,
		Image:     image,
	}
}

// Resolved reports whether the item still references a catalog product.
func (i OrderItem) Resolved() bool { return i.ProductID != nil }

// ShippingAddress is the address snapshot stored on the order.
type ShippingAddress struct {
	RecipientName string `bson:"recipientName" json:"recipientName"`
	StreetAddress string `bson:"streetAddress" json:"streetAddress"`
	City          string `bson:"city" json:"city"`
	State         string `bson:"state" json:"state"`
	ZipCode       string `bson:"zipCode" json:"zipCode"`
	Phone         string `bson:"phone,omitempty" json:"phone,omitempty"`
}

type PaymentMethod string

const (
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodCOD      PaymentMethod = "cod"
)

// PaymentResult is the normalized provider outcome handed to the reconciler.
// How it arrived (redirect, webhook, polling) is not this core's concern; the
// caller has verified authenticity already.
type PaymentResult struct {
	ID                    string  `bson:"id" json:"id"`
	Status                string  `bson:"status" json:"status"`
	Amount                float64 `bson:"amount" json:"amount"`
	Currency              string  `bson:"currency" json:"currency"`
	Method                string  `bson:"method" json:"method"`
	ProviderTransactionID string  `bson:"providerTransactionId" json:"providerTransactionId"`
}

// Validate checks the full shape before any order field is mutated, so a
// malformed payload can never leave an order half-updated.
func (r PaymentResult) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidPaymentResult)
	case r.Status == "":
		return fmt.Errorf("%w: missing status", ErrInvalidPaymentResult)
	case r.Amount <= 0:
		return fmt.Errorf("%w: non-positive amount", ErrInvalidPaymentResult)
	case len(r.Currency) != 3:
		return fmt.Errorf("%w: bad currency %q", ErrInvalidPaymentResult, r.Currency)
	case r.ProviderTransactionID == "":
		return fmt.Errorf("%w: missing provider transaction id", ErrInvalidPaymentResult)
	}
	return nil
}

// Order is created at checkout and mutated only through the state-machine
// operations. It is never deleted; cancellation is a status.
type Order struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	OrderKey        string             `bson:"orderKey" json:"orderKey"`
	OrderNumber     string             `bson:"orderNumber" json:"orderNumber"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	PaymentResult   *PaymentResult     `bson:"paymentResult,omitempty" json:"paymentResult,omitempty"`

	Subtotal float64 `bson:"subtotal" json:"subtotal"`
	Tax      float64 `bson:"tax" json:"tax"`
	Shipping float64 `bson:"shipping" json:"shipping"`
	Discount float64 `bson:"discount" json:"discount"`
	Total    float64 `bson:"total" json:"total"`

	Status        OrderStatus    `bson:"status" json:"status"`
	StatusHistory []StatusChange `bson:"statusHistory" json:"statusHistory"`

	IsPaid      bool       `bson:"isPaid" json:"isPaid"`
	PaidAt      *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsDelivered bool       `bson:"isDelivered" json:"isDelivered"`
	DeliveredAt *time.Time `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`

	EstimatedDelivery *time.Time `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
	ProviderOrderID   string     `bson:"providerOrderId,omitempty" json:"providerOrderId,omitempty"`

	// StockReserved records whether checkout decremented stock, so a later
	// cancellation only restores what was actually taken.
	StockReserved bool `bson:"stockReserved" json:"stockReserved"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// UpdateStatus moves the order along the state machine, appending exactly one
// history entry per successful transition. The history is the audit trail and
// is never rewritten.
func (o *Order) UpdateStatus(next OrderStatus, note, actor string, now time.Time) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, next)
	}
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, next)
	}

	o.Status = next
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		Status:    next,
		Timestamp: now,
		Note:      note,
		Actor:     actor,
	})
	o.UpdatedAt = now

	if next == StatusDelivered && !o.IsDelivered {
		o.IsDelivered = true
		t := now
		o.DeliveredAt = &t
	}
	return nil
}

// CanCancel holds only while the order is early in its lifecycle and unpaid.
// Once paid, cancellation flows through the refund path instead.
func (o *Order) CanCancel() bool {
	return (o.Status == StatusPending || o.Status == StatusConfirmed) && !o.IsPaid
}

// MarkPaid idempotently applies a payment-provider result. A second call with
// the same result is a no-op success, because provider callbacks can be
// delivered more than once. Returns whether the order changed.
func (o *Order) MarkPaid(res PaymentResult, now time.Time) (bool, error) {
	if o.IsPaid {
		return false, nil
	}
	if err := res.Validate(); err != nil {
		return false, err
	}

	o.IsPaid = true
	t := now
	o.PaidAt = &t
	o.PaymentResult = &res
	o.UpdatedAt = now

	// The one transition driven by an event rather than an explicit status
	// update. It still goes through the table.
	if o.Status == StatusPending {
		if err := o.UpdateStatus(StatusConfirmed, "payment received", "system", now); err != nil {
			return true, err
		}
	}
	return true, nil
}
