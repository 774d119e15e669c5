package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxItemQuantity is the per-line quantity cap.
const MaxItemQuantity = 10

// CartItem is one line of a cart. The unit price is captured when the item is
// added and refreshed against the product on validation, not trusted forever.
type CartItem struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Variant   Variant            `bson:"variant" json:"variant"`
	UnitPrice float64            `bson:"unitPrice" json:"unitPrice"`
	Quantity  int                `bson:"quantity" json:"quantity" validate:"required,min=1,max=10"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
}

// Discount is a coupon applied to a cart, with the amount it computed against
// the subtotal it was validated on.
type Discount struct {
	Code         string       `bson:"code" json:"code"`
	Kind         DiscountKind `bson:"kind" json:"kind"`
	Value        float64      `bson:"value" json:"value"`
	Amount       float64      `bson:"amount" json:"amount"`
	MinimumOrder float64      `bson:"minimumOrder" json:"minimumOrder"`
}

// Cart is the per-user staging area. One cart per user, created lazily on
// first access.
type Cart struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Items        []CartItem         `bson:"items" json:"items"`
	Discount     *Discount          `bson:"discount,omitempty" json:"discount,omitempty"`
	TotalItems   int                `bson:"totalItems" json:"totalItems"`
	TotalPrice   float64            `bson:"totalPrice" json:"totalPrice"`
	Revision     int64              `bson:"revision" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	LastModified time.Time          `bson:"lastModified" json:"lastModified"`
}

// CartSummary is a pure projection of the cart, recomputed from the stored
// items on every read.
type CartSummary struct {
	TotalItems int       `json:"totalItems"`
	Subtotal   float64   `json:"subtotal"`
	Discount   *Discount `json:"discount,omitempty"`
	FinalTotal float64   `json:"finalTotal"`
	IsEmpty    bool      `json:"isEmpty"`
}

func NewCart(userID primitive.ObjectID, now time.Time) *Cart {
	return &Cart{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Items:        []CartItem{},
		CreatedAt:    now,
		LastModified: now,
	}
}

// Subtotal is the sum of line prices, rounded once at the end.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, it := range c.Items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return RoundCurrency(sum)
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// AddItem merges the quantity into an existing line with the same product and
// variant selectors, or appends a new line. available is the current stock for
// the product/variant as reported by the ledger.
func (c *Cart) AddItem(p *Product, v Variant, qty, available int, now time.Time) error {
	if qty < 1 {
		qty = 1
	}

	for i, it := range c.Items {
		if it.ProductID == p.ID && it.Variant == v {
			merged := it.Quantity + qty
			if merged > MaxItemQuantity {
				return ErrQuantityCapExceeded
			}
			if merged > available {
				return ErrOutOfStock
			}
			c.Items[i].Quantity = merged
			c.Items[i].UnitPrice = p.EffectivePrice()
			c.touch(now)
			return nil
		}
	}

	if qty > MaxItemQuantity {
		return ErrQuantityCapExceeded
	}
	if qty > available {
		return ErrOutOfStock
	}

	c.Items = append(c.Items, CartItem{
		ID:        primitive.NewObjectID(),
		ProductID: p.ID,
		Name:      p.Name,
		Variant:   v,
		UnitPrice: p.EffectivePrice(),
		Quantity:  qty,
		Image:     p.FirstImage(),
	})
	c.touch(now)
	return nil
}

// UpdateItemQuantity sets the line quantity; zero removes the line.
func (c *Cart) UpdateItemQuantity(itemID primitive.ObjectID, qty, available int, now time.Time) error {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return ErrCartItemNotFound
	}
	if qty == 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		c.touch(now)
		return nil
	}
	if qty > MaxItemQuantity {
		return ErrQuantityCapExceeded
	}
	if qty > available {
		return ErrInsufficientStock
	}
	c.Items[idx].Quantity = qty
	c.touch(now)
	return nil
}

func (c *Cart) RemoveItem(itemID primitive.ObjectID, now time.Time) error {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return ErrCartItemNotFound
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.touch(now)
	return nil
}

// Clear drops every line and any applied discount.
func (c *Cart) Clear(now time.Time) {
	c.Items = []CartItem{}
	c.Discount = nil
	c.touch(now)
}

// ApplyCoupon validates the resolved coupon against the current subtotal and
// stores the computed discount. Re-applying the same code is rejected.
func (c *Cart) ApplyCoupon(coupon Coupon, now time.Time) error {
	if c.Discount != nil && c.Discount.Code == coupon.Code {
		return ErrCouponAlreadyApplied
	}

	subtotal := c.Subtotal()
	if subtotal < coupon.MinimumOrder {
		return ErrMinimumNotMet
	}

	c.Discount = &Discount{
		Code:         coupon.Code,
		Kind:         coupon.Kind,
		Value:        coupon.Value,
		Amount:       ApplyDiscount(subtotal, coupon.Kind, coupon.Value),
		MinimumOrder: coupon.MinimumOrder,
	}
	c.touch(now)
	return nil
}

func (c *Cart) RemoveCoupon(now time.Time) error {
	if c.Discount == nil {
		return ErrNoCouponApplied
	}
	c.Discount = nil
	c.touch(now)
	return nil
}

// Summary recomputes every derived figure from the stored items. The discount
// amount is re-derived against the current subtotal rather than trusting the
// amount computed when the coupon was applied.
func (c *Cart) Summary() CartSummary {
	subtotal := c.Subtotal()

	var discount *Discount
	var amount float64
	if c.Discount != nil {
		d := *c.Discount
		d.Amount = ApplyDiscount(subtotal, d.Kind, d.Value)
		discount = &d
		amount = d.Amount
	}

	final := RoundCurrency(subtotal - amount)
	if final < 0 {
		final = 0
	}

	return CartSummary{
		TotalItems: c.countItems(),
		Subtotal:   subtotal,
		Discount:   discount,
		FinalTotal: final,
		IsEmpty:    c.IsEmpty(),
	}
}

// Refresh recomputes the stored totals after an external adjustment to the
// item list, such as the read-time filtering of dead products.
func (c *Cart) Refresh(now time.Time) {
	c.touch(now)
}

func (c *Cart) indexOf(itemID primitive.ObjectID) int {
	for i, it := range c.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) countItems() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// touch recomputes the stored totals and stamps the modification time; every
// mutation ends here.
func (c *Cart) touch(now time.Time) {
	c.TotalItems = c.countItems()
	c.TotalPrice = c.Summary().FinalTotal
	c.LastModified = now
}
