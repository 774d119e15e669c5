package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayment(secret, providerOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(providerOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyRazorpaySignature(t *testing.T) {
	const secret = "test_secret"

	t.Run("valid signature", func(t *testing.T) {
		sig := signPayment(secret, "order_abc", "pay_xyz")
		assert.True(t, VerifyRazorpaySignature(secret, "order_abc", "pay_xyz", sig))
	})

	t.Run("tampered payment id", func(t *testing.T) {
		sig := signPayment(secret, "order_abc", "pay_xyz")
		assert.False(t, VerifyRazorpaySignature(secret, "order_abc", "pay_other", sig))
	})

	t.Run("wrong secret", func(t *testing.T) {
		sig := signPayment("other_secret", "order_abc", "pay_xyz")
		assert.False(t, VerifyRazorpaySignature(secret, "order_abc", "pay_xyz", sig))
	})

	t.Run("empty signature", func(t *testing.T) {
		assert.False(t, VerifyRazorpaySignature(secret, "order_abc", "pay_xyz", ""))
	})
}
