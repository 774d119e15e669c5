package orderController

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountMatchesTotal(t *testing.T) {
	assert.True(t, amountMatchesTotal(53.98, 53.98))
	assert.True(t, amountMatchesTotal(53.979999, 53.98), "sub-cent float noise is tolerated")

	assert.False(t, amountMatchesTotal(53.97, 53.98))
	assert.False(t, amountMatchesTotal(0, 53.98))
	assert.False(t, amountMatchesTotal(5398, 53.98), "paise-denominated amounts are rejected")
}
