package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₹0.00", formatAmount(0))
	assert.Equal(t, "₹0.05", formatAmount(5))
	assert.Equal(t, "₹1.00", formatAmount(100))
	assert.Equal(t, "₹499.99", formatAmount(49999))
	assert.Equal(t, "₹12345.67", formatAmount(1234567))
}
