package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     string
	}{
		{"no discount", 50, 0, "50.00"},
		{"ten percent", 20, 10, "18.00"},
		{"full discount", 123.45, 100, "0.00"},
		{"rounds to cents", 9.99, 15, "8.49"},
		{"fractional discount", 100, 12.5, "87.50"},
		{"zero price", 0, 30, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(EffectivePrice(tt.price, tt.discount)))
		})
	}
}

func TestEffectivePrice_Bounds(t *testing.T) {
	for _, p := range []float64{0, 0.01, 1, 19.99, 250, 99999.99} {
		assert.True(t, EffectivePrice(p, 0).Equal(decimal.NewFromFloat(p)), "price %v without discount should be unchanged", p)
		assert.True(t, EffectivePrice(p, 100).IsZero(), "price %v at 100%% should be zero", p)
	}
}

func TestEffectivePrice_OutOfRangeNotClamped(t *testing.T) {
	assert.Equal(t, "-10.00", Format(EffectivePrice(100, 110)))
	assert.Equal(t, "110.00", Format(EffectivePrice(100, -10)))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, "36.00", Format(LineTotal(20, 10, 2)))
	assert.Equal(t, "100.00", Format(LineTotal(50, 0, 2)))
}
