package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CHECKOUT_TIMEOUT", "")
	t.Setenv("FREE_SHIPPING_THRESHOLD", "")
	t.Setenv("SHIPPING_FEE", "")
	t.Setenv("CHECKOUT_MISSING_PRODUCT", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.CheckoutTimeout)
	assert.True(t, decimal.NewFromInt(999).Equal(cfg.FreeShippingThreshold))
	assert.True(t, decimal.NewFromInt(99).Equal(cfg.ShippingFee))
	assert.Equal(t, "skip", cfg.MissingProductPolicy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CHECKOUT_TIMEOUT", "750ms")
	t.Setenv("FREE_SHIPPING_THRESHOLD", "1499.50")
	t.Setenv("SHIPPING_FEE", "not-a-number")
	t.Setenv("CHECKOUT_MISSING_PRODUCT", "FAIL")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := Load()

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, 750*time.Millisecond, cfg.CheckoutTimeout)
	assert.Equal(t, "1499.5", cfg.FreeShippingThreshold.String())
	assert.True(t, decimal.NewFromInt(99).Equal(cfg.ShippingFee))
	assert.Equal(t, "fail", cfg.MissingProductPolicy)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}
