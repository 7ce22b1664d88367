package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"playarena/internal/settlement"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, settlement.DefaultRateTable(), cfg.Settlement)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "INR", cfg.PaymentGateway.Currency)
}

func TestLoad_SettlementOverrides(t *testing.T) {
	t.Setenv("SETTLEMENT_CONVENIENCE_FEE_PERCENT", "3.5")
	t.Setenv("SETTLEMENT_UNREGISTERED_ADDITIONAL_PERCENT", "2")
	t.Setenv("SETTLEMENT_GST_PERCENT", "not-a-number")

	cfg := Load()

	assert.Equal(t, 3.5, cfg.Settlement.ConvenienceFeePercent)
	assert.Equal(t, 2.0, cfg.Settlement.Unregistered.AdditionalPercent)
	assert.Equal(t, 18.0, cfg.Settlement.GSTPercent)
}

func TestLoad_ListsAndDurations(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("PAYMENT_TIMEOUT", "3s")
	t.Setenv("JWT_EXPIRES_IN", "120")

	cfg := Load()

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3*time.Second, cfg.PaymentGateway.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.JWT.JWTExpiresIn)
}
