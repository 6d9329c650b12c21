package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SHIPPING_FEE", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("KAFKA_BROKERS", "")

	Load()

	if AppEnv.DBName != "storefront" {
		t.Fatalf("expected default db name, got %q", AppEnv.DBName)
	}
	if AppEnv.ShippingFee != 60 {
		t.Fatalf("expected default shipping fee 60, got %v", AppEnv.ShippingFee)
	}
	if AppEnv.AccessTokenTTL != time.Hour {
		t.Fatalf("expected 1h access ttl, got %v", AppEnv.AccessTokenTTL)
	}
	if len(AppEnv.CORSOrigins) != 1 || AppEnv.CORSOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors origin, got %v", AppEnv.CORSOrigins)
	}
	if AppEnv.KafkaBrokers != nil {
		t.Fatalf("expected kafka disabled, got %v", AppEnv.KafkaBrokers)
	}
	if missing := AppEnv.Validate(); len(missing) != 0 {
		t.Fatalf("expected no missing settings, got %v", missing)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SHIPPING_FEE", "120.5")
	t.Setenv("KAFKA_BROKERS", "a:9092, ,b:9092")
	t.Setenv("LOW_STOCK_THRESHOLD", "-3")

	Load()

	if AppEnv.ShippingFee != 120.5 {
		t.Fatalf("expected shipping fee override, got %v", AppEnv.ShippingFee)
	}
	if len(AppEnv.KafkaBrokers) != 2 || AppEnv.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("unexpected brokers %v", AppEnv.KafkaBrokers)
	}
	if AppEnv.LowStockThreshold != 10 {
		t.Fatalf("negative threshold should fall back to default, got %d", AppEnv.LowStockThreshold)
	}
}

func TestValidateReportsMissing(t *testing.T) {
	missing := Config{}.Validate()
	if len(missing) != 2 {
		t.Fatalf("expected MONGO_URI and JWT_SECRET missing, got %v", missing)
	}
}
