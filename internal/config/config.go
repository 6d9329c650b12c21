package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port              string
	MongoURI          string
	DBName            string
	JWTSecret         string
	AccessTokenTTL    time.Duration
	ShippingFee       float64
	Currency          string
	LowStockThreshold int
	CORSOrigins       []string
	KafkaBrokers      []string
	KafkaTopic        string
	OTLPEndpoint      string
	ServiceVersion    string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		MongoURI:          getEnvOrDefault("MONGO_URI", ""),
		DBName:            getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:    getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute),
		ShippingFee:       getFloatEnv("SHIPPING_FEE", 60),
		Currency:          getEnvOrDefault("CURRENCY", "BDT"),
		LowStockThreshold: getIntEnv("LOW_STOCK_THRESHOLD", 10),
		CORSOrigins:       getListEnv("CORS_ORIGINS", []string{"*"}),
		KafkaBrokers:      getListEnv("KAFKA_BROKERS", nil),
		KafkaTopic:        getEnvOrDefault("KAFKA_TOPIC", "storefront.orders"),
		OTLPEndpoint:      getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceVersion:    getEnvOrDefault("SERVICE_VERSION", "dev"),
	}
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() []string {
	var missing []string
	if c.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	return missing
}
