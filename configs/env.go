package configs

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable the service reads from the environment.
type Config struct {
	Port          string `envconfig:"PORT" default:"3000"`
	MongoURI      string `envconfig:"MONGOURI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"golangApi"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	RazorpayKeyID     string `envconfig:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `envconfig:"RAZORPAY_KEY_SECRET"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS" default:""`

	// Pricing policy knobs.
	FreeShippingThreshold float64 `envconfig:"FREE_SHIPPING_THRESHOLD" default:"100"`
	TaxRate               float64 `envconfig:"TAX_RATE" default:"0.08"`

	// Stock is reserved at checkout and symmetrically restored on
	// cancellation. Turning this off also disables restore-on-cancel.
	ReserveStockAtCheckout bool `envconfig:"RESERVE_STOCK_AT_CHECKOUT" default:"true"`

	DeliveryLeadDays int           `envconfig:"DELIVERY_LEAD_DAYS" default:"5"`
	CartSweepAge     time.Duration `envconfig:"CART_SWEEP_AGE" default:"720h"`
	CartSweepEvery   time.Duration `envconfig:"CART_SWEEP_EVERY" default:"6h"`
}

// Load reads .env when present and parses the environment into Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
