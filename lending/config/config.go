package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/lending-service/lending/internal/notifier"
	"github.com/Astemirdum/lending-service/lending/internal/processor"
	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/Astemirdum/lending-service/pkg/circuit_breaker"
	"github.com/Astemirdum/lending-service/pkg/kafka"
	"github.com/Astemirdum/lending-service/pkg/logger"
	"github.com/Astemirdum/lending-service/pkg/postgres"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration
	// PublicURL is where checkout redirects the customer back to.
	PublicURL string `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`
}

type Lending struct {
	FineMultiplier   decimal.Decimal `envconfig:"LENDING_FINE_MULTIPLIER" default:"2"`
	MaxBorrowingDays int             `envconfig:"LENDING_MAX_BORROWING_DAYS" default:"90"`
	OverdueSchedule  string          `envconfig:"LENDING_OVERDUE_SCHEDULE" default:"@daily"`
	OverdueTimeout   time.Duration   `envconfig:"LENDING_OVERDUE_TIMEOUT" default:"5m"`
}

// Admin is seeded as a staff user on start when Email is set.
type Admin struct {
	Email    string `envconfig:"ADMIN_EMAIL"`
	Password string `envconfig:"ADMIN_PASSWORD" json:"-"`
}

type Config struct {
	Server         HTTPServer  `yaml:"server"`
	Database       postgres.DB `yaml:"db"`
	Kafka          kafka.Config
	Auth           auth.Config
	Stripe         processor.Config
	Telegram       notifier.TelegramConfig
	CircuitBreaker circuit_breaker.Config
	Lending        Lending
	Admin          Admin
	Log            logger.Log `yaml:"log"`
}

func (c Config) SuccessURL() string {
	return c.Server.PublicURL + "/api/v1/payments/success?session_id={CHECKOUT_SESSION_ID}"
}

func (c Config) CancelURL() string {
	return c.Server.PublicURL + "/api/v1/payments/cancel?session_id={CHECKOUT_SESSION_ID}"
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
