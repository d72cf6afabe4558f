package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type HTTP struct {
	Addr              string        `default:":8080" envconfig:"ADDR"`
	GinMode           string        `default:"debug" envconfig:"GIN_MODE"`
	StaticDir         string        `default:"" envconfig:"STATIC_DIR"`
	ReadTimeout       time.Duration `default:"10s" envconfig:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `default:"10s" envconfig:"WRITE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `default:"5s" envconfig:"READ_HEADER_TIMEOUT"`
	IdleTimeout       time.Duration `default:"60s" envconfig:"IDLE_TIMEOUT"`
	GracefulTimeout   time.Duration `default:"5s" envconfig:"GRACEFUL_TIMEOUT"`
}

type Metrics struct {
	Addr string `default:":2112" envconfig:"ADDR"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"OTEL_ENABLED"`
	ServiceName string  `default:"storefront-app" envconfig:"OTEL_SERVICE_NAME"`
	Endpoint    string  `default:"jaeger:4318" envconfig:"OTEL_ENDPOINT"`
	SampleRatio float64 `default:"1" envconfig:"OTEL_SAMPLE_RATIO"`
}

// Store — каталог общего состояния: корзина, журнал заказов и флаг согласия
// лежат рядом, чтобы несколько процессов видели одни и те же файлы.
type Store struct {
	Dir string `default:".storefront" envconfig:"DIR"`
}

// Sync — цикл сверки корзины с носителем.
type Sync struct {
	Interval time.Duration `default:"500ms" envconfig:"INTERVAL"`
	Throttle time.Duration `default:"100ms" envconfig:"THROTTLE"`
}

// Shipping — политика доставки в целых кронах.
type Shipping struct {
	FreeThreshold int64 `default:"500" envconfig:"FREE_THRESHOLD"`
	Fee           int64 `default:"49" envconfig:"FEE"`
}

// Checkout — тайминги кассы.
type Checkout struct {
	ProcessingDelay time.Duration `default:"2s" envconfig:"PROCESSING_DELAY"`
	ConfirmDisplay  time.Duration `default:"5s" envconfig:"CONFIRM_DISPLAY"`
}

type Logger struct {
	IsProd bool `default:"false" envconfig:"IS_PROD"`
}

type Config struct {
	HTTP     HTTP
	Metrics  Metrics
	Tracing  Tracing
	Store    Store
	Sync     Sync
	Shipping Shipping
	Checkout Checkout
	Logger   Logger
}

// Load — конфигурация из окружения с префиксом STOREFRONT.
func Load() (Config, error) {
	return LoadWithPrefix("STOREFRONT")
}

// LoadWithPrefix — то же с произвольным префиксом (изоляция в тестах).
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}
