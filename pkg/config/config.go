package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/buyzaar/storefront/pkg/enums"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Catalog CatalogConfig
	Cart    CartConfig
	Search  SearchConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BUYZAAR_APP_ENV" default:"dev"`
	Port         string `envconfig:"BUYZAAR_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BUYZAAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BUYZAAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig locates the local state file. The store is the session-local
// analog of browser storage: a single-user sqlite file next to the app.
type StorageConfig struct {
	Path string `envconfig:"BUYZAAR_STORAGE_PATH" default:"buyzaar-state.db"`
}

type CatalogConfig struct {
	Size int   `envconfig:"BUYZAAR_CATALOG_SIZE" default:"100"`
	Seed int64 `envconfig:"BUYZAAR_CATALOG_SEED" default:"0"`
}

type CartConfig struct {
	FreeShippingThreshold string `envconfig:"BUYZAAR_CART_FREE_SHIPPING_THRESHOLD" default:"100"`
	FlatShippingFee       string `envconfig:"BUYZAAR_CART_FLAT_SHIPPING_FEE" default:"9.99"`
	TaxRate               string `envconfig:"BUYZAAR_CART_TAX_RATE" default:"0.08"`
	QuantityPolicy        string `envconfig:"BUYZAAR_CART_QUANTITY_POLICY" default:"clamp"`
	MaxLineItems          int    `envconfig:"BUYZAAR_CART_MAX_LINE_ITEMS" default:"50"`
	MaxFavorites          int    `envconfig:"BUYZAAR_MAX_FAVORITES" default:"100"`
}

func (c CartConfig) validate() error {
	if !enums.QuantityPolicy(c.QuantityPolicy).IsValid() {
		return fmt.Errorf("invalid %s value %q", EnvCartQuantityPolicy, c.QuantityPolicy)
	}
	return nil
}

// Policy returns the parsed quantity policy; Load guarantees validity.
func (c CartConfig) Policy() enums.QuantityPolicy {
	return enums.QuantityPolicy(c.QuantityPolicy)
}

type SearchConfig struct {
	QuietWindow    time.Duration `envconfig:"BUYZAAR_SEARCH_QUIET_WINDOW" default:"300ms"`
	MinQueryLength int           `envconfig:"BUYZAAR_SEARCH_MIN_QUERY_LENGTH" default:"2"`
}
