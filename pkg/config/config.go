package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Session      SessionConfig
	Redis        RedisConfig
	DB           DBConfig
	Shopify      ShopifyConfig
	Square       SquareConfig
	Checkout     CheckoutConfig
	Catalog      CatalogConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Cart.Store == CartStoreDB && !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.EnsureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Checkout.validate(cfg.Shopify, cfg.Square); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string   `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	LogFormat    string   `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	CORSOrigins  []string `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SessionConfig controls the signed shopper session cookie.
type SessionConfig struct {
	Secret     string        `envconfig:"STOREFRONT_SESSION_SECRET" required:"true"`
	Issuer     string        `envconfig:"STOREFRONT_SESSION_ISSUER" default:"storefront"`
	CookieName string        `envconfig:"STOREFRONT_SESSION_COOKIE" default:"sf_session"`
	TTL        time.Duration `envconfig:"STOREFRONT_SESSION_TTL" default:"720h"`
	Secure     bool          `envconfig:"STOREFRONT_SESSION_SECURE" default:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type DBConfig struct {
	DSN        string `envconfig:"STOREFRONT_DB_DSN"`
	SQLitePath string `envconfig:"STOREFRONT_DB_SQLITE_PATH" default:"storefront.db"`

	LegacyHost     string `envconfig:"STOREFRONT_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREFRONT_DB_USER"`
	LegacyPassword string `envconfig:"STOREFRONT_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREFRONT_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ShopifyConfig points at the Storefront API of the shop backing the catalog.
type ShopifyConfig struct {
	Domain      string        `envconfig:"STOREFRONT_SHOPIFY_DOMAIN" required:"true"`
	AccessToken string        `envconfig:"STOREFRONT_SHOPIFY_ACCESS_TOKEN" required:"true"`
	APIVersion  string        `envconfig:"STOREFRONT_SHOPIFY_API_VERSION" default:"2024-04"`
	Timeout     time.Duration `envconfig:"STOREFRONT_SHOPIFY_TIMEOUT" default:"10s"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"STOREFRONT_SQUARE_ACCESS_TOKEN"`
	Env         string `envconfig:"STOREFRONT_SQUARE_ENV" default:"sandbox"`
	LocationID  string `envconfig:"STOREFRONT_SQUARE_LOCATION_ID"`
	Currency    string `envconfig:"STOREFRONT_SQUARE_CURRENCY" default:"AUD"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type CheckoutConfig struct {
	Provider       string        `envconfig:"STOREFRONT_CHECKOUT_PROVIDER" default:"shopify"`
	IdempotencyTTL time.Duration `envconfig:"STOREFRONT_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

type CatalogConfig struct {
	CacheTTL           time.Duration `envconfig:"STOREFRONT_CATALOG_CACHE_TTL" default:"5m"`
	PageSize           int           `envconfig:"STOREFRONT_CATALOG_PAGE_SIZE" default:"100"`
	CollectionProducts int           `envconfig:"STOREFRONT_CATALOG_COLLECTION_PRODUCTS" default:"20"`
}

type CartConfig struct {
	Store        string        `envconfig:"STOREFRONT_CART_STORE" default:"redis"`
	TTL          time.Duration `envconfig:"STOREFRONT_CART_TTL" default:"720h"`
	SelectionTTL time.Duration `envconfig:"STOREFRONT_SELECTION_TTL" default:"2h"`

	// Retention settings drive the cron worker's cart_states cleanup.
	RetentionInterval time.Duration `envconfig:"STOREFRONT_CART_RETENTION_INTERVAL" default:"1h"`
	RetentionGrace    time.Duration `envconfig:"STOREFRONT_CART_RETENTION_GRACE" default:"24h"`
	RetentionBatch    int           `envconfig:"STOREFRONT_CART_RETENTION_BATCH" default:"500"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STOREFRONT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

func (c CheckoutConfig) validate(shopify ShopifyConfig, square SquareConfig) error {
	switch strings.ToLower(strings.TrimSpace(c.Provider)) {
	case CheckoutProviderShopify:
		return nil
	case CheckoutProviderSquare:
		missing := []string{}
		if strings.TrimSpace(square.AccessToken) == "" {
			missing = append(missing, EnvSquareAccessToken)
		}
		if strings.TrimSpace(square.LocationID) == "" {
			missing = append(missing, EnvSquareLocationID)
		}
		if len(missing) > 0 {
			return fmt.Errorf("square checkout requires %s", strings.Join(missing, ", "))
		}
		return nil
	default:
		return fmt.Errorf("unsupported checkout provider %q", c.Provider)
	}
}

// NormalizedProvider returns the lower-cased checkout provider name.
func (c CheckoutConfig) NormalizedProvider() string {
	return strings.ToLower(strings.TrimSpace(c.Provider))
}

// EnsureDSN fills DSN from the legacy host/user/name variables when it is not set directly.
func (db *DBConfig) EnsureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
