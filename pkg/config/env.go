package config

// EnvPrefix namespaces every storefront environment variable.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	CheckoutProviderShopify = "shopify"
	CheckoutProviderSquare  = "square"
)

const (
	CartStoreRedis = "redis"
	CartStoreDB    = "db"
)

const (
	EnvAppEnv             = "STOREFRONT_APP_ENV"
	EnvPort               = "STOREFRONT_APP_PORT"
	EnvSessionSecret      = "STOREFRONT_SESSION_SECRET"
	EnvRedisURL           = "STOREFRONT_REDIS_URL"
	EnvDBDSN              = "STOREFRONT_DB_DSN"
	EnvDBHost             = "STOREFRONT_DB_HOST"
	EnvDBUser             = "STOREFRONT_DB_USER"
	EnvDBName             = "STOREFRONT_DB_NAME"
	EnvShopifyDomain      = "STOREFRONT_SHOPIFY_DOMAIN"
	EnvShopifyAccessToken = "STOREFRONT_SHOPIFY_ACCESS_TOKEN"
	EnvSquareAccessToken  = "STOREFRONT_SQUARE_ACCESS_TOKEN"
	EnvSquareLocationID   = "STOREFRONT_SQUARE_LOCATION_ID"
	EnvCheckoutProvider   = "STOREFRONT_CHECKOUT_PROVIDER"
	EnvCartStore          = "STOREFRONT_CART_STORE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
