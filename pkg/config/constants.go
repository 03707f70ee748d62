package config

const (
	// EnvPrefix is empty because every variable already carries the BUYZAAR_ prefix.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvCartQuantityPolicy = "BUYZAAR_CART_QUANTITY_POLICY"
)

// StorageKey names one of the persisted client-state slots.
type StorageKey string

// The persisted state layout: one key per container, JSON values.
const (
	StorageKeyCart      StorageKey = "buyzaar-cart"
	StorageKeyUser      StorageKey = "buyzaar-user-storage"
	StorageKeyFavorites StorageKey = "buyzaar-favorites"
	StorageKeyTheme     StorageKey = "buyzaar-theme"
)
