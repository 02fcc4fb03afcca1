package driven

// ConfigStore persists settings under dotted keys such as "api.base_url".
// Values keep the type they were decoded with (string, int64, float64,
// bool); callers coerce.
type ConfigStore interface {
	// Get returns the value stored under key.
	Get(key string) (any, bool)

	// Set stores one value. A nil value removes the key.
	Set(key string, value any) error

	// SetAll stores every value in a single write. Nil values remove keys.
	SetAll(values map[string]any) error

	// Keys returns the stored keys in sorted order.
	Keys() []string

	// Load re-reads the backing storage, replacing what is held in memory.
	Load() error

	// Path identifies the backing storage. Empty for in-memory stores.
	Path() string
}
