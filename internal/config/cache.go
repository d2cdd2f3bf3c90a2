package config

import (
	"os"
	"sync"
)

var (
	cacheMu      sync.Mutex
	cached       *Config
	cachedSecret string
)

// Get returns the process-wide cached configuration, constructing it on
// first access. The mutex guarantees that concurrent first callers observe
// exactly one instance. The instance is rebuilt when SECRET_KEY changes in
// the live environment, so rotating the key between calls takes effect
// without an explicit cache clear.
func Get() (*Config, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached == nil || cachedSecret != os.Getenv("SECRET_KEY") {
		cfg, err := Load()
		if err != nil {
			return nil, err
		}
		cached = cfg
		cachedSecret = cfg.Auth.SecretKey
	}
	return cached, nil
}

// ClearCache discards the cached configuration so the next Get re-reads the
// environment. Intended for test isolation, not runtime reconfiguration.
func ClearCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cached = nil
	cachedSecret = ""
}
