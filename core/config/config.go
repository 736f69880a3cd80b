package config

import (
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	cacheMu sync.Mutex
	cache   = make(map[reflect.Type]any)
)

// loadDotenv loads a .env file from the working directory once per process.
// A missing file is not an error; .env is optional.
func loadDotenv() {
	dotenvOnce.Do(func() {
		if _, err := os.Stat(".env"); err == nil {
			_ = godotenv.Load()
		}
	})
}

// Load populates cfg (a pointer to a struct tagged with `env` fields) from
// the process environment, caching the result by cfg's pointed-to type. A
// second Load call for the same type returns the cached value without
// re-parsing the environment, and copies it into cfg.
func Load[T any](cfg *T) error {
	loadDotenv()

	t := reflect.TypeOf(*cfg)

	cacheMu.Lock()
	if cached, ok := cache[t]; ok {
		cacheMu.Unlock()
		*cfg = *cached.(*T)
		return nil
	}
	cacheMu.Unlock()

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parsing %s: %w", t, err)
	}

	cacheMu.Lock()
	stored := *cfg
	cache[t] = &stored
	cacheMu.Unlock()

	return nil
}

// MustLoad is Load, panicking on failure. Intended for program startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset clears the cached value for T, forcing the next Load[T] to
// re-parse the environment. Intended for tests.
func Reset[T any]() {
	var zero T
	t := reflect.TypeOf(zero)
	cacheMu.Lock()
	delete(cache, t)
	cacheMu.Unlock()
}
