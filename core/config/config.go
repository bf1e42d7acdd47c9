package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidTarget is reported when the load target is not a non-nil struct
// pointer.
var ErrInvalidTarget = errors.New("config target must be a non-nil struct pointer")

var (
	mu      sync.Mutex
	cache   = map[reflect.Type]any{}
	envRead bool
)

// Load parses environment variables into the struct pointed to by cfg using
// `env` tags. Each configuration type loads once per process; later calls
// for the same type return the cached value. A .env file in the working
// directory is read before the first load and never overrides variables
// already set in the environment.
func Load(cfg any) error {
	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", ErrInvalidTarget, cfg)
	}

	mu.Lock()
	defer mu.Unlock()

	if !envRead {
		// Missing .env is fine; explicit environment always wins.
		_ = godotenv.Load()
		envRead = true
	}

	t := rv.Elem().Type()
	if cached, ok := cache[t]; ok {
		rv.Elem().Set(reflect.ValueOf(cached))
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", t, err)
	}

	cache[t] = rv.Elem().Interface()
	return nil
}

// MustLoad is Load that panics on failure, for startup wiring.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
