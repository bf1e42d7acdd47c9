// Package config loads environment variables into typed structs, reading an
// optional .env file first.
//
//	type ServerConfig struct {
//		Addr string `env:"SERVER_ADDR" envDefault:":8080"`
//		Env  string `env:"APP_ENV" envDefault:"development"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
//
// Each configuration type is parsed once per process and cached; loading the
// same type again returns the cached value.
package config
