// Package config loads typed configuration structs from environment
// variables.
//
// Each config type is parsed at most once per process; subsequent calls
// for the same type return the cached value. A .env file in the working
// directory is loaded on first use when present, so local development
// does not require exporting variables manually.
//
// Usage:
//
//	type PostgresConfig struct {
//		ConnString string `env:"DATABASE_URL,required"`
//		MaxConns   int32  `env:"PG_MAX_CONNS" envDefault:"10"`
//	}
//
//	var cfg PostgresConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
package config
