// Package config loads typed configuration structs from environment
// variables, with optional .env file support for development.
//
// Each package that needs configuration declares its own Config struct with
// `env` tags (see github.com/caarlos0/env); the wiring layer loads them at
// startup with Load or MustLoad. Defaults live in `envDefault` tags so a
// bare environment still produces a runnable development setup.
package config
