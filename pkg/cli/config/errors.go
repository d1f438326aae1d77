package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound    = goerr.New("configuration file not found")
	ErrInvalidConfig     = goerr.New("invalid configuration")
	ErrUnsupportedFormat = goerr.New("unsupported configuration format")
	ErrMissingCategory   = goerr.New("category is required")
	ErrEmptyTable        = goerr.New("indicator table requires at least one indicator")
	ErrInvalidBackend    = goerr.New("invalid backend")
	ErrMissingOption     = goerr.New("required option is missing")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	TableIndexKey = "table_index"
	CategoryKey   = "category"
)
