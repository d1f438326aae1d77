package classifier

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrInvalidInput is returned for document text that is not valid UTF-8
	ErrInvalidInput = goerr.New("invalid classifier input")

	// ErrInvalidConfig is returned by New for unusable indicator tables
	ErrInvalidConfig = goerr.New("invalid classifier configuration")

	// ErrOverrideDisabled is returned when a fixture hint is passed to a
	// classifier that was not built with WithFixtureOverride
	ErrOverrideDisabled = goerr.New("fixture override is not enabled")
)
