package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and identify the first
// invalid option. Callers match them with errors.Is().
var (
	// ErrNoServerURL is returned when no PhishGuard server URL is configured.
	ErrNoServerURL = errors.New("no server specified: set --server or server.url in the config file")

	// ErrInvalidServerURL is returned when the server URL is not an absolute http(s) URL.
	ErrInvalidServerURL = errors.New("invalid server url: expected http:// or https:// with a host")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidHistoryLimit is returned when the history display limit is not positive.
	ErrInvalidHistoryLimit = errors.New("invalid history limit: must be positive")

	// ErrUnknownRouteProfile is returned when routes.profile names no known path set.
	ErrUnknownRouteProfile = errors.New("unknown route profile: expected admin or portal")

	// ErrUnknownFormat is returned when the output format is not supported.
	ErrUnknownFormat = errors.New("unknown output format: expected text, markdown, json or html")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidRateLimit is returned when the request rate limit is negative.
	// Use 0 to disable pacing.
	ErrInvalidRateLimit = errors.New("invalid requests per second: must be non-negative")

	// ErrInvalidRoute is returned when a configured route is not an absolute path.
	ErrInvalidRoute = errors.New("invalid route: must start with /")
)
