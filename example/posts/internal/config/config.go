package config

import "time"

const (
	// API configuration
	BaseURL     = "https://jsonplaceholder.typicode.com"
	ServiceName = "posts-example"
	UserID      = "1"

	// Cache configuration
	CacheDir = "posts-example-cache"

	// OpenTelemetry configuration
	ServiceVersion = "0.1.0"

	// Operation interval
	OperationInterval = 5 * time.Second
)
