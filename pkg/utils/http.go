// Package utils provides common utility functions.
package utils

import "net/http"

// UserAgent identifies this client to the property provider.
const UserAgent = "propertyiq/1.0"

// ProviderHeaders creates the request headers the property provider expects.
func ProviderHeaders(apiKey string) http.Header {
	headers := http.Header{}

	headers.Set("User-Agent", UserAgent)
	headers.Set("Accept", "application/json")

	if apiKey != "" {
		headers.Set("apikey", apiKey)
	}

	return headers
}
