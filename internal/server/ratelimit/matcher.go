package ratelimit

import "strings"

// unlimited paths are never rate limited
var unlimited = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// MatchEndpoint returns the configuration for a request, or nil to use the default limit.
// Exact paths win over prefixes; "/api/cars/" also matches "/api/cars".
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimited[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && c.Path == path {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method != method || !strings.HasSuffix(c.Path, "/") {
			continue
		}
		if strings.HasPrefix(path, c.Path) || path == strings.TrimSuffix(c.Path, "/") {
			return c
		}
	}
	return nil
}
