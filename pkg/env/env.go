package env

import "os"

// Prefix namespaces the service's environment variables.
const Prefix = "ROCKLIME_"

// Get returns the value of the given environment variable or a fallback.
// The ROCKLIME_-prefixed variant wins over the bare name so the service's
// own settings cannot be shadowed by host-wide defaults.
func Get(key, fallback string) string {
	if val := os.Getenv(Prefix + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
