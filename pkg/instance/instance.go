package instance

import (
	"os"
	"strings"
)

const EnvInstanceID = "STOREFRONT_INSTANCE_ID"

// GetID identifies this process in logs: STOREFRONT_INSTANCE_ID, then the
// host name, then fallback.
func GetID(fallback string) string {
	if id := strings.TrimSpace(os.Getenv(EnvInstanceID)); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallback
}
