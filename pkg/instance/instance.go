package instance

import (
	"os"
	"strings"
)

// GetID identifies this API process in logs. It prefers NOTEWELL_INSTANCE_ID,
// then the platform dyno name, then the hostname.
func GetID() string {
	for _, key := range []string{"NOTEWELL_INSTANCE_ID", "DYNO"} {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "api-0"
}
