// Package config loads and validates service configuration.
package config

import (
	"fmt"
	"strings"
)

// ValidateCore ensures critical configuration is present.
func (c *Config) ValidateCore() error {
	var missing []string

	if strings.TrimSpace(c.Server.Port) == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Env == "production" && c.JWT.Secret == "change-this-secret" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Notifications.MaxEntries <= 0 {
		missing = append(missing, "NOTIFY_MAX_ENTRIES")
	}
	if c.RateLimit.Limit <= 0 {
		missing = append(missing, "RATE_LIMIT_REQUESTS")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}
