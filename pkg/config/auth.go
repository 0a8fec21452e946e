package config

import (
	"fmt"
	"strings"
)

// AuthConfig configures the shared-secret header check.
type AuthConfig struct {
	Header string `koanf:"header"`
	APIKey string `koanf:"apikey"`
}

const defaultAuthHeader = "x-api-key"

// String returns a string representation of the AuthConfig. The key itself is never printed.
func (c *AuthConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Auth ---\n")
	b.WriteString(fmt.Sprintf("  header: %s\n", c.Header))
	if c.APIKey == "" {
		b.WriteString("  apikey: <not configured>\n")
	} else {
		b.WriteString("  apikey: ****\n")
	}
	return b.String()
}

func (c *AuthConfig) Validate() error {
	if c.Header == "" {
		c.Header = defaultAuthHeader
	}
	if c.APIKey == "" {
		return fmt.Errorf("auth api key is not configured")
	}
	return nil
}
