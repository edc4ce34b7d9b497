//go:build integration
// +build integration

package integration

import (
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

// TestConfig carries the environment-driven settings for integration runs.
type TestConfig struct {
	Host         string
	Port         int
	Org          string
	App          string
	ClientID     string
	ClientSecret string
	UseTLS       bool
}

// LoadTestConfig reads the integration settings from UGRID_* variables.
func LoadTestConfig() *TestConfig {
	port, _ := strconv.Atoi(os.Getenv("UGRID_PORT"))

	return &TestConfig{
		Host:         os.Getenv("UGRID_HOST"),
		Port:         port,
		Org:          os.Getenv("UGRID_ORG"),
		App:          os.Getenv("UGRID_APP"),
		ClientID:     os.Getenv("UGRID_CLIENT_ID"),
		ClientSecret: os.Getenv("UGRID_CLIENT_SECRET"),
		UseTLS:       os.Getenv("UGRID_TLS") == "true",
	}
}

// SkipIfMissingConfig skips the test unless a target service is configured.
func (c *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if c.Host == "" || c.Org == "" || c.App == "" {
		t.Skip("Skipping integration test: UGRID_HOST, UGRID_ORG, and UGRID_APP must be set")
	}

	if c.ClientID == "" || c.ClientSecret == "" {
		t.Skip("Skipping integration test: UGRID_CLIENT_ID and UGRID_CLIENT_SECRET must be set")
	}
}

// ClientConfig converts the test settings into a client config.
func (c *TestConfig) ClientConfig() *usergrid.Config {
	return &usergrid.Config{
		Host:   c.Host,
		Port:   c.Port,
		Org:    c.Org,
		App:    c.App,
		UseTLS: c.UseTLS,
	}
}

// GenerateTestName returns a unique name for test resources.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
