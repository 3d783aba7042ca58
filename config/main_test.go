package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain refuses to run the config tests outside GO_ENV=test, since Load reads the
// .env file of the current environment and ConnectDatabase would open its database.
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "config tests need GO_ENV=test (got %q); run: GO_ENV=test go test ./...\n", env)
		os.Exit(1)
	}
	os.Exit(m.Run())
}
