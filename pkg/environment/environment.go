// Package environment names the deployment environments the server runs in.
package environment

import (
	"fmt"
	"strings"
)

// Environment is the value of APP_ENV.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse accepts the canonical names and their short aliases (dev, stage, prod).
func Parse(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "development", "dev", "local":
		return Development, nil
	case "staging", "stage":
		return Staging, nil
	case "production", "prod":
		return Production, nil
	}
	return "", fmt.Errorf("environment: unknown value %q", s)
}

// UnmarshalText lets env parsers decode APP_ENV directly.
func (e *Environment) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func (e Environment) String() string { return string(e) }

// IsProduction reports whether e is Production.
func (e Environment) IsProduction() bool { return e == Production }

// IsDevelopment reports whether e is Development or unset.
func (e Environment) IsDevelopment() bool { return e == Development || e == "" }

// SecureCookies reports whether cookies must carry the Secure attribute.
func (e Environment) SecureCookies() bool { return e == Production }
