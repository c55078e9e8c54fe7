package smartsheet

import (
	"context"
	"fmt"
	"os"
	"strings"

	smartsync "github.com/tabwise/go-smartsync"
)

// Environment variables recognised by CredentialsFromEnv.
const (
	TokenEnv  = "SMARTSHEET_ACCESS_TOKEN"
	RegionEnv = "SMARTSHEET_REGION"
)

// Region selects the API region. The zero value is the default (US)
// region.
type Region string

const (
	RegionDefault Region = ""
	RegionEU      Region = "eu"
	RegionGov     Region = "gov"
)

// Credentials is a bearer token plus an optional region selector.
type Credentials struct {
	Token  string
	Region Region
}

// Validate reports a configuration error when no token is present.
func (c Credentials) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("%w: empty access token", smartsync.ErrNoCredentials)
	}
	return nil
}

// ParseAccessToken parses the combined "region:token" form by splitting on
// the first colon. A bare token yields the default region.
func ParseAccessToken(s string) Credentials {
	if region, token, ok := strings.Cut(s, ":"); ok {
		return Credentials{Token: token, Region: Region(region)}
	}
	return Credentials{Token: s}
}

// Provider yields credentials for a pass. Credentials are injected at
// construction rather than read from ambient process state; the env
// provider exists as an explicit opt-in.
type Provider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// Static returns a Provider that always yields the given credentials.
func Static(creds Credentials) Provider {
	return staticProvider{creds: creds}
}

type staticProvider struct {
	creds Credentials
}

func (p staticProvider) Credentials(ctx context.Context) (Credentials, error) {
	if err := p.creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return p.creds, nil
}

// Env returns a Provider backed by CredentialsFromEnv.
func Env() Provider {
	return envProvider{}
}

type envProvider struct{}

func (envProvider) Credentials(ctx context.Context) (Credentials, error) {
	return CredentialsFromEnv()
}

// CredentialsFromEnv reads the access token from SMARTSHEET_ACCESS_TOKEN,
// accepting the combined "region:token" form, and lets SMARTSHEET_REGION
// override the region.
func CredentialsFromEnv() (Credentials, error) {
	creds := ParseAccessToken(os.Getenv(TokenEnv))
	if region := os.Getenv(RegionEnv); region != "" {
		creds.Region = Region(region)
	}
	if err := creds.Validate(); err != nil {
		return Credentials{}, fmt.Errorf("%s is not set in your env: %w", TokenEnv, err)
	}
	return creds, nil
}
