package smartsheet

import "net/http"

// API base URLs per region.
const (
	apiBase = "https://api.smartsheet.com/2.0"
	euBase  = "https://api.smartsheet.eu/2.0"
	govBase = "https://api.smartsheetgov.com/2.0"
)

// Config represents configuration specific to the Smartsheet client.
type Config struct {
	Credentials Credentials

	// BaseURL overrides the region-derived API base. Mainly for tests.
	BaseURL string

	// HTTPClient overrides the default bearer-authenticated client. When
	// set, the caller owns authentication.
	HTTPClient *http.Client
}

// baseURL resolves the API base for the configured region.
func (c *Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	switch c.Credentials.Region {
	case RegionEU:
		return euBase
	case RegionGov:
		return govBase
	default:
		return apiBase
	}
}
