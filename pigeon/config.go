package pigeon

import (
	"net/url"
	"strings"
	"time"
)

// Defaults applied by NewClient when the corresponding Config field is unset.
const (
	DefaultBaseURL           = "http://localhost:8000"
	DefaultAPIPrefix         = "/api/v1"
	DefaultWSPath            = "/ws"
	DefaultReconnectInterval = 5 * time.Second
)

// Config holds the settings for a single bot client.
type Config struct {
	// Token is the bot token, without the "Bot " prefix. Required.
	Token string

	// BaseURL is the HTTP API origin, without the /api/v1 prefix.
	// Defaults to http://localhost:8000.
	BaseURL string

	// WSURL overrides the realtime endpoint. Either a full ws:// or wss://
	// URL, or an origin to which /ws is appended. When empty the realtime
	// URL is derived from BaseURL.
	WSURL string

	// DisableAutoReconnect turns off the reconnect supervisor. By default
	// the client re-dials after every transport drop.
	DisableAutoReconnect bool

	// ReconnectInterval is the delay between reconnect attempts.
	// Defaults to 5s.
	ReconnectInterval time.Duration
}

// ResolveBaseURL returns the configured HTTP origin with trailing slashes
// stripped, falling back to DefaultBaseURL.
func ResolveBaseURL(config *Config) string {
	base := config.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/")
}

// ResolveAPIURL joins the resolved HTTP origin, the API version prefix, and
// the provided path.
func ResolveAPIURL(config *Config, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return ResolveBaseURL(config) + DefaultAPIPrefix + path
}

// ResolveWSURL returns the realtime endpoint for the configuration. An
// explicit WSURL naming a websocket scheme is returned unchanged; an
// explicit WSURL without one is treated as an origin and given the /ws
// path. Otherwise the endpoint is derived from the HTTP origin, upgrading
// https to wss and http to ws.
func ResolveWSURL(config *Config) (string, error) {
	if config.WSURL != "" {
		if strings.HasPrefix(config.WSURL, "ws://") || strings.HasPrefix(config.WSURL, "wss://") {
			return config.WSURL, nil
		}
		return strings.TrimRight(config.WSURL, "/") + DefaultWSPath, nil
	}

	base, err := url.Parse(ResolveBaseURL(config))
	if err != nil {
		return "", NewError(InvalidURIError, err)
	}

	scheme := "ws"
	if base.Scheme == "https" {
		scheme = "wss"
	}

	return scheme + "://" + base.Host + DefaultWSPath, nil
}

func (config *Config) applyDefaults() {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.ReconnectInterval <= 0 {
		config.ReconnectInterval = DefaultReconnectInterval
	}
}
