package router

import (
	"strconv"
	"strings"

	"github.com/akeren/innr-waitlist/pkg/utils"
)

const (
	defaultPort = "8080"
	// Signup bodies are three short strings.
	defaultMaxBodyBytes = 64 << 10
	defaultHSTSMaxAge   = 31536000
)

// HTTPOptions holds the HTTP settings read from the environment once at startup.
type HTTPOptions struct {
	Port           string
	GinMode        string
	TrustedProxies []string
	// AllowedOrigins of nil denies every cross-origin browser request.
	AllowedOrigins []string
	MaxBodyBytes   int64
	HSTS           HSTSOptions
}

type HSTSOptions struct {
	Enabled           bool
	MaxAge            int64
	IncludeSubdomains bool
}

func (h HSTSOptions) headerValue() string {
	value := "max-age=" + strconv.FormatInt(h.MaxAge, 10)
	if h.IncludeSubdomains {
		value += "; includeSubDomains"
	}
	return value
}

// LoadHTTPOptions reads APP_PORT, GIN_MODE, TRUSTED_PROXIES, CORS_ALLOWED_ORIGIN,
// MAX_REQUEST_BODY_BYTES and the HSTS_* variables. HSTS defaults on in production.
func LoadHTTPOptions() *HTTPOptions {
	appEnv := strings.ToLower(utils.GetEnvTrimmed("APP_ENV"))

	opts := &HTTPOptions{
		Port:           utils.GetEnvTrimmedOrDefault("APP_PORT", defaultPort),
		GinMode:        utils.GetEnvTrimmed("GIN_MODE"),
		TrustedProxies: parseTrustedProxies(utils.GetEnvTrimmed("TRUSTED_PROXIES")),
		AllowedOrigins: splitList(utils.GetEnvTrimmed("CORS_ALLOWED_ORIGIN")),
		MaxBodyBytes:   defaultMaxBodyBytes,
		HSTS: HSTSOptions{
			Enabled:           utils.GetEnvBool("HSTS_ENABLED", appEnv == "production" || appEnv == "prod"),
			MaxAge:            defaultHSTSMaxAge,
			IncludeSubdomains: utils.GetEnvBool("HSTS_INCLUDE_SUBDOMAINS", true),
		},
	}

	if parsed, err := strconv.ParseInt(utils.GetEnvTrimmed("MAX_REQUEST_BODY_BYTES"), 10, 64); err == nil && parsed > 0 {
		opts.MaxBodyBytes = parsed
	}
	if parsed, err := strconv.ParseInt(utils.GetEnvTrimmed("HSTS_MAX_AGE"), 10, 64); err == nil && parsed > 0 {
		opts.HSTS.MaxAge = parsed
	}

	return opts
}

// parseTrustedProxies returns nil (trust nobody) for an empty value; "*" trusts every address.
func parseTrustedProxies(raw string) []string {
	if raw == "*" {
		return []string{"0.0.0.0/0", "::/0"}
	}
	return splitList(raw)
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func (opts *HTTPOptions) originAllowed(origin string) bool {
	for _, allowed := range opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
