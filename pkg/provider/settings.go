package provider

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Settings carries the per-provider configuration adapters are built from
type Settings struct {
	APIKey     string
	BaseURL    string
	Integrator string
	Timeout    time.Duration
	RateLimit  float64
	Burst      int
	HTTPClient *http.Client
	Logger     *logrus.Entry
}

// BaseURLOr returns the configured base URL or fallback
func (s Settings) BaseURLOr(fallback string) string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	return fallback
}

// IntegratorOr returns the configured integrator id or fallback
func (s Settings) IntegratorOr(fallback string) string {
	if s.Integrator != "" {
		return s.Integrator
	}
	return fallback
}

// Log returns the configured logger tagged with the provider id
func (s Settings) Log(id string) *logrus.Entry {
	if s.Logger != nil {
		return s.Logger.WithField("provider", id)
	}
	return logrus.WithField("provider", id)
}

// WarnMissingKey logs the degraded public mode used when no key is configured
func WarnMissingKey(log *logrus.Entry, envName string) {
	log.Warnf("missing %s, using public", envName)
}
