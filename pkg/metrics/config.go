// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/telekom/pathprobe/internal/logger"
)

var (
	// ErrMissingCollectorURL is returned when an otlp exporter has no collector url
	ErrMissingCollectorURL = errors.New("collector url is required")
	// ErrInvalidCollectorURL is returned when the collector url is not an absolute http(s) url
	ErrInvalidCollectorURL = errors.New("collector url must be an absolute http or https url")
	// ErrTLSWithoutCollector is returned when tls is enabled for an exporter that does not dial out
	ErrTLSWithoutCollector = errors.New("tls requires an otlp exporter")
	// ErrCertNotReadable is returned when the configured tls certificate cannot be accessed
	ErrCertNotReadable = errors.New("tls certificate is not readable")
)

// Config controls where the spans of a run are exported to.
type Config struct {
	// Enabled turns span export on
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Exporter selects the span exporter
	Exporter Exporter `yaml:"exporter" mapstructure:"exporter"`
	// Url is the endpoint of the otlp collector
	Url string `yaml:"url" mapstructure:"url"`
	// Token is sent as bearer token to the collector
	Token string `yaml:"token" mapstructure:"token"`
	// TLS holds the collector tls settings
	TLS TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// TLSConfig holds the collector tls settings.
type TLSConfig struct {
	// Enabled switches the collector connection to tls
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// CertPath points to a PEM encoded CA certificate.
	// Leave empty to trust the system roots.
	CertPath string `yaml:"certPath" mapstructure:"certPath"`
}

// Validate reports every problem of the exporter settings at once.
func (c *Config) Validate(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if err := c.Exporter.Validate(); err != nil {
		log.ErrorContext(ctx, "Invalid exporter", "error", err)
		return err
	}

	var err error
	if c.Exporter.IsExporting() {
		if vErr := validateCollectorURL(c.Url); vErr != nil {
			log.ErrorContext(ctx, "Invalid collector url", "exporter", c.Exporter, "url", c.Url, "error", vErr)
			err = errors.Join(err, vErr)
		}
	}

	if c.TLS.Enabled {
		if !c.Exporter.IsExporting() {
			log.ErrorContext(ctx, "TLS is only used by otlp exporters", "exporter", c.Exporter)
			err = errors.Join(err, fmt.Errorf("%w, got %q", ErrTLSWithoutCollector, c.Exporter))
		}
		if c.TLS.CertPath != "" {
			if _, sErr := os.Stat(c.TLS.CertPath); sErr != nil {
				log.ErrorContext(ctx, "TLS certificate is not readable", "path", c.TLS.CertPath, "error", sErr)
				err = errors.Join(err, fmt.Errorf("%w: %w", ErrCertNotReadable, sErr))
			}
		}
	}
	return err
}

func validateCollectorURL(raw string) error {
	if raw == "" {
		return ErrMissingCollectorURL
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCollectorURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w, got %q", ErrInvalidCollectorURL, raw)
	}
	return nil
}
