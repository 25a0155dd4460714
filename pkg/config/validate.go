// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/telekom/pathprobe/internal/logger"
	"github.com/telekom/pathprobe/pkg/probe"
)

const (
	maxPort = 65535
	// minPayloadSize is the size of the sequence prefix of echo payloads
	minPayloadSize = 2
	maxPayloadSize = 1400
	maxRetryCount  = 5
)

// Validate validates the run configuration and returns all violations
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)

	if _, pErr := probe.ParsePolicy(c.Policy); pErr != nil {
		log.ErrorContext(ctx, "The policy is unknown", "policy", c.Policy)
		err = errors.Join(err, ErrInvalidConfig{Field: "policy", Reason: pErr.Error()})
	}

	if c.LocalPort < 0 || c.LocalPort > maxPort {
		log.ErrorContext(ctx, "The local port is out of range", "localPort", c.LocalPort)
		err = errors.Join(err, ErrInvalidConfig{Field: "localPort", Reason: fmt.Sprintf("%d is not a valid port", c.LocalPort)})
	}

	if vErr := c.Registry.Validate(ctx); vErr != nil {
		log.ErrorContext(ctx, "The registry configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if c.Topology.Path == "" {
		log.ErrorContext(ctx, "The topology path cannot be empty")
		err = errors.Join(err, ErrInvalidConfig{Field: "topology.path", Reason: "must not be empty"})
	}

	if vErr := c.Probe.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The probe configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if c.HasCrossCheck() {
		if vErr := c.CrossCheck.Validate(); vErr != nil {
			log.ErrorContext(ctx, "The cross-check configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if c.HasTelemetry() {
		if vErr := c.Telemetry.Validate(ctx); vErr != nil {
			log.ErrorContext(ctx, "The telemetry configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if vErr := c.Api.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The api configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// Validate validates the registry configuration
func (c *RegistryConfig) Validate(ctx context.Context) error {
	log := logger.FromContext(ctx)

	switch c.Type {
	case RegistryHTTP:
		var err error
		if _, uErr := url.ParseRequestURI(c.Http.URL); uErr != nil {
			log.ErrorContext(ctx, "The registry url is not a valid url", "url", c.Http.URL)
			err = errors.Join(err, ErrInvalidConfig{Field: "registry.http.url", Reason: "must be a valid url"})
		}
		if c.Http.Retry.Count < 0 || c.Http.Retry.Count > maxRetryCount {
			log.ErrorContext(ctx, "The amount of registry retries should be between 0 and 5", "retryCount", c.Http.Retry.Count)
			err = errors.Join(err, ErrInvalidConfig{Field: "registry.http.retry.count", Reason: fmt.Sprintf("must be between 0 and %d", maxRetryCount)})
		}
		return err
	case RegistryFile:
		if c.File.Path == "" {
			log.ErrorContext(ctx, "The registry file path cannot be empty")
			return ErrInvalidConfig{Field: "registry.file.path", Reason: "must not be empty"}
		}
		return nil
	default:
		log.ErrorContext(ctx, "The registry type is unknown", "type", c.Type)
		return ErrInvalidConfig{Field: "registry.type", Reason: fmt.Sprintf("%q is neither %q nor %q", c.Type, RegistryFile, RegistryHTTP)}
	}
}

// Validate validates the probe configuration
func (c *ProbeConfig) Validate() error {
	var err error
	if oErr := c.Options.Validate(); oErr != nil {
		err = errors.Join(err, ErrInvalidConfig{Field: "probe", Reason: oErr.Error()})
	}
	if c.PayloadSize < minPayloadSize || c.PayloadSize > maxPayloadSize {
		err = errors.Join(err, ErrInvalidConfig{
			Field:  "probe.payloadSize",
			Reason: fmt.Sprintf("must be between %d and %d", minPayloadSize, maxPayloadSize),
		})
	}
	return err
}

// Validate validates the cross-check configuration
func (c *CrossCheckConfig) Validate() error {
	var err error
	if c.Timeout <= 0 {
		err = errors.Join(err, ErrInvalidConfig{Field: "crossCheck.timeout", Reason: "must be positive"})
	}
	if c.MaxWait < 0 {
		err = errors.Join(err, ErrInvalidConfig{Field: "crossCheck.maxWait", Reason: "must not be negative"})
	}
	return err
}
