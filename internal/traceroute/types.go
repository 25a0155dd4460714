// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"errors"
	"fmt"
	"time"

	"github.com/telekom/pathprobe/internal/helper"
)

const (
	// DefaultPort is the destination port probes are sent to
	DefaultPort = 33434
	// DefaultMaxHops is the default maximum TTL of a walk
	DefaultMaxHops = 30
	// echoTTL is the TTL of round-trip probes
	echoTTL = 64
	// maxPort is the highest valid port number
	maxPort = 65535
)

// Options contains the configuration of the probe channel.
type Options struct {
	// Retry is the retry configuration for sending probes.
	Retry helper.RetryConfig `json:"retry" yaml:"retry" mapstructure:"retry"`
	// MaxHops is the maximum TTL to use for a walk.
	MaxHops int `json:"maxHops" yaml:"maxHops" mapstructure:"maxHops"`
	// Timeout is the timeout for each probe.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// Port is the destination port probes are sent to.
	Port int `json:"port" yaml:"port" mapstructure:"port"`
}

// Validate checks the options.
func (o Options) Validate() error {
	var errs []error
	if o.MaxHops < 1 || o.MaxHops > 255 {
		errs = append(errs, fmt.Errorf("invalid max hops %d, must be between 1 and 255", o.MaxHops))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid timeout %s, must be positive", o.Timeout))
	}
	if o.Port < 1 || o.Port > maxPort {
		errs = append(errs, fmt.Errorf("invalid port %d, must be between 1 and %d", o.Port, maxPort))
	}
	return errors.Join(errs...)
}
