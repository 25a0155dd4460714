// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"

	"github.com/telekom/pathprobe/internal/traceroute"
	"github.com/telekom/pathprobe/pkg/api"
	"github.com/telekom/pathprobe/pkg/metrics"
	"github.com/telekom/pathprobe/pkg/registry"
)

const (
	// DefaultLocalPort is the local port probe sessions are bound to
	DefaultLocalPort = 30041
	// DefaultPayloadSize is the echo payload size in bytes
	DefaultPayloadSize = 8
	// DefaultRegistryFile is the local copy of the ISD-AS assignment list
	DefaultRegistryFile = "ISD-AS-Assignment.csv"
)

// Registry source types
const (
	RegistryFile = "file"
	RegistryHTTP = "http"
)

// Config is the configuration of a probing run
type Config struct {
	// Policy is the name of the probing policy
	Policy string `yaml:"policy" mapstructure:"policy"`
	// LocalPort is the local port probe sessions are bound to
	LocalPort int `yaml:"localPort" mapstructure:"localPort"`
	// ShowPath appends the selected path to each result line
	ShowPath bool `yaml:"showPath" mapstructure:"showPath"`
	// Registry configures where the destination list is read from
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	// Topology configures the path resolution
	Topology TopologyConfig `yaml:"topology" mapstructure:"topology"`
	// Probe configures the probe channel
	Probe ProbeConfig `yaml:"probe" mapstructure:"probe"`
	// CrossCheck configures the ICMP cross-checks
	CrossCheck CrossCheckConfig `yaml:"crossCheck" mapstructure:"crossCheck"`
	// Api is the configuration for the api server
	Api api.Config `yaml:"api" mapstructure:"api"`
	// Telemetry is the configuration for the telemetry
	Telemetry metrics.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// RegistryConfig is the configuration of the destination registry
type RegistryConfig struct {
	Type string              `yaml:"type" mapstructure:"type"`
	File FileConfig          `yaml:"file" mapstructure:"file"`
	Http registry.HTTPConfig `yaml:"http" mapstructure:"http"`
}

// FileConfig is the configuration of a file backed source
type FileConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// TopologyConfig is the configuration of the static path topology
type TopologyConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ProbeConfig is the configuration of the probe channel
type ProbeConfig struct {
	traceroute.Options `yaml:",inline" mapstructure:",squash"`
	// PayloadSize is the echo payload size in bytes
	PayloadSize int `yaml:"payloadSize" mapstructure:"payloadSize"`
}

// CrossCheckConfig is the configuration of the ICMP cross-checks
type CrossCheckConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Timeout is the time after which an echo request is unanswered
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// MaxWait bounds the wait for a cross-check verdict, 0 waits for the pinger
	MaxWait time.Duration `yaml:"maxWait" mapstructure:"maxWait"`
}

// HasApi returns true if the api server should be started
func (c *Config) HasApi() bool {
	return c.Api.Enabled()
}

// HasTelemetry returns true if the config has telemetry enabled
func (c *Config) HasTelemetry() bool {
	return c.Telemetry.Enabled
}

// HasCrossCheck returns true if the cross-checks are enabled
func (c *Config) HasCrossCheck() bool {
	return c.CrossCheck.Enabled
}

// Source returns the registry source described by the configuration
func (c *RegistryConfig) Source() registry.Source {
	if c.Type == RegistryHTTP {
		return registry.NewHTTPSource(c.Http)
	}
	return registry.NewFileSource(c.File.Path)
}
