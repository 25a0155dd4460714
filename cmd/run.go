// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/telekom/pathprobe/internal/logger"
	"github.com/telekom/pathprobe/internal/ping"
	"github.com/telekom/pathprobe/internal/traceroute"
	"github.com/telekom/pathprobe/pkg/config"
	"github.com/telekom/pathprobe/pkg/crosscheck"
	"github.com/telekom/pathprobe/pkg/metrics"
	"github.com/telekom/pathprobe/pkg/paths"
	"github.com/telekom/pathprobe/pkg/probe"
	"github.com/telekom/pathprobe/pkg/prober"
)

// NewCmdRun creates a new run command
func NewCmdRun() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Probe all destinations of the registry",
		Long: "Probes every destination of the registry in order with the selected policy,\n" +
			"prints one line per destination and finishes with the run report.",
		RunE: run(),
	}

	NewFlag("policy", "policy").String(cmd, probe.FastestTraceroute.String(), "probing policy, see the policies command")
	NewFlag("localPort", "localPort").Int(cmd, config.DefaultLocalPort, "local port probe sessions are bound to")
	NewFlag("showPath", "showPath").Bool(cmd, false, "append the selected path to each result line")

	NewFlag("registry.type", "registryType").String(cmd, config.RegistryFile, "registry source, one of file or http")
	NewFlag("registry.file.path", "registryFile").String(cmd, config.DefaultRegistryFile, "path of the registry file")
	NewFlag("registry.http.url", "registryUrl").String(cmd, "", "url the registry is downloaded from")
	NewFlag("registry.http.timeout", "registryTimeout").Duration(cmd, 30*time.Second, "timeout of a registry download attempt")
	NewFlag("registry.http.retry.count", "registryRetryCount").Int(cmd, 3, "retries of failed registry downloads")
	NewFlag("registry.http.retry.delay", "registryRetryDelay").Duration(cmd, time.Second, "initial delay between registry download retries")

	NewFlag("topology.path", "topology").String(cmd, "topology.yaml", "path of the topology file describing the known paths")

	NewFlag("probe.timeout", "probeTimeout").Duration(cmd, time.Second, "timeout of a single probe")
	NewFlag("probe.maxHops", "probeMaxHops").Int(cmd, traceroute.DefaultMaxHops, "maximum hops of a traceroute walk")
	NewFlag("probe.port", "probePort").Int(cmd, traceroute.DefaultPort, "destination port of probes")
	NewFlag("probe.payloadSize", "probePayloadSize").Int(cmd, config.DefaultPayloadSize, "echo payload size in bytes")
	NewFlag("probe.retry.count", "probeRetryCount").Int(cmd, 2, "retries of failed probe writes")
	NewFlag("probe.retry.delay", "probeRetryDelay").Duration(cmd, 10*time.Millisecond, "initial delay between probe write retries")

	NewFlag("crossCheck.enabled", "crossCheck").Bool(cmd, true, "cross-check selected paths with an ICMP echo")
	NewFlag("crossCheck.timeout", "crossCheckTimeout").Duration(cmd, time.Second, "timeout of an ICMP echo")
	NewFlag("crossCheck.maxWait", "crossCheckMaxWait").Duration(cmd, 0, "upper bound of the wait for a cross-check, 0 waits for the pinger")

	NewFlag("api.address", "apiAddress").String(cmd, "", "listening address of the api, disabled if empty")

	NewFlag("telemetry.enabled", "telemetryEnabled").Bool(cmd, false, "enable tracing")
	NewFlag("telemetry.exporter", "telemetryExporter").String(cmd, metrics.STDOUT.String(), "span exporter, one of stdout, http, grpc")
	NewFlag("telemetry.url", "telemetryUrl").String(cmd, "", "url of the otlp collector")
	NewFlag("telemetry.token", "telemetryToken").String(cmd, "", "bearer token of the otlp collector")

	return cmd
}

// run is the entry point to start a probing run
func run() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg := &config.Config{}
		if err := viper.Unmarshal(cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		log := logger.NewLogger()
		ctx = logger.IntoContext(ctx, log)

		if err := cfg.Validate(ctx); err != nil {
			return err
		}

		p, err := newProber(ctx, cfg, cmd)
		if err != nil {
			return err
		}
		return p.Run(ctx)
	}
}

// newProber wires the components of a run
func newProber(ctx context.Context, cfg *config.Config, cmd *cobra.Command) (*prober.Prober, error) {
	resolver, err := paths.LoadStatic(ctx, cfg.Topology.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load topology: %w", err)
	}

	var pinger crosscheck.Factory
	if cfg.HasCrossCheck() {
		pinger = ping.Factory(ping.Options{Timeout: cfg.CrossCheck.Timeout})
	}

	return prober.New(ctx, cfg, prober.Components{
		Source:   cfg.Registry.Source(),
		Resolver: resolver,
		Channel:  traceroute.NewChannel(cfg.Probe.Options, resolver.Locate),
		Pinger:   pinger,
		Metrics:  metrics.New(cfg.Telemetry),
		Output:   cmd.OutOrStdout(),
	})
}
