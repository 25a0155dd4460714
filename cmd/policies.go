// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/telekom/pathprobe/pkg/probe"
)

// NewCmdPolicies creates a new policies command
func NewCmdPolicies() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the supported probing policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "POLICY\tPROTOCOL\tSELECTS")
			for _, p := range probe.Policies() {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p, p.Strategy().Protocol, p.Strategy().TieBreak)
			}
			return w.Flush()
		},
	}
}
