// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag binds a cli flag to a configuration key
type Flag struct {
	// key is the viper key of the configuration value
	key string
	// name is the name of the cli flag
	name string
}

// NewFlag returns the flag named name for the configuration key
func NewFlag(key, name string) *Flag {
	return &Flag{key: key, name: name}
}

// String registers the flag as string flag
func (f *Flag) String(cmd *cobra.Command, value, usage string) {
	cmd.Flags().String(f.name, value, usage)
	f.bind(cmd)
}

// Int registers the flag as int flag
func (f *Flag) Int(cmd *cobra.Command, value int, usage string) {
	cmd.Flags().Int(f.name, value, usage)
	f.bind(cmd)
}

// Bool registers the flag as bool flag
func (f *Flag) Bool(cmd *cobra.Command, value bool, usage string) {
	cmd.Flags().Bool(f.name, value, usage)
	f.bind(cmd)
}

// Duration registers the flag as duration flag
func (f *Flag) Duration(cmd *cobra.Command, value time.Duration, usage string) {
	cmd.Flags().Duration(f.name, value, usage)
	f.bind(cmd)
}

func (f *Flag) bind(cmd *cobra.Command) {
	cobra.CheckErr(viper.BindPFlag(f.key, cmd.Flags().Lookup(f.name)))
}
