// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package pkg contains metadata about pathprobe.
package pkg

// Version is the current version of pathprobe.
// It is set from the build version when the cli starts.
var Version string
