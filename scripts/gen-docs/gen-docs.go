// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package main

//go:generate go run gen-docs.go --path ../../docs/cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	pathprobecmd "github.com/telekom/pathprobe/cmd"
)

const (
	formatMarkdown = "markdown"
	formatMan      = "man"
)

func main() {
	if err := NewCmdGenDocs().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewCmdGenDocs creates the command writing the pathprobe CLI reference
func NewCmdGenDocs() *cobra.Command {
	var docPath, format string

	cmd := &cobra.Command{
		Use:          "gen-docs",
		Short:        "Generate the pathprobe CLI reference",
		Long:         `Generate one page per pathprobe command, either as markdown or as man pages`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return genDocs(docPath, format)
		},
	}

	cmd.Flags().StringVar(&docPath, "path", "docs/cli", "directory the pages are written to")
	cmd.Flags().StringVar(&format, "format", formatMarkdown, "page format, one of markdown or man")

	return cmd
}

// genDocs writes the pages of the pathprobe command tree into dir.
// The generation date is omitted so the output is reproducible.
func genDocs(dir, format string) error {
	root := pathprobecmd.BuildCmd("")
	root.DisableAutoGenTag = true

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create doc directory: %w", err)
	}

	var err error
	switch format {
	case formatMarkdown:
		err = doc.GenMarkdownTree(root, dir)
	case formatMan:
		err = doc.GenManTree(root, &doc.GenManHeader{Title: "PATHPROBE", Section: "1"}, dir)
	default:
		return fmt.Errorf("unsupported doc format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to generate docs: %w", err)
	}
	return nil
}
