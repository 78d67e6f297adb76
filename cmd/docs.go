package cmd

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
const rootFront = `---
layout: default
title: %s
nav_order: %d
has_children: true
permalink: /
---
`

const childFront = `---
layout: default
title: %s
parent: %s
nav_order: %d
---
`

// childMeta positions one command's page in the docs nav.
type childMeta struct {
	title    string
	navOrder int
}

// map from the base Markdown file name to its nav meta
var metaMap = map[string]childMeta{
	"tuscan_genome": {"genome", 0},
	"tuscan_score":  {"score", 1},
	"tuscan_matrix": {"matrix", 2},
}

// docsCmd regenerates the Markdown command docs. Hidden: it is only
// useful from a checkout of this repository.
var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Regenerate the Markdown docs for every command",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		out, _ := cmd.Flags().GetString("out")
		if err := doc.GenMarkdownTreeCustom(RootCmd, out, filePrepender, linkHandler); err != nil {
			fmt.Println(err.Error())
		}
	},
}

// set flags
func init() {
	RootCmd.AddCommand(docsCmd)

	docsCmd.Flags().StringP("out", "o", "./docs", "directory to write the Markdown files into")
}

// filePrepender adds the YAML headings required by the just-the-docs theme
// https://github.com/spf13/cobra/blob/master/doc/md_docs.md
func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, path.Ext(name))

	if base == "tuscan" {
		return fmt.Sprintf(rootFront, "tuscan", 0)
	}
	if m, ok := metaMap[base]; ok {
		return fmt.Sprintf(childFront, m.title, "tuscan", m.navOrder)
	}
	return ""
}

// linkHandler returns the URL to a documentation page
func linkHandler(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, path.Ext(name))

	if base == "tuscan" {
		return "/"
	}
	return base
}
