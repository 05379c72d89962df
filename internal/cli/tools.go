package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/BitYantriki/claude-project-setup/internal/tools"
	"github.com/spf13/cobra"
)

const (
	toolsUse              = "tools"
	toolsShortDescription = "list the tools the server exposes"
)

func createToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   toolsUse,
		Short: toolsShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			printCatalog(command.OutOrStdout(), tools.Catalog())
			return nil
		},
	}
}

func printCatalog(out io.Writer, catalog []tools.Descriptor) {
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%d tools", len(catalog))))
	for _, d := range catalog {
		fmt.Fprintln(out)
		fmt.Fprintln(out, toolNameStyle.Render(d.Name))
		fmt.Fprintln(out, "  "+d.Description)
		for _, p := range d.Params {
			fmt.Fprintln(out, "    "+formatParam(p))
		}
	}
}

func formatParam(p tools.Param) string {
	var b strings.Builder
	b.WriteString(paramStyle.Render(p.Name))
	b.WriteString(subtitleStyle.Render(" (" + string(p.Type)))
	if p.Required {
		b.WriteString(subtitleStyle.Render(", required"))
	}
	b.WriteString(subtitleStyle.Render(")"))
	if p.Description != "" {
		b.WriteString(" " + p.Description)
	}
	return b.String()
}
