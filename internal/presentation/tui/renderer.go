// Package tui renders reports and rule listings for terminals.
package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/jsonpattern/pkg/rules"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// With auto set, the style follows the terminal background; otherwise the
// plain "notty" style is used.
func NewRenderer(auto bool, width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("notty")}
	if auto {
		opts = []glamour.TermRendererOption{glamour.WithAutoStyle()}
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// RulesMarkdown lists the registered rules as a markdown table.
func RulesMarkdown(infos []rules.Info) string {
	var b strings.Builder
	b.WriteString("# Datatypes\n\n")
	b.WriteString("| Name | Kind | Source |\n")
	b.WriteString("|------|------|--------|\n")
	for _, info := range infos {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", info.Name, info.Kind, markdownCode(info.Source))
	}
	return b.String()
}

func markdownCode(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	return "`" + s + "`"
}
