package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/aretw0/jsonpattern/internal/cli"
	"github.com/aretw0/jsonpattern/internal/presentation/tui"
	"github.com/aretw0/jsonpattern/pkg/rules"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available datatypes",
	Long:  `Lists the built-in datatypes and those declared under "rules" in the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup(cmd)
		if err != nil {
			return err
		}

		reg, err := cli.BuildRegistry(cfg.Rules)
		if err != nil {
			return err
		}

		markdown, _ := cmd.Flags().GetBool("markdown")
		return printRules(cmd.OutOrStdout(), reg.Infos(), markdown)
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().Bool("markdown", false, "Print a markdown table (rendered when stdout is a terminal)")
}

func printRules(w io.Writer, infos []rules.Info, markdown bool) error {
	if !markdown {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tKIND\tSOURCE")
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, info.Kind, info.Source)
		}
		return tw.Flush()
	}

	md := tui.RulesMarkdown(infos)
	f, ok := w.(*os.File)
	if !ok || !tui.IsTerminal(f) {
		_, err := io.WriteString(w, md)
		return err
	}

	render, err := tui.NewRenderer(true, tui.Width(f, 100))
	if err != nil {
		return err
	}
	out, err := render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
