package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/jsonpattern"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of jsonpattern",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jsonpattern version %s\n", strings.TrimSpace(jsonpattern.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
