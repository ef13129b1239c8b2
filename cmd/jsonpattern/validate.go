package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/jsonpattern"
	"github.com/aretw0/jsonpattern/internal/cli"
	"github.com/aretw0/jsonpattern/internal/presentation/tui"
	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate --schema FILE [DOCUMENT...]",
	Short: "Validate documents against a schema file",
	Long: `Validates each DOCUMENT (or stdin when none is given) against the schema in FILE.
The schema may be JSON or YAML. Exits with status 1 when any document has violations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaPath, _ := cmd.Flags().GetString("schema")
		format, _ := cmd.Flags().GetString("format")
		return runValidate(cmd, schemaPath, format, args, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("schema", "s", "", "Schema file (.json, .yaml or .yml)")
	validateCmd.Flags().StringP("format", "f", "text", "Output format: text or json")
	_ = validateCmd.MarkFlagRequired("schema")
}

// documentResult is one line of --format json output.
type documentResult struct {
	Document string         `json:"document"`
	Report   *domain.Report `json:"report,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func runValidate(cmd *cobra.Command, schemaPath, format string, args []string, stdin io.Reader, stdout io.Writer) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q: use text or json", format)
	}

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	reg, err := cli.BuildRegistry(cfg.Rules)
	if err != nil {
		return err
	}

	node, err := cli.LoadSchemaFile(schemaPath, cfg.Matcher.MaxDepth)
	if err != nil {
		return err
	}

	m, err := jsonpattern.New(node,
		jsonpattern.WithRegistry(reg),
		jsonpattern.WithLogger(logger),
		jsonpattern.WithMaxDepth(cfg.Matcher.MaxDepth),
		jsonpattern.WithSkipAbsentBranches(cfg.Matcher.SkipAbsent),
		jsonpattern.WithName(strings.TrimSuffix(filepath.Base(schemaPath), filepath.Ext(schemaPath))),
	)
	if err != nil {
		return err
	}

	inputs, err := cli.ReadInputs(args, stdin)
	if err != nil {
		return err
	}

	printer := tui.NewPlainReportPrinter(stdout)
	if f, ok := stdout.(*os.File); ok && tui.IsTerminal(f) {
		printer = tui.NewReportPrinter(stdout)
	}
	enc := json.NewEncoder(stdout)

	failed := false
	for _, in := range inputs {
		report, err := m.Check(in.Data)
		if err != nil {
			// An unknown datatype fails every document the same way.
			if domain.IsConfigurationError(err) {
				return err
			}
			failed = true
			if format == "json" {
				_ = enc.Encode(documentResult{Document: in.Name, Error: err.Error()})
			} else {
				printer.PrintError(in.Name, err)
			}
			continue
		}

		if !report.OK {
			failed = true
		}
		if format == "json" {
			if err := enc.Encode(documentResult{Document: in.Name, Report: report}); err != nil {
				return err
			}
		} else {
			printer.Print(in.Name, report)
		}
	}

	if failed {
		return errViolations
	}
	return nil
}
